package main

import "github.com/jcdickinson/hyperhelp/cmd"

func main() {
	cmd.Execute()
}
