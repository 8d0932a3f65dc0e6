package mcp

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jcdickinson/hyperhelp/internal/help"
	"github.com/jcdickinson/hyperhelp/internal/library"
	"github.com/jcdickinson/hyperhelp/internal/markdown"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

//go:embed instructions.md
var instructions string

// Packages is the part of the package table the server reads.
type Packages interface {
	Names() []string
	Get(name string) (*help.Package, bool)
	Lookup(pkg, topic string) (help.Topic, error)
}

var _ Packages = (*library.Library)(nil)

type Server struct {
	mcpServer *server.MCPServer
	packages  Packages
}

func NewServer(packages Packages, version string) *Server {
	s := &Server{packages: packages}

	mcpServer := server.NewMCPServer(
		"hyperhelp",
		version,
		server.WithInstructions(instructions),
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
	)

	s.registerTools(mcpServer)
	s.registerResources(mcpServer)

	s.mcpServer = mcpServer
	return s
}

func (s *Server) registerTools(mcpServer *server.MCPServer) {
	mcpServer.AddTool(
		mcp.NewTool("list_packages",
			mcp.WithDescription("List the packages that provide help, with their descriptions."),
		),
		s.handleListPackages,
	)

	mcpServer.AddTool(
		mcp.NewTool("lookup_topic",
			mcp.WithDescription("Resolve a help topic in a package to the file that contains it. Topic names are case-insensitive."),
			mcp.WithString("package",
				mcp.Description("Package name, as returned by list_packages"),
				mcp.Required(),
			),
			mcp.WithString("topic",
				mcp.Description("Topic name"),
				mcp.Required(),
			),
		),
		s.handleLookupTopic,
	)

	mcpServer.AddTool(
		mcp.NewTool("get_toc",
			mcp.WithDescription("Return the table of contents of a package as Markdown."),
			mcp.WithString("package",
				mcp.Description("Package name, as returned by list_packages"),
				mcp.Required(),
			),
		),
		s.handleGetTOC,
	)
}

func (s *Server) registerResources(mcpServer *server.MCPServer) {
	mcpServer.AddResourceTemplate(
		mcp.NewResourceTemplate(
			"help://{package}/toc",
			"Package table of contents",
			mcp.WithTemplateDescription("The table of contents of a package's help."),
			mcp.WithTemplateMIMEType("text/markdown"),
		),
		s.handleReadResource,
	)
}

type packageSummary struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Topics      int    `json:"topics"`
}

func (s *Server) handleListPackages(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	summaries := []packageSummary{}
	for _, name := range s.packages.Names() {
		p, ok := s.packages.Get(name)
		if !ok {
			continue
		}
		summaries = append(summaries, packageSummary{Name: name, Description: p.Description, Topics: len(p.Topics)})
	}

	resultJSON, _ := json.MarshalIndent(summaries, "", "  ")
	return mcp.NewToolResultText(string(resultJSON)), nil
}

func (s *Server) handleLookupTopic(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	pkg, _ := args["package"].(string)
	if pkg == "" {
		return mcp.NewToolResultError("missing required parameter: package"), nil
	}
	topic, _ := args["topic"].(string)
	if topic == "" {
		return mcp.NewToolResultError("missing required parameter: topic"), nil
	}

	t, err := s.packages.Lookup(pkg, topic)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("lookup failed: %v", err)), nil
	}

	resultJSON, _ := json.MarshalIndent(struct {
		Package string `json:"package"`
		help.Topic
		External bool `json:"external"`
	}{pkg, t, help.IsURL(t.File)}, "", "  ")
	return mcp.NewToolResultText(string(resultJSON)), nil
}

func (s *Server) handleGetTOC(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	pkg, _ := args["package"].(string)
	if pkg == "" {
		return mcp.NewToolResultError("missing required parameter: package"), nil
	}

	md, err := s.toc(pkg)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(md), nil
}

func (s *Server) toc(pkg string) (string, error) {
	p, ok := s.packages.Get(pkg)
	if !ok {
		return "", fmt.Errorf("%w: %s", library.ErrUnknownPackage, pkg)
	}
	return markdown.TOC(p), nil
}

func (s *Server) handleReadResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uri := req.Params.URI
	pkg, rest, ok := strings.Cut(strings.TrimPrefix(uri, "help://"), "/")
	if !ok || rest != "toc" || pkg == "" {
		return nil, fmt.Errorf("invalid resource URI: %s", uri)
	}

	md, err := s.toc(pkg)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", uri, err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "text/markdown",
			Text:     md,
		},
	}, nil
}

func (s *Server) Run() error {
	return server.ServeStdio(s.mcpServer)
}
