package help

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/jcdickinson/hyperhelp/internal/diag"
	"github.com/jcdickinson/hyperhelp/internal/manifest"
)

var urlPrefixRe = regexp.MustCompile(`^https?://`)

// IsURL reports whether a help source names a remote document.
func IsURL(source string) bool {
	return urlPrefixRe.MatchString(source)
}

// ImportTopics collects the topics of a validated help_files or externals
// section in document order. Each source also contributes an implicit topic
// named after itself. The first occurrence of a key wins; later ones are
// reported and dropped.
func ImportTopics(pkg string, section manifest.Value, external bool) ([]Topic, []diag.Warning) {
	sources, ok := section.Members()
	if !ok {
		return nil, nil
	}

	var (
		topics   []Topic
		warnings []diag.Warning
	)
	seen := make(map[string]bool)

	for _, source := range sources.Keys() {
		entry, _ := sources.Get(source)
		items, _ := entry.Items()
		if len(items) == 0 {
			continue
		}
		title, _ := items[0].Str()

		for _, item := range items[1:] {
			name := item.GetString("topic", "")
			caption, explicit := captionOf(item)
			if !explicit {
				caption = title
				if !external || title == "" {
					caption = fmt.Sprintf("Topic %s in help source %s", name, source)
				}
			}

			key := Normalize(name)
			if seen[key] {
				warnings = append(warnings, diag.Warning{
					Component: "topics",
					Message:   fmt.Sprintf("skipping duplicate topic '%s' in %s:%s", key, pkg, source),
				})
				continue
			}
			seen[key] = true
			topics = append(topics, Topic{Key: key, Caption: caption, File: source})
		}

		// Every source is addressable by its own name.
		key := Fold(source)
		if !seen[key] {
			seen[key] = true
			topics = append(topics, Topic{Key: key, Caption: title, File: source})
		}
	}
	return topics, warnings
}

func captionOf(item manifest.Value) (string, bool) {
	v, ok := item.Get("caption")
	if !ok {
		return "", false
	}
	return v.Str()
}

// MergeExternals adds external topics to topics without replacing existing
// entries, and records each newly referenced target in urls or files in the
// order first seen.
func MergeExternals(pkg string, externals []Topic, topics map[string]Topic, files, urls []string) ([]string, []string, []diag.Warning) {
	var warnings []diag.Warning
	for _, t := range externals {
		if _, ok := topics[t.Key]; ok {
			warnings = append(warnings, diag.Warning{
				Component: "externals",
				Message:   fmt.Sprintf("discarding duplicate external topic '%s' in %s:%s", t.Key, pkg, t.File),
			})
			continue
		}
		if IsURL(t.File) {
			urls = appendUnique(urls, t.File)
		} else {
			files = appendUnique(files, t.File)
		}
		topics[t.Key] = t
	}
	return files, urls, warnings
}

// FileTitles lists the title of every source in a help_files section,
// ordered by source name.
func FileTitles(section manifest.Value) []FileTitle {
	sources, ok := section.Members()
	if !ok {
		return nil
	}
	var out []FileTitle
	for _, source := range sources.Keys() {
		entry, _ := sources.Get(source)
		items, _ := entry.Items()
		if len(items) == 0 {
			continue
		}
		title, _ := items[0].Str()
		out = append(out, FileTitle{File: source, Title: title})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].File < out[j].File })
	return out
}

func appendUnique(list []string, s string) []string {
	for _, existing := range list {
		if existing == s {
			return list
		}
	}
	return append(list, s)
}
