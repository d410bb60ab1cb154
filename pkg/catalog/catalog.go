// Package catalog describes the base models recommended for research work
// and derives customized research variants from them.
package catalog

import (
	"sort"
	"strings"

	"github.com/webresearch/researcherctl/pkg/ollama"
)

// DefaultContextLength is used when a base model has no recommended entry.
const DefaultContextLength = 38000

// Entry describes a recommended base model.
type Entry struct {
	Base        string
	Description string
	DefaultCtx  int
}

// Recommended lists base models known to work well for research tasks,
// ordered by preference.
var Recommended = []Entry{
	{Base: "mistral-nemo", Description: "Mistral Nemo with 128k context (recommended)", DefaultCtx: 38000},
	{Base: "mistral", Description: "Mistral 7B with enhanced capabilities", DefaultCtx: 32000},
	{Base: "llama2", Description: "Meta's Llama 2 model", DefaultCtx: 32000},
}

// Lookup returns the recommended entry for base, if any. A tagged name
// matches its untagged entry, so "mistral:7b" finds the "mistral" entry.
func Lookup(base string) (Entry, bool) {
	name := base
	if i := strings.IndexByte(name, ':'); i >= 0 {
		name = name[:i]
	}

	for _, e := range Recommended {
		if e.Base == name {
			return e, true
		}
	}

	return Entry{}, false
}

// ContextLengthFor returns the recommended context length for a base model,
// falling back to DefaultContextLength.
func ContextLengthFor(base string) int {
	if e, ok := Lookup(base); ok {
		return e.DefaultCtx
	}

	return DefaultContextLength
}

// ResearchModelName derives the registered name for a research variant of a
// base model. Tag separators are folded, so "mistral:7b" becomes
// "research-mistral-7b".
func ResearchModelName(base string) string {
	return "research-" + strings.ReplaceAll(base, ":", "-")
}

// IsResearchModel reports whether a model name denotes a derived research
// variant.
func IsResearchModel(name string) bool {
	return strings.HasPrefix(name, "research-")
}

// Groups is a model listing split for display.
type Groups struct {
	Research    []ollama.Model
	Recommended []ollama.Model
	Other       []ollama.Model
}

// Categorize splits a listing into research variants, recommended bases, and
// everything else, preserving listing order within each group.
func Categorize(models []ollama.Model) Groups {
	var g Groups

	for _, m := range models {
		switch {
		case IsResearchModel(m.Name):
			g.Research = append(g.Research, m)
		case isRecommended(m.Name):
			g.Recommended = append(g.Recommended, m)
		default:
			g.Other = append(g.Other, m)
		}
	}

	return g
}

func isRecommended(name string) bool {
	_, ok := Lookup(name)

	return ok
}

// BaseOptions merges the installed model names with the recommended bases,
// deduplicated and sorted. This is the candidate list for deriving a new
// research model.
func BaseOptions(installed []ollama.Model) []string {
	seen := make(map[string]struct{}, len(installed)+len(Recommended))
	var names []string

	add := func(name string) {
		if _, dup := seen[name]; dup {
			return
		}

		seen[name] = struct{}{}
		names = append(names, name)
	}

	for _, m := range installed {
		add(m.Name)
	}

	for _, e := range Recommended {
		add(e.Base)
	}

	sort.Strings(names)

	return names
}
