package scraper

import (
	"sort"
	"strings"
)

var registry = map[string]Site{}

func Register(s Site) {
	registry[strings.ToLower(s.Name())] = s
}

func Get(name string) (Site, bool) {
	s, ok := registry[strings.ToLower(name)]
	return s, ok
}

// Names lists registered sites in stable order, for help text.
func Names() []string {
	out := make([]string, 0, len(registry))
	for name := range registry {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
