package looker

import (
	"fmt"
	"strings"

	"github.com/ecruzj/ga-web-scrap/internal/page"
)

// tableResolver locates the English and French table regions. It runs
// before every language pass because applying a date range rebuilds the
// report DOM and stale element handles go dead.
type tableResolver struct{}

// Resolve classifies the report's tables by header text and falls back
// to position (English left, French right) when the headers don't name
// a language. The dashboard has carried both layouts over time.
func (tableResolver) Resolve(p page.Handle) (english, french page.Element, err error) {
	tables, err := p.FindAll(tableSelector)
	if err != nil {
		return nil, nil, fmt.Errorf("no tables on report: %w", err)
	}
	if len(tables) < 2 {
		return nil, nil, fmt.Errorf("expected 2 language tables, found %d", len(tables))
	}

	for _, t := range tables {
		switch classify(t) {
		case "en":
			if english == nil {
				english = t
			}
		case "fr":
			if french == nil {
				french = t
			}
		}
	}

	if english == nil {
		english = tables[0]
	}
	if french == nil || french == english {
		french = tables[1]
		if french == english {
			return nil, nil, fmt.Errorf("could not tell the language tables apart")
		}
	}
	return english, french, nil
}

func classify(t page.Element) string {
	header, err := t.Find(headerSelector)
	if err != nil {
		return ""
	}
	txt, err := header.Text()
	if err != nil {
		return ""
	}
	low := strings.ToLower(txt)
	switch {
	case strings.Contains(low, "en pages"), strings.Contains(low, "english"):
		return "en"
	case strings.Contains(low, "fr pages"), strings.Contains(low, "french"):
		return "fr"
	}
	return ""
}
