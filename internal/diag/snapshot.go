// Package diag captures readable snapshots of the dashboard when a run
// step fails, so selector drift can be diagnosed from the artifact
// instead of re-running with the UI visible.
package diag

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/charmbracelet/log"
)

// Snapshotter writes one markdown file per failure into Dir.
type Snapshotter struct {
	Dir    string
	Logger *log.Logger

	conv *md.Converter
}

func New(dir string, logger *log.Logger) *Snapshotter {
	if logger == nil {
		logger = log.Default()
	}
	return &Snapshotter{
		Dir:    dir,
		Logger: logger,
		conv:   md.NewConverter("", true, nil),
	}
}

// Capture converts the page HTML to markdown and writes it under Dir,
// tagged with the failing stage. Snapshot failures are logged, never
// propagated; the run error they describe matters more.
func (s *Snapshotter) Capture(stage, html string) {
	if s == nil || s.Dir == "" {
		return
	}
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		s.Logger.Warn("failed to create snapshot dir", "dir", s.Dir, "error", err)
		return
	}

	markdown, err := s.conv.ConvertString(html)
	if err != nil {
		s.Logger.Warn("failed to convert snapshot", "stage", stage, "error", err)
		return
	}

	name := fmt.Sprintf("%s-%s.md", time.Now().Format("20060102-150405"), stage)
	path := filepath.Join(s.Dir, name)
	if err := os.WriteFile(path, []byte(markdown), 0644); err != nil {
		s.Logger.Warn("failed to write snapshot", "path", path, "error", err)
		return
	}
	s.Logger.Info("wrote failure snapshot", "path", path)
}
