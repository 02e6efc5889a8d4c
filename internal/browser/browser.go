// Package browser owns the Chromium session the scraper drives. The
// dashboard rejects obviously-automated browsers, so pages are opened
// through stealth and the launcher can reuse a persistent user profile
// that already carries the authenticated session.
package browser

import (
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
)

// Config controls how the browser is launched.
type Config struct {
	// BinPath points at a specific Chromium-family binary (e.g. Brave).
	// Empty lets the launcher resolve its own browser.
	BinPath string
	// UserDataDir is the persistent profile root. Reusing a real profile
	// is how the scraper stays logged in to the dashboard.
	UserDataDir string
	// ProfileDir selects a profile inside UserDataDir, e.g. "Profile 3".
	ProfileDir string
	ProxyURL   string
	Headless   bool
}

// Browser wraps a launched rod browser.
type Browser struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
}

// New launches a browser per cfg.
func New(cfg Config) (*Browser, error) {
	l := launcher.New().Headless(cfg.Headless)
	if cfg.BinPath != "" {
		l = l.Bin(cfg.BinPath)
	}
	if cfg.UserDataDir != "" {
		l = l.UserDataDir(cfg.UserDataDir)
	}
	if cfg.ProfileDir != "" {
		l = l.Set("profile-directory", cfg.ProfileDir)
	}
	if cfg.ProxyURL != "" {
		l = l.Proxy(cfg.ProxyURL)
	}

	url, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	b := rod.New().ControlURL(url)
	if err := b.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	return &Browser{browser: b, launcher: l}, nil
}

// NewPage opens a stealth page and navigates it to url, waiting for the
// initial load.
func (b *Browser) NewPage(url string, timeout time.Duration) (*rod.Page, error) {
	page, err := stealth.Page(b.browser)
	if err != nil {
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	_ = page.SetUserAgent(&proto.NetworkSetUserAgentOverride{
		UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	})

	if err := page.Timeout(timeout).Navigate(url); err != nil {
		page.Close()
		return nil, fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	if err := page.Timeout(timeout).WaitLoad(); err != nil {
		page.Close()
		return nil, fmt.Errorf("page did not load: %w", err)
	}
	return page, nil
}

// Close shuts the browser down and cleans up the launcher.
func (b *Browser) Close() error {
	if b.browser != nil {
		if err := b.browser.Close(); err != nil {
			return err
		}
	}
	if b.launcher != nil {
		b.launcher.Kill()
	}
	return nil
}
