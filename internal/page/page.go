// Package page defines the browser-page boundary the extraction engine
// drives. The engine only sees these interfaces; production code backs
// them with a rod page, tests with a scripted fake.
package page

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a selector matches no element.
var ErrNotFound = errors.New("element not found")

// Handle is one live browser page. All waits are bounded; no method
// blocks past its timeout.
type Handle interface {
	// Find returns the first element matching the CSS selector, or
	// ErrNotFound.
	Find(selector string) (Element, error)
	// FindAll returns every element currently matching the selector.
	// An empty result is not an error.
	FindAll(selector string) ([]Element, error)
	// FindByText returns the first element matching the selector whose
	// text content equals text (surrounding whitespace ignored).
	FindByText(selector, text string) (Element, error)
	// WaitFor blocks until the selector matches, or the timeout expires.
	WaitFor(selector string, timeout time.Duration) (Element, error)
	// WaitGone blocks until the selector no longer matches.
	WaitGone(selector string, timeout time.Duration) error
	// WaitStable blocks until DOM mutations quiesce, bounded by timeout.
	// Returning an error is advisory: the page may simply still be busy.
	WaitStable(timeout time.Duration) error
	// Eval runs a JS function expression and decodes its return value
	// into out. Pass nil to discard the result.
	Eval(js string, out any) error
}

// Element is one DOM node. Lookups are scoped to the node's subtree.
type Element interface {
	Find(selector string) (Element, error)
	FindAll(selector string) ([]Element, error)
	FindByText(selector, text string) (Element, error)
	// Text returns the node's rendered text.
	Text() (string, error)
	// Click dispatches a click on the node.
	Click() error
	// Type replaces the node's value with text, firing input events.
	Type(text string) error
	// Attribute returns the attribute value, or "" when absent.
	Attribute(name string) (string, error)
	// HasClass reports whether the node's class list contains name.
	HasClass(name string) (bool, error)
	// ScrollBy scrolls the node's own viewport down by delta pixels.
	ScrollBy(delta float64) error
	// ScrollToTop resets the node's scroll position.
	ScrollToTop() error
	// Height returns the node's client height in pixels.
	Height() (float64, error)
	// HTML returns the node's outer HTML, for diagnostics.
	HTML() (string, error)
}
