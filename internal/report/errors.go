package report

import (
	"errors"
	"fmt"
)

// ErrInvalidRange indicates caller misuse: the requested start date is
// after the end date. It is raised before any browser interaction.
var ErrInvalidRange = errors.New("start date is after end date")

// NavigationReason classifies why the date widget could not be driven to
// the requested window.
type NavigationReason string

const (
	NavWidgetUnavailable  NavigationReason = "widget unavailable"
	NavUnreachableMonth   NavigationReason = "unreachable month"
	NavVerificationFailed NavigationReason = "verification failed"
)

// NavigationError means the date widget was unreachable or ended up
// displaying a different window than requested.
type NavigationError struct {
	Reason NavigationReason
	Err    error
}

func (e *NavigationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("navigation failed (%s): %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("navigation failed (%s)", e.Reason)
}

func (e *NavigationError) Unwrap() error { return e.Err }

// ScrollTimeoutError means a virtualized table never stabilized within
// the configured step cap.
type ScrollTimeoutError struct {
	Language Language
	Steps    int
}

func (e *ScrollTimeoutError) Error() string {
	return fmt.Sprintf("%s table did not stabilize within %d scroll steps", e.Language, e.Steps)
}

// RowParseError marks a rendered row missing its page identifier or a
// parseable metric. Always recoverable: the row is skipped and logged.
type RowParseError struct {
	Reason string
}

func (e *RowParseError) Error() string {
	return "unparseable row: " + e.Reason
}
