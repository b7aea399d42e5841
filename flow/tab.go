package flow

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrElementTimeout is returned when an expected page element never shows up.
	ErrElementTimeout = errors.New("timed out waiting for page element")
	// ErrFlowTimeout is returned when the login does not reach the portal in time.
	ErrFlowTimeout = errors.New("login flow did not complete")

	ErrUnknownProvider = errors.New("unknown identity provider")
)

// Key names a keyboard key understood by Tab.Press
type Key string

const KeyEnter Key = "Enter"

// Tab is the browser page the router drives. Calls are never issued concurrently.
type Tab interface {
	// WaitNavigation blocks until the current page has settled.
	WaitNavigation(ctx context.Context) error
	Title(ctx context.Context) (string, error)
	// Find looks up selector without waiting. A missing element is not an error.
	Find(ctx context.Context, selector string) (Element, bool, error)
	// WaitFor blocks until selector matches or timeout elapses, in which case
	// the error wraps ErrElementTimeout.
	WaitFor(ctx context.Context, selector string, timeout time.Duration) (Element, error)
	// Type sends text to the focused element.
	Type(ctx context.Context, text string) error
	Press(ctx context.Context, key Key) error
}

type Element interface {
	Click(ctx context.Context) error
	Text(ctx context.Context) (string, error)
	// Clear empties the value of an input element.
	Clear(ctx context.Context) error
}

// Prompter collects input from the person running the login
type Prompter interface {
	Input(ctx context.Context, title string) (string, error)
	Password(ctx context.Context, title string) (string, error)
}
