package flow

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/rs/zerolog"
)

const (
	DefaultElementTimeout  = 20 * time.Second
	DefaultApprovalTimeout = 3 * time.Minute
	DefaultFlowTimeout     = 15 * time.Minute
	DefaultMaxIterations   = 1000
	DefaultPollInterval    = 250 * time.Millisecond
)

// Settings bounds how long the router and its handlers wait
type Settings struct {
	// ElementTimeout is the default wait for a page element.
	ElementTimeout time.Duration
	// ApprovalTimeout is used for elements that only appear after the
	// user approved the sign in on another device.
	ApprovalTimeout time.Duration
	// FlowTimeout caps the whole login. Zero disables it.
	FlowTimeout time.Duration
	// MaxIterations caps the router loop. Zero disables it.
	MaxIterations int
	// PollInterval is the pause after a page that could not be classified.
	PollInterval time.Duration
}

func DefaultSettings() Settings {
	return Settings{
		ElementTimeout:  DefaultElementTimeout,
		ApprovalTimeout: DefaultApprovalTimeout,
		FlowTimeout:     DefaultFlowTimeout,
		MaxIterations:   DefaultMaxIterations,
		PollInterval:    DefaultPollInterval,
	}
}

// Handler acts on one kind of page
type Handler func(ctx context.Context, tab Tab) error

// Provider knows the screens of one identity provider
type Provider interface {
	Name() string
	// Classify recognises the provider's screens. It only reads the page.
	Classify(ctx context.Context, tab Tab) (PageKind, error)
	Handler(kind PageKind) (Handler, bool)
}

// Deps are handed to provider factories
type Deps struct {
	Prompter Prompter
	Out      io.Writer
	Settings Settings
	Logger   zerolog.Logger
}

type Factory func(deps Deps) Provider

var providers = map[string]Factory{
	MicrosoftProviderName: func(deps Deps) Provider { return NewMicrosoft(deps) },
}

// Lookup builds the named provider
func Lookup(name string, deps Deps) (Provider, error) {
	factory, ok := providers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknownProvider, name, ProviderNames())
	}
	return factory(deps), nil
}

func ProviderNames() []string {
	names := make([]string, 0, len(providers))
	for name := range providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
