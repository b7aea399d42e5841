package flow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Router drives one tab from the device verification page until the portal
// grants access. The page is classified again on every pass because the
// browser navigates on its own.
type Router struct {
	Provider Provider
	Portal   *Portal
	Settings Settings
	Logger   zerolog.Logger
}

func NewRouter(provider Provider, portal *Portal, settings Settings, logger zerolog.Logger) *Router {
	return &Router{
		Provider: provider,
		Portal:   portal,
		Settings: settings,
		Logger:   logger,
	}
}

// Run returns the status text shown by the portal once access is granted
func (r *Router) Run(ctx context.Context, tab Tab) (string, error) {
	if r.Settings.FlowTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeoutCause(ctx, r.Settings.FlowTimeout, ErrFlowTimeout)
		defer cancel()
	}

	status, err := r.run(ctx, tab)
	if err != nil && errors.Is(context.Cause(ctx), ErrFlowTimeout) {
		return "", fmt.Errorf("%w within %s: %w", ErrFlowTimeout, r.Settings.FlowTimeout, err)
	}
	return status, err
}

func (r *Router) run(ctx context.Context, tab Tab) (string, error) {
	if err := r.Portal.Verify(ctx, tab); err != nil {
		return "", err
	}

	progress := &Progress{}

	for i := 0; ; i++ {
		if r.Settings.MaxIterations > 0 && i >= r.Settings.MaxIterations {
			return "", fmt.Errorf("%w after %d page checks", ErrFlowTimeout, i)
		}

		if err := tab.WaitNavigation(ctx); err != nil {
			return "", fmt.Errorf("failed waiting for navigation: %w", err)
		}

		kind, err := r.Classify(ctx, tab, progress)
		if err != nil {
			return "", err
		}

		r.Logger.Debug().Int("iteration", i).Stringer("page", kind).Msg("Page classified")

		switch kind {
		case AccessGranted:
			return r.Portal.Finish(ctx, tab)

		case Unknown:
			if err := sleep(ctx, r.Settings.PollInterval); err != nil {
				return "", err
			}
			continue

		case MfaApproval:
			if err := r.handle(ctx, tab, MfaApproval); err != nil {
				return "", err
			}
			if err := r.handle(ctx, tab, RememberDevice); err != nil {
				return "", err
			}
			progress.Approve()

		default:
			if err := r.handle(ctx, tab, kind); err != nil {
				return "", err
			}
		}
	}
}

// Classify works out which page the tab shows. It has no side effects on
// the page, so calling it twice on an unchanged page gives the same kind.
func (r *Router) Classify(ctx context.Context, tab Tab, progress *Progress) (PageKind, error) {
	// The portal title is also shown before the sign in, so it only counts
	// once the MFA request was approved.
	if progress.Approved() {
		granted, err := r.Portal.Granted(ctx, tab)
		if err != nil {
			return Unknown, err
		}
		if granted {
			return AccessGranted, nil
		}
	}

	return r.Provider.Classify(ctx, tab)
}

func (r *Router) handle(ctx context.Context, tab Tab, kind PageKind) error {
	h, ok := r.Provider.Handler(kind)
	if !ok {
		return fmt.Errorf("provider %s cannot handle %s page", r.Provider.Name(), kind)
	}

	r.Logger.Debug().Stringer("page", kind).Msg("Handling page")
	if err := h(ctx, tab); err != nil {
		return fmt.Errorf("%s: %w", kind, err)
	}
	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
