package flow

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// AWS access portal device authorization pages
const (
	portalVerifySelector = "#cli_verification_btn"
	portalTitle          = "AWS access portal"
	portalAllowSelector  = "button.awsui_button_vjswe_1dg71_153.awsui_variant-primary_vjswe_1dg71_296"
	portalStatusSelector = "div.awsui_header_mx3cw_4ej0u_321.awsui_header_17427_1ns0c_5"
)

// Portal handles the AWS side of the device authorization: the code
// confirmation before the identity provider and the allow page after it.
type Portal struct {
	VerifySelector string
	Title          string
	AllowSelector  string
	StatusSelector string
	ElementTimeout time.Duration

	Logger zerolog.Logger
}

func NewAWSPortal(settings Settings, logger zerolog.Logger) *Portal {
	return &Portal{
		VerifySelector: portalVerifySelector,
		Title:          portalTitle,
		AllowSelector:  portalAllowSelector,
		StatusSelector: portalStatusSelector,
		ElementTimeout: settings.ElementTimeout,
		Logger:         logger,
	}
}

// Verify confirms the device code shown on the first page
func (p *Portal) Verify(ctx context.Context, tab Tab) error {
	p.Logger.Debug().Msg("Clicking on CLI verification button")
	btn, err := tab.WaitFor(ctx, p.VerifySelector, p.ElementTimeout)
	if err != nil {
		return err
	}
	if err := btn.Click(ctx); err != nil {
		return fmt.Errorf("failed to click verification button: %w", err)
	}
	return nil
}

// Granted reports whether the tab shows the portal again
func (p *Portal) Granted(ctx context.Context, tab Tab) (bool, error) {
	title, err := tab.Title(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to read page title: %w", err)
	}
	return title == p.Title, nil
}

// Finish allows the CLI access and returns the status the portal shows
func (p *Portal) Finish(ctx context.Context, tab Tab) (string, error) {
	p.Logger.Debug().Msg("Waiting and clicking on allow access")
	allow, err := tab.WaitFor(ctx, p.AllowSelector, p.ElementTimeout)
	if err != nil {
		return "", err
	}
	if err := allow.Click(ctx); err != nil {
		return "", fmt.Errorf("failed to allow access: %w", err)
	}

	p.Logger.Debug().Msg("Waiting on confirmation")
	header, err := tab.WaitFor(ctx, p.StatusSelector, p.ElementTimeout)
	if err != nil {
		return "", err
	}
	status, err := header.Text(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to read status: %w", err)
	}
	return strings.TrimSpace(status), nil
}
