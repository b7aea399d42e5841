package flow

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"aws-sso-login/styles"
)

const MicrosoftProviderName = "microsoft"

// Microsoft Entra ID login screens
const (
	msMfaTitleSelector     = "div#idDiv_SAOTCAS_Title.row.text-title"
	msLoginHeaderSelector  = "div#loginHeader.row.title.ext-title"
	msEmailInputSelector   = "input#i0116.form-control.ltr_override.input.ext-input.text-box.ext-text-box"
	msPasswordSelector     = "input#i0118.form-control.input.ext-input.text-box.ext-text-box"
	msDisplaySignSelector  = "div#idRichContext_DisplaySign.displaySign.display-sign-height"
	msKmsiCheckboxSelector = "input#KmsiCheckboxField"
	msConfirmSelector      = "input#idSIButton9.win-button.button_primary.button.ext-button.primary.ext-primary"

	msApproveTitle  = "Approve sign in request"
	msSignInHeader  = "Sign in"
	msPasswordTitle = "Enter password"
)

// Microsoft drives the Entra ID sign in, password and push approval screens
type Microsoft struct {
	prompter Prompter
	out      io.Writer
	settings Settings
	logger   zerolog.Logger
	handlers map[PageKind]Handler
}

func NewMicrosoft(deps Deps) *Microsoft {
	m := &Microsoft{
		prompter: deps.Prompter,
		out:      deps.Out,
		settings: deps.Settings,
		logger:   deps.Logger.With().Str("provider", MicrosoftProviderName).Logger(),
	}
	if m.out == nil {
		m.out = io.Discard
	}
	m.handlers = map[PageKind]Handler{
		SignIn:         m.email,
		PasswordEntry:  m.password,
		MfaApproval:    m.mfa,
		RememberDevice: m.remember,
	}
	return m
}

func (m *Microsoft) Name() string {
	return MicrosoftProviderName
}

func (m *Microsoft) Handler(kind PageKind) (Handler, bool) {
	h, ok := m.handlers[kind]
	return h, ok
}

func (m *Microsoft) Classify(ctx context.Context, tab Tab) (PageKind, error) {
	title, ok, err := optionalText(ctx, tab, msMfaTitleSelector)
	if err != nil {
		return Unknown, err
	}
	if ok {
		if title == msApproveTitle {
			return MfaApproval, nil
		}
		// Other MFA screens hide the login header too, so there is
		// nothing else to look at until the page changes.
		m.logger.Debug().Str("title", title).Msg("Unhandled MFA screen")
		return Unknown, nil
	}

	header, ok, err := optionalText(ctx, tab, msLoginHeaderSelector)
	if err != nil {
		return Unknown, err
	}
	if !ok {
		return Unknown, nil
	}

	switch header {
	case msSignInHeader:
		return SignIn, nil
	case msPasswordTitle:
		return PasswordEntry, nil
	default:
		m.logger.Debug().Str("header", header).Msg("Unhandled login screen")
		return Unknown, nil
	}
}

func (m *Microsoft) email(ctx context.Context, tab Tab) error {
	m.logger.Debug().Msg("Waiting for email input")
	return m.fillAndSubmit(ctx, tab, msEmailInputSelector, func() (string, error) {
		return m.prompter.Input(ctx, "Email")
	})
}

func (m *Microsoft) password(ctx context.Context, tab Tab) error {
	m.logger.Debug().Msg("Waiting for password input")
	return m.fillAndSubmit(ctx, tab, msPasswordSelector, func() (string, error) {
		return m.prompter.Password(ctx, "Password")
	})
}

// fillAndSubmit focuses and clears the input, asks for its value, types it
// and presses enter.
func (m *Microsoft) fillAndSubmit(ctx context.Context, tab Tab, selector string, ask func() (string, error)) error {
	input, err := tab.WaitFor(ctx, selector, m.settings.ElementTimeout)
	if err != nil {
		return err
	}

	if err := input.Click(ctx); err != nil {
		return fmt.Errorf("failed to click %s: %w", selector, err)
	}
	if err := input.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear %s: %w", selector, err)
	}

	value, err := ask()
	if err != nil {
		return err
	}

	if err := tab.Type(ctx, value); err != nil {
		return fmt.Errorf("failed to type into %s: %w", selector, err)
	}

	m.logger.Debug().Msg("Pressing enter")
	return tab.Press(ctx, KeyEnter)
}

// mfa shows the number the user has to pick in the authenticator app.
// The approval itself happens on the other device.
func (m *Microsoft) mfa(ctx context.Context, tab Tab) error {
	m.logger.Debug().Msg("Waiting for MFA code")
	el, err := tab.WaitFor(ctx, msDisplaySignSelector, m.settings.ApprovalTimeout)
	if err != nil {
		return err
	}

	code, err := el.Text(ctx)
	if err != nil {
		return fmt.Errorf("failed to read MFA code: %w", err)
	}

	fmt.Fprintln(m.out, styles.MutedStyle.Render("Approve the sign in request with this number:"))
	fmt.Fprintln(m.out, styles.CodeBox.Render("MFA: "+strings.TrimSpace(code)))
	return nil
}

func (m *Microsoft) remember(ctx context.Context, tab Tab) error {
	m.logger.Debug().Msg("Waiting for don't ask again")
	checkbox, err := tab.WaitFor(ctx, msKmsiCheckboxSelector, m.settings.ApprovalTimeout)
	if err != nil {
		return err
	}
	if err := checkbox.Click(ctx); err != nil {
		return fmt.Errorf("failed to click don't ask again: %w", err)
	}

	m.logger.Debug().Msg("Waiting for confirmation")
	confirm, err := tab.WaitFor(ctx, msConfirmSelector, m.settings.ElementTimeout)
	if err != nil {
		return err
	}
	if err := confirm.Click(ctx); err != nil {
		return fmt.Errorf("failed to confirm: %w", err)
	}
	return nil
}

// optionalText reads the trimmed text of selector when it is present
func optionalText(ctx context.Context, tab Tab, selector string) (string, bool, error) {
	el, ok, err := tab.Find(ctx, selector)
	if err != nil || !ok {
		return "", false, err
	}
	text, err := el.Text(ctx)
	if err != nil {
		return "", false, fmt.Errorf("failed to read %s: %w", selector, err)
	}
	return strings.TrimSpace(text), true, nil
}
