package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"aws-sso-login/aws"
	"aws-sso-login/browser"
	"aws-sso-login/config"
	"aws-sso-login/flow"
	"aws-sso-login/login"
	"aws-sso-login/logging"
	"aws-sso-login/prompt"
	"aws-sso-login/styles"
	"aws-sso-login/utils"
)

// selector picks one of several sso-sessions
type selector interface {
	Select(ctx context.Context, title string, items []prompt.Item) (int, error)
}

type app struct {
	opts     *options
	logger   zerolog.Logger
	terminal *prompt.Terminal
	out      io.Writer
}

func main() {
	opts, err := parseArgs(os.Args[1:], os.Stderr)
	if errors.Is(err, pflag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		fail(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	a := &app{
		opts:     opts,
		logger:   logging.New(opts.verbose),
		terminal: prompt.NewTerminal(),
		out:      os.Stdout,
	}
	err = a.run(ctx)
	stop()
	if err != nil {
		fail(err)
	}
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, styles.ErrorStyle.Render("Error: "+err.Error()))
	os.Exit(1)
}

func (a *app) run(ctx context.Context) error {
	session, err := a.session(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Login: "+styles.ProfileStyle.Render(session.Name))

	var fl login.Flow
	if a.opts.manual {
		fl = a.manualFlow()
	} else {
		fl, err = a.browserFlow()
		if err != nil {
			return err
		}
	}

	if err := login.NewLauncher(a.opts.awsBin, fl, a.logger).Run(ctx, session.Name); err != nil {
		return err
	}

	if a.opts.accounts {
		if err := a.printAccounts(ctx, session); err != nil {
			a.logger.Warn().Err(err).Msg("Could not list accounts")
		}
	}
	return nil
}

// session resolves the sso-session to log in to. An explicit profile
// does not need a readable config.
func (a *app) session(ctx context.Context) (config.SSOSession, error) {
	manager, err := config.NewManager()
	if err != nil {
		return config.SSOSession{}, err
	}

	sessions, err := manager.LoadSessions()
	if err != nil {
		if a.opts.profile == "" {
			return config.SSOSession{}, err
		}
		a.logger.Debug().Err(err).Msg("Using profile without config")
	}

	return chooseProfile(ctx, a.opts.profile, sessions, a.terminal)
}

func chooseProfile(ctx context.Context, requested string, sessions []config.SSOSession, sel selector) (config.SSOSession, error) {
	if requested != "" {
		for _, s := range sessions {
			if s.Name == requested {
				return s, nil
			}
		}
		return config.SSOSession{Name: requested}, nil
	}

	switch len(sessions) {
	case 0:
		return config.SSOSession{}, config.ErrNoSessions
	case 1:
		return sessions[0], nil
	}

	items := make([]prompt.Item, len(sessions))
	for i, s := range sessions {
		items[i] = prompt.Item{Title: s.Name, Description: fmt.Sprintf("%s (%s)", s.StartURL, s.Region)}
	}

	idx, err := sel.Select(ctx, "SSO", items)
	if err != nil {
		return config.SSOSession{}, err
	}
	return sessions[idx], nil
}

// browserFlow completes the device authorization in a controlled browser
func (a *app) browserFlow() (login.Flow, error) {
	settings := a.opts.settings()
	provider, err := flow.Lookup(a.opts.provider, flow.Deps{
		Prompter: a.terminal,
		Out:      a.out,
		Settings: settings,
		Logger:   a.logger,
	})
	if err != nil {
		return nil, err
	}
	router := flow.NewRouter(provider, flow.NewAWSPortal(settings, a.logger), settings, a.logger)

	return login.FlowFunc(func(ctx context.Context, verificationURL string) error {
		userDataDir := a.opts.userDataDir
		if userDataDir == "" && a.opts.browserURL == "" {
			dir, err := config.UserDataDir()
			if err != nil {
				return err
			}
			userDataDir = dir
		}

		session, err := browser.Open(ctx, a.opts.browserOptions(userDataDir), verificationURL, a.logger)
		if err != nil {
			return err
		}
		defer func() {
			if err := session.Close(); err != nil {
				a.logger.Debug().Err(err).Msg("Failed to close browser")
			}
		}()

		status, err := router.Run(ctx, session.Tab())
		if err != nil {
			return err
		}

		fmt.Fprintln(a.out, styles.StatusBox.Render("Status: "+status))
		return nil
	}), nil
}

// manualFlow hands the verification URL to the system browser and leaves
// the login to the user. The AWS CLI keeps polling until it is approved.
func (a *app) manualFlow() login.Flow {
	return login.FlowFunc(func(ctx context.Context, verificationURL string) error {
		fmt.Fprintln(a.out, styles.VerificationBox.Render("Open to approve the login:\n"+verificationURL))
		if err := utils.OpenBrowser(verificationURL); err != nil {
			a.logger.Warn().Err(err).Msg("Could not open the system browser")
		}
		return nil
	})
}

func (a *app) printAccounts(ctx context.Context, session config.SSOSession) error {
	token, err := aws.LoadCachedToken(session.Name)
	if err != nil {
		return err
	}

	region := token.Region
	if region == "" {
		region = session.Region
	}

	client, err := aws.NewClient(ctx, region)
	if err != nil {
		return err
	}

	accounts, err := client.ListAccounts(ctx, token.AccessToken)
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, styles.SuccessStyle.Render(fmt.Sprintf("%d accounts in %s", len(accounts), client.Region())))
	for _, acc := range accounts {
		fmt.Fprintf(a.out, "  %s %s\n", acc.AccountID, acc.Name)
	}
	return nil
}
