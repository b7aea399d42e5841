package main

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"aws-sso-login/browser"
	"aws-sso-login/flow"
	"aws-sso-login/login"
)

const programName = "aws-sso-login"

type options struct {
	gui      bool
	profile  string
	provider string

	timeout         time.Duration
	elementTimeout  time.Duration
	approvalTimeout time.Duration
	maxIterations   int

	keepOpen    bool
	browserBin  string
	browserURL  string
	userDataDir string
	awsBin      string

	manual   bool
	accounts bool
	verbose  bool
}

func parseArgs(args []string, output io.Writer) (*options, error) {
	opts := &options{}

	fs := pflag.NewFlagSet(programName, pflag.ContinueOnError)
	fs.SetOutput(output)
	fs.Usage = func() {
		fmt.Fprintf(output, "Usage: %s [flags]\n\n", programName)
		fmt.Fprintln(output, "Logs in to an AWS SSO session by driving the identity provider in a browser.")
		fmt.Fprintln(output)
		fs.PrintDefaults()
	}

	fs.BoolVarP(&opts.gui, "gui", "g", false, "Show the browser window")
	fs.StringVarP(&opts.profile, "profile", "p", "", "sso-session to log in to, asks when the config has several")
	fs.StringVar(&opts.provider, "provider", flow.MicrosoftProviderName,
		"Identity provider ("+strings.Join(flow.ProviderNames(), ", ")+")")

	fs.DurationVar(&opts.timeout, "timeout", flow.DefaultFlowTimeout, "Deadline for the whole browser login, 0 disables it")
	fs.DurationVar(&opts.elementTimeout, "element-timeout", flow.DefaultElementTimeout, "How long to wait for a page element")
	fs.DurationVar(&opts.approvalTimeout, "approval-timeout", flow.DefaultApprovalTimeout, "How long to wait for the MFA approval")
	fs.IntVar(&opts.maxIterations, "max-iterations", flow.DefaultMaxIterations, "Page checks before giving up, 0 disables the cap")

	fs.BoolVar(&opts.keepOpen, "keep-open", false, "Leave the browser running after the login")
	fs.StringVar(&opts.browserBin, "browser-bin", "", "Chromium binary, downloaded when empty and none is found")
	fs.StringVar(&opts.browserURL, "browser-url", "", "DevTools URL of a running browser to use instead of launching one")
	fs.StringVar(&opts.userDataDir, "user-data-dir", "", "Browser profile directory (default ~/.aws-sso-login)")
	fs.StringVar(&opts.awsBin, "aws-bin", login.DefaultAWSBin, "AWS CLI binary")

	fs.BoolVar(&opts.manual, "manual", false, "Open the verification URL in the system browser instead of automating the login")
	fs.BoolVar(&opts.accounts, "accounts", false, "List the reachable AWS accounts after the login")
	fs.BoolVarP(&opts.verbose, "verbose", "v", false, "Debug logging")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}
	return opts, nil
}

func (o *options) validate() error {
	if !slices.Contains(flow.ProviderNames(), o.provider) {
		return fmt.Errorf("%w: %q (available: %s)", flow.ErrUnknownProvider, o.provider, strings.Join(flow.ProviderNames(), ", "))
	}

	var errs []error
	if o.timeout < 0 {
		errs = append(errs, errors.New("--timeout must not be negative"))
	}
	if o.elementTimeout <= 0 {
		errs = append(errs, errors.New("--element-timeout must be positive"))
	}
	if o.approvalTimeout <= 0 {
		errs = append(errs, errors.New("--approval-timeout must be positive"))
	}
	if o.maxIterations < 0 {
		errs = append(errs, errors.New("--max-iterations must not be negative"))
	}
	return errors.Join(errs...)
}

func (o *options) settings() flow.Settings {
	s := flow.DefaultSettings()
	s.FlowTimeout = o.timeout
	s.ElementTimeout = o.elementTimeout
	s.ApprovalTimeout = o.approvalTimeout
	s.MaxIterations = o.maxIterations
	return s
}

func (o *options) browserOptions(userDataDir string) browser.Options {
	b := browser.DefaultOptions()
	b.GUI = o.gui
	b.Bin = o.browserBin
	b.ControlURL = o.browserURL
	b.KeepOpen = o.keepOpen
	b.UserDataDir = userDataDir
	return b
}
