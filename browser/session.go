package browser

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/rs/zerolog"
)

const (
	DefaultWidth  = 425
	DefaultHeight = 550
	DefaultSettle = 500 * time.Millisecond

	// the page viewport is smaller than the window by the browser chrome
	viewportWidthInset  = 15
	viewportHeightInset = 35
)

var (
	ErrBrowserLaunch = errors.New("failed to start browser")
	ErrNavigation    = errors.New("failed to open login page")
)

type Options struct {
	// GUI shows the browser window instead of running headless.
	GUI    bool
	Width  int
	Height int
	// UserDataDir keeps cookies between runs so the identity provider can
	// remember the device. It is never removed.
	UserDataDir string
	// Bin is the Chromium binary. Empty lets rod find or download one.
	Bin string
	// ControlURL attaches to a running browser instead of launching one.
	ControlURL string
	// KeepOpen leaves the browser running after the login.
	KeepOpen bool
	// Settle is how long the DOM has to stay unchanged before a page
	// counts as loaded.
	Settle time.Duration
}

func DefaultOptions() Options {
	return Options{
		Width:  DefaultWidth,
		Height: DefaultHeight,
		Settle: DefaultSettle,
	}
}

// Session owns one browser and the single page the login runs in
type Session struct {
	opts     Options
	logger   zerolog.Logger
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page

	closeOnce sync.Once
	closeErr  error
}

// Open starts or attaches to a browser and opens url in a new page
func Open(ctx context.Context, opts Options, url string, logger zerolog.Logger) (*Session, error) {
	opts = withDefaults(opts)
	s := &Session{opts: opts, logger: logger}

	controlURL := opts.ControlURL
	if controlURL == "" {
		s.launcher = newLauncher(ctx, opts)
		u, err := s.launcher.Launch()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrBrowserLaunch, err)
		}
		controlURL = u
		logger.Debug().Str("control_url", u).Int("pid", s.launcher.PID()).Msg("Browser launched")
	} else {
		logger.Debug().Str("control_url", controlURL).Msg("Attaching to browser")
	}

	s.browser = rod.New().Context(ctx).ControlURL(controlURL)
	if err := s.browser.Connect(); err != nil {
		s.kill()
		return nil, fmt.Errorf("%w: %w", ErrBrowserLaunch, err)
	}

	logger.Debug().Str("url", url).Msg("Opening login page")
	page, err := s.browser.Page(proto.TargetCreateTarget{URL: url})
	if err != nil {
		_ = s.forceClose()
		return nil, fmt.Errorf("%w: %w", ErrNavigation, err)
	}
	s.page = page

	err = page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             opts.Width - viewportWidthInset,
		Height:            opts.Height - viewportHeightInset,
		DeviceScaleFactor: 1,
	})
	if err != nil {
		_ = s.forceClose()
		return nil, fmt.Errorf("%w: %w", ErrNavigation, err)
	}

	return s, nil
}

// Tab returns the page adapted to the login router
func (s *Session) Tab() *Tab {
	return &Tab{page: s.page, settle: s.opts.Settle}
}

// Close shuts the page and the browser down. It is safe to call more than
// once and does nothing when the session was opened with KeepOpen.
func (s *Session) Close() error {
	if s.opts.KeepOpen {
		s.logger.Debug().Msg("Leaving browser open")
		return nil
	}
	return s.forceClose()
}

func (s *Session) forceClose() error {
	s.closeOnce.Do(func() {
		if s.page != nil {
			if err := s.page.Close(); err != nil {
				s.logger.Debug().Err(err).Msg("Failed to close page")
			}
		}
		// an attached browser belongs to someone else
		if s.launcher != nil && s.browser != nil {
			s.closeErr = s.browser.Close()
		}
		s.kill()
	})
	return s.closeErr
}

// kill stops a launched browser process. The user data dir is kept.
func (s *Session) kill() {
	if s.launcher != nil {
		s.launcher.Kill()
	}
}

func newLauncher(ctx context.Context, opts Options) *launcher.Launcher {
	l := launcher.New().
		Context(ctx).
		Headless(!opts.GUI).
		NoSandbox(true).
		Leakless(true).
		Set("window-size", strconv.Itoa(opts.Width)+","+strconv.Itoa(opts.Height))

	if opts.UserDataDir != "" {
		l = l.UserDataDir(opts.UserDataDir)
	}
	if opts.Bin != "" {
		l = l.Bin(opts.Bin)
	}
	return l
}

func withDefaults(opts Options) Options {
	if opts.Width <= 0 {
		opts.Width = DefaultWidth
	}
	if opts.Height <= 0 {
		opts.Height = DefaultHeight
	}
	if opts.Settle <= 0 {
		opts.Settle = DefaultSettle
	}
	return opts
}
