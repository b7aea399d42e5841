package login

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os/exec"
	"strings"

	"github.com/rs/zerolog"
)

// Marker is the token the AWS CLI puts in the device verification URL
const Marker = "user_code"

const DefaultAWSBin = "aws"

var (
	ErrProcessSpawn = errors.New("failed to start login process")
	ErrProcessIO    = errors.New("login process failed")
	ErrFlow         = errors.New("browser login failed")
)

// Flow completes the device authorization for a verification URL
type Flow interface {
	Login(ctx context.Context, verificationURL string) error
}

// FlowFunc adapts a function to Flow
type FlowFunc func(ctx context.Context, verificationURL string) error

func (f FlowFunc) Login(ctx context.Context, verificationURL string) error {
	return f(ctx, verificationURL)
}

// Launcher runs `aws sso login` for a session and hands the verification
// URL it prints to Flow.
type Launcher struct {
	AWSBin string
	Flow   Flow
	Logger zerolog.Logger

	command func(ctx context.Context, name string, args ...string) *exec.Cmd
}

func NewLauncher(awsBin string, flow Flow, logger zerolog.Logger) *Launcher {
	if awsBin == "" {
		awsBin = DefaultAWSBin
	}
	return &Launcher{
		AWSBin:  awsBin,
		Flow:    flow,
		Logger:  logger,
		command: exec.CommandContext,
	}
}

// Args returns the AWS CLI arguments for logging in to session
func Args(session string) []string {
	return []string{"sso", "login", "--no-browser", "--sso-session", session}
}

// Run starts the login process and blocks until it exits. The flow is
// called at most once. A failing flow kills the process.
func (l *Launcher) Run(ctx context.Context, session string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	command := l.command
	if command == nil {
		command = exec.CommandContext
	}

	// stdin and stderr stay nil so they are bound to the null device
	cmd := command(ctx, l.AWSBin, Args(session)...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrProcessSpawn, err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("%w: %w", ErrProcessSpawn, err)
	}

	l.Logger.Debug().Str("command", cmd.String()).Int("pid", cmd.Process.Pid).Msg("Started login process")

	found, err := l.watch(ctx, stdout)
	if err != nil {
		cancel()
		_ = cmd.Wait()
		return err
	}

	if err := cmd.Wait(); err != nil {
		// the child was killed because the caller gave up
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("%w: %w", ErrProcessIO, err)
	}

	if !found {
		l.Logger.Warn().Str("session", session).Msg("Login process exited without a verification URL")
	}
	return nil
}

// watch reads r line by line until EOF. The first line carrying a
// verification URL triggers the flow, later lines are only logged.
func (l *Launcher) watch(ctx context.Context, r io.Reader) (bool, error) {
	found := false
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		line := scanner.Text()

		if found {
			l.Logger.Debug().Str("line", line).Msg("Login process output")
			continue
		}

		u, ok := ExtractVerificationURL(line)
		if !ok {
			l.Logger.Debug().Str("line", line).Msg("Login process output")
			continue
		}

		found = true
		l.Logger.Debug().Str("url", u).Msg("Verification URL found")
		if err := l.Flow.Login(ctx, u); err != nil {
			return found, fmt.Errorf("%w: %w", ErrFlow, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return found, fmt.Errorf("%w: reading output: %w", ErrProcessIO, err)
	}
	return found, nil
}

// ExtractVerificationURL picks the verification URL out of a line of AWS
// CLI output. The line must contain Marker. A URL token carrying the marker
// is preferred, otherwise the first http(s) URL on the line is used.
func ExtractVerificationURL(line string) (string, bool) {
	if !strings.Contains(line, Marker) {
		return "", false
	}

	fallback := ""
	for _, field := range strings.Fields(line) {
		if !isWebURL(field) {
			continue
		}
		if strings.Contains(field, Marker) {
			return field, true
		}
		if fallback == "" {
			fallback = field
		}
	}
	return fallback, fallback != ""
}

func isWebURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
