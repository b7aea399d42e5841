package prompt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
)

var (
	ErrUserInput   = errors.New("failed to read user input")
	ErrUserAborted = errors.New("aborted by user")
)

// Terminal asks the person running the login for input. It satisfies
// flow.Prompter.
type Terminal struct {
	In  io.Reader
	Out io.Writer
}

// NewTerminal prompts on stdin and renders on stderr so stdout only
// carries the login result.
func NewTerminal() *Terminal {
	return &Terminal{In: os.Stdin, Out: os.Stderr}
}

func (t *Terminal) Input(ctx context.Context, title string) (string, error) {
	m, err := t.run(ctx, newInputModel(title, false))
	if err != nil {
		return "", err
	}
	return m.(inputModel).Value()
}

func (t *Terminal) Password(ctx context.Context, title string) (string, error) {
	m, err := t.run(ctx, newInputModel(title, true))
	if err != nil {
		return "", err
	}
	return m.(inputModel).Value()
}

// Select shows items in a list and returns the index of the chosen one
func (t *Terminal) Select(ctx context.Context, title string, items []Item) (int, error) {
	if len(items) == 0 {
		return -1, fmt.Errorf("%w: nothing to select", ErrUserInput)
	}
	m, err := t.run(ctx, newSelectModel(title, items))
	if err != nil {
		return -1, err
	}
	return m.(selectModel).Selected()
}

// finisher is implemented by the prompt models
type finisher interface {
	finished() bool
}

func (t *Terminal) run(ctx context.Context, m tea.Model) (tea.Model, error) {
	opts := []tea.ProgramOption{tea.WithContext(ctx)}

	var in *eofReader
	if f, ok := t.In.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		// a terminal never ends and bubbletea needs the file for raw mode
		opts = append(opts, tea.WithInput(f))
	} else if t.In != nil {
		in = &eofReader{r: t.In}
		opts = append(opts, tea.WithInput(in))
	}
	if t.Out != nil {
		opts = append(opts, tea.WithOutput(t.Out))
	}

	p := tea.NewProgram(m, opts...)
	if in != nil {
		in.onEOF = p.Quit
	}

	final, err := p.Run()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %w", ErrUserInput, err)
	}

	if in != nil && in.closed.Load() {
		if f, ok := final.(finisher); ok && !f.finished() {
			return nil, fmt.Errorf("%w: %w", ErrUserInput, io.ErrUnexpectedEOF)
		}
	}
	return final, nil
}

// eofReader quits the program once a piped or closed input is exhausted.
// bubbletea stops reading on EOF but keeps running otherwise.
type eofReader struct {
	r      io.Reader
	onEOF  func()
	closed atomic.Bool
	once   sync.Once
}

func (e *eofReader) Read(p []byte) (int, error) {
	n, err := e.r.Read(p)
	if errors.Is(err, io.EOF) {
		e.once.Do(func() {
			e.closed.Store(true)
			if e.onEOF != nil {
				e.onEOF()
			}
		})
	}
	return n, err
}
