package browser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/proto"

	"aws-sso-login/flow"
)

var _ flow.Tab = (*Tab)(nil)

const clearValueJS = `() => { this.value = '' }`

// Tab adapts a rod page to flow.Tab
type Tab struct {
	page   *rod.Page
	settle time.Duration
}

func (t *Tab) WaitNavigation(ctx context.Context) error {
	p := t.page.Context(ctx)
	if err := p.WaitLoad(); err != nil {
		return err
	}
	return p.WaitDOMStable(t.settle, 0)
}

func (t *Tab) Title(ctx context.Context) (string, error) {
	info, err := t.page.Context(ctx).Info()
	if err != nil {
		return "", err
	}
	return info.Title, nil
}

func (t *Tab) Find(ctx context.Context, selector string) (flow.Element, bool, error) {
	ok, el, err := t.page.Context(ctx).Has(selector)
	if err != nil || !ok {
		return nil, false, err
	}
	return &element{el: el}, true, nil
}

func (t *Tab) WaitFor(ctx context.Context, selector string, timeout time.Duration) (flow.Element, error) {
	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	el, err := t.page.Context(waitCtx).Element(selector)
	if err != nil {
		return nil, waitError(ctx, err, selector, timeout)
	}
	// element calls always bind their own context
	return &element{el: el}, nil
}

func (t *Tab) Type(ctx context.Context, text string) error {
	return t.page.Context(ctx).InsertText(text)
}

func (t *Tab) Press(ctx context.Context, key flow.Key) error {
	k, ok := keys[key]
	if !ok {
		return fmt.Errorf("unsupported key %q", key)
	}
	return t.page.Context(ctx).KeyActions().Press(k).Do()
}

var keys = map[flow.Key]input.Key{
	flow.KeyEnter: input.Enter,
}

type element struct {
	el *rod.Element
}

func (e *element) Click(ctx context.Context) error {
	return e.el.Context(ctx).Click(proto.InputMouseButtonLeft, 1)
}

func (e *element) Text(ctx context.Context) (string, error) {
	return e.el.Context(ctx).Text()
}

func (e *element) Clear(ctx context.Context) error {
	_, err := e.el.Context(ctx).Eval(clearValueJS)
	return err
}

// waitError maps an expired element wait to flow.ErrElementTimeout. When
// the caller's context ended the wait was cut short and its error is kept.
func waitError(ctx context.Context, err error, selector string, timeout time.Duration) error {
	if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
		return fmt.Errorf("%w: %s after %s", flow.ErrElementTimeout, selector, timeout)
	}
	return err
}
