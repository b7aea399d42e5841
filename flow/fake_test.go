package flow

import (
	"context"
	"fmt"
	"time"
)

// fakePage is one scripted screen. Actions listed in advance move the tab
// to the next page: "click:<sel>", "text:<sel>" or "press:Enter".
type fakePage struct {
	title    string
	elements map[string]string
	advance  map[string]bool
	// hold keeps the page for this many WaitNavigation calls and then
	// moves on, like a page that is still loading.
	hold int

	waits int
}

type fakeTab struct {
	pages []*fakePage
	idx   int

	actions  []string
	reads    []string
	waitFor  map[string]int
	timeouts map[string]time.Duration
	navWaits int
	titleErr error
}

func newFakeTab(pages ...*fakePage) *fakeTab {
	return &fakeTab{
		pages:    pages,
		waitFor:  map[string]int{},
		timeouts: map[string]time.Duration{},
	}
}

func (t *fakeTab) page() *fakePage {
	return t.pages[t.idx]
}

func (t *fakeTab) step(action string) {
	if t.page().advance[action] && t.idx < len(t.pages)-1 {
		t.idx++
	}
}

func (t *fakeTab) WaitNavigation(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t.navWaits++
	p := t.page()
	if p.hold > 0 {
		p.waits++
		if p.waits > p.hold && t.idx < len(t.pages)-1 {
			t.idx++
		}
	}
	return nil
}

func (t *fakeTab) Title(ctx context.Context) (string, error) {
	if t.titleErr != nil {
		return "", t.titleErr
	}
	return t.page().title, nil
}

func (t *fakeTab) Find(ctx context.Context, selector string) (Element, bool, error) {
	text, ok := t.page().elements[selector]
	if !ok {
		return nil, false, nil
	}
	return &fakeElement{tab: t, selector: selector, text: text}, true, nil
}

func (t *fakeTab) WaitFor(ctx context.Context, selector string, timeout time.Duration) (Element, error) {
	t.waitFor[selector]++
	t.timeouts[selector] = timeout
	el, ok, _ := t.Find(ctx, selector)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrElementTimeout, selector)
	}
	return el, nil
}

func (t *fakeTab) Type(ctx context.Context, text string) error {
	t.actions = append(t.actions, "type "+text)
	return nil
}

func (t *fakeTab) Press(ctx context.Context, key Key) error {
	t.actions = append(t.actions, "press "+string(key))
	t.step("press:" + string(key))
	return nil
}

type fakeElement struct {
	tab      *fakeTab
	selector string
	text     string
}

func (e *fakeElement) Click(ctx context.Context) error {
	e.tab.actions = append(e.tab.actions, "click "+e.selector)
	e.tab.step("click:" + e.selector)
	return nil
}

func (e *fakeElement) Text(ctx context.Context) (string, error) {
	e.tab.reads = append(e.tab.reads, e.selector)
	e.tab.step("text:" + e.selector)
	return e.text, nil
}

func (e *fakeElement) Clear(ctx context.Context) error {
	e.tab.actions = append(e.tab.actions, "clear "+e.selector)
	return nil
}

type fakePrompter struct {
	email    string
	password string
	err      error
	calls    []string
}

func (p *fakePrompter) Input(ctx context.Context, title string) (string, error) {
	p.calls = append(p.calls, "input "+title)
	return p.email, p.err
}

func (p *fakePrompter) Password(ctx context.Context, title string) (string, error) {
	p.calls = append(p.calls, "password "+title)
	return p.password, p.err
}

// recordingProvider logs every handler the router runs
type recordingProvider struct {
	Provider
	handled []PageKind
}

func (r *recordingProvider) Handler(kind PageKind) (Handler, bool) {
	h, ok := r.Provider.Handler(kind)
	if !ok {
		return nil, false
	}
	return func(ctx context.Context, tab Tab) error {
		r.handled = append(r.handled, kind)
		return h(ctx, tab)
	}, true
}

func verifyPage() *fakePage {
	return &fakePage{
		title:    portalTitle,
		elements: map[string]string{portalVerifySelector: "Confirm and continue"},
		advance:  map[string]bool{"click:" + portalVerifySelector: true},
	}
}

func signInPage() *fakePage {
	return &fakePage{
		title: "Sign in to your account",
		elements: map[string]string{
			msLoginHeaderSelector: "Sign in",
			msEmailInputSelector:  "",
		},
		advance: map[string]bool{"press:Enter": true},
	}
}

func passwordPage() *fakePage {
	return &fakePage{
		title: "Sign in to your account",
		elements: map[string]string{
			msLoginHeaderSelector: "Enter password",
			msPasswordSelector:    "",
		},
		advance: map[string]bool{"press:Enter": true},
	}
}

func mfaPage(code string) *fakePage {
	return &fakePage{
		title: "Sign in to your account",
		elements: map[string]string{
			msMfaTitleSelector:    "Approve sign in request",
			msDisplaySignSelector: code,
		},
		// the user approves on the phone while the code is shown
		advance: map[string]bool{"text:" + msDisplaySignSelector: true},
	}
}

func rememberPage() *fakePage {
	return &fakePage{
		title: "Sign in to your account",
		elements: map[string]string{
			msKmsiCheckboxSelector: "",
			msConfirmSelector:      "",
		},
		advance: map[string]bool{"click:" + msConfirmSelector: true},
	}
}

func allowPage() *fakePage {
	return &fakePage{
		title:    portalTitle,
		elements: map[string]string{portalAllowSelector: "Allow access"},
		advance:  map[string]bool{"click:" + portalAllowSelector: true},
	}
}

func statusPage(status string) *fakePage {
	return &fakePage{
		title:    portalTitle,
		elements: map[string]string{portalStatusSelector: status},
	}
}

func blankPage(title string, hold int) *fakePage {
	return &fakePage{title: title, hold: hold}
}
