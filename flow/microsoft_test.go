package flow

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMicrosoft_Classify(t *testing.T) {
	m := NewMicrosoft(Deps{Settings: DefaultSettings(), Logger: zerolog.Nop()})

	tests := []struct {
		name     string
		elements map[string]string
		want     PageKind
	}{
		{
			name:     "sign in",
			elements: map[string]string{msLoginHeaderSelector: "Sign in"},
			want:     SignIn,
		},
		{
			name:     "password with whitespace",
			elements: map[string]string{msLoginHeaderSelector: "  Enter password\n"},
			want:     PasswordEntry,
		},
		{
			name:     "approve request",
			elements: map[string]string{msMfaTitleSelector: "Approve sign in request"},
			want:     MfaApproval,
		},
		{
			name: "mfa title wins over login header",
			elements: map[string]string{
				msMfaTitleSelector:    "Approve sign in request",
				msLoginHeaderSelector: "Sign in",
			},
			want: MfaApproval,
		},
		{
			name:     "other mfa screen",
			elements: map[string]string{msMfaTitleSelector: "Enter code"},
			want:     Unknown,
		},
		{
			name:     "other login header",
			elements: map[string]string{msLoginHeaderSelector: "Stay signed in?"},
			want:     Unknown,
		},
		{
			name:     "nothing",
			elements: map[string]string{},
			want:     Unknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tab := newFakeTab(&fakePage{elements: tt.elements})

			kind, err := m.Classify(context.Background(), tab)
			require.NoError(t, err)
			assert.Equal(t, tt.want, kind)
			assert.Empty(t, tab.actions)
		})
	}
}

func TestMicrosoft_MfaPrintsCode(t *testing.T) {
	out := &bytes.Buffer{}
	settings := DefaultSettings()
	m := NewMicrosoft(Deps{Out: out, Settings: settings, Logger: zerolog.Nop()})

	h, ok := m.Handler(MfaApproval)
	require.True(t, ok)

	tab := newFakeTab(mfaPage(" 85 "))
	require.NoError(t, h(context.Background(), tab))

	assert.Contains(t, out.String(), "MFA: 85")
	assert.Equal(t, settings.ApprovalTimeout, tab.timeouts[msDisplaySignSelector])
}

func TestMicrosoft_RememberUsesApprovalTimeout(t *testing.T) {
	settings := DefaultSettings()
	m := NewMicrosoft(Deps{Settings: settings, Logger: zerolog.Nop()})

	h, ok := m.Handler(RememberDevice)
	require.True(t, ok)

	tab := newFakeTab(rememberPage(), allowPage())
	require.NoError(t, h(context.Background(), tab))

	assert.Equal(t, settings.ApprovalTimeout, tab.timeouts[msKmsiCheckboxSelector])
	assert.Equal(t, settings.ElementTimeout, tab.timeouts[msConfirmSelector])
	assert.Equal(t, []string{"click " + msKmsiCheckboxSelector, "click " + msConfirmSelector}, tab.actions)
	assert.Equal(t, 1, tab.idx)
}

func TestMicrosoft_NoHandlerForPortalPages(t *testing.T) {
	m := NewMicrosoft(Deps{Logger: zerolog.Nop()})

	_, ok := m.Handler(AccessGranted)
	assert.False(t, ok)
	_, ok = m.Handler(Unknown)
	assert.False(t, ok)
}
