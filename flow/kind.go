package flow

// PageKind classifies the screen currently shown in the tab
type PageKind int

const (
	Unknown PageKind = iota
	VerificationPrompt
	SignIn
	PasswordEntry
	MfaApproval
	RememberDevice
	AccessGranted
)

func (k PageKind) String() string {
	switch k {
	case VerificationPrompt:
		return "verification-prompt"
	case SignIn:
		return "sign-in"
	case PasswordEntry:
		return "password-entry"
	case MfaApproval:
		return "mfa-approval"
	case RememberDevice:
		return "remember-device"
	case AccessGranted:
		return "access-granted"
	default:
		return "unknown"
	}
}

// Progress carries what the router learned across iterations.
// Approval only ever moves from false to true.
type Progress struct {
	approved bool
}

func (p *Progress) Approve() {
	p.approved = true
}

func (p *Progress) Approved() bool {
	return p.approved
}
