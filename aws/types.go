package aws

import "time"

// Account represents an AWS account accessible via SSO
type Account struct {
	Name      string
	AccountID string
	Email     string
}

// TokenCache is the SSO token the AWS CLI caches after `aws sso login`
type TokenCache struct {
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
	StartURL    string    `json:"startUrl"`
	Region      string    `json:"region"`
}

// Expired reports whether the token is no longer usable at now
func (t TokenCache) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}
