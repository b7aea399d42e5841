package aws

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/credentials/ssocreds"
)

var (
	ErrTokenNotFound = errors.New("no cached sso token")
	ErrTokenExpired  = errors.New("cached sso token expired")
)

// LoadCachedToken reads the token the AWS CLI cached for an sso-session.
// The file is only read, refreshing it stays with the CLI.
func LoadCachedToken(session string) (*TokenCache, error) {
	path, err := ssocreds.StandardCachedTokenFilepath(session)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve token cache path: %w", err)
	}
	return readTokenFile(path, time.Now())
}

func readTokenFile(path string, now time.Time) (*TokenCache, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrTokenNotFound, path)
		}
		return nil, fmt.Errorf("failed to read token cache: %w", err)
	}

	var token TokenCache
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("failed to parse token cache %s: %w", path, err)
	}
	if token.AccessToken == "" {
		return nil, fmt.Errorf("%w: %s has no access token", ErrTokenNotFound, path)
	}
	if token.Expired(now) {
		return nil, fmt.Errorf("%w at %s", ErrTokenExpired, token.ExpiresAt.Format(time.RFC3339))
	}
	return &token, nil
}
