package mail

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gmailapi "google.golang.org/api/gmail/v1"
)

// TokenProvider supplies a valid Gmail access token for a user,
// refreshing stored credentials when they have expired.
type TokenProvider interface {
	AccessToken(ctx context.Context, userID string) (string, error)
}

// FileTokenProvider reads OAuth client credentials and a stored user
// token from disk. It serves single-account deployments where one
// linked mailbox backs the whole instance; the userID argument is
// still required so callers always thread identity through.
type FileTokenProvider struct {
	credentialsFile string
	tokenFile       string
}

// NewFileTokenProvider creates a provider over the given credential and
// token file paths. The files may not exist yet; absence surfaces as
// ErrNotLinked at call time.
func NewFileTokenProvider(credentialsFile, tokenFile string) (*FileTokenProvider, error) {
	if credentialsFile == "" {
		return nil, errors.New("credentials file path cannot be empty")
	}
	if tokenFile == "" {
		return nil, errors.New("token file path cannot be empty")
	}
	return &FileTokenProvider{
		credentialsFile: credentialsFile,
		tokenFile:       tokenFile,
	}, nil
}

// AccessToken returns a valid access token, refreshing through the
// OAuth endpoint when the stored one has expired.
func (p *FileTokenProvider) AccessToken(ctx context.Context, userID string) (string, error) {
	if userID == "" {
		return "", errors.New("user ID cannot be empty")
	}

	cfg, err := p.oauthConfig()
	if err != nil {
		return "", err
	}

	stored, err := p.storedToken()
	if err != nil {
		return "", err
	}

	token, err := cfg.TokenSource(ctx, stored).Token()
	if err != nil {
		if isInvalidGrant(err) {
			return "", fmt.Errorf("%w: %v", ErrTokenRevoked, err)
		}
		return "", fmt.Errorf("refreshing access token: %w", err)
	}

	if token.AccessToken != stored.AccessToken {
		// Persist the rotated token so the next call skips the refresh.
		if err := p.saveToken(token); err != nil {
			return "", err
		}
	}
	return token.AccessToken, nil
}

// SaveToken stores a freshly authorized token, linking the account.
func (p *FileTokenProvider) SaveToken(token *oauth2.Token) error {
	if token == nil || token.RefreshToken == "" {
		return errors.New("token must include a refresh token")
	}
	return p.saveToken(token)
}

func (p *FileTokenProvider) oauthConfig() (*oauth2.Config, error) {
	raw, err := os.ReadFile(p.credentialsFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: no OAuth credentials at %s", ErrNotLinked, p.credentialsFile)
		}
		return nil, fmt.Errorf("reading credentials file: %w", err)
	}
	cfg, err := google.ConfigFromJSON(raw, gmailapi.GmailReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("parsing credentials file: %w", err)
	}
	return cfg, nil
}

func (p *FileTokenProvider) storedToken() (*oauth2.Token, error) {
	raw, err := os.ReadFile(p.tokenFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: no stored token at %s", ErrNotLinked, p.tokenFile)
		}
		return nil, fmt.Errorf("reading token file: %w", err)
	}
	var token oauth2.Token
	if err := json.Unmarshal(raw, &token); err != nil {
		return nil, fmt.Errorf("parsing token file: %w", err)
	}
	if token.RefreshToken == "" {
		return nil, fmt.Errorf("%w: stored token has no refresh token", ErrNotLinked)
	}
	return &token, nil
}

func (p *FileTokenProvider) saveToken(token *oauth2.Token) error {
	raw, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("encoding token: %w", err)
	}
	if err := os.WriteFile(p.tokenFile, raw, 0600); err != nil {
		return fmt.Errorf("writing token file: %w", err)
	}
	return nil
}

// isInvalidGrant reports whether err is the OAuth invalid_grant
// response Google returns for revoked or expired refresh tokens.
func isInvalidGrant(err error) bool {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		return retrieveErr.ErrorCode == "invalid_grant"
	}
	return strings.Contains(err.Error(), "invalid_grant")
}
