package social

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"xclone/internal/ports/social"
)

const googleTokenInfoURL = "https://oauth2.googleapis.com/tokeninfo"

// GoogleVerifier validates Google ID tokens with the tokeninfo endpoint.
type GoogleVerifier struct {
	ClientID     string
	TokenInfoURL string
	HTTPClient   *http.Client
}

func NewGoogleVerifier(clientID string) *GoogleVerifier {
	return &GoogleVerifier{
		ClientID:     clientID,
		TokenInfoURL: googleTokenInfoURL,
		HTTPClient:   &http.Client{Timeout: 10 * time.Second},
	}
}

type googleTokenInfo struct {
	Aud           string `json:"aud"`
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified string `json:"email_verified"`
	GivenName     string `json:"given_name"`
}

func (v *GoogleVerifier) Verify(ctx context.Context, token string) (*social.Identity, error) {
	if token == "" {
		return nil, social.ErrInvalidToken
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.TokenInfoURL+"?id_token="+url.QueryEscape(token), nil)
	if err != nil {
		return nil, err
	}
	resp, err := v.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("google tokeninfo: %w", err)
	}
	defer resp.Body.Close()

	// tokeninfo answers 400 for expired or forged tokens
	if resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnauthorized {
		return nil, social.ErrInvalidToken
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google tokeninfo: unexpected status %d", resp.StatusCode)
	}

	var info googleTokenInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("google tokeninfo: %w", err)
	}

	if info.Sub == "" || (v.ClientID != "" && info.Aud != v.ClientID) {
		return nil, social.ErrInvalidToken
	}

	id := &social.Identity{
		Provider:  social.ProviderGoogle,
		SubjectID: info.Sub,
		Username:  info.GivenName,
	}
	if info.EmailVerified == "true" {
		id.Email = info.Email
	}
	return id, nil
}
