package social

import (
	"context"
	"errors"
)

const (
	ProviderGoogle = "google"
	ProviderApple  = "apple"
)

var ErrInvalidToken = errors.New("invalid social token")

// Identity is what a provider vouches for after verifying its token.
type Identity struct {
	Provider  string
	SubjectID string
	Email     string
	// Username is a suggestion; it may be empty or taken.
	Username string
}

// Verifier checks an externally issued token with its provider.
type Verifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}
