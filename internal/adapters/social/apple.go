package social

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"sync"
	"time"

	"xclone/internal/config"
	"xclone/internal/ports/social"

	"github.com/dgrijalva/jwt-go"
	"go.uber.org/zap"
)

const (
	appleIssuer  = "https://appleid.apple.com"
	appleKeysURL = "https://appleid.apple.com/auth/keys"
	appleKeysTTL = time.Hour
)

// AppleVerifier validates Sign in with Apple identity tokens against Apple's published keys.
type AppleVerifier struct {
	ClientID   string
	KeysURL    string
	HTTPClient *http.Client

	mu        sync.Mutex
	keys      map[string]*rsa.PublicKey
	fetchedAt time.Time
}

func NewAppleVerifier(clientID string) *AppleVerifier {
	return &AppleVerifier{
		ClientID:   clientID,
		KeysURL:    appleKeysURL,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type appleClaims struct {
	Email         string    `json:"email"`
	EmailVerified appleBool `json:"email_verified"`
	jwt.StandardClaims
}

// appleBool accepts Apple's boolean claims, which arrive as either true or "true".
type appleBool bool

func (b *appleBool) UnmarshalJSON(data []byte) error {
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch t := v.(type) {
	case bool:
		*b = appleBool(t)
	case string:
		*b = appleBool(t == "true")
	default:
		*b = false
	}
	return nil
}

type jwk struct {
	Kid string `json:"kid"`
	Kty string `json:"kty"`
	N   string `json:"n"`
	E   string `json:"e"`
}

func (v *AppleVerifier) Verify(ctx context.Context, token string) (*social.Identity, error) {
	if token == "" {
		return nil, social.ErrInvalidToken
	}

	claims := &appleClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		kid, _ := t.Header["kid"].(string)
		return v.key(ctx, kid)
	})
	if err != nil {
		config.Logger.Debug("Apple token rejected", zap.Error(err))
		return nil, social.ErrInvalidToken
	}

	if !claims.VerifyIssuer(appleIssuer, true) || !claims.VerifyAudience(v.ClientID, true) || claims.Subject == "" {
		return nil, social.ErrInvalidToken
	}

	id := &social.Identity{
		Provider:  social.ProviderApple,
		SubjectID: claims.Subject,
	}
	if claims.EmailVerified {
		id.Email = claims.Email
	}
	return id, nil
}

// key returns the public key for kid, refreshing the cached set when it is stale or misses.
func (v *AppleVerifier) key(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if k, ok := v.keys[kid]; ok && time.Since(v.fetchedAt) < appleKeysTTL {
		return k, nil
	}

	keys, err := v.fetchKeys(ctx)
	if err != nil {
		return nil, err
	}
	v.keys = keys
	v.fetchedAt = time.Now()

	k, ok := keys[kid]
	if !ok {
		return nil, fmt.Errorf("unknown key id %q", kid)
	}
	return k, nil
}

func (v *AppleVerifier) fetchKeys(ctx context.Context) (map[string]*rsa.PublicKey, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.KeysURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := v.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("apple keys: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("apple keys: unexpected status %d", resp.StatusCode)
	}

	var set struct {
		Keys []jwk `json:"keys"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&set); err != nil {
		return nil, fmt.Errorf("apple keys: %w", err)
	}

	keys := make(map[string]*rsa.PublicKey, len(set.Keys))
	for _, k := range set.Keys {
		if k.Kty != "RSA" {
			continue
		}
		pub, err := k.rsa()
		if err != nil {
			config.Logger.Warn("Skipping malformed Apple key", zap.String("kid", k.Kid), zap.Error(err))
			continue
		}
		keys[k.Kid] = pub
	}
	return keys, nil
}

func (k jwk) rsa() (*rsa.PublicKey, error) {
	n, err := base64.RawURLEncoding.DecodeString(k.N)
	if err != nil {
		return nil, err
	}
	e, err := base64.RawURLEncoding.DecodeString(k.E)
	if err != nil {
		return nil, err
	}
	exp := new(big.Int).SetBytes(e)
	if !exp.IsInt64() || exp.Int64() > 1<<31-1 || exp.Sign() <= 0 {
		return nil, errors.New("bad exponent")
	}
	return &rsa.PublicKey{N: new(big.Int).SetBytes(n), E: int(exp.Int64())}, nil
}
