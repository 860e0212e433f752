package social

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"xclone/internal/ports/social"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoogleVerifier(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("id_token") {
		case "good":
			_ = json.NewEncoder(w).Encode(map[string]string{
				"aud": "client-1", "sub": "g-42", "email": "ann@example.com",
				"email_verified": "true", "given_name": "Ann",
			})
		case "other-aud":
			_ = json.NewEncoder(w).Encode(map[string]string{"aud": "client-2", "sub": "g-42"})
		default:
			w.WriteHeader(http.StatusBadRequest)
		}
	}))
	defer srv.Close()

	v := NewGoogleVerifier("client-1")
	v.TokenInfoURL = srv.URL

	t.Run("valid token", func(t *testing.T) {
		id, err := v.Verify(context.Background(), "good")
		require.NoError(t, err)
		assert.Equal(t, social.ProviderGoogle, id.Provider)
		assert.Equal(t, "g-42", id.SubjectID)
		assert.Equal(t, "ann@example.com", id.Email)
		assert.Equal(t, "Ann", id.Username)
	})

	t.Run("wrong audience", func(t *testing.T) {
		_, err := v.Verify(context.Background(), "other-aud")
		assert.ErrorIs(t, err, social.ErrInvalidToken)
	})

	t.Run("rejected by provider", func(t *testing.T) {
		_, err := v.Verify(context.Background(), "forged")
		assert.ErrorIs(t, err, social.ErrInvalidToken)
	})
}

func appleServer(t *testing.T, key *rsa.PrivateKey, kid string) *httptest.Server {
	t.Helper()
	e := big.NewInt(int64(key.PublicKey.E)).Bytes()
	body := map[string]interface{}{
		"keys": []map[string]string{{
			"kid": kid,
			"kty": "RSA",
			"alg": "RS256",
			"n":   base64.RawURLEncoding.EncodeToString(key.PublicKey.N.Bytes()),
			"e":   base64.RawURLEncoding.EncodeToString(e),
		}},
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func signApple(t *testing.T, key *rsa.PrivateKey, kid string, claims appleClaims) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	tok.Header["kid"] = kid
	s, err := tok.SignedString(key)
	require.NoError(t, err)
	return s
}

func TestAppleBoolClaim(t *testing.T) {
	for raw, want := range map[string]bool{`true`: true, `"true"`: true, `false`: false, `"false"`: false, `null`: false} {
		var b appleBool
		require.NoError(t, json.Unmarshal([]byte(raw), &b), raw)
		assert.Equal(t, want, bool(b), raw)
	}
}

func TestAppleVerifier(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	srv := appleServer(t, key, "k1")

	v := NewAppleVerifier("com.example.app")
	v.KeysURL = srv.URL

	valid := appleClaims{
		Email:         "ann@privaterelay.appleid.com",
		EmailVerified: true,
		StandardClaims: jwt.StandardClaims{
			Issuer:    appleIssuer,
			Audience:  "com.example.app",
			Subject:   "a-001",
			IssuedAt:  time.Now().Unix(),
			ExpiresAt: time.Now().Add(time.Hour).Unix(),
		},
	}

	t.Run("valid token", func(t *testing.T) {
		id, err := v.Verify(context.Background(), signApple(t, key, "k1", valid))
		require.NoError(t, err)
		assert.Equal(t, social.ProviderApple, id.Provider)
		assert.Equal(t, "a-001", id.SubjectID)
		assert.Equal(t, "ann@privaterelay.appleid.com", id.Email)
	})

	t.Run("unverified email is not trusted", func(t *testing.T) {
		c := valid
		c.EmailVerified = false
		id, err := v.Verify(context.Background(), signApple(t, key, "k1", c))
		require.NoError(t, err)
		assert.Equal(t, "a-001", id.SubjectID)
		assert.Empty(t, id.Email)
	})

	t.Run("wrong audience", func(t *testing.T) {
		c := valid
		c.Audience = "com.other.app"
		_, err := v.Verify(context.Background(), signApple(t, key, "k1", c))
		assert.ErrorIs(t, err, social.ErrInvalidToken)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		c := valid
		c.Issuer = "https://evil.example"
		_, err := v.Verify(context.Background(), signApple(t, key, "k1", c))
		assert.ErrorIs(t, err, social.ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		c := valid
		c.ExpiresAt = time.Now().Add(-time.Minute).Unix()
		_, err := v.Verify(context.Background(), signApple(t, key, "k1", c))
		assert.ErrorIs(t, err, social.ErrInvalidToken)
	})

	t.Run("unknown signing key", func(t *testing.T) {
		other, err := rsa.GenerateKey(rand.Reader, 2048)
		require.NoError(t, err)
		_, err = v.Verify(context.Background(), signApple(t, other, "k1", valid))
		assert.ErrorIs(t, err, social.ErrInvalidToken)

		_, err = v.Verify(context.Background(), signApple(t, key, "k2", valid))
		assert.ErrorIs(t, err, social.ErrInvalidToken)
	})
}
