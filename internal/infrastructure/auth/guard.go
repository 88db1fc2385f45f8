package auth

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// Rejection reasons surfaced before any application event is processed.
var (
	ErrMissingCredential = errors.New("auth: no credential presented")
	ErrInvalidCredential = errors.New("auth: credential failed verification")
)

// Identity is the authenticated principal attached to a connection or request.
type Identity struct {
	UserID string
	Role   string
}

// Verifier validates a bearer credential into an Identity. Each namespace
// carries its own Verifier, so a token accepted on one namespace is not
// implicitly valid on another.
type Verifier interface {
	Verify(token string) (Identity, error)
}

// Claims is the JWT payload shared with the identity provider.
type Claims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// HMACVerifier verifies HS256 tokens against a namespace-scoped secret and
// requires the token's role claim to match the namespace's identity class.
type HMACVerifier struct {
	secret []byte
	role   string
}

func NewHMACVerifier(secret, role string) *HMACVerifier {
	return &HMACVerifier{secret: []byte(secret), role: role}
}

var _ Verifier = (*HMACVerifier)(nil)

func (v *HMACVerifier) Verify(token string) (Identity, error) {
	if token == "" {
		return Identity{}, ErrMissingCredential
	}

	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidCredential
		}
		return v.secret, nil
	})
	if err != nil {
		return Identity{}, ErrInvalidCredential
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.UserID == "" {
		return Identity{}, ErrInvalidCredential
	}
	if claims.Role != v.role {
		return Identity{}, ErrInvalidCredential
	}
	return Identity{UserID: claims.UserID, Role: claims.Role}, nil
}

// MultiVerifier accepts a credential valid under any of its members. The
// request/response surface uses it so both end-user and admin tokens can call
// the conversation endpoints.
type MultiVerifier []Verifier

var _ Verifier = (MultiVerifier)(nil)

func (m MultiVerifier) Verify(token string) (Identity, error) {
	if token == "" {
		return Identity{}, ErrMissingCredential
	}
	for _, v := range m {
		if identity, err := v.Verify(token); err == nil {
			return identity, nil
		}
	}
	return Identity{}, ErrInvalidCredential
}

// Sign issues a token for the given identity. Used by tests and local tooling;
// production tokens come from the identity provider with the same claim shape.
func Sign(identity Identity, secret string, ttl time.Duration) (string, error) {
	claims := &Claims{
		UserID: identity.UserID,
		Role:   identity.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// BearerFromRequest extracts the credential from the Authorization header or,
// for websocket handshakes where browsers cannot set headers, from the
// "token" query parameter.
func BearerFromRequest(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		if token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer ")); token != "" {
			return token, nil
		}
	}
	if token := r.URL.Query().Get("token"); token != "" {
		return token, nil
	}
	return "", ErrMissingCredential
}
