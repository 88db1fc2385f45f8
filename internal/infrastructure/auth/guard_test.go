package auth

import (
	"errors"
	"net/http/httptest"
	"testing"
	"time"
)

func TestHMACVerifier(t *testing.T) {
	userToken, err := Sign(Identity{UserID: "u1", Role: "user"}, "user-secret", time.Minute)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	adminToken, err := Sign(Identity{UserID: "a1", Role: "admin"}, "admin-secret", time.Minute)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	expiredToken, err := Sign(Identity{UserID: "u1", Role: "user"}, "user-secret", -time.Minute)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	tests := []struct {
		name     string
		verifier *HMACVerifier
		token    string
		wantID   string
		wantErr  error
	}{
		{"valid user token", NewHMACVerifier("user-secret", "user"), userToken, "u1", nil},
		{"valid admin token", NewHMACVerifier("admin-secret", "admin"), adminToken, "a1", nil},
		{"empty token", NewHMACVerifier("user-secret", "user"), "", "", ErrMissingCredential},
		{"garbage token", NewHMACVerifier("user-secret", "user"), "not-a-jwt", "", ErrInvalidCredential},
		{"wrong secret", NewHMACVerifier("other-secret", "user"), userToken, "", ErrInvalidCredential},
		{"wrong namespace role", NewHMACVerifier("user-secret", "admin"), userToken, "", ErrInvalidCredential},
		{"expired", NewHMACVerifier("user-secret", "user"), expiredToken, "", ErrInvalidCredential},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := tt.verifier.Verify(tt.token)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Verify() error = %v, want %v", err, tt.wantErr)
			}
			if id.UserID != tt.wantID {
				t.Errorf("Verify() user = %q, want %q", id.UserID, tt.wantID)
			}
		})
	}
}

func TestMultiVerifier(t *testing.T) {
	userToken, err := Sign(Identity{UserID: "u1", Role: "user"}, "user-secret", time.Minute)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	adminToken, err := Sign(Identity{UserID: "a1", Role: "admin"}, "admin-secret", time.Minute)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	multi := MultiVerifier{
		NewHMACVerifier("user-secret", "user"),
		NewHMACVerifier("admin-secret", "admin"),
	}

	tests := []struct {
		name    string
		token   string
		wantID  string
		wantErr error
	}{
		{"first member accepts", userToken, "u1", nil},
		{"second member accepts", adminToken, "a1", nil},
		{"empty token", "", "", ErrMissingCredential},
		{"no member accepts", "not-a-jwt", "", ErrInvalidCredential},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := multi.Verify(tt.token)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Verify() error = %v, want %v", err, tt.wantErr)
			}
			if id.UserID != tt.wantID {
				t.Errorf("Verify() user = %q, want %q", id.UserID, tt.wantID)
			}
		})
	}
}

func TestBearerFromRequest(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		query   string
		want    string
		wantErr bool
	}{
		{"authorization header", "Bearer abc", "", "abc", false},
		{"query fallback", "", "xyz", "xyz", false},
		{"header wins over query", "Bearer abc", "xyz", "abc", false},
		{"empty bearer falls back to query", "Bearer ", "xyz", "xyz", false},
		{"nothing presented", "", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			url := "/ws"
			if tt.query != "" {
				url += "?token=" + tt.query
			}
			req := httptest.NewRequest("GET", url, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			got, err := BearerFromRequest(req)
			if (err != nil) != tt.wantErr {
				t.Fatalf("BearerFromRequest() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("BearerFromRequest() = %q, want %q", got, tt.want)
			}
		})
	}
}
