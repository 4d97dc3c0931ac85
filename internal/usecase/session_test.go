package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap/zaptest"

	"github.com/syedukkashah/university-library/internal/core/domain"
	"github.com/syedukkashah/university-library/internal/infra/security"
)

const testUserID = "7b9c3f1a-44d2-4c7e-9d7b-0f4d4a2e8c11"

func newSessionTestCodec(t *testing.T) *security.SessionTokenCodec {
	t.Helper()

	codec, err := security.NewSessionTokenCodec("test-session-secret", time.Hour, "university-library")
	if err != nil {
		t.Fatalf("NewSessionTokenCodec returned error: %v", err)
	}
	return codec
}

func newSessionTestService(t *testing.T) (*SessionService, *security.SessionTokenCodec) {
	t.Helper()

	codec := newSessionTestCodec(t)
	return NewSessionService(codec, zaptest.NewLogger(t)), codec
}

func TestSessionIssueAndResolve(t *testing.T) {
	service, _ := newSessionTestService(t)

	token, err := service.Issue(domain.Identity{
		ID:       testUserID,
		Email:    "jordan@university.edu",
		FullName: "Jordan Reyes",
	})
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	session, err := service.Resolve(token)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}

	if session.UserID != testUserID {
		t.Fatalf("unexpected user id: %s", session.UserID)
	}
	if session.Email != "jordan@university.edu" {
		t.Fatalf("unexpected email: %s", session.Email)
	}
	if session.Name != "Jordan Reyes" {
		t.Fatalf("unexpected name: %s", session.Name)
	}
}

func TestSessionIssueRequiresID(t *testing.T) {
	service, _ := newSessionTestService(t)

	if _, err := service.Issue(domain.Identity{Email: "jordan@university.edu"}); err == nil {
		t.Fatal("expected error for identity without id")
	}
}

func TestSessionResolveStructuredClaims(t *testing.T) {
	service, codec := newSessionTestService(t)

	cases := []struct {
		name string
		sub  any
	}{
		{
			name: "value property",
			sub:  map[string]any{"value": testUserID, "type": "uuid"},
		},
		{
			name: "id property",
			sub:  map[string]any{"id": testUserID},
		},
		{
			name: "uuid under unconventional key",
			sub:  map[string]any{"subject": testUserID, "source": "legacy"},
		},
		{
			name: "uuid nested in serialized form",
			sub:  map[string]any{"profile": map[string]any{"uuid": testUserID}},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			token, err := codec.SignClaims(jwt.MapClaims{
				"sub":   tc.sub,
				"email": "jordan@university.edu",
				"name":  "Jordan Reyes",
			})
			if err != nil {
				t.Fatalf("SignClaims returned error: %v", err)
			}

			session, err := service.Resolve(token)
			if err != nil {
				t.Fatalf("Resolve returned error: %v", err)
			}

			if session.UserID != testUserID {
				t.Fatalf("unexpected user id: %s", session.UserID)
			}
		})
	}
}

func TestSessionResolveRejectsUnrecoverableSubjects(t *testing.T) {
	service, codec := newSessionTestService(t)

	cases := []struct {
		name string
		sub  any
	}{
		{name: "missing subject", sub: nil},
		{name: "empty string", sub: ""},
		{name: "too short", sub: "abc"},
		{name: "numeric subject", sub: 12345},
		{name: "object without recoverable id", sub: map[string]any{"role": "x"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			claims := jwt.MapClaims{
				"email": "jordan@university.edu",
				"name":  "Jordan Reyes",
			}
			if tc.sub != nil {
				claims["sub"] = tc.sub
			}

			token, err := codec.SignClaims(claims)
			if err != nil {
				t.Fatalf("SignClaims returned error: %v", err)
			}

			if _, err := service.Resolve(token); !errors.Is(err, ErrMalformedSessionClaim) {
				t.Fatalf("expected ErrMalformedSessionClaim, got %v", err)
			}
		})
	}
}

func TestSessionResolveNormalizesSecondaryClaims(t *testing.T) {
	service, codec := newSessionTestService(t)

	token, err := codec.SignClaims(jwt.MapClaims{
		"sub":   testUserID,
		"email": map[string]any{"value": "jordan@university.edu"},
		"name":  map[string]any{"value": "Jordan Reyes"},
	})
	if err != nil {
		t.Fatalf("SignClaims returned error: %v", err)
	}

	session, err := service.Resolve(token)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}

	if session.Email != "jordan@university.edu" {
		t.Fatalf("unexpected email: %s", session.Email)
	}
	if session.Name != "Jordan Reyes" {
		t.Fatalf("unexpected name: %s", session.Name)
	}
}

func TestSessionResolveRejectsExpiredToken(t *testing.T) {
	codec := newSessionTestCodec(t)

	issuedAt := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	codec.WithClock(func() time.Time { return issuedAt })

	service := NewSessionService(codec, zaptest.NewLogger(t))

	token, err := service.Issue(domain.Identity{ID: testUserID})
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	codec.WithClock(func() time.Time { return issuedAt.Add(2 * time.Hour) })

	if _, err := service.Resolve(token); !errors.Is(err, ErrSessionTokenInvalid) {
		t.Fatalf("expected ErrSessionTokenInvalid, got %v", err)
	}
}

func TestSessionResolveRejectsTamperedToken(t *testing.T) {
	service, _ := newSessionTestService(t)

	otherCodec, err := security.NewSessionTokenCodec("another-secret", time.Hour, "university-library")
	if err != nil {
		t.Fatalf("NewSessionTokenCodec returned error: %v", err)
	}

	token, err := otherCodec.SignClaims(jwt.MapClaims{"sub": testUserID})
	if err != nil {
		t.Fatalf("SignClaims returned error: %v", err)
	}

	if _, err := service.Resolve(token); !errors.Is(err, ErrSessionTokenInvalid) {
		t.Fatalf("expected ErrSessionTokenInvalid, got %v", err)
	}

	if _, err := service.Resolve(""); !errors.Is(err, ErrSessionTokenInvalid) {
		t.Fatalf("expected ErrSessionTokenInvalid for empty token, got %v", err)
	}
}
