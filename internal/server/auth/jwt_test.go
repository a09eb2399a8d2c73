package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/fittrackio/fittrack/internal/common"
)

func newManager(t *testing.T, secret string, validity time.Duration, now func() time.Time) *TokenManager {
	t.Helper()
	m, err := NewTokenManager([]byte(secret), validity, now)
	if err != nil {
		t.Fatalf("NewTokenManager error: %v", err)
	}
	return m
}

func TestIssueAndValidate_Success(t *testing.T) {
	t.Parallel()

	m := newManager(t, "super-secret", time.Hour, nil)

	tok, err := m.Issue("alice")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	subject, err := m.Validate(tok)
	if err != nil {
		t.Fatalf("Validate error: %v", err)
	}
	if subject != "alice" {
		t.Fatalf("subject mismatch: got %q want %q", subject, "alice")
	}
}

func TestValidate_ExpiredByInjectedClock(t *testing.T) {
	t.Parallel()

	issuedAt := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	validity := 30 * time.Minute

	clock := issuedAt
	m := newManager(t, "secret", validity, func() time.Time { return clock })

	tok, err := m.Issue("bob")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	// still valid right up to the deadline
	clock = issuedAt.Add(validity - time.Second)
	if _, err := m.Validate(tok); err != nil {
		t.Fatalf("token should still be valid before expiry: %v", err)
	}

	// one second past the deadline
	clock = issuedAt.Add(validity + time.Second)
	_, err = m.Validate(tok)
	if !errors.Is(err, common.ErrorTokenExpired) {
		t.Fatalf("want ErrorTokenExpired, got %v", err)
	}
}

func TestValidate_WrongSecret(t *testing.T) {
	t.Parallel()

	issuer := newManager(t, "right-secret", time.Hour, nil)
	verifier := newManager(t, "wrong-secret", time.Hour, nil)

	tok, err := issuer.Issue("carol")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	_, err = verifier.Validate(tok)
	if !errors.Is(err, common.ErrorInvalidSignature) {
		t.Fatalf("want ErrorInvalidSignature, got %v", err)
	}
}

func TestValidate_TamperedSignature(t *testing.T) {
	t.Parallel()

	m := newManager(t, "secret", time.Hour, nil)

	tok, err := m.Issue("dave")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	// flip one byte in the signature segment
	b := []byte(tok)
	last := len(b) - 1
	if b[last] == 'A' {
		b[last] = 'B'
	} else {
		b[last] = 'A'
	}

	_, err = m.Validate(string(b))
	if err == nil {
		t.Fatalf("tampered token must never validate")
	}
	if !errors.Is(err, common.ErrorInvalidSignature) && !errors.Is(err, common.ErrorMalformedToken) {
		t.Fatalf("want signature or malformed error, got %v", err)
	}
}

func TestValidate_MalformedString(t *testing.T) {
	t.Parallel()

	m := newManager(t, "k", time.Hour, nil)

	for _, tok := range []string{"", "not.a.jwt", "a.b", "....."} {
		_, err := m.Validate(tok)
		if !errors.Is(err, common.ErrorMalformedToken) {
			t.Fatalf("Validate(%q): want ErrorMalformedToken, got %v", tok, err)
		}
	}
}

func TestNewTokenManager_EmptySecret(t *testing.T) {
	t.Parallel()

	_, err := NewTokenManager(nil, time.Hour, nil)
	if !errors.Is(err, common.ErrorConfig) {
		t.Fatalf("want ErrorConfig for empty secret, got %v", err)
	}
}
