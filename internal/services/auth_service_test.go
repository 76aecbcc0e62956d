package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"clinicdesk-backend/internal/apperr"
	"clinicdesk-backend/internal/repo"
	"clinicdesk-backend/internal/testdb"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

func newAuthService(t *testing.T) *AuthService {
	t.Helper()
	return NewAuthService(repo.NewUserRepository(testdb.Open(t)), "test-secret", 0).WithHashCost(bcrypt.MinCost)
}

func TestRegisterHashesPassword(t *testing.T) {
	s := newAuthService(t)
	u, err := s.Register(context.Background(), "Dana Staff", "Dana@Clinic.org", "hunter22")
	if err != nil {
		t.Fatal(err)
	}
	if u.Role != "STAFF" || u.Email != "dana@clinic.org" {
		t.Errorf("unexpected user %+v", u)
	}
	if u.PasswordHash == "hunter22" || !strings.HasPrefix(u.PasswordHash, "$2") {
		t.Errorf("password not bcrypt hashed: %q", u.PasswordHash)
	}
}

func TestRegisterErrors(t *testing.T) {
	s := newAuthService(t)
	ctx := context.Background()
	if _, err := s.Register(ctx, "Dana", "dana@clinic.org", "hunter22"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Register(ctx, "Dana Again", "DANA@clinic.org", "other-pass"); !errors.Is(err, apperr.ErrDuplicate) {
		t.Errorf("second register: %v", err)
	}
	for _, in := range [][3]string{{"", "a@b.c", "hunter22"}, {"A", "", "hunter22"}, {"A", "a@b.c", ""}, {"A", "a@b.c", "123"}} {
		if _, err := s.Register(ctx, in[0], in[1], in[2]); !errors.Is(err, apperr.ErrValidation) {
			t.Errorf("Register(%q) err = %v, want validation", in, err)
		}
	}
}

func TestLogin(t *testing.T) {
	s := newAuthService(t)
	ctx := context.Background()
	u, err := s.Register(ctx, "Dana Staff", "dana@clinic.org", "hunter22")
	if err != nil {
		t.Fatal(err)
	}

	session, ok, err := s.Login(ctx, "dana@clinic.org", "wrong-password")
	if err != nil || ok || session != nil {
		t.Fatalf("wrong password: %v %v %v", session, ok, err)
	}
	session, ok, err = s.Login(ctx, "nobody@clinic.org", "hunter22")
	if err != nil || ok || session != nil {
		t.Fatalf("unknown email: %v %v %v", session, ok, err)
	}

	session, ok, err = s.Login(ctx, " DANA@clinic.org", "hunter22")
	if err != nil || !ok {
		t.Fatalf("login: %v %v", ok, err)
	}
	if session.Role != "STAFF" || session.FullName != "Dana Staff" || session.Token == "" {
		t.Errorf("session = %+v", session)
	}

	claims, err := s.ParseToken(session.Token)
	if err != nil {
		t.Fatal(err)
	}
	if claims.UserID != u.ID.String() || claims.Role != "STAFF" {
		t.Errorf("claims = %+v", claims)
	}
	if ttl := claims.ExpiresAt.Sub(claims.IssuedAt.Time); ttl != 24*time.Hour {
		t.Errorf("token ttl = %s, want 24h", ttl)
	}

	me, err := s.Me(ctx, u.ID)
	if err != nil || me.Email != "dana@clinic.org" {
		t.Errorf("Me = %v, %v", me, err)
	}
}

func TestParseTokenRejects(t *testing.T) {
	s := newAuthService(t)
	ctx := context.Background()
	if _, err := s.Register(ctx, "Dana Staff", "dana@clinic.org", "hunter22"); err != nil {
		t.Fatal(err)
	}
	issued := time.Now()
	s.WithClock(func() time.Time { return issued })
	session, _, err := s.Login(ctx, "dana@clinic.org", "hunter22")
	if err != nil {
		t.Fatal(err)
	}

	s.WithClock(func() time.Time { return issued.Add(23 * time.Hour) })
	if _, err := s.ParseToken(session.Token); err != nil {
		t.Errorf("token rejected before expiry: %v", err)
	}
	s.WithClock(func() time.Time { return issued.Add(25 * time.Hour) })
	if _, err := s.ParseToken(session.Token); !errors.Is(err, apperr.ErrUnauthorized) {
		t.Errorf("expired token: %v", err)
	}
	s.WithClock(time.Now)

	other := NewAuthService(nil, "another-secret", 0)
	if _, err := other.ParseToken(session.Token); !errors.Is(err, apperr.ErrUnauthorized) {
		t.Errorf("foreign signature: %v", err)
	}

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: uuid.NewString()}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.ParseToken(none); !errors.Is(err, apperr.ErrUnauthorized) {
		t.Errorf("alg none: %v", err)
	}

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{UserID: uuid.NewString()}).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.ParseToken(noExpiry); !errors.Is(err, apperr.ErrUnauthorized) {
		t.Errorf("token without exp: %v", err)
	}

	if _, err := s.ParseToken("not-a-jwt"); !errors.Is(err, apperr.ErrUnauthorized) {
		t.Errorf("garbage: %v", err)
	}
}
