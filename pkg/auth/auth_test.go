package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/suite"
)

// AuthTestSuite tests token verification and the echo middleware.
type AuthTestSuite struct {
	suite.Suite
	secret   []byte
	verifier *Verifier
}

// SetupTest runs before each test.
func (s *AuthTestSuite) SetupTest() {
	s.secret = []byte("test-auth-secret")
	s.verifier = NewVerifier(string(s.secret))
}

func (s *AuthTestSuite) token(userID string, expiresAt time.Time) string {
	token, err := IssueToken(userID, s.secret, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	})
	s.Require().NoError(err)
	return token
}

// TestVerifyToken tests a valid token.
func (s *AuthTestSuite) TestVerifyToken() {
	principal, err := s.verifier.VerifyToken(s.token("alice", time.Now().Add(time.Hour)))
	s.Require().NoError(err)
	s.Equal("alice", principal.UserID)
}

// TestVerifyTokenSubjectFallback tests falling back to the sub claim.
func (s *AuthTestSuite) TestVerifyTokenSubjectFallback() {
	token, err := IssueToken("", s.secret, jwt.RegisteredClaims{
		Subject:   "bob",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	s.Require().NoError(err)

	principal, err := s.verifier.VerifyToken(token)
	s.Require().NoError(err)
	s.Equal("bob", principal.UserID)
}

// TestVerifyTokenFailures tests expired, garbled, and wrongly signed
// tokens plus tokens with no identity.
func (s *AuthTestSuite) TestVerifyTokenFailures() {
	_, err := s.verifier.VerifyToken(s.token("alice", time.Now().Add(-time.Hour)))
	s.ErrorIs(err, ErrInvalidToken)

	_, err = s.verifier.VerifyToken("not.a.token")
	s.ErrorIs(err, ErrInvalidToken)

	foreign, err := IssueToken("alice", []byte("other-secret"), jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	s.Require().NoError(err)
	_, err = s.verifier.VerifyToken(foreign)
	s.ErrorIs(err, ErrInvalidToken)

	anonymous, err := IssueToken("", s.secret, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	s.Require().NoError(err)
	_, err = s.verifier.VerifyToken(anonymous)
	s.ErrorIs(err, ErrInvalidToken)
}

// TestMiddleware tests bearer extraction and principal storage.
func (s *AuthTestSuite) TestMiddleware() {
	e := echo.New()
	handler := s.verifier.Middleware()(func(ctx echo.Context) error {
		principal, ok := PrincipalFrom(ctx)
		s.Require().True(ok)
		return ctx.String(http.StatusOK, principal.UserID)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+s.token("alice", time.Now().Add(time.Hour)))
	rec := httptest.NewRecorder()
	s.Require().NoError(handler(e.NewContext(req, rec)))
	s.Equal(http.StatusOK, rec.Code)
	s.Equal("alice", rec.Body.String())
}

// TestMiddlewareRejections tests missing and invalid credentials.
func (s *AuthTestSuite) TestMiddlewareRejections() {
	e := echo.New()
	handler := s.verifier.Middleware()(func(ctx echo.Context) error {
		return ctx.NoContent(http.StatusOK)
	})

	testCases := []struct {
		header  string
		message string
	}{
		{"", "no header"},
		{"Bearer ", "empty token"},
		{"Basic dXNlcjpwYXNz", "wrong scheme"},
		{"Bearer garbage", "unparseable token"},
	}

	for _, tc := range testCases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if tc.header != "" {
			req.Header.Set(echo.HeaderAuthorization, tc.header)
		}
		rec := httptest.NewRecorder()
		s.Require().NoError(handler(e.NewContext(req, rec)), tc.message)
		s.Equal(http.StatusUnauthorized, rec.Code, tc.message)
	}
}

func TestAuthTestSuite(t *testing.T) {
	suite.Run(t, new(AuthTestSuite))
}
