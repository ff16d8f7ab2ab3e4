// Package auth turns bearer tokens into verified principals. Token
// issuance and key distribution live elsewhere; this package only
// consumes HS256-signed tokens with a shared secret.
package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// ErrInvalidToken is returned for missing, malformed, expired, or
// incorrectly signed tokens.
var ErrInvalidToken = errors.New("invalid token")

// principalContextKey stores the verified principal in the echo context.
const principalContextKey = "vaultfs.principal"

// Principal is the verified identity behind a request.
type Principal struct {
	UserID string
}

// Claims carries the registered claims plus the user identifier.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
}

// Verifier validates bearer tokens against a shared secret.
type Verifier struct {
	secret []byte
}

// NewVerifier creates a Verifier for the given shared secret.
func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// VerifyToken parses and validates a token string, returning the
// principal it identifies.
func (v *Verifier) VerifyToken(tokenString string) (*Principal, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, ErrInvalidToken
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	userID := claims.UserID
	if userID == "" {
		userID = claims.Subject
	}
	if userID == "" {
		return nil, ErrInvalidToken
	}
	return &Principal{UserID: userID}, nil
}

// Middleware rejects requests without a valid bearer token and stores
// the principal in the request context.
func (v *Verifier) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			header := ctx.Request().Header.Get(echo.HeaderAuthorization)
			tokenString, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || tokenString == "" {
				return ctx.JSON(http.StatusUnauthorized, map[string]string{
					"error": "missing bearer token",
				})
			}

			principal, err := v.VerifyToken(tokenString)
			if err != nil {
				return ctx.JSON(http.StatusUnauthorized, map[string]string{
					"error": "invalid token",
				})
			}

			ctx.Set(principalContextKey, principal)
			return next(ctx)
		}
	}
}

// PrincipalFrom retrieves the verified principal stored by Middleware.
func PrincipalFrom(ctx echo.Context) (*Principal, bool) {
	principal, ok := ctx.Get(principalContextKey).(*Principal)
	return principal, ok
}

// IssueToken mints an HS256 token for userID. Kept for tests and local
// tooling; production issuance is an external concern.
func IssueToken(userID string, secret []byte, claims jwt.RegisteredClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: claims,
		UserID:           userID,
	})
	return token.SignedString(secret)
}
