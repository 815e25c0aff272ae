package echoapi

import (
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/trezcool/idara/core"
)

// appJWTConfig is the default session middleware config. Sessions are
// established by the external OAuth sign-in flow, which issues a signed
// token carrying the staff member's email; this server only verifies it.
var appJWTConfig = middleware.JWTConfig{
	SigningKey:    []byte(core.Conf.SecretKey),
	SigningMethod: middleware.AlgorithmHS256,
	ContextKey:    "sessionToken",
	Claims:        new(Claims),
}

// Claims is the session payload; Email identifies the record owner.
type Claims struct {
	jwt.StandardClaims
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
}

// NewSessionClaims builds the claims the sign-in collaborator would issue.
func NewSessionClaims(email, name string) *Claims {
	now := time.Now()
	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    core.Conf.AppName,
			Subject:   email,
			ExpiresAt: now.Add(core.Conf.Server.SessionMaxLifetime).Unix(),
			IssuedAt:  now.Unix(),
		},
		Email: email,
		Name:  name,
	}
}

// GenerateToken signs the session claims; exposed for the admin CLI and
// tests which stand in for the sign-in collaborator.
func GenerateToken(claims *Claims) (string, error) {
	method := jwt.GetSigningMethod(appJWTConfig.SigningMethod)
	token := jwt.NewWithClaims(method, claims)

	ss, err := token.SignedString(appJWTConfig.SigningKey.([]byte))
	if err != nil {
		return "", errTokenSigning
	}
	return ss, nil
}

// getContextEmail resolves the authenticated user's email from the session
// token. Absence of an email is always treated as unauthenticated.
func getContextEmail(ctx echo.Context) (string, error) {
	if token, ok := ctx.Get(appJWTConfig.ContextKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok && claims.Email != "" {
			return claims.Email, nil
		}
	}
	return "", errUnauthorized
}
