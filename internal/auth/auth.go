// Package auth resolves the caller's owner identity from a request.
package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"mynotes/internal/apperr"
)

const ownerKey = "owner"

var (
	ErrMissingToken = errors.New("missing bearer token")
	ErrMissingClaim = errors.New("identity claim is missing")
)

// IdentityResolver extracts an opaque owner id from an authenticated request.
// It fails closed: no identity means an error.
type IdentityResolver interface {
	Resolve(c *fiber.Ctx) (string, error)
}

// ResolverFunc adapts a function to IdentityResolver.
type ResolverFunc func(c *fiber.Ctx) (string, error)

func (f ResolverFunc) Resolve(c *fiber.Ctx) (string, error) { return f(c) }

// JWTResolver reads the owner id from one claim of an HMAC-signed bearer token.
type JWTResolver struct {
	secret []byte
	claim  string
	parser *jwt.Parser
}

var _ IdentityResolver = (*JWTResolver)(nil)

func NewJWTResolver(secret, claim string) *JWTResolver {
	return &JWTResolver{
		secret: []byte(secret),
		claim:  claim,
		parser: jwt.NewParser(jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"})),
	}
}

func (r *JWTResolver) Resolve(c *fiber.Ctx) (string, error) {
	raw, ok := BearerToken(c)
	if !ok {
		return "", apperr.New(apperr.KindUnauthorized, "resolve identity", ErrMissingToken)
	}

	claims := jwt.MapClaims{}
	if _, err := r.parser.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return r.secret, nil
	}); err != nil {
		return "", apperr.New(apperr.KindUnauthorized, "resolve identity", err)
	}

	owner, _ := claims[r.claim].(string)
	if owner == "" {
		return "", apperr.New(apperr.KindUnauthorized, "resolve identity", fmt.Errorf("%w: %s", ErrMissingClaim, r.claim))
	}
	return owner, nil
}

// BearerToken returns the token of an "Authorization: Bearer" header.
func BearerToken(c *fiber.Ctx) (string, bool) {
	h := c.Get(fiber.HeaderAuthorization)
	scheme, token, found := strings.Cut(h, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// RequireIdentity rejects requests without a resolvable identity and stores
// the owner for handlers.
func RequireIdentity(resolver IdentityResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		owner, err := resolver.Resolve(c)
		if err != nil {
			return err
		}
		c.Locals(ownerKey, owner)
		return c.Next()
	}
}

// Owner returns the identity stored by RequireIdentity, or "".
func Owner(c *fiber.Ctx) string {
	owner, _ := c.Locals(ownerKey).(string)
	return owner
}
