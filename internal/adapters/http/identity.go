package http

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/andrescamacho/portbattle-go/internal/application/auth"
	"github.com/andrescamacho/portbattle-go/internal/domain/shared"
)

// IdentityClaims is the bearer token payload issued by the identity provider.
// The subject is the platform user id.
type IdentityClaims struct {
	DiscordID string   `json:"discord_id,omitempty"`
	Name      string   `json:"name,omitempty"`
	Roles     []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

// identityMiddleware attaches the caller to the request context. Requests
// without a token continue anonymously; a bad token is rejected.
func identityMiddleware(secret, issuer string) fiber.Handler {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}
	parser := jwt.NewParser(opts...)

	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" || secret == "" {
			return c.Next()
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return shared.NewUnauthorizedError("invalid authorization header format")
		}

		var claims IdentityClaims
		token, err := parser.ParseWithClaims(parts[1], &claims, func(*jwt.Token) (interface{}, error) {
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			return shared.NewUnauthorizedError("invalid or expired token")
		}

		id := auth.Identity{
			UserID:      claims.Subject,
			DiscordID:   claims.DiscordID,
			DisplayName: claims.Name,
			Roles:       claims.Roles,
		}
		if id.IsZero() {
			return shared.NewUnauthorizedError("token carries no identity")
		}

		c.SetUserContext(auth.WithIdentity(c.UserContext(), id))
		return c.Next()
	}
}

// SignToken issues an HS256 token for id. Used by the CLI and tests.
func SignToken(secret, issuer string, id auth.Identity, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := IdentityClaims{
		DiscordID: id.DiscordID,
		Name:      id.DisplayName,
		Roles:     id.Roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UserID,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
