package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/ed-platform/account-service/pkg/util"
)

const identityKey = "auth_identity"

// Identity is the decoded claim set attached to an authenticated request. It
// lives for the duration of the request only.
type Identity struct {
	SubjectID int64
	Phone     string
	Role      string
	Name      string
	Language  string
}

// Guard is the default-deny authentication gate. Every route passes through
// it; only routes registered in the public set at construction time skip
// token handling.
type Guard struct {
	tokens *TokenManager
	public map[string]struct{}
}

// NewGuard builds the gate. Public routes are "METHOD /path" strings fixed at
// startup.
func NewGuard(tokens *TokenManager, publicRoutes []string) *Guard {
	public := make(map[string]struct{}, len(publicRoutes))
	for _, route := range publicRoutes {
		public[route] = struct{}{}
	}
	return &Guard{tokens: tokens, public: public}
}

// Handle rejects the request unless the route is public or a valid bearer
// token is presented. On success the decoded identity is attached to the
// request context.
func (g *Guard) Handle(c *fiber.Ctx) error {
	if _, ok := g.public[c.Method()+" "+c.Path()]; ok {
		return c.Next()
	}

	token, ok := bearerToken(c)
	if !ok {
		return apperrors.NewUnauthorized("Unauthorized access")
	}

	claims, err := g.tokens.Verify(token)
	if err != nil {
		switch {
		case errors.Is(err, ErrTokenExpired):
			return apperrors.NewUnauthorized("Token expired")
		case errors.Is(err, ErrTokenMalformed):
			return apperrors.NewUnauthorized("Invalid token")
		default:
			return apperrors.NewUnauthorized("Unauthorized access")
		}
	}

	identity, err := identityFromClaims(claims)
	if err != nil {
		return apperrors.NewUnauthorized("Unauthorized access")
	}

	c.Locals(identityKey, identity)
	return c.Next()
}

// SoftIdentity best-effort decorates the request with an identity. It never
// rejects: absent or unverifiable tokens pass through without identity.
func SoftIdentity(tokens *TokenManager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := bearerToken(c)
		if !ok {
			return c.Next()
		}
		claims, err := tokens.Verify(token)
		if err != nil {
			return c.Next()
		}
		if identity, err := identityFromClaims(claims); err == nil {
			c.Locals(identityKey, identity)
		}
		return c.Next()
	}
}

// IdentityFromContext retrieves the authenticated identity, if any.
func IdentityFromContext(c *fiber.Ctx) (*Identity, bool) {
	val := c.Locals(identityKey)
	if val == nil {
		return nil, false
	}
	identity, ok := val.(*Identity)
	return identity, ok
}

func identityFromClaims(claims *Claims) (*Identity, error) {
	subjectID, err := claims.SubjectID()
	if err != nil {
		return nil, err
	}
	return &Identity{
		SubjectID: subjectID,
		Phone:     claims.Phone,
		Role:      claims.Role,
		Name:      claims.Name,
		Language:  claims.Language,
	}, nil
}

func bearerToken(c *fiber.Ctx) (string, bool) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}
