package middleware

import (
	"context"
	"log"
	"net/http"
	"strings"

	"userhub/internal/domain"
	jwtpkg "userhub/internal/pkg/jwt"

	"github.com/gin-gonic/gin"
)

const (
	// ContextUserID holds the authenticated account id, when any.
	ContextUserID = "user_id"
	// ContextUserLogged holds the domain.UserLogged actor snapshot.
	ContextUserLogged = "user_logged"
	// ContextUserRoles holds the []domain.Role of the authenticated user.
	ContextUserRoles = "user_roles"
)

// IdentityReader loads the identity record behind a verified token.
type IdentityReader interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

// RevocationChecker answers whether a token sits in the revocation ledger.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, token string) (bool, error)
}

// AccessParser verifies an access token signature and expiry.
type AccessParser interface {
	ParseAccess(tokenStr string) (*jwtpkg.Claims, error)
}

// Authenticate is the request gateway. Order matters: a revoked token is
// rejected outright even when its signature no longer verifies, a token
// that merely fails verification demotes the request to anonymous, and a
// verified token hydrates the actor snapshot into the context. Anonymous
// requests pass through; route guards decide what they may reach.
func Authenticate(tokens AccessParser, blacklist RevocationChecker, users IdentityReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractBearer(c)
		if token == "" {
			c.Next()
			return
		}

		revoked, err := blacklist.IsRevoked(c.Request.Context(), token)
		if err != nil {
			log.Printf("auth_gateway check=revocation error=%v", err)
			abortUnauthorized(c, "Could not verify token")
			return
		}
		if revoked {
			abortUnauthorized(c, "Token has been revoked")
			return
		}

		claims, err := tokens.ParseAccess(token)
		if err != nil {
			// Bad signature or expired: anonymous, not an error.
			c.Next()
			return
		}

		user, err := users.GetByID(c.Request.Context(), claims.UserID)
		if err != nil {
			c.Next()
			return
		}

		c.Set(ContextUserID, user.ID)
		c.Set(ContextUserLogged, user.AsActor())
		c.Set(ContextUserRoles, []domain.Role(user.Roles))
		c.Next()
	}
}

// RequireAuth rejects requests the gateway left anonymous.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(ContextUserID) == "" {
			abortUnauthorized(c, "Authentication required")
			return
		}
		c.Next()
	}
}

// RequireRoles lets the request through when the actor holds at least one
// of the listed roles.
func RequireRoles(roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		held, exists := c.Get(ContextUserRoles)
		if !exists {
			abortUnauthorized(c, "Authentication required")
			return
		}

		heldRoles, ok := held.([]domain.Role)
		if ok {
			for _, need := range roles {
				for _, have := range heldRoles {
					if need == have {
						c.Next()
						return
					}
				}
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"success": false,
			"error":   gin.H{"code": "FORBIDDEN", "message": "Access denied: insufficient permissions"},
		})
	}
}

// Actor returns the actor snapshot set by the gateway, or the zero value
// for anonymous requests.
func Actor(c *gin.Context) domain.UserLogged {
	if v, exists := c.Get(ContextUserLogged); exists {
		if actor, ok := v.(domain.UserLogged); ok {
			return actor
		}
	}
	return domain.UserLogged{}
}

func extractBearer(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error":   gin.H{"code": "UNAUTHORIZED", "message": message},
	})
}
