package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	mem "xplore/pkg/memcache"
	"xplore/pkg/utils"
)

const (
	ContextUserID = "user_id"
	ContextRole   = "Role"
	ContextClaims = "claims"
	ContextToken  = "token"
)

type Authenticator struct {
	issuer *utils.TokenIssuer
	store  mem.TokenStore
}

func NewAuthenticator(issuer *utils.TokenIssuer, store mem.TokenStore) *Authenticator {
	return &Authenticator{issuer: issuer, store: store}
}

// JWTAuthMiddleware rejects requests without a valid, non-revoked bearer token.
func (a *Authenticator) JWTAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			utils.RespondError(c, http.StatusUnauthorized, "Authorization header missing or invalid")
			c.Abort()
			return
		}
		if !a.authenticate(c, tokenString) {
			utils.RespondError(c, http.StatusUnauthorized, "Invalid or expired token")
			c.Abort()
			return
		}
		c.Next()
	}
}

// OptionalJWTMiddleware identifies the caller when a token is present. A bad
// token is still an error so clients notice an expired session.
func (a *Authenticator) OptionalJWTMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			c.Next()
			return
		}
		if !a.authenticate(c, tokenString) {
			utils.RespondError(c, http.StatusUnauthorized, "Invalid or expired token")
			c.Abort()
			return
		}
		c.Next()
	}
}

func (a *Authenticator) authenticate(c *gin.Context, tokenString string) bool {
	claims, err := a.issuer.ValidateToken(tokenString)
	if err != nil {
		return false
	}
	if a.store != nil {
		revoked, err := a.store.IsRevoked(c.Request.Context(), tokenString)
		if err != nil || revoked {
			return false
		}
	}

	c.Set(ContextUserID, claims.UserID)
	c.Set(ContextRole, claims.Role)
	c.Set(ContextClaims, claims)
	c.Set(ContextToken, tokenString)
	return true
}

func RoleMiddleware(requiredRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(ContextRole) != requiredRole {
			utils.RespondError(c, http.StatusForbidden, "Forbidden: insufficient permissions")
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentUserID returns the authenticated caller, if any.
func CurrentUserID(c *gin.Context) (uuid.UUID, bool) {
	raw := c.GetString(ContextUserID)
	if raw == "" {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) <= 7 || !strings.EqualFold(authHeader[:7], "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(authHeader[7:])
	return token, token != ""
}
