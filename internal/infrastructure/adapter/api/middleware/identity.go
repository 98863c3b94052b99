package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/summitaiAU/invoice-lockd/internal/domain/entity"
	domainerr "github.com/summitaiAU/invoice-lockd/internal/domain/error"
	"github.com/summitaiAU/invoice-lockd/internal/infrastructure/adapter/api/dto"
)

// Header names the authentication gateway attaches to each request
const (
	HeaderUserID    = "X-User-ID"
	HeaderUserEmail = "X-User-Email"
)

// identityKey is the gin context key holding the caller's identity
const identityKey = "caller_identity"

// Identity middleware extracts the acting user from the gateway headers.
// Requests without both headers are rejected; the service trusts the
// gateway and never authenticates anyone itself.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := entity.Identity{
			UserID: c.GetHeader(HeaderUserID),
			Email:  c.GetHeader(HeaderUserEmail),
		}
		if err := user.Validate(); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{
				Code:    domainerr.ErrorCode(domainerr.ErrInvalidIdentity),
				Message: "Missing required headers: X-User-ID, X-User-Email",
			})
			return
		}

		c.Set(identityKey, user)
		c.Next()
	}
}

// CallerIdentity returns the identity the Identity middleware attached to
// the request. The boolean is false on routes that skip the middleware.
func CallerIdentity(c *gin.Context) (entity.Identity, bool) {
	value, exists := c.Get(identityKey)
	if !exists {
		return entity.Identity{}, false
	}
	user, ok := value.(entity.Identity)
	return user, ok
}
