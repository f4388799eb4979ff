package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	iauth "github.com/ndemidov/campusforum/internal/auth"
	"github.com/ndemidov/campusforum/internal/models"
	"github.com/ndemidov/campusforum/pkg/errors"
	"github.com/ndemidov/campusforum/pkg/response"
)

const (
	// CtxUserKey holds the resolved *models.User for the request.
	CtxUserKey = "authUser"
	// CtxUserEmailKey holds the authenticated email for logging and handlers.
	CtxUserEmailKey = "userEmail"
)

// Auth guards privileged routes. It validates the bearer token AND resolves
// the subject to an existing user record; both failure modes collapse into
// the same 401 so callers learn nothing about which check rejected them.
func Auth(resolver *iauth.SessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		authz := c.GetHeader("Authorization")
		if len(authz) < 8 || !strings.EqualFold(authz[:7], "Bearer ") {
			response.Error(c, errors.ErrUnauthorized)
			c.Abort()
			return
		}

		token := strings.TrimSpace(authz[7:])
		user, err := resolver.Resolve(c.Request.Context(), token)
		if err != nil {
			c.Header("WWW-Authenticate", "Bearer")
			response.Error(c, errors.ErrUnauthorized)
			c.Abort()
			return
		}

		c.Set(CtxUserKey, user)
		c.Set(CtxUserEmailKey, user.Email)

		c.Next()
	}
}

// CurrentUser returns the user resolved by Auth, if any.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(CtxUserKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok
}
