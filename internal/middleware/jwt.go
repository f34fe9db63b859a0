package middleware

import (
	"errors"   // Error inspection
	"net/http" // HTTP status codes
	"strings"  // String manipulation

	"task_manager/internal/domain" // Importing domain models
	"task_manager/internal/utils"  // JWT utility functions

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library
)

const principalKey = "principal"

// Authentication failure messages
const (
	MsgNoToken      = "No token, authorization denied"
	MsgInvalidToken = "Invalid token"
	MsgUserNotFound = "User not found"
)

// JWTAuthMiddleware resolves the bearer token into a Principal.
// The user is re-read on every request so deleted or changed accounts stop acting on old tokens.
func JWTAuthMiddleware(db *gorm.DB, secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": MsgNoToken})
			return
		}
		claims, err := utils.ParseJWT(tokenStr, secret)
		if err != nil {
			logrus.WithField("error", err.Error()).Debug("Token rejected")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": MsgInvalidToken})
			return
		}
		var user domain.User
		err = db.WithContext(c.Request.Context()).First(&user, "id = ?", claims.UserID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": MsgUserNotFound})
			return
		}
		if err != nil {
			logrus.WithFields(logrus.Fields{"user_id": claims.UserID, "error": err.Error()}).Error("Principal lookup failed")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": MsgInternal})
			return
		}
		c.Set(principalKey, domain.NewPrincipal(&user))
		c.Next()
	}
}

// bearerToken extracts the token from "<scheme> <token>". Any other shape counts as no token.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// CurrentPrincipal returns the principal attached by JWTAuthMiddleware
func CurrentPrincipal(c *gin.Context) (domain.Principal, bool) {
	v, exists := c.Get(principalKey)
	if !exists {
		return domain.Principal{}, false
	}
	p, ok := v.(domain.Principal)
	return p, ok
}
