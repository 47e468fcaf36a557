package middleware

import (
	"net/http"
	"strings"

	"github.com/Aravind-508/SpiceRoute/config"
	"github.com/Aravind-508/SpiceRoute/models"
	"github.com/Aravind-508/SpiceRoute/utils"
	"github.com/gin-gonic/gin"
)

// AuthMiddleware requires a valid bearer token and loads the user into the
// context
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := userFromRequest(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Please login for access"})
			c.Abort()
			return
		}
		if user.IsBlocked {
			utils.LogError("Blocked user %d attempted access", user.ID)
			c.JSON(http.StatusForbidden, gin.H{"error": "Account is blocked"})
			c.Abort()
			return
		}
		c.Set("user", *user)
		c.Next()
	}
}

// OptionalAuthMiddleware loads the user when a valid token is present but
// lets anonymous requests through; order placement accepts guests
func OptionalAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if user, ok := userFromRequest(c); ok && !user.IsBlocked {
			c.Set("user", *user)
		}
		c.Next()
	}
}

// AdminMiddleware requires an authenticated admin account
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := userFromRequest(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Please login for access"})
			c.Abort()
			return
		}
		if !user.IsAdmin {
			utils.LogError("Non-admin user %d attempted admin access", user.ID)
			c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			c.Abort()
			return
		}
		c.Set("admin", *user)
		c.Next()
	}
}

func userFromRequest(c *gin.Context) (*models.User, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, false
	}

	tokenString := strings.Replace(authHeader, "Bearer ", "", 1)
	userID, err := utils.ValidateToken(tokenString)
	if err != nil {
		utils.LogError("Invalid token: %v", err)
		return nil, false
	}

	var user models.User
	if err := config.DB.First(&user, userID).Error; err != nil {
		utils.LogError("Token user %d not found: %v", userID, err)
		return nil, false
	}
	return &user, true
}
