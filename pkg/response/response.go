package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// The API speaks a small fixed envelope set:
//   auth success:    {"success": true, "user": ..., "token": ...}
//   profile success: {"user": ...}
//   any failure:     {"error": message}
//   health:          {"status": "OK", "timestamp": ...}

func Auth(c *gin.Context, status int, user any, token string) {
	c.JSON(status, gin.H{
		"success": true,
		"user":    user,
		"token":   token,
	})
}

func User(c *gin.Context, user any) {
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func Error(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// AbortError writes the error body and stops the handler chain. Used by
// middleware so downstream operations are never reached.
func AbortError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "OK",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
