package identity

import (
	"net/http"
	"strings"

	"github.com/beka-birhanu/mazeflood/service"
	"github.com/beka-birhanu/mazeflood/service/i"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// ContextEditorClaims is the key used to store token claims in the Gin context.
	ContextEditorClaims = "editorClaims"
	// ContextEditorID is the key used to store the authenticated editor's ID in the Gin context.
	ContextEditorID = "editorID"
)

// Authoriz rejects requests without a valid Bearer token and stores the caller's claims and ID.
func Authoriz(ts i.Tokenizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Retrieve the access token from the Authorization header.
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatus(http.StatusUnauthorized) // No token found in the header.
			return
		}

		// Split the "Bearer" prefix from the token.
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			c.AbortWithStatus(http.StatusUnauthorized) // Malformed Authorization header.
			return
		}

		claims, err := ts.Decode(parts[1])
		if err != nil {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		rawID, _ := claims[service.ClaimEditorID].(string)
		editorID, err := uuid.Parse(rawID)
		if err != nil {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		// Attach claims to the request context for further use.
		c.Set(ContextEditorClaims, claims)
		c.Set(ContextEditorID, editorID)
		c.Next()
	}
}

// EditorID returns the ID stored by Authoriz.
func EditorID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(ContextEditorID)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}
