package identity

import (
	"errors"
	"net/http"

	dmn "github.com/beka-birhanu/mazeflood/domain"
	"github.com/beka-birhanu/mazeflood/service/i"
	"github.com/gin-gonic/gin"
)

// IdentityServer handles HTTP requests related to authentication.
type IdentityServer struct {
	authService i.Authenticator
}

// NewIdentityServer creates a new IdentityServer.
func NewIdentityServer(a i.Authenticator) *IdentityServer {
	return &IdentityServer{
		authService: a,
	}
}

// RegisterPublic registers public routes.
func (c *IdentityServer) RegisterPublic(route *gin.RouterGroup) {
	auth := route.Group("/auth")
	{
		auth.POST("/register", c.registerEditor)
		auth.POST("/login", c.login)
	}
}

// RegisterProtected registers privileged routes.
func (c *IdentityServer) RegisterProtected(route *gin.RouterGroup) {
}

// registerEditor handles editor registration.
func (c *IdentityServer) registerEditor(ctx *gin.Context) {
	var request AuthRequest

	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := c.authService.Register(ctx.Request.Context(), request.Username, request.Password)
	switch {
	case errors.Is(err, dmn.ErrUsernameConflict):
		ctx.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	case err != nil:
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	response := gin.H{"message": "Editor registered successfully"}
	ctx.JSON(http.StatusCreated, response)
}

// login handles editor login.
func (c *IdentityServer) login(ctx *gin.Context) {
	var request AuthRequest

	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	editor, token, err := c.authService.SignIn(ctx.Request.Context(), request.Username, request.Password)
	switch {
	case errors.Is(err, dmn.ErrInvalidCredential):
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	case err != nil:
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "could not sign in"})
		return
	}

	response := &AuthResponse{
		ID:       editor.ID.String(),
		Username: editor.Username,
		Token:    token,
	}
	ctx.JSON(http.StatusOK, response)
}
