package auth

import (
	"net/http"

	"oficina/internal/middleware"
	"oficina/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// Handler manages all HTTP interactions for accounts
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts /users. auth guards everything past the public
// endpoints; admin is applied on top for /admin.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, auth gin.HandlerFunc) {
	users := rg.Group("/users")
	{
		users.POST("/register", h.Register)
		users.POST("/login", h.Login)
		users.POST("/forgot-password", h.ForgotPassword)
		users.POST("/reset-password/:token", h.ResetPassword)
	}

	protected := users.Group("", auth)
	{
		protected.GET("/profile", h.Profile)
		protected.PUT("/profile", h.UpdateProfile)
		protected.PUT("/change-password", h.ChangePassword)
		protected.POST("/verify-token", h.VerifyToken)
		protected.POST("/logout", h.Logout)
	}

	admin := protected.Group("/admin", middleware.AdminOnly())
	{
		admin.GET("/users", h.ListUsers)
		admin.PUT("/users/:id", h.UpdateUser)
		admin.PUT("/users/:id/deactivate", h.DeactivateUser)
	}
}

// Register creates a client account and returns a session token.
// @Router /users/register [POST]
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, result)
}

// Login exchanges email and password for a token.
// @Router /users/login [POST]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

func (h *Handler) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.service.ForgotPassword(c.Request.Context(), req); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"message": "If the email is registered you will receive reset instructions",
	})
}

func (h *Handler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.service.ResetPassword(c.Request.Context(), c.Param("token"), req); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Password reset"})
}

func (h *Handler) Profile(c *gin.Context) {
	user, err := h.service.Profile(c.Request.Context(), middleware.CallerFrom(c).ID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, user)
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.service.UpdateProfile(c.Request.Context(), middleware.CallerFrom(c).ID, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, user)
}

func (h *Handler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.service.ChangePassword(c.Request.Context(), middleware.CallerFrom(c).ID, req); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Password changed"})
}

func (h *Handler) VerifyToken(c *gin.Context) {
	user, err := h.service.VerifyToken(c.Request.Context(), middleware.CallerFrom(c).ID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"valid": true, "user": user})
}

// Logout is stateless: tokens expire on their own.
func (h *Handler) Logout(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"message": "Logged out"})
}

func (h *Handler) ListUsers(c *gin.Context) {
	var q ListUsersQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	list, err := h.service.ListUsers(c.Request.Context(), q)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, list)
}

func (h *Handler) UpdateUser(c *gin.Context) {
	id, ok := response.PathID(c, "id")
	if !ok {
		return
	}

	var req AdminUpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.service.UpdateUser(c.Request.Context(), id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, user)
}

func (h *Handler) DeactivateUser(c *gin.Context) {
	id, ok := response.PathID(c, "id")
	if !ok {
		return
	}

	user, err := h.service.DeactivateUser(c.Request.Context(), middleware.CallerFrom(c), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, user)
}
