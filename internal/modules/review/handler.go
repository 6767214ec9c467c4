package review

import (
	"net/http"

	"oficina/internal/middleware"
	"oficina/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, auth gin.HandlerFunc) {
	avaliacoes := rg.Group("/avaliacoes", auth)
	{
		avaliacoes.POST("", h.Create)
		avaliacoes.GET("/minhas", h.Mine)
		avaliacoes.PUT("/:id", h.Update)
		avaliacoes.DELETE("/:id", h.Delete)
	}

	admin := avaliacoes.Group("/admin", middleware.AdminOnly())
	{
		admin.GET("/pendentes", h.Pending)
		admin.PUT("/:id/aprovar", h.Approve)
	}
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	rv, err := h.service.Create(c.Request.Context(), middleware.CallerFrom(c), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, rv)
}

func (h *Handler) Update(c *gin.Context) {
	id, ok := response.PathID(c, "id")
	if !ok {
		return
	}

	var req UpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	rv, err := h.service.Update(c.Request.Context(), middleware.CallerFrom(c), id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, rv)
}

func (h *Handler) Delete(c *gin.Context) {
	id, ok := response.PathID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), middleware.CallerFrom(c), id); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Review deleted"})
}

func (h *Handler) Mine(c *gin.Context) {
	reviews, err := h.service.Mine(c.Request.Context(), middleware.CallerFrom(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, reviews)
}

func (h *Handler) Approve(c *gin.Context) {
	id, ok := response.PathID(c, "id")
	if !ok {
		return
	}

	rv, err := h.service.Approve(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, rv)
}

func (h *Handler) Pending(c *gin.Context) {
	reviews, err := h.service.Pending(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, reviews)
}
