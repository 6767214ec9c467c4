package favorite

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
	favoritos := rg.Group("/favoritos", auth)
	{
		favoritos.POST("", h.Add)
		favoritos.GET("", h.List)
		favoritos.DELETE("/:catalogoServicoId", h.Remove)
	}
}

func (h *Handler) Add(c *gin.Context) {
	var req AddFavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	fav, err := h.service.Add(c.Request.Context(), middleware.CallerFrom(c), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, fav)
}

func (h *Handler) Remove(c *gin.Context) {
	entryID, ok := response.PathID(c, "catalogoServicoId")
	if !ok {
		return
	}

	if err := h.service.Remove(c.Request.Context(), middleware.CallerFrom(c), entryID); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Removed from favorites"})
}

func (h *Handler) List(c *gin.Context) {
	items, err := h.service.List(c.Request.Context(), middleware.CallerFrom(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, items)
}
