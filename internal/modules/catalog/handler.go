package catalog

import (
	"net/http"

	"oficina/internal/middleware"
	"oficina/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
	cache   gin.HandlerFunc
}

// NewHandler takes the response cache applied to the public reads.
func NewHandler(service *Service, cache gin.HandlerFunc) *Handler {
	return &Handler{service: service, cache: cache}
}

// RegisterRoutes mounts /catalogo. optional must run before the cache so
// that authenticated callers skip it.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, optional, auth gin.HandlerFunc) {
	public := rg.Group("/catalogo", optional, h.cache)
	{
		public.GET("", h.List)
		public.GET("/categorias", h.Categories)
		public.GET("/tags", h.Tags)
		public.GET("/:id", h.Details)
	}

	admin := rg.Group("/catalogo/admin", auth, middleware.AdminOnly())
	{
		admin.POST("", h.Create)
		admin.GET("/todos", h.ListAll)
		admin.PUT("/:id", h.Update)
		admin.DELETE("/:id", h.Deactivate)
	}
}

// @Router /catalogo [GET]
func (h *Handler) List(c *gin.Context) {
	var q ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	page, err := h.service.List(c.Request.Context(), middleware.CallerFrom(c), q)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, page)
}

// @Router /catalogo/{id} [GET]
func (h *Handler) Details(c *gin.Context) {
	id, ok := response.PathID(c, "id")
	if !ok {
		return
	}

	details, err := h.service.Details(c.Request.Context(), middleware.CallerFrom(c), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, details)
}

func (h *Handler) Categories(c *gin.Context) {
	categories, err := h.service.Categories(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, categories)
}

func (h *Handler) Tags(c *gin.Context) {
	tags, err := h.service.Tags(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, tags)
}

func (h *Handler) ListAll(c *gin.Context) {
	var q AdminListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	page, err := h.service.ListAll(c.Request.Context(), q)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, page)
}

func (h *Handler) Create(c *gin.Context) {
	var req EntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	e, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, e)
}

func (h *Handler) Update(c *gin.Context) {
	id, ok := response.PathID(c, "id")
	if !ok {
		return
	}

	var req EntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	e, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, e)
}

func (h *Handler) Deactivate(c *gin.Context) {
	id, ok := response.PathID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Deactivate(c.Request.Context(), id); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Catalog entry deactivated"})
}
