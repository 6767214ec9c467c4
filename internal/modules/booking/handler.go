package booking

import (
	"errors"
	"io"
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

// RegisterRoutes mounts /servicos. Reports and vehicle history share the
// prefix and are registered by the report module.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, auth gin.HandlerFunc) {
	servicos := rg.Group("/servicos", auth)
	{
		servicos.POST("", h.Create)
		servicos.GET("", h.List)
		servicos.GET("/:id", h.Get)
	}

	admin := servicos.Group("", middleware.AdminOnly())
	{
		admin.PUT("/:id", h.Update)
		admin.DELETE("/:id", h.Delete)
		admin.PUT("/:id/confirmar", h.Confirm)
		admin.PUT("/:id/iniciar", h.Start)
		admin.PUT("/:id/concluir", h.Complete)
		admin.PUT("/:id/cancelar", h.Cancel)
	}
}

// Create books a service for one of the caller's vehicles.
// @Router /servicos [POST]
func (h *Handler) Create(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	b, err := h.service.Create(c.Request.Context(), middleware.CallerFrom(c), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, b)
}

// List returns a page of bookings visible to the caller.
// @Router /servicos [GET]
func (h *Handler) List(c *gin.Context) {
	var q ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	list, err := h.service.List(c.Request.Context(), middleware.CallerFrom(c), q)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, list)
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := response.PathID(c, "id")
	if !ok {
		return
	}

	b, err := h.service.Get(c.Request.Context(), middleware.CallerFrom(c), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

func (h *Handler) Update(c *gin.Context) {
	id, ok := response.PathID(c, "id")
	if !ok {
		return
	}

	var req UpdateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	b, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

func (h *Handler) Delete(c *gin.Context) {
	id, ok := response.PathID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Booking deleted"})
}

// Confirm accepts or declines a pending booking.
// @Router /servicos/{id}/confirmar [PUT]
func (h *Handler) Confirm(c *gin.Context) {
	id, ok := response.PathID(c, "id")
	if !ok {
		return
	}

	var req ConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	b, err := h.service.Confirm(c.Request.Context(), middleware.CallerFrom(c), id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

func (h *Handler) Start(c *gin.Context) {
	id, ok := response.PathID(c, "id")
	if !ok {
		return
	}

	b, err := h.service.Start(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

func (h *Handler) Complete(c *gin.Context) {
	id, ok := response.PathID(c, "id")
	if !ok {
		return
	}

	b, err := h.service.Complete(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

// Cancel takes an optional body with adminNotes.
func (h *Handler) Cancel(c *gin.Context) {
	id, ok := response.PathID(c, "id")
	if !ok {
		return
	}

	var req NotesRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(c, "Invalid request body")
		return
	}

	b, err := h.service.Cancel(c.Request.Context(), id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}
