package report

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
	servicos := rg.Group("/servicos", auth)
	{
		servicos.GET("/relatorios", middleware.AdminOnly(), h.Report)
		servicos.GET("/historico/:veiculoId", h.VehicleHistory)
	}
}

// Report returns booking rollups for the admin dashboard.
// @Router /servicos/relatorios [GET]
func (h *Handler) Report(c *gin.Context) {
	var q ReportQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	out, err := h.service.Build(c.Request.Context(), q)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, out)
}

// @Router /servicos/historico/{veiculoId} [GET]
func (h *Handler) VehicleHistory(c *gin.Context) {
	id, ok := response.PathID(c, "veiculoId")
	if !ok {
		return
	}

	history, err := h.service.VehicleHistory(c.Request.Context(), middleware.CallerFrom(c), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, history)
}
