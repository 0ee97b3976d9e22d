package api

import (
	"net/http"

	"github.com/Domenick1991/letservice/internal/service/airlines"
	"github.com/gin-gonic/gin"
)

type AirlineHandler struct {
	service airlines.AirlineUseCase
	guard   RoleGuard
}

type createAirlineRequest struct {
	Name string `json:"name"`
}

func NewAirlineHandler(service airlines.AirlineUseCase, guard RoleGuard) *AirlineHandler {
	return &AirlineHandler{service: service, guard: guard}
}

func (h *AirlineHandler) Register(router *gin.RouterGroup) {
	router.GET("", h.list)
	router.GET("/:id", h.get)
	router.POST("", h.guard.Require(RoleAdmin, RoleManager), h.create)
	router.DELETE("/:id", h.guard.Require(RoleAdmin, RoleManager), h.delete)
}

func (h *AirlineHandler) list(c *gin.Context) {
	list, err := h.service.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *AirlineHandler) get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	airline, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, airline)
}

func (h *AirlineHandler) create(c *gin.Context) {
	var req createAirlineRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		validationError(c, "invalid request body")
		return
	}
	airline, created, err := h.service.GetOrCreate(c.Request.Context(), req.Name)
	if err != nil {
		writeError(c, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, airline)
}

func (h *AirlineHandler) delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Airline successfully removed"})
}
