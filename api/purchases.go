package api

import (
	"net/http"
	"strconv"

	"github.com/Domenick1991/letservice/internal/domain"
	"github.com/Domenick1991/letservice/internal/service/purchase"
	"github.com/gin-gonic/gin"
)

type PurchaseHandler struct {
	service  purchase.PurchaseUseCase
	throttle []gin.HandlerFunc
}

type createPurchaseRequest struct {
	FlightID looseNumber `json:"flight_id"`
}

type submitResponse struct {
	PurchaseID        int64  `json:"purchase_id"`
	FlightID          int64  `json:"flight_id"`
	UserID            string `json:"user_id"`
	Status            string `json:"status"`
	ProcessingSeconds int    `json:"processing_seconds"`
}

// NewPurchaseHandler runs throttle in front of purchase submission only.
func NewPurchaseHandler(service purchase.PurchaseUseCase, throttle ...gin.HandlerFunc) *PurchaseHandler {
	return &PurchaseHandler{service: service, throttle: throttle}
}

func (h *PurchaseHandler) Register(router *gin.RouterGroup) {
	submit := append(append([]gin.HandlerFunc{}, h.throttle...), h.submit)
	router.POST("/purchases", submit...)
	router.GET("/users/:id/purchases", h.listByUser)
}

func (h *PurchaseHandler) submit(c *gin.Context) {
	var req createPurchaseRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		validationError(c, "invalid request body")
		return
	}
	raw := numberField(req.FlightID)
	if raw == "" {
		validationError(c, "flight_id is required")
		return
	}
	flightID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		validationError(c, "flight_id must be an integer")
		return
	}

	result, err := h.service.Submit(c.Request.Context(), flightID, userID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, submitResponse{
		PurchaseID:        result.Purchase.ID,
		FlightID:          result.Purchase.FlightID,
		UserID:            result.Purchase.UserID,
		Status:            string(result.Purchase.Status),
		ProcessingSeconds: result.ProcessingSeconds,
	})
}

func (h *PurchaseHandler) listByUser(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		writeError(c, domain.Validation("user id is required"))
		return
	}
	purchases, err := h.service.ListByUser(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]purchaseResponse, 0, len(purchases))
	for _, p := range purchases {
		out = append(out, newPurchaseResponse(p))
	}
	c.JSON(http.StatusOK, out)
}
