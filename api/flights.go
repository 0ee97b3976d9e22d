package api

import (
	"net/http"
	"strconv"

	"github.com/Domenick1991/letservice/internal/service/flights"
	"github.com/gin-gonic/gin"
)

type FlightHandler struct {
	service flights.FlightUseCase
	guard   RoleGuard
}

type rejectRequest struct {
	Reason          string `json:"reason"`
	RejectionReason string `json:"rejection_reason"`
}

// flightRequest accepts numeric fields as JSON numbers or numeric strings.
type flightRequest struct {
	Name               *string     `json:"name"`
	AirlineID          looseNumber `json:"airline_id"`
	DistanceKM         looseNumber `json:"distance_km"`
	DurationSeconds    looseNumber `json:"duration_seconds"`
	DepartureTime      *string     `json:"departure_time"`
	OriginAirport      *string     `json:"origin_airport"`
	DestinationAirport *string     `json:"destination_airport"`
	Price              looseNumber `json:"price"`
	CreatedByUserID    looseNumber `json:"created_by_user_id"`
}

func (r flightRequest) updateInput() (flights.UpdateFlightInput, error) {
	in := flights.UpdateFlightInput{
		Name:               r.Name,
		DepartureTime:      r.DepartureTime,
		OriginAirport:      r.OriginAirport,
		DestinationAirport: r.DestinationAirport,
	}
	var err error
	if in.AirlineID, err = optionalInt("airline_id", r.AirlineID); err != nil {
		return in, err
	}
	if in.DistanceKM, err = optionalFloat("distance_km", r.DistanceKM); err != nil {
		return in, err
	}
	if in.DurationSeconds, err = optionalFloat("duration_seconds", r.DurationSeconds); err != nil {
		return in, err
	}
	if in.Price, err = optionalFloat("price", r.Price); err != nil {
		return in, err
	}
	return in, nil
}

func (r flightRequest) createInput() (flights.CreateFlightInput, error) {
	up, err := r.updateInput()
	if err != nil {
		return flights.CreateFlightInput{}, err
	}
	return flights.CreateFlightInput{
		Name:               up.Name,
		AirlineID:          up.AirlineID,
		DistanceKM:         up.DistanceKM,
		DurationSeconds:    up.DurationSeconds,
		DepartureTime:      up.DepartureTime,
		OriginAirport:      up.OriginAirport,
		DestinationAirport: up.DestinationAirport,
		Price:              up.Price,
		CreatedByUserID:    string(r.CreatedByUserID),
	}, nil
}

type buyersResponse struct {
	FlightID int64    `json:"flight_id"`
	Buyers   []string `json:"buyers"`
}

func NewFlightHandler(service flights.FlightUseCase, guard RoleGuard) *FlightHandler {
	return &FlightHandler{service: service, guard: guard}
}

func (h *FlightHandler) Register(router *gin.RouterGroup) {
	router.GET("", h.list)
	router.GET("/:id", h.get)
	router.POST("", h.guard.Require(RoleManager), h.create)
	router.PUT("/:id", h.guard.Require(RoleManager, RoleAdmin), h.update)
	router.DELETE("/:id", h.guard.Require(RoleAdmin), h.delete)
	router.POST("/:id/approve", h.guard.Require(RoleAdmin), h.approve)
	router.POST("/:id/reject", h.guard.Require(RoleAdmin), h.reject)
	router.POST("/:id/cancel", h.guard.Require(RoleAdmin), h.cancel)
	router.GET("/:id/buyers", h.guard.Require(RoleAdmin), h.buyers)
}

func (h *FlightHandler) list(c *gin.Context) {
	query := flights.ListQuery{
		Tab:            c.Query("tab"),
		Text:           firstQuery(c, "q", "query"),
		ApprovalStatus: c.Query("approval_status"),
	}
	if raw := firstQuery(c, "airline_id", "airlineId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			validationError(c, "airline_id must be int")
			return
		}
		query.AirlineID = &id
	}

	views, err := h.service.List(c.Request.Context(), query)
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]flightResponse, 0, len(views))
	for _, v := range views {
		out = append(out, newFlightResponse(v))
	}
	c.JSON(http.StatusOK, out)
}

func (h *FlightHandler) get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	view, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newFlightResponse(*view))
}

func (h *FlightHandler) create(c *gin.Context) {
	var req flightRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		validationError(c, "invalid request body")
		return
	}
	input, err := req.createInput()
	if err != nil {
		writeError(c, err)
		return
	}
	if id := userID(c); id != "" {
		input.CreatedByUserID = id
	}

	view, err := h.service.Create(c.Request.Context(), input)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newFlightResponse(*view))
}

func (h *FlightHandler) update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req flightRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		validationError(c, "invalid request body")
		return
	}
	input, err := req.updateInput()
	if err != nil {
		writeError(c, err)
		return
	}

	view, err := h.service.Update(c.Request.Context(), id, input)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newFlightResponse(*view))
}

func (h *FlightHandler) delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *FlightHandler) approve(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	view, err := h.service.Approve(c.Request.Context(), id, userID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newFlightResponse(*view))
}

func (h *FlightHandler) reject(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req rejectRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		validationError(c, "invalid request body")
		return
	}
	reason := req.Reason
	if reason == "" {
		reason = req.RejectionReason
	}

	view, err := h.service.Reject(c.Request.Context(), id, userID(c), reason)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newFlightResponse(*view))
}

func (h *FlightHandler) cancel(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	view, err := h.service.Cancel(c.Request.Context(), id, userID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newFlightResponse(*view))
}

func (h *FlightHandler) buyers(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	buyers, err := h.service.Buyers(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, buyersResponse{FlightID: id, Buyers: buyers})
}
