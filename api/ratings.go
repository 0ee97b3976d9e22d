package api

import (
	"net/http"
	"strconv"

	"github.com/Domenick1991/letservice/internal/repository"
	"github.com/Domenick1991/letservice/internal/service/ratings"
	"github.com/gin-gonic/gin"
)

type RatingHandler struct {
	service ratings.RatingUseCase
	guard   RoleGuard
}

type rateRequest struct {
	FlightID    looseNumber `json:"flight_id"`
	FlightIDAlt looseNumber `json:"flightId"`
	Rating      looseNumber `json:"rating"`
	UserID      looseNumber `json:"user_id"`
	UserIDAlt   looseNumber `json:"userId"`
}

func NewRatingHandler(service ratings.RatingUseCase, guard RoleGuard) *RatingHandler {
	return &RatingHandler{service: service, guard: guard}
}

func (h *RatingHandler) Register(router *gin.RouterGroup) {
	roles := h.guard.Require(RoleUser, RoleAdmin, RoleManager)
	router.POST("", roles, h.rate)
	router.GET("", roles, h.list)
}

func (h *RatingHandler) rate(c *gin.Context) {
	var req rateRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		validationError(c, "invalid request body")
		return
	}

	input := ratings.RateInput{UserID: numberField(req.UserID, req.UserIDAlt)}
	if input.UserID == "" {
		input.UserID = userID(c)
	}
	if id, err := strconv.ParseInt(numberField(req.FlightID, req.FlightIDAlt), 10, 64); err == nil {
		input.FlightID = &id
	}
	if value, err := strconv.Atoi(numberField(req.Rating)); err == nil {
		input.Rating = &value
	}

	rating, created, err := h.service.Rate(c.Request.Context(), input)
	if err != nil {
		writeError(c, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, newRatingResponse(*rating))
}

func (h *RatingHandler) list(c *gin.Context) {
	var filter repository.RatingFilter
	if raw := firstQuery(c, "flight_id", "flightId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			validationError(c, "flight_id must be int")
			return
		}
		filter.FlightID = &id
	}
	if raw := firstQuery(c, "user_id", "userId"); raw != "" {
		filter.UserID = &raw
	}

	list, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]ratingResponse, 0, len(list))
	for _, r := range list {
		out = append(out, newRatingResponse(r))
	}
	c.JSON(http.StatusOK, out)
}
