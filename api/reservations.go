package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Domenick1991/tickettoride/internal/domain"
	"github.com/Domenick1991/tickettoride/internal/manager"
)

type ItineraryRenderer interface {
	Render(ctx context.Context, code string) ([]byte, string, error)
}

type ReservationHandler struct {
	service   manager.ReservationUseCase
	itinerary ItineraryRenderer
}

type createReservationRequest struct {
	FlightCode  string `json:"flight_code" binding:"required"`
	Name        string `json:"name"`
	Citizenship string `json:"citizenship"`
}

type updateReservationRequest struct {
	Name        string `json:"name"`
	Citizenship string `json:"citizenship"`
	Active      *bool  `json:"active" binding:"required"`
}

type reservationResponse struct {
	Code        string `json:"code"`
	FlightCode  string `json:"flight_code"`
	Airline     string `json:"airline"`
	Cost        string `json:"cost"`
	Name        string `json:"name"`
	Citizenship string `json:"citizenship"`
	Active      bool   `json:"active"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

func newReservationResponse(r domain.Reservation) reservationResponse {
	return reservationResponse{
		Code:        r.Code,
		FlightCode:  r.FlightCode,
		Airline:     r.Airline,
		Cost:        domain.FormatCost(r.CostCents),
		Name:        r.Name,
		Citizenship: r.Citizenship,
		Active:      r.Active,
		CreatedAt:   r.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   r.UpdatedAt.Format(time.RFC3339),
	}
}

func NewReservationHandler(service manager.ReservationUseCase, itinerary ItineraryRenderer) *ReservationHandler {
	return &ReservationHandler{service: service, itinerary: itinerary}
}

func (h *ReservationHandler) Register(router *gin.RouterGroup) {
	router.POST("/reservations", h.create)
	router.GET("/reservations", h.find)
	router.GET("/reservations/:code", h.get)
	router.PUT("/reservations/:code", h.update)
	router.GET("/reservations/:code/itinerary", h.itineraryPDF)
}

func (h *ReservationHandler) create(c *gin.Context) {
	var req createReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reservation, err := h.service.MakeReservation(c.Request.Context(), manager.MakeReservationInput{
		FlightCode:  req.FlightCode,
		Name:        req.Name,
		Citizenship: req.Citizenship,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newReservationResponse(reservation))
}

func (h *ReservationHandler) find(c *gin.Context) {
	found := h.service.FindReservations(c.Request.Context(), domain.ReservationFilter{
		Code:    c.Query("code"),
		Airline: c.Query("airline"),
		Name:    c.Query("name"),
	})

	resp := make([]reservationResponse, 0, len(found))
	for _, r := range found {
		resp = append(resp, newReservationResponse(r))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ReservationHandler) get(c *gin.Context) {
	reservation, err := h.service.GetReservation(c.Request.Context(), c.Param("code"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newReservationResponse(reservation))
}

func (h *ReservationHandler) update(c *gin.Context) {
	var req updateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reservation, err := h.service.UpdateReservation(c.Request.Context(), c.Param("code"), manager.UpdateReservationInput{
		Name:        req.Name,
		Citizenship: req.Citizenship,
		Active:      *req.Active,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newReservationResponse(reservation))
}

func (h *ReservationHandler) itineraryPDF(c *gin.Context) {
	data, filename, err := h.itinerary.Render(c.Request.Context(), c.Param("code"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`inline; filename="%s"`, filename))
	c.Data(http.StatusOK, "application/pdf", data)
}
