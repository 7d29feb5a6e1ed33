package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Domenick1991/tickettoride/internal/domain"
	"github.com/Domenick1991/tickettoride/internal/service/flights"
)

type FlightHandler struct {
	service flights.FlightUseCase
}

type flightResponse struct {
	domain.Flight
	Cost string `json:"cost"`
}

func newFlightResponse(f domain.Flight) flightResponse {
	return flightResponse{Flight: f, Cost: domain.FormatCost(f.CostCents)}
}

func NewFlightHandler(service flights.FlightUseCase) *FlightHandler {
	return &FlightHandler{service: service}
}

func (h *FlightHandler) Register(router *gin.RouterGroup) {
	router.GET("/airports", h.airports)
	router.GET("/airports/:code", h.airport)
	router.GET("/flights", h.list)
	router.GET("/flights/:code", h.get)
}

func (h *FlightHandler) airports(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Airports(c.Request.Context()))
}

func (h *FlightHandler) airport(c *gin.Context) {
	airport, err := h.service.AirportByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, airport)
}

// list returns every flight, or runs a search when any of from, to or
// weekday is given.
func (h *FlightHandler) list(c *gin.Context) {
	from, hasFrom := c.GetQuery("from")
	to, hasTo := c.GetQuery("to")
	day, hasDay := c.GetQuery("weekday")

	var result []domain.Flight
	if hasFrom || hasTo || hasDay {
		weekday, err := domain.ParseWeekday(day)
		if err != nil {
			writeError(c, err)
			return
		}
		result, err = h.service.Search(c.Request.Context(), domain.FlightFilter{From: from, To: to, Weekday: weekday})
		if err != nil {
			writeError(c, err)
			return
		}
	} else {
		result = h.service.List(c.Request.Context())
	}

	resp := make([]flightResponse, 0, len(result))
	for _, f := range result {
		resp = append(resp, newFlightResponse(f))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *FlightHandler) get(c *gin.Context) {
	flight, err := h.service.GetByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newFlightResponse(flight))
}
