package manager

import (
	"errors"

	"github.com/Domenick1991/tickettoride/internal/domain"
	"github.com/Domenick1991/tickettoride/internal/metrics"
)

func observeReservationCreated(f domain.Flight) {
	metrics.IncReservationCreated(f.Airline)
	observeSeats(f)
}

func observeReservationUpdated() {
	metrics.IncReservationUpdated()
}

func observeSeats(f domain.Flight) {
	metrics.SetSeatsAvailable(f.Code, f.SeatsAvailable)
}

func observeReservationFailure(err error) {
	metrics.IncReservationRejected(rejectReason(err))
}

func rejectReason(err error) string {
	var name domain.InvalidNameError
	var citizenship domain.InvalidCitizenshipError
	switch {
	case errors.As(err, &name):
		return "invalid_name"
	case errors.As(err, &citizenship):
		return "invalid_citizenship"
	case domain.IsNoSeats(err):
		return "no_seats"
	case domain.IsNotFound(err):
		return "not_found"
	default:
		return "other"
	}
}
