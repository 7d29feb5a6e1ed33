package notify

import (
	"context"

	"go.uber.org/zap"

	"github.com/Domenick1991/tickettoride/internal/kafka"
	"github.com/Domenick1991/tickettoride/internal/manager"
)

type Sender struct {
	logger *zap.Logger
}

func NewSender(logger *zap.Logger) *Sender {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sender{logger: logger}
}

// Send turns a reservation event into a passenger notice. A flight whose last
// seat was just taken is also reported.
func (s *Sender) Send(ctx context.Context, event kafka.ReservationEvent) error {
	s.logger.Info("notify passenger",
		zap.String("subject", subject(event)),
		zap.String("reservation", event.Code),
		zap.String("flight", event.FlightCode),
		zap.String("airline", event.Airline),
		zap.String("name", event.Name),
	)
	if event.Active && event.SeatsAvailable == 0 {
		s.logger.Warn("flight sold out", zap.String("flight", event.FlightCode))
	}
	return nil
}

func subject(event kafka.ReservationEvent) string {
	switch {
	case event.Type == manager.EventReservationCreated:
		return "reservation confirmed"
	case !event.Active:
		return "reservation cancelled"
	default:
		return "reservation changed"
	}
}
