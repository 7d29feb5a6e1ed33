package flights

import (
	"context"

	"go.uber.org/zap"

	"github.com/Domenick1991/tickettoride/internal/domain"
	"github.com/Domenick1991/tickettoride/internal/manager"
	"github.com/Domenick1991/tickettoride/internal/metrics"
)

type FlightUseCase interface {
	List(ctx context.Context) []domain.Flight
	GetByCode(ctx context.Context, code string) (domain.Flight, error)
	Search(ctx context.Context, filter domain.FlightFilter) ([]domain.Flight, error)
	Airports(ctx context.Context) []domain.Airport
	AirportByCode(ctx context.Context, code string) (domain.Airport, error)
}

// FlightCache holds only data that never changes after load: the airport list
// and the flight codes matching a search. Seat counts are always read live.
type FlightCache interface {
	GetAirports(ctx context.Context) ([]domain.Airport, error)
	SetAirports(ctx context.Context, airports []domain.Airport) error
	GetFlightCodes(ctx context.Context, filter domain.FlightFilter) ([]string, error)
	SetFlightCodes(ctx context.Context, filter domain.FlightFilter, codes []string) error
}

type FlightService struct {
	catalog manager.Catalog
	cache   FlightCache
	logger  *zap.Logger
}

func NewFlightService(catalog manager.Catalog, cache FlightCache, logger *zap.Logger) *FlightService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FlightService{catalog: catalog, cache: cache, logger: logger}
}

func (s *FlightService) List(ctx context.Context) []domain.Flight {
	return s.catalog.ListFlights(ctx)
}

func (s *FlightService) GetByCode(ctx context.Context, code string) (domain.Flight, error) {
	return s.catalog.FindFlightByCode(ctx, code)
}

func (s *FlightService) AirportByCode(ctx context.Context, code string) (domain.Airport, error) {
	return s.catalog.FindAirportByCode(ctx, code)
}

func (s *FlightService) Airports(ctx context.Context) []domain.Airport {
	if s.cache != nil {
		cached, err := s.cache.GetAirports(ctx)
		if err != nil {
			s.logger.Warn("airport cache read", zap.Error(err))
		}
		if cached != nil {
			metrics.IncCacheHit("airports")
			return cached
		}
		metrics.IncCacheMiss("airports")
	}

	airports := s.catalog.ListAirports(ctx)
	if s.cache != nil {
		if err := s.cache.SetAirports(ctx, airports); err != nil {
			s.logger.Warn("airport cache write", zap.Error(err))
		}
	}
	return airports
}

// Search returns the flights matching filter with their current seat counts.
// A cached code that no longer resolves falls back to a live search.
func (s *FlightService) Search(ctx context.Context, filter domain.FlightFilter) ([]domain.Flight, error) {
	filter = filter.Normalize()
	if s.cache != nil {
		codes, err := s.cache.GetFlightCodes(ctx, filter)
		if err != nil {
			s.logger.Warn("search cache read", zap.Error(err))
		}
		if codes != nil {
			if flights, ok := s.resolve(ctx, codes); ok {
				metrics.IncCacheHit("search")
				return flights, nil
			}
		}
		metrics.IncCacheMiss("search")
	}

	flights := s.catalog.FindFlights(ctx, filter)
	if s.cache != nil {
		codes := make([]string, 0, len(flights))
		for _, f := range flights {
			codes = append(codes, f.Code)
		}
		if err := s.cache.SetFlightCodes(ctx, filter, codes); err != nil {
			s.logger.Warn("search cache write", zap.Error(err))
		}
	}
	return flights, nil
}

func (s *FlightService) resolve(ctx context.Context, codes []string) ([]domain.Flight, bool) {
	flights := make([]domain.Flight, 0, len(codes))
	for _, code := range codes {
		f, err := s.catalog.FindFlightByCode(ctx, code)
		if err != nil {
			return nil, false
		}
		flights = append(flights, f)
	}
	return flights, true
}

var _ FlightUseCase = (*FlightService)(nil)
