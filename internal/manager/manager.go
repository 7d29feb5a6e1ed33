package manager

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Domenick1991/tickettoride/internal/domain"
	"github.com/Domenick1991/tickettoride/internal/repository"
)

// Catalog is the read side over airports and flights.
type Catalog interface {
	ListAirports(ctx context.Context) []domain.Airport
	ListFlights(ctx context.Context) []domain.Flight
	FindAirportByCode(ctx context.Context, code string) (domain.Airport, error)
	FindFlightByCode(ctx context.Context, code string) (domain.Flight, error)
	FindFlights(ctx context.Context, filter domain.FlightFilter) []domain.Flight
}

// ReservationUseCase is the command/query side over reservations.
type ReservationUseCase interface {
	MakeReservation(ctx context.Context, input MakeReservationInput) (domain.Reservation, error)
	FindReservations(ctx context.Context, filter domain.ReservationFilter) []domain.Reservation
	GetReservation(ctx context.Context, code string) (domain.Reservation, error)
	UpdateReservation(ctx context.Context, code string, input UpdateReservationInput) (domain.Reservation, error)
}

type EventPublisher interface {
	PublishReservation(ctx context.Context, eventType string, reservation domain.Reservation, seatsAvailable int) error
}

type MakeReservationInput struct {
	FlightCode  string `json:"flight_code"`
	Name        string `json:"name"`
	Citizenship string `json:"citizenship"`
}

type UpdateReservationInput struct {
	Name        string `json:"name"`
	Citizenship string `json:"citizenship"`
	Active      bool   `json:"active"`
}

const (
	EventReservationCreated = "reservation_created"
	EventReservationUpdated = "reservation_updated"
)

// Manager owns the airport and flight catalog and the reservation collection.
// All reads and writes are serialized by a single RWMutex.
type Manager struct {
	store     repository.SnapshotStore
	publisher EventPublisher
	logger    *zap.Logger
	now       func() time.Time
	newCode   func() string

	validateName        domain.Validator
	validateCitizenship domain.Validator

	mu           sync.RWMutex
	loaded       bool
	airports     []domain.Airport
	airportIndex map[string]int
	flights      []domain.Flight
	flightIndex  map[string]int
	reservations []domain.Reservation
	resIndex     map[string]int
}

type Option func(*Manager)

func WithPublisher(p EventPublisher) Option {
	return func(m *Manager) {
		m.publisher = p
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithValidators replaces the name and citizenship rules. Nil keeps the default.
func WithValidators(name, citizenship domain.Validator) Option {
	return func(m *Manager) {
		if name != nil {
			m.validateName = name
		}
		if citizenship != nil {
			m.validateCitizenship = citizenship
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

func WithCodeGenerator(gen func() string) Option {
	return func(m *Manager) {
		m.newCode = gen
	}
}

func New(store repository.SnapshotStore, opts ...Option) *Manager {
	m := &Manager{
		store:               store,
		logger:              zap.NewNop(),
		now:                 time.Now,
		newCode:             randomCode,
		validateName:        domain.ValidateName,
		validateCitizenship: domain.ValidateCitizenship,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.reset(domain.Snapshot{})
	return m
}

// randomCode returns "R" followed by 7 upper-case hex digits of a UUIDv4.
func randomCode() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "R" + strings.ToUpper(id[:7])
}

// timestamp is the manager clock in UTC at microsecond precision, the finest
// resolution every store keeps.
func (m *Manager) timestamp() time.Time {
	return m.now().UTC().Truncate(time.Microsecond)
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// reset replaces all collections. Callers hold mu or own m exclusively.
func (m *Manager) reset(s domain.Snapshot) {
	m.airports = s.Airports
	m.flights = s.Flights
	m.reservations = s.Reservations
	m.airportIndex = make(map[string]int, len(s.Airports))
	m.flightIndex = make(map[string]int, len(s.Flights))
	m.resIndex = make(map[string]int, len(s.Reservations))
	for i, a := range s.Airports {
		m.airportIndex[normalizeCode(a.Code)] = i
	}
	for i, f := range s.Flights {
		m.flightIndex[normalizeCode(f.Code)] = i
	}
	for i, r := range s.Reservations {
		m.resIndex[normalizeCode(r.Code)] = i
	}
}

// Load reads the snapshot from the store. It must be called once, before any
// query or command.
func (m *Manager) Load(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.loaded {
		return domain.ErrAlreadyLoaded
	}

	snapshot, err := m.store.Load(ctx)
	if err != nil {
		m.logger.Error("load snapshot", zap.Error(err))
		return fmt.Errorf("load snapshot: %w", err)
	}
	if err := snapshot.Validate(); err != nil {
		m.logger.Error("invalid snapshot", zap.Error(err))
		return fmt.Errorf("invalid snapshot: %w", err)
	}
	if err := checkSeatAccounting(snapshot); err != nil {
		m.logger.Error("invalid snapshot", zap.Error(err))
		return fmt.Errorf("invalid snapshot: %w", err)
	}

	m.reset(snapshot.Clone())
	m.loaded = true

	m.logger.Info("snapshot loaded",
		zap.Int("airports", len(m.airports)),
		zap.Int("flights", len(m.flights)),
		zap.Int("reservations", len(m.reservations)),
	)
	for _, f := range m.flights {
		observeSeats(f)
	}
	return nil
}

// checkSeatAccounting verifies that no flight has more active reservations
// than it has booked seats.
func checkSeatAccounting(s domain.Snapshot) error {
	active := make(map[string]int)
	for _, r := range s.Reservations {
		if r.Active {
			active[normalizeCode(r.FlightCode)]++
		}
	}
	for _, f := range s.Flights {
		if booked := f.TotalSeats - f.SeatsAvailable; active[normalizeCode(f.Code)] > booked {
			return fmt.Errorf("flight %s: %d active reservations but %d booked seats", f.Code, active[normalizeCode(f.Code)], booked)
		}
	}
	return nil
}

// Snapshot returns a copy of the current state.
func (m *Manager) Snapshot(ctx context.Context) domain.Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return domain.Snapshot{
		Airports:     m.airports,
		Flights:      m.flights,
		Reservations: m.reservations,
	}.Clone()
}

// Persist writes the full state to the store. A failed write leaves the
// in-memory state untouched.
func (m *Manager) Persist(ctx context.Context) error {
	m.mu.RLock()
	loaded := m.loaded
	m.mu.RUnlock()
	if !loaded {
		return domain.ErrNotLoaded
	}

	snapshot := m.Snapshot(ctx)
	if err := m.store.Save(ctx, snapshot); err != nil {
		m.logger.Error("persist snapshot", zap.Error(err))
		return fmt.Errorf("persist snapshot: %w", err)
	}

	m.logger.Info("snapshot persisted",
		zap.Int("flights", len(snapshot.Flights)),
		zap.Int("reservations", len(snapshot.Reservations)),
	)
	return nil
}

func (m *Manager) ListAirports(ctx context.Context) []domain.Airport {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]domain.Airport{}, m.airports...)
}

func (m *Manager) ListFlights(ctx context.Context) []domain.Flight {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]domain.Flight{}, m.flights...)
}

func (m *Manager) FindAirportByCode(ctx context.Context, code string) (domain.Airport, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	i, ok := m.airportIndex[normalizeCode(code)]
	if !ok {
		return domain.Airport{}, domain.NotFoundError{Resource: "airport", Key: code}
	}
	return m.airports[i], nil
}

func (m *Manager) FindFlightByCode(ctx context.Context, code string) (domain.Flight, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	i, ok := m.flightIndex[normalizeCode(code)]
	if !ok {
		return domain.Flight{}, domain.NotFoundError{Resource: "flight", Key: code}
	}
	return m.flights[i], nil
}

// FindFlights returns the flights matching every non-wildcard field of filter,
// in catalog order.
func (m *Manager) FindFlights(ctx context.Context, filter domain.FlightFilter) []domain.Flight {
	m.mu.RLock()
	defer m.mu.RUnlock()

	found := make([]domain.Flight, 0)
	for _, f := range m.flights {
		if filter.Match(f) {
			found = append(found, f)
		}
	}
	return found
}

// MakeReservation books one seat on the flight. Name and citizenship are
// checked before inventory is touched.
func (m *Manager) MakeReservation(ctx context.Context, input MakeReservationInput) (domain.Reservation, error) {
	if err := m.validateName(input.Name); err != nil {
		m.logger.Info("reservation rejected", zap.String("flight", input.FlightCode), zap.Error(err))
		observeReservationFailure(err)
		return domain.Reservation{}, err
	}
	if err := m.validateCitizenship(input.Citizenship); err != nil {
		m.logger.Info("reservation rejected", zap.String("flight", input.FlightCode), zap.Error(err))
		observeReservationFailure(err)
		return domain.Reservation{}, err
	}

	reservation, flight, err := m.book(input)
	if err != nil {
		m.logger.Info("reservation rejected", zap.String("flight", input.FlightCode), zap.Error(err))
		observeReservationFailure(err)
		return domain.Reservation{}, err
	}

	m.logger.Info("reservation created",
		zap.String("code", reservation.Code),
		zap.String("flight", flight.Code),
		zap.Int("seats_available", flight.SeatsAvailable),
	)
	observeReservationCreated(flight)
	m.publish(ctx, EventReservationCreated, reservation, flight.SeatsAvailable)
	return reservation, nil
}

// book decrements the seat counter and appends the reservation as one
// critical section.
func (m *Manager) book(input MakeReservationInput) (domain.Reservation, domain.Flight, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.loaded {
		return domain.Reservation{}, domain.Flight{}, domain.ErrNotLoaded
	}

	fi, ok := m.flightIndex[normalizeCode(input.FlightCode)]
	if !ok {
		return domain.Reservation{}, domain.Flight{}, domain.NotFoundError{Resource: "flight", Key: input.FlightCode}
	}
	flight := &m.flights[fi]
	if flight.SeatsAvailable <= 0 {
		return domain.Reservation{}, domain.Flight{}, domain.NoSeatsAvailableError{FlightCode: flight.Code}
	}

	code, err := m.uniqueCode()
	if err != nil {
		return domain.Reservation{}, domain.Flight{}, err
	}

	now := m.timestamp()
	reservation := domain.Reservation{
		Code:        code,
		FlightCode:  flight.Code,
		Airline:     flight.Airline,
		CostCents:   flight.CostCents,
		Name:        strings.TrimSpace(input.Name),
		Citizenship: strings.TrimSpace(input.Citizenship),
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	flight.SeatsAvailable--
	m.reservations = append(m.reservations, reservation)
	m.resIndex[normalizeCode(code)] = len(m.reservations) - 1
	return reservation, *flight, nil
}

const maxCodeAttempts = 16

// uniqueCode draws codes until one is unused. Caller holds mu.
func (m *Manager) uniqueCode() (string, error) {
	for i := 0; i < maxCodeAttempts; i++ {
		code := m.newCode()
		if code == "" {
			continue
		}
		if _, taken := m.resIndex[normalizeCode(code)]; !taken {
			return code, nil
		}
	}
	return "", errors.New("could not generate a unique reservation code")
}

// FindReservations returns every reservation matching all non-empty filter
// fields, in creation order.
func (m *Manager) FindReservations(ctx context.Context, filter domain.ReservationFilter) []domain.Reservation {
	m.mu.RLock()
	defer m.mu.RUnlock()

	found := make([]domain.Reservation, 0)
	for _, r := range m.reservations {
		if filter.Match(r) {
			found = append(found, r)
		}
	}
	return found
}

func (m *Manager) GetReservation(ctx context.Context, code string) (domain.Reservation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	i, ok := m.resIndex[normalizeCode(code)]
	if !ok {
		return domain.Reservation{}, domain.NotFoundError{Resource: "reservation", Key: code}
	}
	return m.reservations[i], nil
}

// UpdateReservation replaces name, citizenship and the active flag of an
// existing reservation. Both fields are validated and every failure is
// returned; nothing is applied unless all of them pass. Deactivating returns
// the seat to the flight, reactivating takes one again.
func (m *Manager) UpdateReservation(ctx context.Context, code string, input UpdateReservationInput) (domain.Reservation, error) {
	var errs []error
	if err := m.validateName(input.Name); err != nil {
		m.logger.Info("reservation update rejected", zap.String("code", code), zap.Error(err))
		errs = append(errs, err)
	}
	if err := m.validateCitizenship(input.Citizenship); err != nil {
		m.logger.Info("reservation update rejected", zap.String("code", code), zap.Error(err))
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return domain.Reservation{}, errors.Join(errs...)
	}

	updated, seats, err := m.apply(code, input)
	if err != nil {
		m.logger.Info("reservation update rejected", zap.String("code", code), zap.Error(err))
		return domain.Reservation{}, err
	}

	m.logger.Info("reservation updated",
		zap.String("code", updated.Code),
		zap.Bool("active", updated.Active),
	)
	observeReservationUpdated()
	m.publish(ctx, EventReservationUpdated, updated, seats)
	return updated, nil
}

func (m *Manager) apply(code string, input UpdateReservationInput) (domain.Reservation, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ri, ok := m.resIndex[normalizeCode(code)]
	if !ok {
		return domain.Reservation{}, 0, domain.NotFoundError{Resource: "reservation", Key: code}
	}
	r := &m.reservations[ri]

	fi, ok := m.flightIndex[normalizeCode(r.FlightCode)]
	if !ok {
		return domain.Reservation{}, 0, domain.NotFoundError{Resource: "flight", Key: r.FlightCode}
	}
	flight := &m.flights[fi]

	switch {
	case r.Active && !input.Active:
		flight.SeatsAvailable++
	case !r.Active && input.Active:
		if flight.SeatsAvailable <= 0 {
			return domain.Reservation{}, 0, domain.NoSeatsAvailableError{FlightCode: flight.Code}
		}
		flight.SeatsAvailable--
	}

	r.Name = strings.TrimSpace(input.Name)
	r.Citizenship = strings.TrimSpace(input.Citizenship)
	r.Active = input.Active
	r.UpdatedAt = m.timestamp()
	observeSeats(*flight)
	return *r, flight.SeatsAvailable, nil
}

func (m *Manager) publish(ctx context.Context, eventType string, r domain.Reservation, seats int) {
	if m.publisher == nil {
		return
	}
	if err := m.publisher.PublishReservation(ctx, eventType, r, seats); err != nil {
		m.logger.Warn("publish reservation event",
			zap.String("type", eventType),
			zap.String("code", r.Code),
			zap.Error(err),
		)
	}
}

var (
	_ Catalog            = (*Manager)(nil)
	_ ReservationUseCase = (*Manager)(nil)
)
