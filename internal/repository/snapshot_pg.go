package repository

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Domenick1991/tickettoride/internal/domain"
)

// Rows per INSERT; keeps the bind parameter count well under the postgres limit.
const insertBatchSize = 500

const schemaSQL = `
CREATE TABLE IF NOT EXISTS airports (
	position INTEGER NOT NULL,
	code     TEXT PRIMARY KEY,
	name     TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS flights (
	position        INTEGER NOT NULL,
	code            TEXT PRIMARY KEY,
	airline         TEXT NOT NULL,
	from_airport    TEXT NOT NULL REFERENCES airports(code),
	to_airport      TEXT NOT NULL REFERENCES airports(code),
	weekday         TEXT NOT NULL,
	departure_time  TEXT NOT NULL,
	cost_cents      BIGINT NOT NULL CHECK (cost_cents >= 0),
	total_seats     INTEGER NOT NULL CHECK (total_seats >= 0),
	seats_available INTEGER NOT NULL CHECK (seats_available >= 0 AND seats_available <= total_seats)
);
CREATE TABLE IF NOT EXISTS reservations (
	position    INTEGER NOT NULL,
	code        TEXT PRIMARY KEY,
	flight_code TEXT NOT NULL REFERENCES flights(code),
	airline     TEXT NOT NULL,
	cost_cents  BIGINT NOT NULL,
	name        TEXT NOT NULL,
	citizenship TEXT NOT NULL,
	active      BOOLEAN NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL,
	updated_at  TIMESTAMPTZ NOT NULL
);`

var (
	airportColumns     = []string{"position", "code", "name"}
	flightColumns      = []string{"position", "code", "airline", "from_airport", "to_airport", "weekday", "departure_time", "cost_cents", "total_seats", "seats_available"}
	reservationColumns = []string{"position", "code", "flight_code", "airline", "cost_cents", "name", "citizenship", "active", "created_at", "updated_at"}
)

// PGSnapshotStore keeps the snapshot in three tables. Save replaces their
// content in one transaction.
type PGSnapshotStore struct {
	db *pgxpool.Pool
	sb sq.StatementBuilderType
}

func NewPGSnapshotStore(db *pgxpool.Pool) *PGSnapshotStore {
	return &PGSnapshotStore{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (s *PGSnapshotStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

func (s *PGSnapshotStore) Load(ctx context.Context) (domain.Snapshot, error) {
	var snapshot domain.Snapshot

	query, args, err := selectOrdered(s.sb, "airports", airportColumns).ToSql()
	if err != nil {
		return snapshot, fmt.Errorf("build select airports sql: %w", err)
	}
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return snapshot, fmt.Errorf("select airports: %w", err)
	}
	snapshot.Airports, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Airport, error) {
		var a domain.Airport
		var pos int
		err := row.Scan(&pos, &a.Code, &a.Name)
		return a, err
	})
	if err != nil {
		return snapshot, fmt.Errorf("scan airports: %w", err)
	}

	query, args, err = selectOrdered(s.sb, "flights", flightColumns).ToSql()
	if err != nil {
		return snapshot, fmt.Errorf("build select flights sql: %w", err)
	}
	rows, err = s.db.Query(ctx, query, args...)
	if err != nil {
		return snapshot, fmt.Errorf("select flights: %w", err)
	}
	snapshot.Flights, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Flight, error) {
		var f domain.Flight
		var pos int
		err := row.Scan(&pos, &f.Code, &f.Airline, &f.From, &f.To, &f.Weekday, &f.Time, &f.CostCents, &f.TotalSeats, &f.SeatsAvailable)
		return f, err
	})
	if err != nil {
		return snapshot, fmt.Errorf("scan flights: %w", err)
	}

	query, args, err = selectOrdered(s.sb, "reservations", reservationColumns).ToSql()
	if err != nil {
		return snapshot, fmt.Errorf("build select reservations sql: %w", err)
	}
	rows, err = s.db.Query(ctx, query, args...)
	if err != nil {
		return snapshot, fmt.Errorf("select reservations: %w", err)
	}
	snapshot.Reservations, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Reservation, error) {
		var r domain.Reservation
		var pos int
		if err := row.Scan(&pos, &r.Code, &r.FlightCode, &r.Airline, &r.CostCents, &r.Name, &r.Citizenship, &r.Active, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return r, err
		}
		r.CreatedAt, r.UpdatedAt = r.CreatedAt.UTC(), r.UpdatedAt.UTC()
		return r, nil
	})
	if err != nil {
		return snapshot, fmt.Errorf("scan reservations: %w", err)
	}

	return snapshot, nil
}

func (s *PGSnapshotStore) Save(ctx context.Context, snapshot domain.Snapshot) error {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `TRUNCATE reservations, flights, airports`); err != nil {
		return fmt.Errorf("truncate snapshot tables: %w", err)
	}

	inserts, err := buildSnapshotInserts(s.sb, snapshot)
	if err != nil {
		return err
	}
	for _, ins := range inserts {
		if _, err := tx.Exec(ctx, ins.sql, ins.args...); err != nil {
			return fmt.Errorf("insert snapshot rows: %w", err)
		}
	}

	return tx.Commit(ctx)
}

type statement struct {
	sql  string
	args []interface{}
}

func selectOrdered(sb sq.StatementBuilderType, table string, columns []string) sq.SelectBuilder {
	return sb.Select(columns...).From(table).OrderBy("position")
}

// buildSnapshotInserts returns batched INSERT statements for airports, flights
// and reservations, in that order so foreign keys resolve.
func buildSnapshotInserts(sb sq.StatementBuilderType, snapshot domain.Snapshot) ([]statement, error) {
	var out []statement

	airportRows := make([][]interface{}, 0, len(snapshot.Airports))
	for i, a := range snapshot.Airports {
		airportRows = append(airportRows, []interface{}{i, a.Code, a.Name})
	}
	flightRows := make([][]interface{}, 0, len(snapshot.Flights))
	for i, f := range snapshot.Flights {
		flightRows = append(flightRows, []interface{}{i, f.Code, f.Airline, f.From, f.To, string(f.Weekday), f.Time, f.CostCents, f.TotalSeats, f.SeatsAvailable})
	}
	reservationRows := make([][]interface{}, 0, len(snapshot.Reservations))
	for i, r := range snapshot.Reservations {
		reservationRows = append(reservationRows, []interface{}{i, r.Code, r.FlightCode, r.Airline, r.CostCents, r.Name, r.Citizenship, r.Active, r.CreatedAt, r.UpdatedAt})
	}

	for _, t := range []struct {
		table   string
		columns []string
		rows    [][]interface{}
	}{
		{"airports", airportColumns, airportRows},
		{"flights", flightColumns, flightRows},
		{"reservations", reservationColumns, reservationRows},
	} {
		for start := 0; start < len(t.rows); start += insertBatchSize {
			end := min(start+insertBatchSize, len(t.rows))
			q := sb.Insert(t.table).Columns(t.columns...)
			for _, row := range t.rows[start:end] {
				q = q.Values(row...)
			}
			sqlStr, args, err := q.ToSql()
			if err != nil {
				return nil, fmt.Errorf("build insert %s sql: %w", t.table, err)
			}
			out = append(out, statement{sql: sqlStr, args: args})
		}
	}
	return out, nil
}

var _ SnapshotStore = (*PGSnapshotStore)(nil)
