package store

import (
	"context"
	"fmt"

	"github.com/SanteonNL/clinicalops/internal/dataset"
	"github.com/SanteonNL/clinicalops/models/trial"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

func init() {
	// modernc registers itself as "sqlite", which sqlx does not know by name.
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

const createTable = `
CREATE TABLE IF NOT EXISTS patient_record (
	patient_id             TEXT PRIMARY KEY,
	site_id                TEXT NOT NULL,
	age                    INTEGER NOT NULL,
	gender                 TEXT NOT NULL,
	enrollment_date        DATE NOT NULL,
	adverse_event_severity TEXT NOT NULL,
	systolic_bp            INTEGER NOT NULL
)`

const insertRecord = `
INSERT INTO patient_record (
	patient_id, site_id, age, gender, enrollment_date, adverse_event_severity, systolic_bp
) VALUES (
	:patient_id, :site_id, :age, :gender, :enrollment_date, :adverse_event_severity, :systolic_bp
)`

const selectRecords = `
SELECT patient_id, site_id, age, gender, enrollment_date, adverse_event_severity, systolic_bp
FROM patient_record
ORDER BY patient_id`

// RecordStore keeps a copy of the trial dataset in a SQL database.
type RecordStore struct {
	db  *sqlx.DB
	log zerolog.Logger
}

// Open connects to the database. driver is "postgres" or "sqlite".
func Open(driver, dsn string, log zerolog.Logger) (*RecordStore, error) {
	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to the database: %w", err)
	}
	return NewRecordStore(db, log), nil
}

func NewRecordStore(db *sqlx.DB, log zerolog.Logger) *RecordStore {
	return &RecordStore{db: db, log: log}
}

func (s *RecordStore) Close() error {
	return s.db.Close()
}

// Migrate creates the patient_record table if it does not exist.
func (s *RecordStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, createTable); err != nil {
		return fmt.Errorf("failed to create patient_record table: %w", err)
	}
	return nil
}

// Replace swaps the stored dataset for records in a single transaction.
func (s *RecordStore) Replace(ctx context.Context, records []trial.PatientRecord) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM patient_record"); err != nil {
		return fmt.Errorf("failed to clear patient_record: %w", err)
	}

	stmt, err := tx.PrepareNamedContext(ctx, insertRecord)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		if _, err := stmt.ExecContext(ctx, rec); err != nil {
			return fmt.Errorf("failed to insert record %s: %w", rec.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit records: %w", err)
	}

	s.log.Info().
		Int("records", len(records)).
		Str("driver", s.db.DriverName()).
		Msg("Stored patient records")
	return nil
}

// Load reads the stored dataset ordered by patient id.
func (s *RecordStore) Load(ctx context.Context) (*dataset.Dataset, error) {
	var records []trial.PatientRecord
	if err := s.db.SelectContext(ctx, &records, selectRecords); err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}

	s.log.Debug().
		Int("records", len(records)).
		Str("driver", s.db.DriverName()).
		Msg("Loaded patient records")
	return dataset.New(records), nil
}
