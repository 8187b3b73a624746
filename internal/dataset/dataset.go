package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/SanteonNL/clinicalops/models/trial"
)

// ErrNotFound is returned by LoadFile when the data file does not exist yet.
var ErrNotFound = errors.New("data file not found")

// Dataset is the loaded patient table. It is read once per process and never
// mutated afterwards.
type Dataset struct {
	Records []trial.PatientRecord
	// Columns is the header as found in the file, extra columns included.
	Columns []string
}

func New(records []trial.PatientRecord) *Dataset {
	return &Dataset{
		Records: records,
		Columns: append([]string(nil), trial.Columns...),
	}
}

func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Records)
}

// Write emits the header row followed by one row per record.
func Write(w io.Writer, records []trial.PatientRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(trial.Columns); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, r := range records {
		row := []string{
			r.ID,
			r.SiteID,
			strconv.Itoa(r.Age),
			r.Gender.String(),
			r.EnrollmentDate.String(),
			r.Severity.String(),
			strconv.Itoa(r.SystolicBP),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write record %s: %w", r.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Read parses a CSV table. The header row is required and must name all seven
// patient columns; they may appear in any order and extra columns are ignored.
func Read(r io.Reader) (*Dataset, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to read CSV header: empty input")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff"))
	}

	index := make(map[string]int, len(header))
	for i, h := range header {
		index[h] = i
	}
	var missing []string
	for _, col := range trial.Columns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("CSV header is missing columns: %s", strings.Join(missing, ", "))
	}

	ds := &Dataset{Columns: header}
	seen := make(map[string]int)
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row: %w", err)
		}
		line, _ := reader.FieldPos(0)

		rec, err := parseRow(row, index)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if first, dup := seen[rec.ID]; dup {
			return nil, fmt.Errorf("line %d: duplicate patient id %s (first seen on line %d)", line, rec.ID, first)
		}
		seen[rec.ID] = line
		ds.Records = append(ds.Records, rec)
	}
	return ds, nil
}

func parseRow(row []string, index map[string]int) (trial.PatientRecord, error) {
	field := func(col string) string {
		return strings.TrimSpace(row[index[col]])
	}

	var rec trial.PatientRecord
	var err error

	rec.ID = field(trial.ColumnPatientID)
	if rec.ID == "" {
		return rec, fmt.Errorf("empty %s", trial.ColumnPatientID)
	}
	rec.SiteID = field(trial.ColumnSiteID)
	if rec.Age, err = strconv.Atoi(field(trial.ColumnAge)); err != nil {
		return rec, fmt.Errorf("invalid %s: %w", trial.ColumnAge, err)
	}
	if rec.Gender, err = trial.ParseGender(field(trial.ColumnGender)); err != nil {
		return rec, err
	}
	if rec.EnrollmentDate, err = trial.ParseDate(field(trial.ColumnEnrollmentDate)); err != nil {
		return rec, err
	}
	if rec.Severity, err = trial.ParseSeverity(field(trial.ColumnSeverity)); err != nil {
		return rec, err
	}
	if rec.SystolicBP, err = strconv.Atoi(field(trial.ColumnSystolicBP)); err != nil {
		return rec, fmt.Errorf("invalid %s: %w", trial.ColumnSystolicBP, err)
	}
	return rec, nil
}

// LoadFile reads the dataset at path.
func LoadFile(path string) (*Dataset, error) {
	file, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open data file %s: %w", path, err)
	}
	defer file.Close()

	ds, err := Read(file)
	if err != nil {
		return nil, fmt.Errorf("failed to parse data file %s: %w", path, err)
	}
	return ds, nil
}

// SaveFile writes records to path, creating parent directories and replacing
// any existing file.
func SaveFile(path string, records []trial.PatientRecord) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create data file: %w", err)
	}
	if err := Write(file, records); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
