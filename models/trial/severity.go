package trial

import (
	"database/sql/driver"
	"fmt"
)

// Severity is the adverse-event level. The zero value is SeverityNone and the
// constants are declared in clinical order so they compare with < and >.
type Severity int

const (
	SeverityNone Severity = iota
	SeverityMild
	SeverityModerate
	SeveritySevere
)

var severityNames = [...]string{"None", "Mild", "Moderate", "Severe"}

// Severities returns every level from None to Severe.
func Severities() []Severity {
	return []Severity{SeverityNone, SeverityMild, SeverityModerate, SeveritySevere}
}

// ParseSeverity is case-sensitive, matching the CSV labels exactly.
func ParseSeverity(s string) (Severity, error) {
	for i, name := range severityNames {
		if name == s {
			return Severity(i), nil
		}
	}
	return SeverityNone, fmt.Errorf("unknown adverse event severity %q", s)
}

func (s Severity) String() string {
	if s < SeverityNone || s > SeveritySevere {
		return fmt.Sprintf("Severity(%d)", int(s))
	}
	return severityNames[s]
}

func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Severity) UnmarshalText(text []byte) error {
	parsed, err := ParseSeverity(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Value implements driver.Valuer.
func (s Severity) Value() (driver.Value, error) {
	return s.String(), nil
}

// Scan implements sql.Scanner.
func (s *Severity) Scan(src any) error {
	switch v := src.(type) {
	case string:
		return s.UnmarshalText([]byte(v))
	case []byte:
		return s.UnmarshalText(v)
	}
	return fmt.Errorf("cannot scan %T into Severity", src)
}
