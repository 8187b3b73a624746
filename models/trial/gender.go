package trial

import (
	"database/sql/driver"
	"fmt"
)

type Gender string

const (
	GenderMale      Gender = "Male"
	GenderFemale    Gender = "Female"
	GenderNonBinary Gender = "Non-Binary"
)

// Genders returns the categories in legend order.
func Genders() []Gender {
	return []Gender{GenderMale, GenderFemale, GenderNonBinary}
}

func ParseGender(s string) (Gender, error) {
	for _, g := range Genders() {
		if string(g) == s {
			return g, nil
		}
	}
	return "", fmt.Errorf("unknown gender %q", s)
}

func (g Gender) String() string {
	return string(g)
}

// Value implements driver.Valuer.
func (g Gender) Value() (driver.Value, error) {
	return string(g), nil
}

// Scan implements sql.Scanner.
func (g *Gender) Scan(src any) error {
	var s string
	switch v := src.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return fmt.Errorf("cannot scan %T into Gender", src)
	}
	parsed, err := ParseGender(s)
	if err != nil {
		return err
	}
	*g = parsed
	return nil
}
