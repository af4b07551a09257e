package migrate

import (
	"fmt"
	"strings"
)

// Direction selects the schema version results are normalized to.
type Direction int

const (
	// New converts old-group elements into their new group. It is the zero
	// value.
	New Direction = iota

	// Old converts new-group elements back into their old group.
	Old
)

func (d Direction) String() string {
	switch d {
	case New:
		return "NEW"
	case Old:
		return "OLD"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// Valid reports whether d is Old or New.
func (d Direction) Valid() bool {
	return d == Old || d == New
}

// ParseDirection parses "OLD" or "NEW", ignoring case and surrounding space.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "NEW":
		return New, nil
	case "OLD":
		return Old, nil
	default:
		return 0, &ConfigurationError{
			Code:    ErrCodeInvalidOutputType,
			Message: fmt.Sprintf("output type must be OLD or NEW, got %q", s),
		}
	}
}

// check returns a ConfigurationError for a Direction that is neither Old
// nor New.
func (d Direction) check() error {
	if d.Valid() {
		return nil
	}
	return &ConfigurationError{
		Code:    ErrCodeInvalidOutputType,
		Message: fmt.Sprintf("invalid direction %d", int(d)),
	}
}

// MarshalText implements encoding.TextMarshaler.
func (d Direction) MarshalText() ([]byte, error) {
	if err := d.check(); err != nil {
		return nil, err
	}
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Direction) UnmarshalText(text []byte) error {
	parsed, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Set implements pflag.Value so a Direction can back a CLI flag.
func (d *Direction) Set(s string) error {
	return d.UnmarshalText([]byte(s))
}

// Type implements pflag.Value.
func (d *Direction) Type() string {
	return "direction"
}
