package models

import (
	"fmt"
	"strings"
)

// Entry classifies an item as incoming or outgoing value.
type Entry uint8

const (
	In  Entry = iota // income
	Out              // expense
)

// String returns "in" or "out".
func (e Entry) String() string {
	switch e {
	case In:
		return "in"
	case Out:
		return "out"
	default:
		return fmt.Sprintf("Entry(%d)", uint8(e))
	}
}

// ParseEntry converts "in" or "out" (any case) to an Entry.
func ParseEntry(s string) (Entry, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "in":
		return In, nil
	case "out":
		return Out, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownEntry, s)
}

func (e Entry) MarshalText() ([]byte, error) {
	if e != In && e != Out {
		return nil, fmt.Errorf("%w: %d", ErrUnknownEntry, uint8(e))
	}
	return []byte(e.String()), nil
}

func (e *Entry) UnmarshalText(text []byte) error {
	parsed, err := ParseEntry(string(text))
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}
