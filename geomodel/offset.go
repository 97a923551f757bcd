package geomodel

import (
	"fmt"
	"strings"
)

// OffsetMode selects which lattice lines get shifted to interleave hexagons.
type OffsetMode uint8

const (
	// RowParity shifts every odd row right by three quarters of the hexagon width.
	RowParity OffsetMode = iota
	// ColumnParity shifts every odd column down by half of the hexagon height.
	ColumnParity
)

func ParseOffsetMode(s string) (OffsetMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "row", "rows", "row-parity":
		return RowParity, nil
	case "column", "columns", "col", "column-parity":
		return ColumnParity, nil
	}
	return 0, fmt.Errorf("unknown offset mode %q, expected row or column", s)
}

func (m OffsetMode) String() string {
	switch m {
	case RowParity:
		return "row"
	case ColumnParity:
		return "column"
	}
	return fmt.Sprintf("OffsetMode(%d)", uint8(m))
}

func (m OffsetMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *OffsetMode) UnmarshalText(text []byte) error {
	v, err := ParseOffsetMode(string(text))
	if err != nil {
		return err
	}
	*m = v
	return nil
}
