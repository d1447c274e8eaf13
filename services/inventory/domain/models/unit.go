package models

import "fmt"

// Unit is the unit of measure a raw material is stocked in.
type Unit string

const (
	UnitGram       Unit = "g"   // mass
	UnitMilliliter Unit = "ml"  // volume
	UnitPiece      Unit = "pcs" // count
)

// ParseUnit validates s as a Unit.
func ParseUnit(s string) (Unit, error) {
	switch u := Unit(s); u {
	case UnitGram, UnitMilliliter, UnitPiece:
		return u, nil
	default:
		return "", fmt.Errorf("unknown unit %q (want g, ml or pcs)", s)
	}
}

// String returns the underlying string value.
func (u Unit) String() string {
	return string(u)
}
