package reference

import (
	"fmt"
	"strings"
)

// UnsupportedUnitError reports a measurement unit that cannot be converted.
type UnsupportedUnitError struct {
	Unit     string
	Quantity string // "weight" or "length"
}

func (e *UnsupportedUnitError) Error() string {
	return fmt.Sprintf("unsupported %s unit %q", e.Quantity, e.Unit)
}

const ouncesPerKg = 35.274

// ConvertToKg converts a weight in grams, ounces or kilograms to kilograms.
func ConvertToKg(value float64, unit string) (float64, error) {
	switch strings.ToLower(strings.TrimSpace(unit)) {
	case "g", "gram", "grams":
		return value / 1000, nil
	case "oz", "ounce", "ounces":
		return value / ouncesPerKg, nil
	case "kg", "kilogram", "kilograms":
		return value, nil
	}
	return 0, &UnsupportedUnitError{Unit: unit, Quantity: "weight"}
}

// ConvertToCm converts a length in centimetres, millimetres or inches to
// centimetres.
func ConvertToCm(value float64, unit string) (float64, error) {
	switch strings.ToLower(strings.TrimSpace(unit)) {
	case "cm", "centimeter", "centimeters":
		return value, nil
	case "mm", "millimeter", "millimeters":
		return value / 10, nil
	case "in", "inch", "inches":
		return value * 2.54, nil
	}
	return 0, &UnsupportedUnitError{Unit: unit, Quantity: "length"}
}
