// =============================================================================
// H2K to HPXML Translator - Unit Conversions
// =============================================================================
//
// H2K works in SI (square metres, Celsius, kilowatts, litres, millimetres);
// the HPXML workflow arguments are imperial. These conversions are pure
// functions; rounding is applied by the caller with Round so the precision
// of each output argument is visible where the argument is written:
//   - areas and efficiencies: 1 decimal
//   - door R-value:           2 decimals
//   - tank volume:            whole gallons
//   - setpoints:              1 decimal
//
// =============================================================================

package units

import "math"

const (
	// SquareFeetPerSquareMetre is the factor H2K exports use for floor areas.
	SquareFeetPerSquareMetre = 10.764

	// BtuPerHourPerKW converts equipment capacities.
	BtuPerHourPerKW = 3412.142

	// GallonsPerLitre converts tank volumes to US gallons.
	GallonsPerLitre = 0.26413
)

// M2ToFt2 converts square metres to square feet.
func M2ToFt2(m2 float64) float64 { return m2 * SquareFeetPerSquareMetre }

// Ft2ToM2 converts square feet to square metres.
func Ft2ToM2(ft2 float64) float64 { return ft2 / SquareFeetPerSquareMetre }

// CelsiusToFahrenheit converts a temperature.
func CelsiusToFahrenheit(c float64) float64 { return c*9/5 + 32 }

// KWToBtuPerHour converts an equipment capacity.
func KWToBtuPerHour(kw float64) float64 { return kw * BtuPerHourPerKW }

// LitresToGallons converts a tank volume to US gallons.
func LitresToGallons(l float64) float64 { return l * GallonsPerLitre }

// WindowAreaM2 returns the area in square metres of a window measured in
// millimetres.
func WindowAreaM2(heightMM, widthMM float64) float64 {
	return (heightMM / 1000) * (widthMM / 1000)
}

// Round rounds v half away from zero to the given number of decimal places.
func Round(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
