// =============================================================================
// H2K to HPXML Translator - Code Tables
// =============================================================================
//
// This package holds every fixed lookup table the translator consults. H2K
// stores many properties as small integer codes or English labels; HPXML
// wants years, degrees, pitches and its own enumerations.
//
// TABLE KINDS:
//   - Code tables (vintage, allowable rise, roof pitch, storeys, cooling
//     system type) are keyed by the integer code. A miss is an
//     InvalidCodeError.
//   - Vocabulary tables (fuel, water heater type, heating system type) are
//     keyed by the H2K label. A miss is an UnmappedVocabularyError.
//
// No table ever falls back to a default. Each table exposes its domain so
// tests can walk it exhaustively.
//
// =============================================================================

package codes

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/canmet-energy/h2k-hpxml/internal/types"
)

// =============================================================================
// VINTAGE
// =============================================================================

// ExplicitYearCode is the YearBuilt code meaning "the year is given in the
// value attribute".
const ExplicitYearCode = 1

var vintageYears = map[int]int{
	2:  1920,
	3:  1925,
	4:  1935,
	5:  1945,
	6:  1955,
	7:  1965,
	8:  1975,
	9:  1985,
	10: 1995,
	11: 2005,
}

// VintageYear resolves a YearBuilt code to a representative year.
//
// PARAMETERS:
//   - code: The YearBuilt code.
//   - explicit: The YearBuilt value attribute, read only for code 1.
//
// RETURNS:
//   - The year.
//   - InvalidCodeError for codes outside 1..11, or InvalidValueError when
//     code 1 carries a value that is not a whole year.
func VintageYear(code int, explicit string) (int, error) {
	if code == ExplicitYearCode {
		year, err := parseYear(explicit)
		if err != nil {
			return 0, &types.InvalidValueError{
				Field:  "House/Specifications/YearBuilt@value",
				Value:  explicit,
				Reason: "explicit year must be a whole number",
			}
		}
		return year, nil
	}
	year, ok := vintageYears[code]
	if !ok {
		return 0, &types.InvalidCodeError{Field: "House/Specifications/YearBuilt@code", Code: strconv.Itoa(code)}
	}
	return year, nil
}

// parseYear accepts "1978" as well as "1978.0", which some exporters write.
func parseYear(s string) (int, error) {
	if year, err := strconv.Atoi(s); err == nil {
		return year, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != float64(int(f)) {
		return 0, fmt.Errorf("not a whole year: %q", s)
	}
	return int(f), nil
}

// VintageCodes returns the domain of VintageYear, including the explicit code.
func VintageCodes() []int {
	return append([]int{ExplicitYearCode}, sortedKeys(vintageYears)...)
}

// =============================================================================
// TEMPERATURES
// =============================================================================

// allowableRise maps the MainFloors/AllowableRise code to degrees Celsius.
var allowableRise = map[int]float64{
	1: 0,
	2: 2.8,
	3: 5.5,
}

// AllowableRise resolves the allowable temperature rise code.
func AllowableRise(code int) (float64, error) {
	rise, ok := allowableRise[code]
	if !ok {
		return 0, &types.InvalidCodeError{Field: "House/Temperatures/MainFloors/AllowableRise@code", Code: strconv.Itoa(code)}
	}
	return rise, nil
}

// AllowableRiseCodes returns the domain of AllowableRise.
func AllowableRiseCodes() []int { return sortedKeys(allowableRise) }

// =============================================================================
// GEOMETRY
// =============================================================================

// roofPitch maps a ceiling slope code to an HPXML "rise:run" pitch. Code 1
// (flat or user-specified) has no pitch and maps to the empty string.
var roofPitch = map[int]string{
	1: "",
	2: "2:12",
	3: "3:12",
	4: "4:12",
	5: "5:12",
	6: "6:12",
	7: "7:12",
}

// RoofPitch resolves a ceiling slope code. An empty result means the
// template's own pitch should be kept.
func RoofPitch(code int) (string, error) {
	pitch, ok := roofPitch[code]
	if !ok {
		return "", &types.InvalidCodeError{Field: "Ceiling/Measurements/Slope@code", Code: strconv.Itoa(code)}
	}
	return pitch, nil
}

// RoofPitchCodes returns the domain of RoofPitch.
func RoofPitchCodes() []int { return sortedKeys(roofPitch) }

// floorsAboveGrade maps the Storeys code (1 storey, 1.5, 2, 2.5, 3, and the
// two split-level codes) to whole floors above grade.
var floorsAboveGrade = map[int]int{
	1: 1,
	2: 1,
	3: 2,
	4: 2,
	5: 3,
	6: 1,
	7: 1,
}

// FloorsAboveGrade resolves the Storeys code.
func FloorsAboveGrade(code int) (int, error) {
	floors, ok := floorsAboveGrade[code]
	if !ok {
		return 0, &types.InvalidCodeError{Field: "House/Specifications/Storeys@code", Code: strconv.Itoa(code)}
	}
	return floors, nil
}

// StoreyCodes returns the domain of FloorsAboveGrade.
func StoreyCodes() []int { return sortedKeys(floorsAboveGrade) }

// =============================================================================
// SYSTEMS
// =============================================================================

var coolingSystemTypes = map[int]string{
	1: "central air conditioner",
	2: "packaged terminal air conditioner",
	3: "mini-split",
}

// CoolingSystemType resolves the AirConditioning CentralType code.
func CoolingSystemType(code int) (string, error) {
	t, ok := coolingSystemTypes[code]
	if !ok {
		return "", &types.InvalidCodeError{Field: "AirConditioning/Equipment/CentralType@code", Code: strconv.Itoa(code)}
	}
	return t, nil
}

// CoolingSystemCodes returns the domain of CoolingSystemType.
func CoolingSystemCodes() []int { return sortedKeys(coolingSystemTypes) }

var heatingSystemTypes = map[string]string{
	"Baseboards": "ElectricResistance",
	"Furnace":    "Furnace",
	"Boiler":     "Boiler",
}

// HeatingSystemType resolves an H2K Type1 heating element name.
func HeatingSystemType(kind string) (string, error) {
	return lookup("heating system type", heatingSystemTypes, kind)
}

// HeatingSystemKinds returns the domain of HeatingSystemType.
func HeatingSystemKinds() []string { return sortedStrings(heatingSystemTypes) }

var fuels = map[string]string{
	"Electricity":  "electricity",
	"Electric":     "electricity",
	"Natural gas":  "natural gas",
	"Oil":          "fuel oil",
	"Propane":      "propane",
	"Mixed Wood":   "wood",
	"Hardwood":     "wood",
	"Softwood":     "wood",
	"Wood Pellets": "wood",
}

// Fuel resolves an H2K energy source label to an HPXML fuel type.
func Fuel(name string) (string, error) {
	return lookup("fuel", fuels, name)
}

// FuelNames returns the domain of Fuel.
func FuelNames() []string { return sortedStrings(fuels) }

// waterHeaterTypes is keyed by the H2K tank type label. "Instantenous" is the
// spelling older H2K releases wrote and is still accepted.
var waterHeaterTypes = map[string]string{
	"Conventional tank":    "storage water heater",
	"Conserver tank":       "storage water heater",
	"Instantaneous":        "instantaneous water heater",
	"Instantenous":         "instantaneous water heater",
	"Tankless heat pump":   "heat pump water heater",
	"Heat pump":            "heat pump water heater",
	"Integrated heat pump": "heat pump water heater",
}

// WaterHeaterType resolves an H2K tank type label.
func WaterHeaterType(tankType string) (string, error) {
	return lookup("water heater type", waterHeaterTypes, tankType)
}

// WaterHeaterTankTypes returns the domain of WaterHeaterType.
func WaterHeaterTankTypes() []string { return sortedStrings(waterHeaterTypes) }

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func lookup(table string, m map[string]string, term string) (string, error) {
	v, ok := m[term]
	if !ok {
		return "", &types.UnmappedVocabularyError{Table: table, Term: term}
	}
	return v, nil
}

func sortedKeys[V any](m map[int]V) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

func sortedStrings(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
