package models

// FuelKey identifies a generation source by its store column name
type FuelKey string

const (
	FuelWind    FuelKey = "wind_pct"
	FuelGas     FuelKey = "gas_pct"
	FuelNuclear FuelKey = "nuclear_pct"
	FuelSolar   FuelKey = "solar_pct"
	FuelHydro   FuelKey = "hydro_pct"
	FuelBiomass FuelKey = "biomass_pct"
	FuelImports FuelKey = "imports_pct"
	FuelCoal    FuelKey = "coal_pct"
)

// FuelKeys lists every fuel column in store order
var FuelKeys = []FuelKey{
	FuelWind, FuelGas, FuelNuclear, FuelSolar,
	FuelHydro, FuelBiomass, FuelImports, FuelCoal,
}

// FuelPcts holds the percentage contribution of each generation source.
// Across any aggregation window the fields sum to roughly 100.
type FuelPcts struct {
	WindPct    float64 `json:"wind_pct"`
	GasPct     float64 `json:"gas_pct"`
	NuclearPct float64 `json:"nuclear_pct"`
	SolarPct   float64 `json:"solar_pct"`
	HydroPct   float64 `json:"hydro_pct"`
	BiomassPct float64 `json:"biomass_pct"`
	ImportsPct float64 `json:"imports_pct"`
	CoalPct    float64 `json:"coal_pct"`
}

// FuelMix is the average fuel breakdown over the whole dataset
type FuelMix = FuelPcts

// Value returns the percentage for the given fuel, or 0 for an unknown key
func (f FuelPcts) Value(key FuelKey) float64 {
	switch key {
	case FuelWind:
		return f.WindPct
	case FuelGas:
		return f.GasPct
	case FuelNuclear:
		return f.NuclearPct
	case FuelSolar:
		return f.SolarPct
	case FuelHydro:
		return f.HydroPct
	case FuelBiomass:
		return f.BiomassPct
	case FuelImports:
		return f.ImportsPct
	case FuelCoal:
		return f.CoalPct
	default:
		return 0
	}
}

// Set assigns the percentage for the given fuel; unknown keys are ignored
func (f *FuelPcts) Set(key FuelKey, v float64) {
	switch key {
	case FuelWind:
		f.WindPct = v
	case FuelGas:
		f.GasPct = v
	case FuelNuclear:
		f.NuclearPct = v
	case FuelSolar:
		f.SolarPct = v
	case FuelHydro:
		f.HydroPct = v
	case FuelBiomass:
		f.BiomassPct = v
	case FuelImports:
		f.ImportsPct = v
	case FuelCoal:
		f.CoalPct = v
	}
}

// Total returns the sum of all percentages
func (f FuelPcts) Total() float64 {
	var sum float64
	for _, k := range FuelKeys {
		sum += f.Value(k)
	}
	return sum
}
