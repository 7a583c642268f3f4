package charts

import (
	"slices"

	"github.com/jgoulah/gridstats/pkg/models"
)

// Fuel is one row of the fuel table: store column, display label and color
type Fuel struct {
	Key   models.FuelKey `json:"key"`
	Label string         `json:"label"`
	Color string         `json:"color"`
}

// fuelTable fixes the stacking order of the weekly chart and the colors of
// both the chart and the legend
var fuelTable = [...]Fuel{
	{Key: models.FuelWind, Label: "Wind", Color: "#2ea043"},
	{Key: models.FuelGas, Label: "Gas", Color: "#da6d28"},
	{Key: models.FuelNuclear, Label: "Nuclear", Color: "#8b5cf6"},
	{Key: models.FuelImports, Label: "Imports", Color: "#6e7681"},
	{Key: models.FuelSolar, Label: "Solar", Color: "#e3b341"},
	{Key: models.FuelBiomass, Label: "Biomass", Color: "#3fb950"},
	{Key: models.FuelHydro, Label: "Hydro", Color: "#58a6ff"},
	{Key: models.FuelCoal, Label: "Coal", Color: "#8b949e"},
}

// Fuels returns a copy of the fuel table in stacking order
func Fuels() []Fuel {
	return slices.Clone(fuelTable[:])
}

// FuelShare is a legend entry for the fuel mix bar
type FuelShare struct {
	Fuel
	Value float64 `json:"value"` // percentage from the fuel mix
	Share float64 `json:"share"` // fraction of the legend bar, 0..1
}

// FuelShares returns the non-zero fuels of mix, largest first. Ties keep
// table order.
func FuelShares(mix models.FuelMix) []FuelShare {
	shares := make([]FuelShare, 0, len(fuelTable))
	var total float64
	for _, f := range fuelTable {
		v := mix.Value(f.Key)
		if v <= 0 {
			continue
		}
		shares = append(shares, FuelShare{Fuel: f, Value: v})
		total += v
	}

	slices.SortStableFunc(shares, func(a, b FuelShare) int {
		switch {
		case a.Value > b.Value:
			return -1
		case a.Value < b.Value:
			return 1
		default:
			return 0
		}
	})

	for i := range shares {
		shares[i].Share = shares[i].Value / total
	}
	return shares
}
