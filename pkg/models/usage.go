package models

import "time"

// DateLayout is the layout used for date-only keys in the store and in joins
const DateLayout = "2006-01-02"

// EnergyInterval represents a single raw reading (typically 30 minutes wide)
type EnergyInterval struct {
	IntervalStart   time.Time `json:"interval_start"`
	ConsumptionKWh  float64   `json:"consumption_kwh"`
	CarbonIntensity float64   `json:"carbon_intensity"` // gCO2/kWh
	FuelPcts
}

// Summary holds the whole-dataset totals
type Summary struct {
	TotalKWh           float64   `json:"total_kwh"`
	AvgCarbonIntensity float64   `json:"avg_carbon_intensity"`
	Earliest           time.Time `json:"earliest"` // Zero when the store is empty
	Latest             time.Time `json:"latest"`
	TotalDays          int       `json:"total_days"`
}

// DailyAverage returns the average kWh per tracked day, or 0 with no data
func (s Summary) DailyAverage() float64 {
	if s.TotalDays == 0 {
		return 0
	}
	return s.TotalKWh / float64(s.TotalDays)
}

// DateRange returns a label like "Jan 2024 – Mar 2025", or "" with no data
func (s Summary) DateRange() string {
	if s.TotalDays == 0 || s.Earliest.IsZero() {
		return ""
	}
	return s.Earliest.Format("Jan 2006") + " – " + s.Latest.Format("Jan 2006")
}

// DailyUsage represents one calendar day's aggregated usage
type DailyUsage struct {
	Date               time.Time `json:"date"`
	ConsumptionKWh     float64   `json:"consumption_kwh"`
	AvgCarbonIntensity float64   `json:"avg_carbon_intensity"`
	FuelPcts
}

// WeeklyUsage represents one Sunday-aligned week's aggregated usage
type WeeklyUsage struct {
	WeekStart          time.Time `json:"week_start"` // Always a Sunday
	ConsumptionKWh     float64   `json:"consumption_kwh"`
	AvgCarbonIntensity float64   `json:"avg_carbon_intensity"`
	FuelPcts
}

// HalfHourlyUsage represents the consumption of a single (date, time slot) pair
type HalfHourlyUsage struct {
	Date           time.Time `json:"date"`
	TimeSlot       string    `json:"time_slot"` // "00:00" .. "23:30"
	ConsumptionKWh float64   `json:"consumption_kwh"`
}

// DateKey formats a date as a join key
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

// CivilDate truncates t to midnight UTC of its own calendar date
func CivilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
