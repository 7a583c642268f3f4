package charts

import (
	"time"

	"github.com/jgoulah/gridstats/pkg/models"
)

const daysPerWeek = 7

// dayLabels are the calendar row labels; rows run Monday to Sunday
var dayLabels = [daysPerWeek]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// labelledRows are the rows that get a day label (Mon, Wed, Fri)
var labelledRows = []int{0, 2, 4}

// CalendarCell is one day slot of the calendar grid
type CalendarCell struct {
	Week    int                `json:"week"`
	Weekday time.Weekday       `json:"weekday"`
	Date    time.Time          `json:"date"`
	Usage   *models.DailyUsage `json:"usage,omitempty"` // nil when there is no reading
	Level   int                `json:"level"`
	X       float64            `json:"x"`
	Y       float64            `json:"y"`
	Size    float64            `json:"size"`
	Title   string             `json:"title,omitempty"`
}

// Calendar is a fixed one-year, Sunday-aligned grid of days
type Calendar struct {
	Start      time.Time                         `json:"start"` // always a Sunday
	End        time.Time                         `json:"end"`   // always a Saturday
	WeekStarts []time.Time                       `json:"week_starts"`
	Weeks      [][daysPerWeek]*models.DailyUsage `json:"-"`
	Months     []MonthMarker                     `json:"months"`
	Thresholds Thresholds                        `json:"thresholds"`

	// Geometry. Cells are ordered by display row (Monday first), then week.
	Width       float64        `json:"width"`
	Height      float64        `json:"height"`
	Cells       []CalendarCell `json:"cells"`
	MonthLabels []Label        `json:"month_labels"`
	DayLabels   []Label        `json:"day_labels"`
}

// NumWeeks returns the number of week columns
func (c *Calendar) NumWeeks() int {
	return len(c.WeekStarts)
}

// CalendarRange returns the Sunday the grid starts on and the Saturday it
// ends on for the given reference date. The window covers the year ending
// on the reference date.
func CalendarRange(referenceDate time.Time) (start, end time.Time) {
	today := models.CivilDate(referenceDate)

	oneYearAgo := today.AddDate(-1, 0, 1)
	start = oneYearAgo.AddDate(0, 0, -int(oneYearAgo.Weekday()))
	end = today.AddDate(0, 0, int(time.Saturday-today.Weekday()))
	return start, end
}

// BuildCalendar lays out the daily rows on the one-year grid ending at
// referenceDate. Levels are classified against the whole daily
// distribution, not only the days that fall inside the grid.
func BuildCalendar(referenceDate time.Time, daily []models.DailyUsage, opts Options) Calendar {
	opts = opts.WithDefaults()
	start, end := CalendarRange(referenceDate)
	totalDays := int(end.Sub(start)/(24*time.Hour)) + 1
	numWeeks := (totalDays + daysPerWeek - 1) / daysPerWeek

	byDate := make(map[string]*models.DailyUsage, len(daily))
	values := make([]float64, 0, len(daily))
	for i := range daily {
		byDate[models.DateKey(daily[i].Date)] = &daily[i]
		values = append(values, daily[i].ConsumptionKWh)
	}

	cal := Calendar{
		Start:      start,
		End:        end,
		WeekStarts: make([]time.Time, numWeeks),
		Weeks:      make([][daysPerWeek]*models.DailyUsage, numWeeks),
		Thresholds: NewThresholds(values),
	}
	for w := 0; w < numWeeks; w++ {
		sunday := start.AddDate(0, 0, w*daysPerWeek)
		cal.WeekStarts[w] = sunday
		for d := 0; d < daysPerWeek; d++ {
			cal.Weeks[w][d] = byDate[models.DateKey(sunday.AddDate(0, 0, d))]
		}
	}
	cal.Months = monthMarkers(cal.WeekStarts)

	cal.layout(opts)
	return cal
}

func (c *Calendar) layout(opts Options) {
	pad := calendarPadding
	step := opts.CellSize + opts.CellGap
	c.Width = pad.Left + float64(c.NumWeeks())*step + pad.Right
	c.Height = pad.Top + daysPerWeek*step + pad.Bottom

	for _, m := range c.Months {
		c.MonthLabels = append(c.MonthLabels, Label{
			X:      pad.Left + float64(m.Index)*step,
			Y:      6,
			Text:   m.Label,
			Anchor: AnchorStart,
		})
	}
	for _, row := range labelledRows {
		c.DayLabels = append(c.DayLabels, Label{
			X:      pad.Left - 4,
			Y:      pad.Top + float64(row)*step + opts.CellSize/2,
			Text:   dayLabels[row],
			Anchor: AnchorEnd,
		})
	}

	c.Cells = make([]CalendarCell, 0, c.NumWeeks()*daysPerWeek)
	for row := 0; row < daysPerWeek; row++ {
		weekday := time.Weekday((row + 1) % daysPerWeek)
		for w, week := range c.Weeks {
			cell := CalendarCell{
				Week:    w,
				Weekday: weekday,
				Date:    c.WeekStarts[w].AddDate(0, 0, int(weekday)),
				Usage:   week[weekday],
				X:       pad.Left + float64(w)*step,
				Y:       pad.Top + float64(row)*step,
				Size:    opts.CellSize,
			}
			if cell.Usage != nil {
				cell.Level = Level(cell.Usage.ConsumptionKWh, c.Thresholds)
				cell.Title = models.DateKey(cell.Date) + " · " + formatKWh(cell.Usage.ConsumptionKWh) + " kWh"
			}
			c.Cells = append(c.Cells, cell)
		}
	}
}
