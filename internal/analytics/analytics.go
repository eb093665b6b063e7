// Package analytics derives dashboard and reporting statistics from the
// full appointment collection. Every figure is recomputed from scratch
// on each call; results are deterministic and independent of input
// ordering.
package analytics

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/refinesurgery/clinic-platform/internal/appointments"
)

// revenuePerAppointmentTZS is a display-only estimate used for the
// monthly revenue series. There is no pricing linkage; swap
// estimatedRevenue for a real lookup when one exists.
const revenuePerAppointmentTZS int64 = 2_000_000

func estimatedRevenue(count int) int64 {
	return int64(count) * revenuePerAppointmentTZS
}

// conversionRate approximates inquiry-to-appointment conversion. The
// padded denominator is a stand-in: there is no inquiries entity to
// measure against.
func conversionRate(total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(total) / float64(total+5)))
}

// Summary holds the dashboard headline counts.
type Summary struct {
	TotalAppointments     int `json:"total_appointments"`
	PendingAppointments   int `json:"pending_appointments"`
	ThisMonthAppointments int `json:"this_month_appointments"`
	ConversionRate        int `json:"conversion_rate"`
}

// Summarize computes the dashboard counts. The reference time fixes
// the current calendar month boundary.
func Summarize(appts []appointments.Appointment, now time.Time) Summary {
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	s := Summary{TotalAppointments: len(appts)}
	for _, a := range appts {
		if a.Status == appointments.StatusPending {
			s.PendingAppointments++
		}
		if !a.CreatedAt.Before(monthStart) {
			s.ThisMonthAppointments++
		}
	}
	s.ConversionRate = conversionRate(s.TotalAppointments)
	return s
}

// MonthlyPoint is one month of the appointment/revenue series.
type MonthlyPoint struct {
	Month        string `json:"month"`
	Appointments int    `json:"appointments"`
	Revenue      int64  `json:"revenue"`
}

// Slice is one labeled segment of a distribution chart.
type Slice struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
	Color string `json:"color"`
}

// ReportSummary holds the analytics page headline figures.
type ReportSummary struct {
	TotalAppointments      int   `json:"total_appointments"`
	TotalRevenue           int64 `json:"total_revenue"`
	AvgMonthlyAppointments int   `json:"avg_monthly_appointments"`
	ConversionRate         int   `json:"conversion_rate"`
}

// Report is the full analytics payload.
type Report struct {
	AppointmentData []MonthlyPoint `json:"appointment_data"`
	ProcedureData   []Slice        `json:"procedure_data"`
	StatusData      []Slice        `json:"status_data"`
	Summary         ReportSummary  `json:"summary"`
}

var monthLabels = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// procedurePalette is cycled through procedure slices in order.
var procedurePalette = []string{"#8884d8", "#82ca9d", "#ffc658", "#ff8042", "#0088fe", "#ff6b6b", "#4ecdc4"}

var statusColors = map[string]string{
	"pending":   "#ffa726",
	"confirmed": "#66bb6a",
	"completed": "#29b6f6",
	"cancelled": "#ef5350",
}

const unknownStatusColor = "#9e9e9e"

// BuildReport computes the analytics breakdowns for the calendar year
// of the reference time.
func BuildReport(appts []appointments.Appointment, now time.Time) Report {
	monthly := monthlySeries(appts, now)

	var totalRevenue int64
	for _, p := range monthly {
		totalRevenue += p.Revenue
	}
	avgMonthly := 0
	if len(monthly) > 0 {
		avgMonthly = int(math.Round(float64(len(appts)) / float64(len(monthly))))
	}

	return Report{
		AppointmentData: monthly,
		ProcedureData:   procedureDistribution(appts),
		StatusData:      statusDistribution(appts),
		Summary: ReportSummary{
			TotalAppointments:      len(appts),
			TotalRevenue:           totalRevenue,
			AvgMonthlyAppointments: avgMonthly,
			ConversionRate:         conversionRate(len(appts)),
		},
	}
}

// monthlySeries counts appointments created in each calendar month of
// the current year. Months with neither appointments nor revenue are
// dropped from the series.
func monthlySeries(appts []appointments.Appointment, now time.Time) []MonthlyPoint {
	year := now.Year()
	counts := make([]int, 12)
	for _, a := range appts {
		created := a.CreatedAt.In(now.Location())
		if created.Year() == year {
			counts[int(created.Month())-1]++
		}
	}

	series := make([]MonthlyPoint, 0, 12)
	for i, count := range counts {
		revenue := estimatedRevenue(count)
		if count == 0 && revenue == 0 {
			continue
		}
		series = append(series, MonthlyPoint{
			Month:        monthLabels[i],
			Appointments: count,
			Revenue:      revenue,
		})
	}
	return series
}

// procedureDistribution group-counts appointments by procedure, with
// missing procedures bucketed under "Other". Colors are assigned
// cyclically from the palette after a deterministic sort.
func procedureDistribution(appts []appointments.Appointment) []Slice {
	counts := map[string]int{}
	for _, a := range appts {
		name := a.Procedure
		if name == "" {
			name = "Other"
		}
		counts[name]++
	}

	slices := make([]Slice, 0, len(counts))
	for name, value := range counts {
		slices = append(slices, Slice{Name: name, Value: value})
	}
	sortSlices(slices)
	for i := range slices {
		slices[i].Color = procedurePalette[i%len(procedurePalette)]
	}
	return slices
}

// statusDistribution group-counts appointments by status, defaulting
// missing values to pending, with fixed per-status colors and
// capitalized labels.
func statusDistribution(appts []appointments.Appointment) []Slice {
	counts := map[string]int{}
	for _, a := range appts {
		status := string(a.Status)
		if status == "" {
			status = "pending"
		}
		counts[status]++
	}

	slices := make([]Slice, 0, len(counts))
	for status, value := range counts {
		color, ok := statusColors[status]
		if !ok {
			color = unknownStatusColor
		}
		slices = append(slices, Slice{Name: capitalize(status), Value: value, Color: color})
	}
	sortSlices(slices)
	return slices
}

// sortSlices orders by count descending, then name, so group counts do
// not depend on map iteration order.
func sortSlices(s []Slice) {
	sort.Slice(s, func(i, j int) bool {
		if s[i].Value != s[j].Value {
			return s[i].Value > s[j].Value
		}
		return s[i].Name < s[j].Name
	})
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
