package analytics

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/refinesurgery/clinic-platform/internal/appointments"
)

var ref = time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)

func appt(status appointments.Status, procedure string, createdAt time.Time) appointments.Appointment {
	return appointments.Appointment{
		Status:    status,
		Procedure: procedure,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil, ref)
	assert.Equal(t, 0, s.TotalAppointments)
	assert.Equal(t, 0, s.PendingAppointments)
	assert.Equal(t, 0, s.ThisMonthAppointments)
	assert.Equal(t, 0, s.ConversionRate)
}

func TestSummarizeCounts(t *testing.T) {
	appts := []appointments.Appointment{
		appt(appointments.StatusPending, "Rhinoplasty", ref.AddDate(0, 0, -1)),
		appt(appointments.StatusPending, "Face Lift", ref.AddDate(0, -2, 0)),
		appt(appointments.StatusConfirmed, "Rhinoplasty", ref.AddDate(0, 0, -2)),
	}
	s := Summarize(appts, ref)

	assert.Equal(t, 3, s.TotalAppointments)
	assert.Equal(t, 2, s.PendingAppointments)
	assert.Equal(t, 2, s.ThisMonthAppointments, "only appointments created this calendar month")
	// round(100 * 3 / (3+5)) = 38
	assert.Equal(t, 38, s.ConversionRate)
}

func TestSummarizeMonthBoundary(t *testing.T) {
	monthStart := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	appts := []appointments.Appointment{
		appt(appointments.StatusPending, "", monthStart),
		appt(appointments.StatusPending, "", monthStart.Add(-time.Nanosecond)),
	}
	s := Summarize(appts, ref)
	assert.Equal(t, 1, s.ThisMonthAppointments)
}

func TestStatusDistributionPermutationInvariant(t *testing.T) {
	appts := []appointments.Appointment{
		appt(appointments.StatusPending, "", ref),
		appt(appointments.StatusPending, "", ref),
		appt(appointments.StatusConfirmed, "", ref),
	}

	want := statusDistribution(appts)
	require.Len(t, want, 2)
	assert.Equal(t, Slice{Name: "Pending", Value: 2, Color: "#ffa726"}, want[0])
	assert.Equal(t, Slice{Name: "Confirmed", Value: 1, Color: "#66bb6a"}, want[1])

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 10; i++ {
		shuffled := append([]appointments.Appointment{}, appts...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		assert.Equal(t, want, statusDistribution(shuffled))
	}
}

func TestStatusDistributionDefaultsMissingToPending(t *testing.T) {
	appts := []appointments.Appointment{{CreatedAt: ref}}
	got := statusDistribution(appts)
	require.Len(t, got, 1)
	assert.Equal(t, "Pending", got[0].Name)
}

func TestProcedureDistribution(t *testing.T) {
	appts := []appointments.Appointment{
		appt(appointments.StatusPending, "Rhinoplasty", ref),
		appt(appointments.StatusPending, "Rhinoplasty", ref),
		appt(appointments.StatusPending, "", ref),
	}
	got := procedureDistribution(appts)
	require.Len(t, got, 2)
	assert.Equal(t, "Rhinoplasty", got[0].Name)
	assert.Equal(t, 2, got[0].Value)
	assert.Equal(t, "Other", got[1].Name, "missing procedure bucketed as Other")
	assert.Equal(t, procedurePalette[0], got[0].Color)
	assert.Equal(t, procedurePalette[1], got[1].Color)
}

func TestBuildReportEmpty(t *testing.T) {
	r := BuildReport(nil, ref)
	assert.Empty(t, r.AppointmentData, "all months dropped by the zero-count rule")
	assert.Empty(t, r.ProcedureData)
	assert.Empty(t, r.StatusData)
	assert.Equal(t, 0, r.Summary.TotalAppointments)
	assert.Equal(t, int64(0), r.Summary.TotalRevenue)
	assert.Equal(t, 0, r.Summary.ConversionRate)
	assert.Equal(t, 0, r.Summary.AvgMonthlyAppointments)
}

func TestBuildReportMonthlySeries(t *testing.T) {
	appts := []appointments.Appointment{
		appt(appointments.StatusPending, "Rhinoplasty", time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)),
		appt(appointments.StatusPending, "Rhinoplasty", time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)),
		appt(appointments.StatusConfirmed, "Face Lift", time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)),
		// Prior year is excluded from the series entirely.
		appt(appointments.StatusConfirmed, "Face Lift", time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)),
	}
	r := BuildReport(appts, ref)

	require.Len(t, r.AppointmentData, 2)
	assert.Equal(t, MonthlyPoint{Month: "Mar", Appointments: 2, Revenue: 4_000_000}, r.AppointmentData[0])
	assert.Equal(t, MonthlyPoint{Month: "Aug", Appointments: 1, Revenue: 2_000_000}, r.AppointmentData[1])

	assert.Equal(t, int64(6_000_000), r.Summary.TotalRevenue)
	assert.Equal(t, 4, r.Summary.TotalAppointments)
	// 4 appointments over 2 active months.
	assert.Equal(t, 2, r.Summary.AvgMonthlyAppointments)
}

func TestBuildReportDeterministic(t *testing.T) {
	appts := []appointments.Appointment{
		appt(appointments.StatusPending, "Rhinoplasty", ref),
		appt(appointments.StatusConfirmed, "Face Lift", ref),
		appt(appointments.StatusCancelled, "Face Lift", ref),
	}
	first := BuildReport(appts, ref)
	second := BuildReport(appts, ref)
	assert.Equal(t, first, second)
}
