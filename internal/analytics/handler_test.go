package analytics

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/refinesurgery/clinic-platform/internal/appointments"
	"github.com/refinesurgery/clinic-platform/internal/blog"
	"github.com/refinesurgery/clinic-platform/internal/gallery"
	"github.com/refinesurgery/clinic-platform/internal/team"
)

var handlerRefTime = time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)

func seedStore(t *testing.T, n int) *appointments.Store {
	t.Helper()
	repo := appointments.NewInMemoryRepository()
	for i := 0; i < n; i++ {
		_, err := repo.Create(context.Background(), appointments.NewAppointment{
			Name:      "Patient",
			Email:     "patient@example.com",
			Phone:     "+255712345678",
			Procedure: "Rhinoplasty",
		})
		require.NoError(t, err)
	}
	return appointments.NewStore(repo)
}

func TestReportHandler(t *testing.T) {
	h := NewHandler(seedStore(t, 3), nil)
	h.SetClock(func() time.Time { return handlerRefTime })

	rec := httptest.NewRecorder()
	h.Report(rec, httptest.NewRequest(http.MethodGet, "/admin/analytics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var report Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, 3, report.Summary.TotalAppointments)
	assert.Equal(t, int64(6_000_000), report.Summary.TotalRevenue)
	assert.Len(t, report.ProcedureData, 1)
}

func TestDashboardHandler(t *testing.T) {
	store := seedStore(t, 2)

	blogRepo := blog.NewInMemoryRepository()
	_, err := blogRepo.Create(context.Background(), blog.NewPost{Title: "Recovery tips", Content: "..."})
	require.NoError(t, err)

	galleryRepo := gallery.NewInMemoryRepository()
	_, err = galleryRepo.Create(context.Background(), gallery.NewImage{
		Title: "Before/after", ImageURL: "https://cdn.example.com/a.jpg", StorageName: "gallery/a.jpg",
	})
	require.NoError(t, err)

	teamRepo := team.NewInMemoryRepository()
	_, err = teamRepo.Create(context.Background(), team.NewMember{Name: "Dr. Amani Kaaya", Role: "Surgeon"})
	require.NoError(t, err)

	h := NewDashboardHandler(store, blogRepo, galleryRepo, teamRepo, nil)

	rec := httptest.NewRecorder()
	h.Dashboard(rec, httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp DashboardResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Stats.TotalAppointments)
	assert.Equal(t, 1, resp.BlogPosts)
	assert.Equal(t, 1, resp.GalleryImages)
	assert.Equal(t, 1, resp.TeamMembers)
	assert.Len(t, resp.RecentActivity, 4)

	for i := 1; i < len(resp.RecentActivity); i++ {
		assert.False(t, resp.RecentActivity[i-1].CreatedAt.Before(resp.RecentActivity[i].CreatedAt),
			"activity must be newest first")
	}
}

func TestDashboardCapsRecentActivity(t *testing.T) {
	store := seedStore(t, 5)

	blogRepo := blog.NewInMemoryRepository()
	galleryRepo := gallery.NewInMemoryRepository()
	for i := 0; i < 3; i++ {
		_, err := blogRepo.Create(context.Background(), blog.NewPost{Title: "Post", Content: "..."})
		require.NoError(t, err)
		_, err = galleryRepo.Create(context.Background(), gallery.NewImage{
			Title: "Image", ImageURL: "https://cdn.example.com/x.jpg", StorageName: "gallery/x.jpg",
		})
		require.NoError(t, err)
	}

	h := NewDashboardHandler(store, blogRepo, galleryRepo, team.NewInMemoryRepository(), nil)

	rec := httptest.NewRecorder()
	h.Dashboard(rec, httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp DashboardResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.RecentActivity, 5)
}
