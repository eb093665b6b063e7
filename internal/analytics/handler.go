package analytics

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"time"

	"github.com/refinesurgery/clinic-platform/internal/appointments"
	"github.com/refinesurgery/clinic-platform/internal/blog"
	"github.com/refinesurgery/clinic-platform/internal/gallery"
	"github.com/refinesurgery/clinic-platform/internal/team"
	"github.com/refinesurgery/clinic-platform/pkg/logging"
)

// Handler serves the analytics report for the admin dashboard.
type Handler struct {
	store  *appointments.Store
	logger *logging.Logger
	clock  func() time.Time
}

// NewHandler creates an analytics handler.
func NewHandler(store *appointments.Store, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{store: store, logger: logger, clock: time.Now}
}

// SetClock overrides the time source, for tests.
func (h *Handler) SetClock(clock func() time.Time) {
	h.clock = clock
}

// Report handles GET /admin/analytics.
func (h *Handler) Report(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Refresh(r.Context()); err != nil {
		h.logger.Error("failed to refresh appointments", "error", err)
		http.Error(w, "failed to compute analytics", http.StatusInternalServerError)
		return
	}
	report := BuildReport(h.store.Appointments(), h.clock())
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(report)
}

// ActivityItem is a recent change shown on the dashboard.
type ActivityItem struct {
	Kind      string    `json:"kind"` // "appointment", "blog", "gallery"
	Title     string    `json:"title"`
	Detail    string    `json:"detail,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// DashboardResponse is the admin landing page payload.
type DashboardResponse struct {
	Stats          Summary        `json:"stats"`
	BlogPosts      int            `json:"blog_posts"`
	GalleryImages  int            `json:"gallery_images"`
	TeamMembers    int            `json:"team_members"`
	RecentActivity []ActivityItem `json:"recent_activity"`
}

// DashboardHandler aggregates headline counts across the content
// repositories.
type DashboardHandler struct {
	store   *appointments.Store
	blog    blog.Repository
	gallery gallery.Repository
	team    team.Repository
	logger  *logging.Logger
	clock   func() time.Time
}

// NewDashboardHandler creates a dashboard handler.
func NewDashboardHandler(store *appointments.Store, blogRepo blog.Repository, galleryRepo gallery.Repository, teamRepo team.Repository, logger *logging.Logger) *DashboardHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &DashboardHandler{
		store:   store,
		blog:    blogRepo,
		gallery: galleryRepo,
		team:    teamRepo,
		logger:  logger,
		clock:   time.Now,
	}
}

// SetClock overrides the time source, for tests.
func (h *DashboardHandler) SetClock(clock func() time.Time) {
	h.clock = clock
}

// Dashboard handles GET /admin/dashboard.
func (h *DashboardHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	resp, err := h.build(r.Context())
	if err != nil {
		h.logger.Error("failed to build dashboard", "error", err)
		http.Error(w, "failed to build dashboard", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

const maxRecentActivity = 5

func (h *DashboardHandler) build(ctx context.Context) (*DashboardResponse, error) {
	if err := h.store.Refresh(ctx); err != nil {
		return nil, err
	}
	appts := h.store.Appointments()

	posts, err := h.blog.List(ctx)
	if err != nil {
		return nil, err
	}
	images, err := h.gallery.List(ctx)
	if err != nil {
		return nil, err
	}
	members, err := h.team.List(ctx)
	if err != nil {
		return nil, err
	}

	var activity []ActivityItem
	for i, a := range appts {
		if i >= 3 {
			break
		}
		activity = append(activity, ActivityItem{
			Kind:      "appointment",
			Title:     a.Name,
			Detail:    a.Procedure,
			CreatedAt: a.CreatedAt,
		})
	}
	for i, p := range posts {
		if i >= 2 {
			break
		}
		activity = append(activity, ActivityItem{
			Kind:      "blog",
			Title:     p.Title,
			Detail:    string(p.Status),
			CreatedAt: p.CreatedAt,
		})
	}
	for i, img := range images {
		if i >= 2 {
			break
		}
		activity = append(activity, ActivityItem{
			Kind:      "gallery",
			Title:     img.Title,
			Detail:    img.Category,
			CreatedAt: img.CreatedAt,
		})
	}
	sort.Slice(activity, func(i, j int) bool {
		return activity[i].CreatedAt.After(activity[j].CreatedAt)
	})
	if len(activity) > maxRecentActivity {
		activity = activity[:maxRecentActivity]
	}

	return &DashboardResponse{
		Stats:          Summarize(appts, h.clock()),
		BlogPosts:      len(posts),
		GalleryImages:  len(images),
		TeamMembers:    len(members),
		RecentActivity: activity,
	}, nil
}
