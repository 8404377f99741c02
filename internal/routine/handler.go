// Package routine implements the daily morning-routine tracker. At most one
// record exists per (email, calendar day); the day comes from the server
// clock.
package routine

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/devika/wellnest/backend/internal/apperr"
	"github.com/devika/wellnest/backend/internal/httpx"
	"github.com/devika/wellnest/backend/internal/models"
	"github.com/devika/wellnest/backend/internal/store"
)

// RecordStore defines the interface for routine persistence.
type RecordStore interface {
	Insert(ctx context.Context, rec *models.RoutineRecord) (*models.RoutineRecord, error)
	Get(ctx context.Context, email, date string) (*models.RoutineRecord, error)
	Find(ctx context.Context, email, date string) ([]models.RoutineRecord, error)
	List(ctx context.Context) ([]models.RoutineRecord, error)
	Summary(ctx context.Context) ([]models.RoutineDay, error)
}

// Handler holds the routine tracker HTTP handlers.
type Handler struct {
	records  RecordStore
	validate *validator.Validate
	now      func() time.Time
}

func NewHandler(records RecordStore) *Handler {
	return &Handler{records: records, validate: validator.New(), now: time.Now}
}

// Routes mounts the tracker endpoints on a fresh router.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/save-routine", h.Save)
	r.Get("/routines", h.Query)
	r.Get("/list", h.List)
	r.Get("/check-routine", h.Check)
	r.Get("/tracker-summary", h.Summary)
	return r
}

func (h *Handler) today() string {
	return h.now().UTC().Format("2006-01-02")
}

// Save records today's routine for an identity, once.
func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	var req models.SaveRoutineRequest
	if err := httpx.ReadJSON(r, &req); err != nil {
		httpx.HandleErr(w, r, apperr.Validation("invalid request body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.HandleErr(w, r, apperr.Validation("email and morning_routine are required"))
		return
	}

	rec, err := h.records.Insert(r.Context(), &models.RoutineRecord{
		Email:          req.Email,
		MorningRoutine: req.MorningRoutine,
		Date:           h.today(),
	})
	if errors.Is(err, store.ErrDuplicate) {
		httpx.HandleErr(w, r, apperr.ErrAlreadySubmitted)
		return
	}
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, rec)
}

type checkResponse struct {
	Exists  bool                  `json:"exists"`
	Routine *models.RoutineRecord `json:"routine"`
}

// Check reports whether today's record exists for the given identity.
func (h *Handler) Check(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		httpx.HandleErr(w, r, apperr.Validation("email is required"))
		return
	}

	rec, err := h.records.Get(r.Context(), email, h.today())
	if errors.Is(err, store.ErrNotFound) {
		httpx.WriteJSON(w, http.StatusOK, checkResponse{Exists: false})
		return
	}
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, checkResponse{Exists: true, Routine: rec})
}

// Query returns the records for one identity and day.
func (h *Handler) Query(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	date := r.URL.Query().Get("date")
	if email == "" || date == "" {
		httpx.HandleErr(w, r, apperr.Validation("email and date are required"))
		return
	}

	recs, err := h.records.Find(r.Context(), email, date)
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}
	if recs == nil {
		recs = []models.RoutineRecord{}
	}
	httpx.WriteJSON(w, http.StatusOK, recs)
}

// List returns every record, newest day first.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	recs, err := h.records.List(r.Context())
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}
	if recs == nil {
		recs = []models.RoutineRecord{}
	}
	httpx.WriteJSON(w, http.StatusOK, recs)
}

type summaryResponse struct {
	CompletedDates []models.RoutineDay `json:"completed_dates"`
}

// Summary returns the (day, identity) pairs with a record, for the calendar
// view.
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	days, err := h.records.Summary(r.Context())
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}
	if days == nil {
		days = []models.RoutineDay{}
	}
	httpx.WriteJSON(w, http.StatusOK, summaryResponse{CompletedDates: days})
}
