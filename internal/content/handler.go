// Package content implements the CRUD service shared by all content types.
// One handler is instantiated per type (body care, face & hair care, healthy
// food); only the collection, image directory, and display label differ.
package content

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/devika/wellnest/backend/internal/apperr"
	"github.com/devika/wellnest/backend/internal/httpx"
	"github.com/devika/wellnest/backend/internal/models"
	"github.com/devika/wellnest/backend/internal/store"
)

const maxUploadSize = 10 << 20 // 10 MiB

// ItemStore defines the interface for content persistence.
type ItemStore interface {
	Insert(ctx context.Context, item *models.ContentItem) (*models.ContentItem, error)
	UpdateByID(ctx context.Context, id string, fields map[string]any) (*models.ContentItem, error)
	List(ctx context.Context) ([]models.ContentItem, error)
	GetByID(ctx context.Context, id string) (*models.ContentItem, error)
	DeleteByID(ctx context.Context, id string) (*models.ContentItem, error)
	Names(ctx context.Context) ([]models.ContentName, error)
}

// ImageSink defines the interface for image storage.
type ImageSink interface {
	Save(ctx context.Context, category, ext string, r io.Reader) (string, error)
	Remove(ctx context.Context, publicPath string) error
}

// Config is the per-content-type parameterization.
type Config struct {
	// Label names the content type in messages, e.g. "body care tip".
	Label string
	// Category is the image directory and public path prefix, e.g. "bodycare".
	Category string
}

// Handler serves one content type's routes.
type Handler struct {
	items  ItemStore
	images ImageSink
	cfg    Config
}

func NewHandler(items ItemStore, images ImageSink, cfg Config) *Handler {
	return &Handler{items: items, images: images, cfg: cfg}
}

// Routes mounts the content endpoints on a fresh router.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/create", h.Create)
	r.Put("/update/{id}", h.Update)
	r.Get("/list", h.List)
	r.Get("/details/{id}", h.Details)
	r.Get("/filter", h.Filter)
	r.Delete("/delete/{id}", h.Delete)
	return r
}

// Create stores a new item together with its uploaded image.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		httpx.HandleErr(w, r, apperr.Validation("invalid multipart form"))
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		httpx.HandleErr(w, r, apperr.Validation("image upload is required"))
		return
	}
	defer file.Close()

	name := strings.TrimSpace(r.FormValue("name"))
	if name == "" {
		httpx.HandleErr(w, r, apperr.Validation("name is required"))
		return
	}
	contextNum, err := strconv.Atoi(r.FormValue("context"))
	if err != nil {
		httpx.HandleErr(w, r, apperr.Validation("context must be a number"))
		return
	}

	imagePath, err := h.images.Save(r.Context(), h.cfg.Category, filepath.Ext(header.Filename), file)
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	item, err := h.items.Insert(r.Context(), &models.ContentItem{
		Name:        name,
		Description: r.FormValue("description"),
		Making:      r.FormValue("making"),
		Chart:       r.FormValue("chart"),
		Image:       imagePath,
		Context:     contextNum,
	})
	if errors.Is(err, store.ErrDuplicate) {
		h.removeImage(r.Context(), imagePath)
		httpx.HandleErr(w, r, apperr.Conflict(h.cfg.Label+" already exists"))
		return
	}
	if err != nil {
		h.removeImage(r.Context(), imagePath)
		httpx.HandleErr(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, item)
}

// Update merges supplied fields into an existing item. The stored image path
// is replaced only when a new file accompanies the request.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		httpx.HandleErr(w, r, apperr.Validation("invalid multipart form"))
		return
	}

	fields := map[string]any{}
	for _, key := range []string{"name", "description", "making", "chart"} {
		if vs, ok := r.MultipartForm.Value[key]; ok && len(vs) > 0 {
			fields[key] = vs[0]
		}
	}
	if vs, ok := r.MultipartForm.Value["context"]; ok && len(vs) > 0 {
		n, err := strconv.Atoi(vs[0])
		if err != nil {
			httpx.HandleErr(w, r, apperr.Validation("context must be a number"))
			return
		}
		fields["context"] = n
	}

	file, header, err := r.FormFile("image")
	switch {
	case err == nil:
		defer file.Close()
		imagePath, err := h.images.Save(r.Context(), h.cfg.Category, filepath.Ext(header.Filename), file)
		if err != nil {
			httpx.HandleErr(w, r, err)
			return
		}
		fields["image"] = imagePath
	case errors.Is(err, http.ErrMissingFile):
		// keep the stored image path
	default:
		httpx.HandleErr(w, r, apperr.Validation("invalid image upload"))
		return
	}

	item, err := h.items.UpdateByID(r.Context(), id, fields)
	if errors.Is(err, store.ErrNotFound) {
		httpx.HandleErr(w, r, apperr.NotFound(h.cfg.Label+" not found"))
		return
	}
	if errors.Is(err, store.ErrDuplicate) {
		httpx.HandleErr(w, r, apperr.Conflict(h.cfg.Label+" already exists"))
		return
	}
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, item)
}

// List returns all items, newest-created first.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.items.List(r.Context())
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}
	if items == nil {
		items = []models.ContentItem{}
	}
	httpx.WriteJSON(w, http.StatusOK, items)
}

// Details returns a single item.
func (h *Handler) Details(w http.ResponseWriter, r *http.Request) {
	item, err := h.items.GetByID(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		httpx.HandleErr(w, r, apperr.NotFound(h.cfg.Label+" not found"))
		return
	}
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, item)
}

// Filter returns name-only projections for client-side pickers.
func (h *Handler) Filter(w http.ResponseWriter, r *http.Request) {
	names, err := h.items.Names(r.Context())
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}
	if names == nil {
		names = []models.ContentName{}
	}
	httpx.WriteJSON(w, http.StatusOK, names)
}

// Delete removes the item and best-effort deletes its image file.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	item, err := h.items.DeleteByID(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		httpx.HandleErr(w, r, apperr.NotFound(h.cfg.Label+" not found"))
		return
	}
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	if item.Image != "" {
		h.removeImage(r.Context(), item.Image)
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]string{
		"message": h.cfg.Label + " deleted successfully",
	})
}

func (h *Handler) removeImage(ctx context.Context, path string) {
	if err := h.images.Remove(ctx, path); err != nil {
		slog.Warn("image cleanup failed", "path", path, "error", err)
	}
}
