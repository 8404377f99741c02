package content

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devika/wellnest/backend/internal/models"
	"github.com/devika/wellnest/backend/internal/store"
)

type mockItemStore struct {
	insertFunc func(ctx context.Context, item *models.ContentItem) (*models.ContentItem, error)
	updateFunc func(ctx context.Context, id string, fields map[string]any) (*models.ContentItem, error)
	listFunc   func(ctx context.Context) ([]models.ContentItem, error)
	getFunc    func(ctx context.Context, id string) (*models.ContentItem, error)
	deleteFunc func(ctx context.Context, id string) (*models.ContentItem, error)
	namesFunc  func(ctx context.Context) ([]models.ContentName, error)
}

func (m *mockItemStore) Insert(ctx context.Context, item *models.ContentItem) (*models.ContentItem, error) {
	return m.insertFunc(ctx, item)
}

func (m *mockItemStore) UpdateByID(ctx context.Context, id string, fields map[string]any) (*models.ContentItem, error) {
	return m.updateFunc(ctx, id, fields)
}

func (m *mockItemStore) List(ctx context.Context) ([]models.ContentItem, error) {
	return m.listFunc(ctx)
}

func (m *mockItemStore) GetByID(ctx context.Context, id string) (*models.ContentItem, error) {
	return m.getFunc(ctx, id)
}

func (m *mockItemStore) DeleteByID(ctx context.Context, id string) (*models.ContentItem, error) {
	return m.deleteFunc(ctx, id)
}

func (m *mockItemStore) Names(ctx context.Context) ([]models.ContentName, error) {
	return m.namesFunc(ctx)
}

var testConfig = Config{Label: "body care tip", Category: "bodycare"}

func newTestHandler(t *testing.T, items ItemStore) (*Handler, string) {
	t.Helper()
	dir := t.TempDir()
	images, err := store.NewDiskImageStore(dir)
	require.NoError(t, err)
	return NewHandler(items, images, testConfig), dir
}

// multipartBody builds a multipart form with the given text fields and an
// optional image part.
func multipartBody(t *testing.T, fields map[string]string, imageName string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if imageName != "" {
		fw, err := mw.CreateFormFile("image", imageName)
		require.NoError(t, err)
		_, err = fw.Write([]byte("fake-png-bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func doRequest(h http.HandlerFunc, method, target string, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func TestCreate(t *testing.T) {
	items := &mockItemStore{
		insertFunc: func(ctx context.Context, item *models.ContentItem) (*models.ContentItem, error) {
			return item, nil
		},
	}
	h, dir := newTestHandler(t, items)

	body, ct := multipartBody(t, map[string]string{
		"name":        "Aloe Mask",
		"description": "<p>desc</p>",
		"making":      "<p>how</p>",
		"chart":       "<p>chart</p>",
		"context":     "2",
	}, "aloe.png")
	rec := doRequest(h.Create, "POST", "/create", body, ct)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var item models.ContentItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &item))
	assert.Equal(t, "Aloe Mask", item.Name)
	assert.Equal(t, 2, item.Context)
	assert.Regexp(t, `^/bodycare/\d+\.png$`, item.Image)

	// The upload landed on disk under the category directory.
	saved, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(item.Image[1:])))
	require.NoError(t, err)
	assert.Equal(t, "fake-png-bytes", string(saved))
}

func TestCreate_MissingImage(t *testing.T) {
	h, _ := newTestHandler(t, &mockItemStore{})

	body, ct := multipartBody(t, map[string]string{"name": "Aloe Mask", "context": "2"}, "")
	rec := doRequest(h.Create, "POST", "/create", body, ct)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "VALIDATION_ERROR")
}

func TestCreate_NonNumericContext(t *testing.T) {
	h, _ := newTestHandler(t, &mockItemStore{})

	body, ct := multipartBody(t, map[string]string{"name": "Aloe Mask", "context": "two"}, "aloe.png")
	rec := doRequest(h.Create, "POST", "/create", body, ct)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "context must be a number")
}

func TestCreate_DuplicateName(t *testing.T) {
	items := &mockItemStore{
		insertFunc: func(ctx context.Context, item *models.ContentItem) (*models.ContentItem, error) {
			return nil, store.ErrDuplicate
		},
	}
	h, dir := newTestHandler(t, items)

	body, ct := multipartBody(t, map[string]string{"name": "Aloe Mask", "context": "2"}, "aloe2.png")
	rec := doRequest(h.Create, "POST", "/create", body, ct)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "CONFLICT")

	// The rejected upload must not leak onto disk.
	entries, err := os.ReadDir(filepath.Join(dir, "bodycare"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestUpdate_WithoutImageKeepsPath(t *testing.T) {
	var gotFields map[string]any
	items := &mockItemStore{
		updateFunc: func(ctx context.Context, id string, fields map[string]any) (*models.ContentItem, error) {
			gotFields = fields
			return &models.ContentItem{Name: "Aloe Mask", Image: "/bodycare/111.png"}, nil
		},
	}
	h, _ := newTestHandler(t, items)

	body, ct := multipartBody(t, map[string]string{"name": "Aloe Mask", "context": "3"}, "")
	rec := doRequest(h.Update, "PUT", "/update/abc", body, ct)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	assert.NotContains(t, gotFields, "image")
	assert.Equal(t, 3, gotFields["context"])
}

func TestUpdate_WithImageReplacesPath(t *testing.T) {
	var gotFields map[string]any
	items := &mockItemStore{
		updateFunc: func(ctx context.Context, id string, fields map[string]any) (*models.ContentItem, error) {
			gotFields = fields
			return &models.ContentItem{Name: "Aloe Mask"}, nil
		},
	}
	h, _ := newTestHandler(t, items)

	body, ct := multipartBody(t, map[string]string{"name": "Aloe Mask"}, "fresh.jpg")
	rec := doRequest(h.Update, "PUT", "/update/abc", body, ct)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Regexp(t, `^/bodycare/\d+\.jpg$`, gotFields["image"])
}

func TestUpdate_NotFound(t *testing.T) {
	items := &mockItemStore{
		updateFunc: func(ctx context.Context, id string, fields map[string]any) (*models.ContentItem, error) {
			return nil, store.ErrNotFound
		},
	}
	h, _ := newTestHandler(t, items)

	body, ct := multipartBody(t, map[string]string{"name": "Missing"}, "")
	rec := doRequest(h.Update, "PUT", "/update/abc", body, ct)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdate_NonNumericContext(t *testing.T) {
	h, _ := newTestHandler(t, &mockItemStore{})

	body, ct := multipartBody(t, map[string]string{"context": "NaN"}, "")
	rec := doRequest(h.Update, "PUT", "/update/abc", body, ct)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestList(t *testing.T) {
	items := &mockItemStore{
		listFunc: func(ctx context.Context) ([]models.ContentItem, error) {
			return []models.ContentItem{{Name: "Newest"}, {Name: "Oldest"}}, nil
		},
	}
	h, _ := newTestHandler(t, items)

	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest("GET", "/list", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var got []models.ContentItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "Newest", got[0].Name)
}

func TestList_Empty(t *testing.T) {
	items := &mockItemStore{
		listFunc: func(ctx context.Context) ([]models.ContentItem, error) {
			return nil, nil
		},
	}
	h, _ := newTestHandler(t, items)

	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest("GET", "/list", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestFilter(t *testing.T) {
	items := &mockItemStore{
		namesFunc: func(ctx context.Context) ([]models.ContentName, error) {
			return []models.ContentName{{Name: "Aloe Mask"}}, nil
		},
	}
	h, _ := newTestHandler(t, items)

	rec := httptest.NewRecorder()
	h.Filter(rec, httptest.NewRequest("GET", "/filter", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Aloe Mask")
}

func TestDelete_RemovesImageFile(t *testing.T) {
	h, dir := newTestHandler(t, &mockItemStore{
		deleteFunc: func(ctx context.Context, id string) (*models.ContentItem, error) {
			return &models.ContentItem{Name: "Aloe Mask", Image: "/bodycare/111.png"}, nil
		},
	})

	imgPath := filepath.Join(dir, "bodycare", "111.png")
	require.NoError(t, os.MkdirAll(filepath.Dir(imgPath), 0o755))
	require.NoError(t, os.WriteFile(imgPath, []byte("png"), 0o644))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("DELETE", "/delete/abc", nil)
	h.Delete(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	_, err := os.Stat(imgPath)
	assert.True(t, os.IsNotExist(err))
}

func TestDelete_NotFound(t *testing.T) {
	h, _ := newTestHandler(t, &mockItemStore{
		deleteFunc: func(ctx context.Context, id string) (*models.ContentItem, error) {
			return nil, store.ErrNotFound
		},
	})

	rec := httptest.NewRecorder()
	h.Delete(rec, httptest.NewRequest("DELETE", "/delete/abc", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
