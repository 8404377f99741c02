// Package httpx holds the small JSON read/write/error helpers shared by all
// handlers.
package httpx

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/devika/wellnest/backend/internal/apperr"
)

func ReadJSON(r *http.Request, out any) error {
	return json.NewDecoder(r.Body).Decode(out)
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HandleErr logs the failure and writes the JSON error body. Errors outside
// the apperr taxonomy are treated as internal.
func HandleErr(w http.ResponseWriter, r *http.Request, err error) {
	ae, ok := apperr.As(err)
	if !ok {
		ae = apperr.Internal(err)
	}
	if ae.Status >= http.StatusInternalServerError {
		slog.Error("request failed",
			"error", err,
			"method", r.Method,
			"url", r.URL.String(),
			"remote_addr", r.RemoteAddr,
		)
	} else {
		slog.Info("request rejected",
			"code", ae.Code,
			"method", r.Method,
			"url", r.URL.String(),
		)
	}
	WriteJSON(w, ae.Status, errorBody{Error: ae.Msg, Code: ae.Code})
}
