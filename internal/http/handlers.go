package httpapi

import (
	"encoding/json"
	"mime"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/dsjohal14/peoplepicker/internal/scope/db"
	"github.com/dsjohal14/peoplepicker/internal/scope/search"
)

// MsgPackContentType is served when the client asks for it in Accept
const MsgPackContentType = "application/msgpack"

// Handler contains HTTP handlers for the API
type Handler struct {
	store  db.Storage
	engine *search.Engine
	logger zerolog.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(store db.Storage, engine *search.Engine, logger zerolog.Logger) *Handler {
	return &Handler{
		store:  store,
		engine: engine,
		logger: logger,
	}
}

// Helper functions used across all handlers

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeMsgPack writes a MessagePack response, falling back to a JSON error
// when the payload cannot be encoded
func writeMsgPack(w http.ResponseWriter, status int, data interface{}) {
	body, err := msgpack.Marshal(data)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to encode response", "ENCODE_FAILED")
		return
	}
	w.Header().Set("Content-Type", MsgPackContentType)
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// writeError writes an error response with the given status code
func writeError(w http.ResponseWriter, status int, message, code string) {
	writeJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// wantsMsgPack reports whether the Accept header lists a MessagePack media type
func wantsMsgPack(r *http.Request) bool {
	for _, part := range strings.Split(r.Header.Get("Accept"), ",") {
		mediaType, _, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		if mediaType == MsgPackContentType || mediaType == "application/x-msgpack" {
			return true
		}
	}
	return false
}
