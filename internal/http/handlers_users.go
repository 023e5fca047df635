package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dsjohal14/peoplepicker/internal/libs/paging"
)

// HandleUsers serves one ranked page of users matching the search parameter.
// Offset and count are read from their leading digits; values without any fall back to the defaults.
func (h *Handler) HandleUsers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := q.Get("search")
	p := paging.Parse(q.Get("offset"), q.Get("count"))

	page := h.engine.Search(query, p.Offset, p.Count)

	h.logger.Info().
		Str("search", query).
		Int("offset", p.Offset).
		Int("count", p.Count).
		Int("total", page.TotalCount).
		Str("elapsed", page.SearchExecutionTime).
		Msg("users search completed")

	if wantsMsgPack(r) {
		writeMsgPack(w, http.StatusOK, page)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// HandleUser serves a single user by id
func (h *Handler) HandleUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rec, ok := h.store.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "user not found", "not_found")
		return
	}

	if wantsMsgPack(r) {
		writeMsgPack(w, http.StatusOK, rec)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}
