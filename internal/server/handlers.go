package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/colonyops/toaster/internal/core/logging"
	"github.com/colonyops/toaster/internal/core/toast"
	"github.com/colonyops/toaster/pkg/iojson"
)

// NotifyResponse is returned by POST /toasts.
type NotifyResponse struct {
	ID string `json:"id"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	iojson.Respond(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"streams": s.StreamCount(),
	})
}

func (s *Server) handleList(w http.ResponseWriter, _ *http.Request) {
	iojson.Respond(w, http.StatusOK, s.store.Snapshot())
}

func (s *Server) handleNotify(w http.ResponseWriter, r *http.Request) {
	p, err := iojson.Decode[toast.Payload](r)
	if err != nil {
		iojson.RespondError(w, http.StatusBadRequest, "invalid toast payload", map[string]any{"error": err.Error()})
		return
	}

	h := s.store.Notify(p)

	ctx := logging.WithToastID(r.Context(), h.ID)
	s.log.Info().Ctx(ctx).Str("title", p.Title).Msg("toast created")

	iojson.Respond(w, http.StatusCreated, NotifyResponse{ID: h.ID})
}

// toastID reads the {id} route param. An empty id would target every toast,
// so it is rejected here.
func toastID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "id")
	if id == "" {
		iojson.RespondError(w, http.StatusNotFound, "missing toast id", nil)
		return "", false
	}
	return id, true
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := toastID(w, r)
	if !ok {
		return
	}

	p, err := iojson.Decode[toast.Patch](r)
	if err != nil {
		iojson.RespondError(w, http.StatusBadRequest, "invalid toast patch", map[string]any{"error": err.Error()})
		return
	}

	s.store.Update(id, p)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDismiss(w http.ResponseWriter, r *http.Request) {
	id, ok := toastID(w, r)
	if !ok {
		return
	}
	s.store.Dismiss(id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDismissAll(w http.ResponseWriter, _ *http.Request) {
	s.store.DismissAll()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRemove(w http.ResponseWriter, r *http.Request) {
	id, ok := toastID(w, r)
	if !ok {
		return
	}
	s.store.Remove(id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRemoveAll(w http.ResponseWriter, _ *http.Request) {
	s.store.RemoveAll()
	w.WriteHeader(http.StatusNoContent)
}
