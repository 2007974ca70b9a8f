package handlers

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/hlog"

	"github.com/ahsanfayaz52/noteservice/internal/auth"
	"github.com/ahsanfayaz52/noteservice/internal/notes"
	"github.com/ahsanfayaz52/noteservice/internal/validate"
)

type notePayload struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (p *notePayload) fromForm(v url.Values) {
	p.Title = v.Get("title")
	p.Content = v.Get("content")
}

type NoteHandler struct {
	notes *notes.Service
}

func NewNoteHandler(svc *notes.Service) *NoteHandler {
	return &NoteHandler{notes: svc}
}

// owner returns the authenticated user id. Routes are mounted behind
// auth.Middleware, so a missing identity is a wiring error.
func owner(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, ok := auth.FromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return 0, false
	}
	return id.UserID, true
}

// noteID parses the {id} path variable. Ids that cannot exist are reported
// the same way as missing notes.
func noteID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	return id, err == nil && id > 0
}

func (h *NoteHandler) notFound(w http.ResponseWriter, r *http.Request, action string) {
	hlog.FromRequest(r).Error().Msgf("%s Note: Note with ID %s not found", action, mux.Vars(r)["id"])
	respondError(w, http.StatusNotFound, "Note not found")
}

func (h *NoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := owner(w, r)
	if !ok {
		return
	}
	var p notePayload
	if err := decodeBody(w, r, &p); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	note, err := h.notes.Create(r.Context(), userID, p.Title, p.Content)
	var verr *validate.ValidationError
	switch {
	case errors.As(err, &verr):
		hlog.FromRequest(r).Error().Interface("errors", verr.Fields).Msg("Adding Note: validation failed")
		respondValidation(w, verr)
	case err != nil:
		respondUnhandled(w, r, err)
	default:
		respondOK(w, http.StatusCreated, "Note successfully added", note)
	}
}

func (h *NoteHandler) FindAll(w http.ResponseWriter, r *http.Request) {
	userID, ok := owner(w, r)
	if !ok {
		return
	}
	list, err := h.notes.FindAll(r.Context(), userID)
	if err != nil {
		respondUnhandled(w, r, err)
		return
	}
	respondOK(w, http.StatusOK, "Notes retrieved successfully", list)
}

func (h *NoteHandler) FindOne(w http.ResponseWriter, r *http.Request) {
	userID, ok := owner(w, r)
	if !ok {
		return
	}
	id, ok := noteID(r)
	if !ok {
		h.notFound(w, r, "Retrieving")
		return
	}

	note, err := h.notes.FindOne(r.Context(), userID, id)
	switch {
	case errors.Is(err, notes.ErrNotFound):
		h.notFound(w, r, "Retrieving")
	case err != nil:
		respondUnhandled(w, r, err)
	default:
		respondOK(w, http.StatusOK, "Note retrieved successfully", note)
	}
}

func (h *NoteHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := owner(w, r)
	if !ok {
		return
	}
	id, ok := noteID(r)
	if !ok {
		h.notFound(w, r, "Updating")
		return
	}
	var p notePayload
	if err := decodeBody(w, r, &p); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	note, err := h.notes.Update(r.Context(), userID, id, p.Title, p.Content)
	var verr *validate.ValidationError
	switch {
	case errors.Is(err, notes.ErrNotFound):
		h.notFound(w, r, "Updating")
	case errors.As(err, &verr):
		hlog.FromRequest(r).Error().Interface("errors", verr.Fields).Msg("Updating Note: validation failed")
		respondValidation(w, verr)
	case err != nil:
		respondUnhandled(w, r, err)
	default:
		respondOK(w, http.StatusOK, "Note updated successfully", note)
	}
}

func (h *NoteHandler) Remove(w http.ResponseWriter, r *http.Request) {
	userID, ok := owner(w, r)
	if !ok {
		return
	}
	id, ok := noteID(r)
	if !ok {
		h.notFound(w, r, "Deleting")
		return
	}

	note, err := h.notes.Remove(r.Context(), userID, id)
	switch {
	case errors.Is(err, notes.ErrNotFound):
		h.notFound(w, r, "Deleting")
	case err != nil:
		respondUnhandled(w, r, err)
	default:
		respondOK(w, http.StatusOK, "Note deleted successfully", note)
	}
}

func (h *NoteHandler) RemoveAll(w http.ResponseWriter, r *http.Request) {
	userID, ok := owner(w, r)
	if !ok {
		return
	}
	n, err := h.notes.RemoveAll(r.Context(), userID)
	if err != nil {
		respondUnhandled(w, r, err)
		return
	}
	hlog.FromRequest(r).Info().Int64("deleted", n).Msg("Deleted all notes")
	respondOK(w, http.StatusOK, "All notes deleted successfully", nil)
}
