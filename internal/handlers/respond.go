package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"net/url"

	"github.com/rs/zerolog/hlog"

	"github.com/ahsanfayaz52/noteservice/internal/validate"
)

const maxBodyBytes = 1 << 20

type envelope struct {
	OK      bool                  `json:"ok"`
	Message string                `json:"message,omitempty"`
	Data    any                   `json:"data,omitempty"`
	Errors  []validate.FieldError `json:"errors,omitempty"`
}

var errBadBody = errors.New("invalid request body")

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func respondOK(w http.ResponseWriter, status int, message string, data any) {
	respondJSON(w, status, envelope{OK: true, Message: message, Data: data})
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, envelope{OK: false, Message: message})
}

func respondValidation(w http.ResponseWriter, verr *validate.ValidationError) {
	respondJSON(w, http.StatusBadRequest, envelope{OK: false, Errors: verr.Fields})
}

// respondUnhandled reports an unexpected error with its raw message.
func respondUnhandled(w http.ResponseWriter, r *http.Request, err error) {
	hlog.FromRequest(r).Error().Err(err).Msg("Unhandled error")
	respondError(w, http.StatusInternalServerError, err.Error())
}

type formPayload interface {
	fromForm(url.Values)
}

// decodeBody fills dst from a JSON or urlencoded form body. An empty body
// leaves dst untouched.
func decodeBody(w http.ResponseWriter, r *http.Request, dst formPayload) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/x-www-form-urlencoded" {
		if err := r.ParseForm(); err != nil {
			return errBadBody
		}
		dst.fromForm(r.PostForm)
		return nil
	}

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return errBadBody
	}
	return nil
}
