package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/ahsanfayaz52/noteservice/internal/accounts"
	"github.com/ahsanfayaz52/noteservice/internal/auth"
	"github.com/ahsanfayaz52/noteservice/internal/middleware"
	"github.com/ahsanfayaz52/noteservice/internal/models"
	"github.com/ahsanfayaz52/noteservice/internal/notes"
)

type Deps struct {
	Log      zerolog.Logger
	JWT      *auth.JWTService
	Notes    *notes.Service
	Accounts *accounts.Service
}

// NewRouter wires every route. Request logging and panic recovery wrap the
// whole router so they also cover unmatched routes.
func NewRouter(d Deps) http.Handler {
	r := mux.NewRouter()
	requireAuth := auth.Middleware(d.JWT)

	r.HandleFunc("/", welcome).Methods(http.MethodGet)

	ah := NewAuthHandler(d.Accounts, d.JWT.TTL())
	r.HandleFunc("/auth/register", ah.Register).Methods(http.MethodPost)
	r.HandleFunc("/auth/login", ah.Login).Methods(http.MethodPost)
	r.HandleFunc("/auth/logout", ah.Logout).Methods(http.MethodPost)
	r.Handle("/auth/me", requireAuth(http.HandlerFunc(ah.Me))).Methods(http.MethodGet)

	users := r.PathPrefix("/users").Subrouter()
	users.Use(requireAuth, auth.RequireRole(models.RoleAdmin))
	users.HandleFunc("", ah.ListUsers).Methods(http.MethodGet)

	nh := NewNoteHandler(d.Notes)
	s := r.PathPrefix("/notes").Subrouter()
	s.Use(requireAuth)
	s.HandleFunc("", nh.Create).Methods(http.MethodPost)
	s.HandleFunc("", nh.FindAll).Methods(http.MethodGet)
	s.HandleFunc("", nh.RemoveAll).Methods(http.MethodDelete)
	s.HandleFunc("/{id}", nh.FindOne).Methods(http.MethodGet)
	s.HandleFunc("/{id}", nh.Update).Methods(http.MethodPut)
	s.HandleFunc("/{id}", nh.Remove).Methods(http.MethodDelete)

	r.NotFoundHandler = http.HandlerFunc(routeNotFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(routeNotFound)

	var h http.Handler = r
	h = middleware.Recover()(h)
	h = middleware.RequestLogger(d.Log)(h)
	return h
}

func welcome(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"message": "Welcome to Note-Taking application."})
}

// routeNotFound answers unmatched routes with 200, which existing clients
// rely on.
func routeNotFound(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"message": "This route is not found"})
}
