package handlers

import (
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/hlog"

	"github.com/ahsanfayaz52/noteservice/internal/accounts"
	"github.com/ahsanfayaz52/noteservice/internal/auth"
	"github.com/ahsanfayaz52/noteservice/internal/models"
	"github.com/ahsanfayaz52/noteservice/internal/validate"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c *credentials) fromForm(v url.Values) {
	c.Email = v.Get("email")
	c.Password = v.Get("password")
}

type AuthHandler struct {
	accounts *accounts.Service
	tokenTTL time.Duration
}

func NewAuthHandler(svc *accounts.Service, tokenTTL time.Duration) *AuthHandler {
	return &AuthHandler{accounts: svc, tokenTTL: tokenTTL}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var c credentials
	if err := decodeBody(w, r, &c); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.accounts.Register(r.Context(), c.Email, c.Password)
	var verr *validate.ValidationError
	switch {
	case errors.As(err, &verr):
		respondValidation(w, verr)
	case errors.Is(err, accounts.ErrEmailTaken):
		respondError(w, http.StatusConflict, "Email already registered")
	case err != nil:
		respondUnhandled(w, r, err)
	default:
		hlog.FromRequest(r).Info().Int64("user_id", user.ID).Msg("Registered user")
		respondOK(w, http.StatusCreated, "User successfully registered", user)
	}
}

type loginResult struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var c credentials
	if err := decodeBody(w, r, &c); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	token, user, err := h.accounts.Login(r.Context(), c.Email, c.Password)
	switch {
	case errors.Is(err, accounts.ErrInvalidCredentials):
		respondError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	case err != nil:
		respondUnhandled(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    token,
		HttpOnly: true,
		Path:     "/",
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(h.tokenTTL),
	})
	respondOK(w, http.StatusOK, "Logged in successfully", loginResult{Token: token, User: user})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    "",
		HttpOnly: true,
		Path:     "/",
		MaxAge:   -1,
	})
	respondOK(w, http.StatusOK, "Logged out successfully", nil)
}

// Me returns the profile of the authenticated caller.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := owner(w, r)
	if !ok {
		return
	}
	user, err := h.accounts.Profile(r.Context(), userID)
	if err != nil {
		respondUnhandled(w, r, err)
		return
	}
	respondOK(w, http.StatusOK, "User retrieved successfully", user)
}

func (h *AuthHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.accounts.ListUsers(r.Context())
	if err != nil {
		respondUnhandled(w, r, err)
		return
	}
	respondOK(w, http.StatusOK, "Users retrieved successfully", users)
}
