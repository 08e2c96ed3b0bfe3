package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/diagnosis/gatherly/internal/domain"
	mw "github.com/diagnosis/gatherly/internal/http/middleware"
	"github.com/diagnosis/gatherly/internal/http/response"
	"github.com/diagnosis/gatherly/internal/service"
)

type AuthHandler struct {
	svc     service.AuthService
	session *mw.Session
	limiter *mw.RateLimiter
}

func NewAuthHandler(svc service.AuthService, session *mw.Session, limiter *mw.RateLimiter) *AuthHandler {
	return &AuthHandler{svc: svc, session: session, limiter: limiter}
}

func (h *AuthHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Group(func(lr chi.Router) {
		if h.limiter != nil {
			lr.Use(h.limiter.Middleware())
		}
		lr.Post("/register", h.register)
		lr.Post("/login", h.login)
	})

	r.With(h.session.Require()).Get("/me", h.me)

	return r
}

func (h *AuthHandler) register(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid json")
		return
	}

	user, err := h.svc.Register(r.Context(), &req)
	if err != nil {
		response.Domain(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, user)
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid json")
		return
	}

	res, err := h.svc.Login(r.Context(), &req)
	if err != nil {
		// login failures collapse to one message, no account probing
		response.Unauthorized(w, "invalid email or password")
		return
	}

	response.JSON(w, http.StatusOK, res)
}

func (h *AuthHandler) me(w http.ResponseWriter, r *http.Request) {
	claims := mw.Claims(r)
	user, err := h.svc.GetUser(r.Context(), claims.Sub)
	if err != nil {
		response.Domain(w, err)
		return
	}
	response.JSON(w, http.StatusOK, user)
}
