package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/diagnosis/gatherly/internal/domain"
	mw "github.com/diagnosis/gatherly/internal/http/middleware"
	"github.com/diagnosis/gatherly/internal/http/response"
	"github.com/diagnosis/gatherly/internal/service"
)

type RSVPHandler struct {
	svc     service.RSVPService
	limiter *mw.RateLimiter
}

func NewRSVPHandler(svc service.RSVPService, limiter *mw.RateLimiter) *RSVPHandler {
	return &RSVPHandler{svc: svc, limiter: limiter}
}

func (h *RSVPHandler) submit(w http.ResponseWriter, r *http.Request) {
	id, ok := eventID(r)
	if !ok {
		response.BadRequest(w, "bad event id")
		return
	}

	identity := mw.IdentityFromRequest(r)
	if identity == nil {
		response.Domain(w, domain.ErrIdentityRequired)
		return
	}

	var req domain.SubmitRSVPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid json")
		return
	}

	result, err := h.svc.Submit(r.Context(), *identity, id, &req)
	if err != nil {
		response.Domain(w, err)
		return
	}

	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}
	response.JSON(w, status, result)
}

func (h *RSVPHandler) mine(w http.ResponseWriter, r *http.Request) {
	id, ok := eventID(r)
	if !ok {
		response.BadRequest(w, "bad event id")
		return
	}
	claims := mw.Claims(r)

	rsvp, err := h.svc.Find(r.Context(), id, claims.Email)
	if err != nil {
		response.Domain(w, err)
		return
	}
	response.JSON(w, http.StatusOK, rsvp)
}

func (h *RSVPHandler) attendance(w http.ResponseWriter, r *http.Request) {
	id, ok := eventID(r)
	if !ok {
		response.BadRequest(w, "bad event id")
		return
	}

	a, err := h.svc.Attendance(r.Context(), id)
	if err != nil {
		response.Domain(w, err)
		return
	}
	response.JSON(w, http.StatusOK, a)
}

func (h *RSVPHandler) guestList(w http.ResponseWriter, r *http.Request) {
	id, ok := eventID(r)
	if !ok {
		response.BadRequest(w, "bad event id")
		return
	}
	claims := mw.Claims(r)

	rsvps, err := h.svc.GuestList(r.Context(), claims.Sub, id,
		r.URL.Query().Get("q"), r.URL.Query().Get("status"))
	if err != nil {
		response.Domain(w, err)
		return
	}
	response.JSON(w, http.StatusOK, rsvps)
}

func (h *RSVPHandler) breakdown(w http.ResponseWriter, r *http.Request) {
	id, ok := eventID(r)
	if !ok {
		response.BadRequest(w, "bad event id")
		return
	}
	claims := mw.Claims(r)

	b, err := h.svc.EventBreakdown(r.Context(), claims.Sub, id)
	if err != nil {
		response.Domain(w, err)
		return
	}
	response.JSON(w, http.StatusOK, b)
}

func (h *RSVPHandler) listMine(w http.ResponseWriter, r *http.Request) {
	claims := mw.Claims(r)
	limit, offset := pagination(r)

	rsvps, err := h.svc.ListByGuest(r.Context(), claims.Email, limit, offset)
	if err != nil {
		response.Domain(w, err)
		return
	}
	response.JSON(w, http.StatusOK, rsvps)
}
