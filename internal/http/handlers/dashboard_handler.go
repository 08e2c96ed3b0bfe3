package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/diagnosis/gatherly/internal/domain"
	mw "github.com/diagnosis/gatherly/internal/http/middleware"
	"github.com/diagnosis/gatherly/internal/http/response"
	"github.com/diagnosis/gatherly/internal/service"
)

type DashboardHandler struct {
	events  service.EventService
	session *mw.Session
}

func NewDashboardHandler(events service.EventService, session *mw.Session) *DashboardHandler {
	return &DashboardHandler{events: events, session: session}
}

func (h *DashboardHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.With(h.session.Require(string(domain.RoleOrganizer))).Get("/overview", h.overview)

	return r
}

func (h *DashboardHandler) overview(w http.ResponseWriter, r *http.Request) {
	claims := mw.Claims(r)

	o, err := h.events.Overview(r.Context(), claims.Sub)
	if err != nil {
		response.Domain(w, err)
		return
	}
	response.JSON(w, http.StatusOK, o)
}
