package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/diagnosis/gatherly/internal/domain"
	mw "github.com/diagnosis/gatherly/internal/http/middleware"
	"github.com/diagnosis/gatherly/internal/http/response"
	"github.com/diagnosis/gatherly/internal/service"
)

type EventHandler struct {
	svc service.EventService
}

func NewEventHandler(svc service.EventService) *EventHandler {
	return &EventHandler{svc: svc}
}

func eventID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}

func pagination(r *http.Request) (limit, offset int) {
	limit, offset = 20, 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}
	return limit, offset
}

func (h *EventHandler) listPublic(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	es, err := h.svc.ListPublic(r.Context(), r.URL.Query().Get("q"), r.URL.Query().Get("category"), limit, offset)
	if err != nil {
		response.Domain(w, err)
		return
	}
	response.JSON(w, http.StatusOK, es)
}

func (h *EventHandler) create(w http.ResponseWriter, r *http.Request) {
	claims := mw.Claims(r)

	var req domain.CreateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid json")
		return
	}

	event, err := h.svc.Create(r.Context(), claims.Sub, &req)
	if err != nil {
		response.Domain(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, event)
}

func (h *EventHandler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := eventID(r)
	if !ok {
		response.BadRequest(w, "bad event id")
		return
	}

	event, err := h.svc.Get(r.Context(), id)
	if err != nil {
		response.Domain(w, err)
		return
	}
	response.JSON(w, http.StatusOK, event)
}

func (h *EventHandler) listMine(w http.ResponseWriter, r *http.Request) {
	claims := mw.Claims(r)
	es, err := h.svc.ListByOrganizer(r.Context(), claims.Sub)
	if err != nil {
		response.Domain(w, err)
		return
	}
	response.JSON(w, http.StatusOK, es)
}

func (h *EventHandler) patch(w http.ResponseWriter, r *http.Request) {
	id, ok := eventID(r)
	if !ok {
		response.BadRequest(w, "bad event id")
		return
	}
	claims := mw.Claims(r)

	var patch domain.EventPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		response.BadRequest(w, "invalid json")
		return
	}

	event, err := h.svc.Update(r.Context(), id, claims.Sub, &patch)
	if err != nil {
		response.Domain(w, err)
		return
	}
	response.JSON(w, http.StatusOK, event)
}

func (h *EventHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := eventID(r)
	if !ok {
		response.BadRequest(w, "bad event id")
		return
	}
	claims := mw.Claims(r)

	if err := h.svc.Delete(r.Context(), id, claims.Sub); err != nil {
		response.Domain(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
