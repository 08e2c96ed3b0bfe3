package handlers

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/diagnosis/gatherly/internal/domain"
	mw "github.com/diagnosis/gatherly/internal/http/middleware"
	"github.com/diagnosis/gatherly/internal/http/response"
	"github.com/diagnosis/gatherly/internal/service"
)

type BillingHandler struct {
	svc     service.BillingService
	session *mw.Session
}

func NewBillingHandler(svc service.BillingService, session *mw.Session) *BillingHandler {
	return &BillingHandler{svc: svc, session: session}
}

func (h *BillingHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.With(h.session.Require(string(domain.RoleOrganizer))).Post("/checkout", h.checkout)
	r.Post("/webhook", h.webhook)

	return r
}

func (h *BillingHandler) checkout(w http.ResponseWriter, r *http.Request) {
	claims := mw.Claims(r)

	url, err := h.svc.StartProCheckout(r.Context(), claims.Sub)
	if err != nil {
		response.Domain(w, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]string{"checkout_url": url})
}

func (h *BillingHandler) webhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, 1<<16))
	if err != nil {
		response.BadRequest(w, "unreadable payload")
		return
	}

	if err := h.svc.HandleWebhook(r.Context(), payload, r.Header.Get("Stripe-Signature")); err != nil {
		response.Domain(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}
