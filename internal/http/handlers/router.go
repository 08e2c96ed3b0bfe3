package handlers

import (
	"github.com/go-chi/chi/v5"

	"github.com/diagnosis/gatherly/internal/domain"
	mw "github.com/diagnosis/gatherly/internal/http/middleware"
)

// Routes assembles the full API surface. The /events/{id} subtree is shared
// between event CRUD and the RSVP flow, so it is declared in one place.
func Routes(session *mw.Session, auth *AuthHandler, events *EventHandler, rsvps *RSVPHandler, dash *DashboardHandler, billing *BillingHandler) chi.Router {
	organizer := session.Require(string(domain.RoleOrganizer))
	authed := session.Require()

	r := chi.NewRouter()

	r.Mount("/auth", auth.Routes())

	r.Route("/events", func(r chi.Router) {
		r.Get("/", events.listPublic)
		r.With(organizer).Post("/", events.create)
		r.With(organizer).Get("/mine", events.listMine)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", events.get)
			r.With(organizer).Patch("/", events.patch)
			r.With(organizer).Delete("/", events.delete)

			r.Get("/attendance", rsvps.attendance)
			r.With(organizer).Get("/stats", rsvps.breakdown)
			r.With(organizer).Get("/rsvps", rsvps.guestList)
			r.With(authed).Get("/rsvps/mine", rsvps.mine)

			if rsvps.limiter != nil {
				r.With(authed, rsvps.limiter.Middleware()).Post("/rsvps", rsvps.submit)
			} else {
				r.With(authed).Post("/rsvps", rsvps.submit)
			}
		})
	})

	r.With(authed).Get("/rsvps/mine", rsvps.listMine)

	r.Mount("/dashboard", dash.Routes())

	if billing != nil {
		r.Mount("/billing", billing.Routes())
	}

	return r
}
