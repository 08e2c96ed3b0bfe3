package service

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/stripe/stripe-go/v76"

	"github.com/diagnosis/gatherly/internal/domain"
	"github.com/diagnosis/gatherly/internal/platform/billing"
	"github.com/diagnosis/gatherly/internal/repo/postgres"
	"github.com/diagnosis/gatherly/pkg/events"
	"github.com/diagnosis/gatherly/pkg/logger"
)

type BillingService interface {
	StartProCheckout(ctx context.Context, userID int64) (string, error)
	HandleWebhook(ctx context.Context, payload []byte, sigHeader string) error
}

type billingService struct {
	userRepo   postgres.UserRepo
	stripe     *billing.StripeClient
	proPriceID string
	bus        events.Publisher
}

func NewBillingService(userRepo postgres.UserRepo, stripeClient *billing.StripeClient, proPriceID string, bus events.Publisher) BillingService {
	return &billingService{
		userRepo:   userRepo,
		stripe:     stripeClient,
		proPriceID: proPriceID,
		bus:        bus,
	}
}

// StartProCheckout returns the hosted checkout URL for upgrading to the pro
// plan.
func (s *billingService) StartProCheckout(ctx context.Context, userID int64) (string, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return "", storeErr(err)
	}
	if user == nil {
		return "", domain.ErrUserNotFound
	}
	if user.Plan == domain.PlanPro {
		return "", domain.Invalid("plan", "already on the pro plan")
	}

	sess, err := s.stripe.CreateCheckoutSession(user.Email, s.proPriceID, map[string]string{
		"user_id": strconv.FormatInt(user.ID, 10),
	})
	if err != nil {
		return "", err
	}
	return sess.URL, nil
}

// HandleWebhook verifies the stripe signature and flips the user's plan on a
// completed checkout. Unknown event types are acknowledged and ignored.
func (s *billingService) HandleWebhook(ctx context.Context, payload []byte, sigHeader string) error {
	event, err := s.stripe.ConstructWebhookEvent(payload, sigHeader)
	if err != nil {
		return domain.Invalid("signature", "webhook signature verification failed")
	}

	if event.Type != "checkout.session.completed" {
		logger.DebugContext(ctx, "ignoring stripe event", "type", event.Type)
		return nil
	}

	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		return domain.Invalid("payload", "malformed checkout session")
	}

	userID, err := strconv.ParseInt(sess.Metadata["user_id"], 10, 64)
	if err != nil {
		return domain.Invalid("metadata", "missing user_id")
	}

	if err := s.userRepo.UpdatePlan(ctx, userID, domain.PlanPro); err != nil {
		return storeErr(err)
	}

	if s.bus != nil {
		evt := events.PlanUpgradedEvent{
			UserID:     userID,
			Email:      sess.CustomerEmail,
			Plan:       string(domain.PlanPro),
			UpgradedAt: time.Now(),
		}
		if err := s.bus.Publish(ctx, events.PlanUpgraded, evt); err != nil {
			logger.ErrorContext(ctx, "Failed to publish plan upgraded", "error", err, "user_id", userID)
		}
	}

	logger.InfoContext(ctx, "user upgraded to pro", "user_id", userID)
	return nil
}
