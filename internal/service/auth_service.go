package service

import (
	"context"
	"strings"
	"time"

	"github.com/alexedwards/argon2id"

	"github.com/diagnosis/gatherly/internal/domain"
	"github.com/diagnosis/gatherly/internal/repo/postgres"
	"github.com/diagnosis/gatherly/pkg/auth"
	"github.com/diagnosis/gatherly/pkg/events"
	"github.com/diagnosis/gatherly/pkg/logger"
)

type AuthService interface {
	Register(ctx context.Context, req *domain.RegisterRequest) (*domain.User, error)
	Login(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResponse, error)
	GetUser(ctx context.Context, id int64) (*domain.User, error)
}

type authService struct {
	userRepo postgres.UserRepo
	issuer   *auth.TokenIssuer
	tokenTTL time.Duration
	bus      events.Publisher
}

func NewAuthService(userRepo postgres.UserRepo, issuer *auth.TokenIssuer, tokenTTL time.Duration, bus events.Publisher) AuthService {
	return &authService{
		userRepo: userRepo,
		issuer:   issuer,
		tokenTTL: tokenTTL,
		bus:      bus,
	}
}

func (s *authService) Register(ctx context.Context, req *domain.RegisterRequest) (*domain.User, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, storeErr(err)
	}
	if existing != nil {
		return nil, domain.ErrEmailTaken
	}

	hash, err := argon2id.CreateHash(req.Password, argon2id.DefaultParams)
	if err != nil {
		return nil, storeErr(err)
	}

	user, err := s.userRepo.Create(ctx, req.Name, req.Email, hash, domain.Role(req.Role))
	if err != nil {
		return nil, storeErr(err)
	}

	if s.bus != nil {
		evt := events.UserRegisteredEvent{
			UserID:       user.ID,
			Email:        user.Email,
			Name:         user.Name,
			Role:         string(user.Role),
			RegisteredAt: user.CreatedAt,
		}
		if err := s.bus.Publish(ctx, events.UserRegistered, evt); err != nil {
			logger.ErrorContext(ctx, "Failed to publish user registered", "error", err, "user_id", user.ID)
		}
	}

	return user, nil
}

func (s *authService) Login(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return nil, domain.Invalid("credentials", "email and password are required")
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, storeErr(err)
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}

	match, err := argon2id.ComparePasswordAndHash(req.Password, user.PasswordHash)
	if err != nil {
		return nil, storeErr(err)
	}
	if !match {
		return nil, domain.Invalid("credentials", "invalid email or password")
	}

	token, err := s.issuer.NewAccessToken(user.ID, user.Email, user.Name, string(user.Role))
	if err != nil {
		return nil, storeErr(err)
	}

	return &domain.LoginResponse{
		AccessToken: token,
		ExpiresIn:   int64(s.tokenTTL.Seconds()),
		User:        user,
	}, nil
}

func (s *authService) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr(err)
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}
