package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ilumina/ilumina/internal/identity"
	"github.com/ilumina/ilumina/internal/logging"
	"github.com/ilumina/ilumina/internal/notification"
	"github.com/ilumina/ilumina/internal/phone"
)

// DefaultCodeTTL is how long a one-time code stays redeemable.
const DefaultCodeTTL = 10 * time.Minute

// Service implements the phone one-time-code login flow.
type Service struct {
	tokens   TokenRepository
	ids      *identity.Service
	notifier notification.Notifier
	codec    *SessionCodec
	logger   *slog.Logger
	codeTTL  time.Duration
	now      func() time.Time
	codes    CodeGenerator
}

// NewService wires the login flow. codeTTL <= 0 selects DefaultCodeTTL.
func NewService(tokens TokenRepository, ids *identity.Service, notifier notification.Notifier, codec *SessionCodec, codeTTL time.Duration, logger *slog.Logger) *Service {
	if codeTTL <= 0 {
		codeTTL = DefaultCodeTTL
	}
	return &Service{
		tokens:   tokens,
		ids:      ids,
		notifier: notifier,
		codec:    codec,
		logger:   logger,
		codeTTL:  codeTTL,
		now:      time.Now,
		codes:    RandomCode,
	}
}

// Codec returns the session codec used to mint access tokens.
func (s *Service) Codec() *SessionCodec {
	return s.codec
}

// RequestLogin issues a fresh code for the phone and sends it. Any earlier
// unused code for the same phone stops working.
func (s *Service) RequestLogin(ctx context.Context, req LoginRequest) (LoginResult, error) {
	if strings.TrimSpace(req.Phone) == "" {
		return LoginResult{}, fmt.Errorf("%w: phone is required", ErrValidation)
	}
	if phone.Digits(req.Phone) == "" {
		return LoginResult{}, fmt.Errorf("%w: phone has no digits", ErrValidation)
	}
	normalized := phone.Normalize(req.Phone)
	role, ok := loginRole(req.Role)
	if !ok {
		return LoginResult{}, fmt.Errorf("%w %q", ErrInvalidRole, req.Role)
	}

	if role == identity.RoleManager {
		user, err := s.ids.Repository().FindByPhone(ctx, normalized)
		if err != nil && !errors.Is(err, identity.ErrNotFound) {
			return LoginResult{}, fmt.Errorf("lookup manager: %w", err)
		}
		if err != nil || !user.CanManage() {
			return LoginResult{}, ErrForbiddenRole
		}
	}

	code, err := s.codes()
	if err != nil {
		return LoginResult{}, err
	}
	now := s.now().UTC()
	token := AuthToken{
		ID:        uuid.New().String(),
		Phone:     normalized,
		Code:      code,
		Role:      role,
		CreatedAt: now,
		ExpiresAt: now.Add(s.codeTTL),
	}
	if err := s.tokens.Replace(ctx, token); err != nil {
		return LoginResult{}, fmt.Errorf("store token: %w", err)
	}

	err = s.notifier.Send(ctx, notification.Message{
		Kind:        notification.KindVerificationCode,
		Destination: normalized,
		Body:        notification.VerificationCode(code, role == identity.RoleManager),
	})
	if err != nil {
		// The code never reached the user; do not leave it redeemable.
		if delErr := s.tokens.Delete(context.WithoutCancel(ctx), token.ID); delErr != nil {
			s.logger.Error("discard undelivered token", slog.String("token_id", token.ID), slog.Any("error", delErr))
		}
		s.logger.Warn("verification code not delivered",
			slog.String("phone", logging.MaskPhone(normalized)),
			slog.Any("error", err),
		)
		return LoginResult{}, fmt.Errorf("%w: %v", ErrDelivery, err)
	}

	s.logger.Info("verification code sent",
		slog.String("phone", logging.MaskPhone(normalized)),
		slog.String("role", role),
	)
	return LoginResult{ExpiresIn: int64(s.codeTTL / time.Second)}, nil
}

// ConfirmLogin redeems a code and returns a session for the resolved user.
// Citizens are created on first login; manager accounts must already exist.
func (s *Service) ConfirmLogin(ctx context.Context, req ConfirmRequest) (Session, error) {
	if strings.TrimSpace(req.Phone) == "" || strings.TrimSpace(req.Code) == "" {
		return Session{}, fmt.Errorf("%w: phone and code are required", ErrValidation)
	}
	normalized := phone.Normalize(req.Phone)
	now := s.now().UTC()

	token, err := s.tokens.Redeem(ctx, normalized, strings.TrimSpace(req.Code), now)
	if err != nil {
		if errors.Is(err, ErrTokenNotFound) {
			return Session{}, ErrInvalidCode
		}
		return Session{}, fmt.Errorf("redeem token: %w", err)
	}

	name := strings.TrimSpace(req.Name)
	user, err := s.resolveUser(ctx, normalized, token.Role, name)
	if err != nil {
		return Session{}, err
	}

	access, exp, err := s.codec.Issue(user, now)
	if err != nil {
		return Session{}, fmt.Errorf("issue session: %w", err)
	}

	s.logger.Info("login confirmed",
		slog.String("user_id", user.ID),
		slog.String("role", user.Role),
	)
	return Session{AccessToken: access, ExpiresAt: exp, User: user}, nil
}

func (s *Service) resolveUser(ctx context.Context, normalized, tokenRole, name string) (identity.User, error) {
	repo := s.ids.Repository()
	user, err := repo.FindByPhone(ctx, normalized)
	switch {
	case err == nil:
		if name != "" && user.Role == identity.RoleCitizen {
			if err := repo.UpdateName(ctx, user.ID, name); err != nil {
				return identity.User{}, fmt.Errorf("update name: %w", err)
			}
			user.Name = &name
		}
		return user, nil
	case !errors.Is(err, identity.ErrNotFound):
		return identity.User{}, fmt.Errorf("lookup user: %w", err)
	case tokenRole != identity.RoleCitizen:
		return identity.User{}, ErrUserNotFound
	}

	var namePtr *string
	if name != "" {
		namePtr = &name
	}
	user, err = s.ids.RegisterCitizen(ctx, normalized, namePtr)
	if errors.Is(err, identity.ErrPhoneTaken) {
		// Created concurrently by another request; use that row.
		return repo.FindByPhone(ctx, normalized)
	}
	if err != nil {
		return identity.User{}, fmt.Errorf("create citizen: %w", err)
	}
	return user, nil
}
