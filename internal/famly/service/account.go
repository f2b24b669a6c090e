package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/famlyapp/famly/internal/famly/domain"
	"github.com/famlyapp/famly/internal/famly/store"
	"github.com/famlyapp/famly/pkg/cryptox"
	"github.com/famlyapp/famly/pkg/idx"
	"github.com/famlyapp/famly/pkg/jwtx"
	"github.com/famlyapp/famly/pkg/slogx"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// AccountService handles registration, login and the current-user snapshot.
type AccountService struct {
	Store      store.Store
	Codec      *jwtx.Codec
	SessionTTL time.Duration
	Membership *MembershipService
}

// RegisterParams carries a registration request. FamilyCode is optional; when
// set the new account joins that family in the same transaction that creates
// it, so a failed join never leaves a half-registered user.
type RegisterParams struct {
	Email      string
	Name       string
	Phone      *string
	Password   string
	FamilyCode string
}

// Register creates an account, optionally joins a family by code, and mints a
// session token.
func (s *AccountService) Register(ctx context.Context, p RegisterParams) (domain.Snapshot, string, error) {
	log := slogx.FromContext(ctx)

	// 1. Validate and normalize input.
	email := strings.ToLower(strings.TrimSpace(p.Email))
	if email == "" || !strings.Contains(email, "@") {
		return domain.Snapshot{}, "", &ValidationError{Field: "email", Reason: "must be a valid email address"}
	}
	name := strings.TrimSpace(p.Name)
	if len(name) < 2 || len(name) > 50 {
		return domain.Snapshot{}, "", &ValidationError{Field: "name", Reason: "must be between 2 and 50 characters"}
	}
	if len(p.Password) < 6 {
		return domain.Snapshot{}, "", &ValidationError{Field: "password", Reason: "must be at least 6 characters"}
	}
	code := strings.TrimSpace(p.FamilyCode)
	if code != "" && len(code) != domain.CodeLength {
		return domain.Snapshot{}, "", ErrFamilyNotFound
	}

	// 2. Hash the password outside the transaction; argon2id is slow on
	// purpose and must not hold a write lock.
	hash, err := cryptox.HashPassword(p.Password)
	if err != nil {
		log.Error("failed to hash password", slog.Any("error", err))
		return domain.Snapshot{}, "", err
	}

	now := time.Now().UTC()
	user := domain.User{
		ID:           idx.New().String(),
		Email:        email,
		Name:         name,
		Phone:        p.Phone,
		PasswordHash: hash,
		Role:         domain.RoleMember,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// 3. Create the user and the optional membership atomically.
	var snap domain.Snapshot
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().CreateUser(ctx, user); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return ErrEmailTaken
			}
			return err
		}

		if code != "" {
			family, err := tx.Families().GetFamilyByCode(ctx, code)
			if err != nil {
				if errors.Is(err, store.ErrNotFound) {
					return ErrFamilyNotFound
				}
				return err
			}
			if err := tx.Users().SetMembership(ctx, user.ID, &family.ID, domain.RoleMember); err != nil {
				return err
			}
			user.FamilyID = &family.ID

			view, err := s.Membership.familyView(ctx, tx, family.ID)
			if err != nil {
				return err
			}
			snap.Family = &view
		}

		snap.User = user
		return nil
	})
	if err != nil {
		return domain.Snapshot{}, "", err
	}

	// 4. Mint the session token.
	token, err := s.Codec.Sign(user.ID, s.sessionTTL(), now)
	if err != nil {
		log.Error("failed to sign session token", slog.Any("error", err))
		return domain.Snapshot{}, "", err
	}

	log.Info("user registered",
		slog.String("user_id", user.ID),
		slog.Bool("joined_family", snap.Family != nil),
	)
	return snap, token, nil
}

// Login verifies credentials and mints a session token. Lookup failures and
// password mismatches collapse into one error so callers cannot probe which
// emails are registered.
func (s *AccountService) Login(ctx context.Context, email, password string) (domain.Snapshot, string, error) {
	log := slogx.FromContext(ctx)

	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Snapshot{}, "", ErrInvalidCredentials
		}
		log.Error("failed to fetch user", slog.Any("error", err))
		return domain.Snapshot{}, "", err
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrPasswordMismatch) {
			return domain.Snapshot{}, "", ErrInvalidCredentials
		}
		log.Error("failed to verify password", slog.Any("error", err))
		return domain.Snapshot{}, "", err
	}

	snap, err := s.Membership.Snapshot(ctx, user.ID)
	if err != nil {
		return domain.Snapshot{}, "", err
	}

	token, err := s.Codec.Sign(user.ID, s.sessionTTL(), time.Now().UTC())
	if err != nil {
		log.Error("failed to sign session token", slog.Any("error", err))
		return domain.Snapshot{}, "", err
	}

	log.Info("user logged in", slog.String("user_id", user.ID))
	return snap, token, nil
}

func (s *AccountService) sessionTTL() time.Duration {
	if s.SessionTTL > 0 {
		return s.SessionTTL
	}
	return jwtx.DefaultSessionTTL
}
