package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"classifieds/internal/apperrors"
	"classifieds/internal/models"
	"classifieds/internal/repository"
	"classifieds/pkg/utils"
)

type RegisterInput struct {
	Username        string `json:"username" validate:"required,min=3,max=50,alphanum"`
	Email           string `json:"email" validate:"required,max=100,email"`
	Password        string `json:"password" validate:"required,min=6,max=72"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
}

// ProfileInput holds the account fields a user may edit.
type ProfileInput struct {
	Username string `json:"username" validate:"required,min=3,max=50,alphanum"`
	Email    string `json:"email" validate:"required,max=100,email"`
}

// maxPasswordBytes is the longest input bcrypt accepts.
const maxPasswordBytes = 72

type UserService struct {
	repos      *repository.Repositories
	audit      *AuditService
	logger     *slog.Logger
	bcryptCost int
	now        func() time.Time
}

func NewUserService(repos *repository.Repositories, audit *AuditService, logger *slog.Logger, bcryptCost int) *UserService {
	return &UserService{
		repos:      repos,
		audit:      audit,
		logger:     logger.With("service", "user"),
		bcryptCost: bcryptCost,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Register creates an active account. Usernames and emails stay reserved by
// deactivated accounts too.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)

	extra := &apperrors.ValidationError{}
	if len(in.Password) > maxPasswordBytes {
		extra.Add("password", fmt.Sprintf("must be at most %d bytes", maxPasswordBytes))
	}
	if err := validateStruct(in, extra); err != nil {
		return nil, err
	}

	verr := &apperrors.ValidationError{}
	taken, err := s.repos.Users.UsernameTaken(ctx, in.Username, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		verr.Add("username", "is already taken")
	}
	taken, err = s.repos.Users.EmailTaken(ctx, in.Email, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		verr.Add("email", "is already registered")
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	hash, err := utils.HashPasswordWithCost(in.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		IsActive:     true,
		CreatedAt:    s.now(),
	}
	err = s.repos.WithTransaction(ctx, func(ctx context.Context, tx *repository.Repositories) error {
		if err := tx.Users.Create(ctx, user); err != nil {
			return err
		}
		return s.audit.WithRepository(tx.Audit).LogAction(ctx, models.ActionRegister, models.EntityUser,
			uintPtr(user.ID), uintPtr(user.ID), map[string]any{"username": user.Username, "email": user.Email})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("User registered", "user_id", user.ID, "username", user.Username)
	return user, nil
}

// Authenticate checks credentials and records the login. Unknown usernames and
// wrong passwords are indistinguishable to the caller.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.repos.Users.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}
	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, apperrors.ErrAccountInactive
	}

	now := s.now()
	err = s.repos.WithTransaction(ctx, func(ctx context.Context, tx *repository.Repositories) error {
		if err := tx.Users.TouchLastLogin(ctx, user.ID, now); err != nil {
			return err
		}
		return s.audit.WithRepository(tx.Audit).LogAction(ctx, models.ActionLogin, models.EntityUser,
			uintPtr(user.ID), uintPtr(user.ID), nil)
	})
	if err != nil {
		return nil, err
	}
	user.LastLoginAt = &now
	return user, nil
}

// ActiveUser resolves a session identity. Deactivated or vanished accounts
// are treated as not logged in.
func (s *UserService) ActiveUser(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.repos.Users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnauthenticated
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, apperrors.ErrUnauthenticated
	}
	return user, nil
}

// Profile returns an active user with their active listings.
func (s *UserService) Profile(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.repos.Users.FindByIDWithListings(ctx, id)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, apperrors.ErrNotFound
	}
	return user, nil
}

// UpdateProfile changes the username and email of an active account. Only the
// account holder may do this; other accounts' names stay reserved.
func (s *UserService) UpdateProfile(ctx context.Context, userID, actorID uint, in ProfileInput) (*models.User, error) {
	if err := Authorize(userID, actorID); err != nil {
		return nil, err
	}
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if err := validateStruct(in, nil); err != nil {
		return nil, err
	}

	var updated *models.User
	err := s.repos.WithTransaction(ctx, func(ctx context.Context, tx *repository.Repositories) error {
		current, err := tx.Users.FindByID(ctx, userID)
		if err != nil {
			return err
		}
		if !current.IsActive {
			return apperrors.ErrNotFound
		}

		verr := &apperrors.ValidationError{}
		taken, err := tx.Users.UsernameTaken(ctx, in.Username, userID)
		if err != nil {
			return err
		}
		if taken {
			verr.Add("username", "is already taken")
		}
		taken, err = tx.Users.EmailTaken(ctx, in.Email, userID)
		if err != nil {
			return err
		}
		if taken {
			verr.Add("email", "is already registered")
		}
		if err := verr.OrNil(); err != nil {
			return err
		}

		fields := map[string]interface{}{}
		changes := map[string]any{}
		if current.Username != in.Username {
			fields["username"] = in.Username
			changes["username"] = change{Old: current.Username, New: in.Username}
		}
		if current.Email != in.Email {
			fields["email"] = in.Email
			changes["email"] = change{Old: current.Email, New: in.Email}
		}
		if len(fields) == 0 {
			updated = current
			return nil
		}

		if err := tx.Users.UpdateProfile(ctx, userID, fields); err != nil {
			return err
		}
		if err := s.audit.WithRepository(tx.Audit).LogAction(ctx, models.ActionUpdate, models.EntityUser,
			uintPtr(userID), uintPtr(actorID), changes); err != nil {
			return err
		}
		updated, err = tx.Users.FindByID(ctx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("User profile updated", "user_id", userID)
	return updated, nil
}

// Deactivate soft-deletes an account and every active listing it owns in one
// transaction. Only the account holder may do this.
func (s *UserService) Deactivate(ctx context.Context, userID, actorID uint) error {
	if err := Authorize(userID, actorID); err != nil {
		return err
	}

	var deactivated int64
	err := s.repos.WithTransaction(ctx, func(ctx context.Context, tx *repository.Repositories) error {
		if err := tx.Users.Deactivate(ctx, userID); err != nil {
			return err
		}
		n, err := tx.Listings.DeactivateByUser(ctx, userID, s.now())
		if err != nil {
			return err
		}
		deactivated = n
		return s.audit.WithRepository(tx.Audit).LogAction(ctx, models.ActionDelete, models.EntityUser,
			uintPtr(userID), uintPtr(actorID), map[string]any{
				"is_active":            change{Old: true, New: false},
				"listings_deactivated": n,
			})
	})
	if err != nil {
		return err
	}

	s.logger.Info("User deactivated", "user_id", userID, "listings_deactivated", deactivated)
	return nil
}

func (s *UserService) CountActive(ctx context.Context) (int64, error) {
	return s.repos.Users.Count(ctx)
}
