package users

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fichajeapp/fichaje-backend/internal/roles"
	"github.com/fichajeapp/fichaje-backend/internal/timeclock"
	"github.com/fichajeapp/fichaje-backend/pkg/config"
	"github.com/fichajeapp/fichaje-backend/pkg/db"
	"github.com/fichajeapp/fichaje-backend/pkg/enums"
	pkgerrors "github.com/fichajeapp/fichaje-backend/pkg/errors"
	"github.com/fichajeapp/fichaje-backend/pkg/security"
)

const userNotFoundMessage = "user not found"

// CreateUserRequest is the admin payload for provisioning an account.
type CreateUserRequest struct {
	Username string  `json:"username" validate:"required,min=3,max=64"`
	Password string  `json:"password" validate:"required"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	FullName *string `json:"full_name,omitempty" validate:"omitempty,max=120"`
	IsAdmin  bool    `json:"is_admin"`
}

// UserDetailDTO bundles a profile with its records and monthly totals for the
// admin detail view.
type UserDetailDTO struct {
	User    UserDTO                    `json:"user"`
	Records []timeclock.RecordDTO      `json:"records"`
	Summary []timeclock.MonthlySummary `json:"summary"`
}

// Service covers the current-user lookup plus admin user management.
type Service interface {
	Me(ctx context.Context, userID uuid.UUID) (*UserDTO, error)
	List(ctx context.Context) ([]UserDTO, error)
	Create(ctx context.Context, req CreateUserRequest) (*UserDTO, error)
	Detail(ctx context.Context, userID uuid.UUID) (*UserDetailDTO, error)
}

type recordReader interface {
	ListRecords(ctx context.Context, userID uuid.UUID, month time.Time) ([]timeclock.RecordDTO, error)
	Summary(ctx context.Context, userID uuid.UUID) ([]timeclock.MonthlySummary, error)
}

// ServiceParams bundles the dependencies required to build a user service.
type ServiceParams struct {
	DB             *db.Client
	Records        recordReader
	PasswordConfig config.PasswordConfig
}

type service struct {
	db          *db.Client
	records     recordReader
	passwordCfg config.PasswordConfig
}

func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "database client required")
	}
	if params.Records == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "record reader required")
	}
	return &service{
		db:          params.DB,
		records:     params.Records,
		passwordCfg: params.PasswordConfig,
	}, nil
}

func (s *service) Me(ctx context.Context, userID uuid.UUID) (*UserDTO, error) {
	return s.findUser(ctx, userID)
}

func (s *service) List(ctx context.Context) ([]UserDTO, error) {
	conn := s.db.DB()
	profiles, err := NewRepository(conn).List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list users")
	}
	admins, err := roles.NewRepository(conn).AdminUserIDs(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list admin roles")
	}

	out := make([]UserDTO, 0, len(profiles))
	for i := range profiles {
		out = append(out, *FromModel(&profiles[i], admins[profiles[i].ID]))
	}
	return out, nil
}

// Create provisions an account on behalf of an admin, optionally granting the
// admin role in the same transaction.
func (s *service) Create(ctx context.Context, req CreateUserRequest) (*UserDTO, error) {
	username := strings.ToLower(strings.TrimSpace(req.Username))
	if username == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "username is required")
	}
	if err := security.ValidatePassword(req.Password, s.passwordCfg); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, err.Error())
	}

	passwordHash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	var dto *UserDTO
	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		userRepo := NewRepository(tx)

		taken, err := userRepo.ExistsByUsername(ctx, username)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check username")
		}
		if taken {
			return pkgerrors.New(pkgerrors.CodeConflict, "username already taken")
		}

		profile, err := userRepo.Create(ctx, CreateUserDTO{
			Username:     username,
			Email:        normalizeOptional(req.Email),
			FullName:     normalizeOptional(req.FullName),
			PasswordHash: passwordHash,
		})
		if err != nil {
			if db.IsUniqueViolation(err, "uniq_profiles_username") {
				return pkgerrors.New(pkgerrors.CodeConflict, "username already taken")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
		}

		if req.IsAdmin {
			if err := roles.NewRepository(tx).Grant(ctx, profile.ID, enums.RoleAdmin); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "grant admin role")
			}
		}

		dto = FromModel(profile, req.IsAdmin)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// Detail returns the profile together with every record and the per-month
// totals, matching what the admin user view renders.
func (s *service) Detail(ctx context.Context, userID uuid.UUID) (*UserDetailDTO, error) {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	records, err := s.records.ListRecords(ctx, userID, time.Time{})
	if err != nil {
		return nil, err
	}
	summary, err := s.records.Summary(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &UserDetailDTO{User: *user, Records: records, Summary: summary}, nil
}

func (s *service) findUser(ctx context.Context, userID uuid.UUID) (*UserDTO, error) {
	conn := s.db.DB()
	profile, err := NewRepository(conn).FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, userNotFoundMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "find user")
	}
	isAdmin, err := roles.NewRepository(conn).HasRole(ctx, userID, enums.RoleAdmin)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup role")
	}
	return FromModel(profile, isAdmin), nil
}

func normalizeOptional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
