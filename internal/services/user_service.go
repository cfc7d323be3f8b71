package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/taskdeck/taskdeck/internal/authz"
	"github.com/taskdeck/taskdeck/internal/models"
	"github.com/taskdeck/taskdeck/pkg/crypto"
	apperrors "github.com/taskdeck/taskdeck/pkg/errors"
)

// CreateUserInput captures a new account. Password arrives in plaintext and
// is hashed before it ever reaches the store.
type CreateUserInput struct {
	Email     string
	Firstname string
	Surname   string
	Password  string
	Role      models.Role
}

// UpdateUserInput describes mutable user fields. Email selects the target;
// nil fields are left untouched.
type UpdateUserInput struct {
	Email     string
	Firstname *string
	Surname   *string
	Password  *string
	Role      *models.Role
}

// SearchUsersInput filters the admin user search. Role is mandatory;
// firstname/surname are optional substring matches.
type SearchUsersInput struct {
	Firstname string
	Surname   string
	Role      string
}

// UserService manages account lifecycle under the authorization policy.
type UserService struct {
	db         *gorm.DB
	authz      *authz.Checker
	audit      *AuditService
	bcryptCost int
}

// NewUserService constructs a UserService instance.
func NewUserService(db *gorm.DB, checker *authz.Checker, audit *AuditService, bcryptCost int) (*UserService, error) {
	if db == nil {
		return nil, errors.New("user service: db is required")
	}
	if checker == nil {
		return nil, errors.New("user service: authz checker is required")
	}
	return &UserService{
		db:         db,
		authz:      checker,
		audit:      audit,
		bcryptCost: bcryptCost,
	}, nil
}

// Create registers a new account. Admin only.
func (s *UserService) Create(ctx context.Context, callerEmail string, input CreateUserInput) (*models.User, error) {
	ctx = ensureContext(ctx)

	caller, err := s.authz.Caller(ctx, callerEmail)
	if err != nil {
		return nil, err
	}
	if err := s.authz.RequireAdmin(caller, "user"); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return nil, apperrors.NewBadRequest("email is required")
	}
	if input.Password == "" {
		return nil, apperrors.NewBadRequest("password is required")
	}
	if !input.Role.Valid() {
		return nil, apperrors.NewBadRequest("role must be ADMIN or USER")
	}

	hash, err := crypto.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("user service: hash password: %w", err)
	}

	user := &models.User{
		Email:     email,
		Firstname: strings.TrimSpace(input.Firstname),
		Surname:   strings.TrimSpace(input.Surname),
		Password:  hash,
		Role:      input.Role,
	}

	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("user service: create user: %w", err)
	}

	recordAudit(s.audit, ctx, AuditEntry{
		ActorEmail: caller.Email,
		Action:     "user.create",
		Resource:   user.Email,
		Result:     "success",
		Metadata:   map[string]any{"role": user.Role},
	})

	return user, nil
}

// Get returns a user record. Admins see everyone; others only themselves.
// Invisible records are indistinguishable from absent ones.
func (s *UserService) Get(ctx context.Context, callerEmail, email string) (*models.User, error) {
	ctx = ensureContext(ctx)

	caller, err := s.authz.Caller(ctx, callerEmail)
	if err != nil {
		return nil, err
	}

	email = strings.ToLower(strings.TrimSpace(email))
	if !s.authz.DecideUserRead(caller, email).Allowed() {
		return nil, ErrUserNotFound
	}

	var user models.User
	err = s.db.WithContext(ctx).First(&user, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("user service: load user: %w", err)
	}

	return &user, nil
}

// Update mutates a user record. Admins may set any field; a non-admin caller
// may only change their own password.
func (s *UserService) Update(ctx context.Context, callerEmail string, input UpdateUserInput) (*models.User, error) {
	ctx = ensureContext(ctx)

	caller, err := s.authz.Caller(ctx, callerEmail)
	if err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return nil, apperrors.NewBadRequest("email is required")
	}

	decision := s.authz.DecideUserWrite(caller, email)

	updates := map[string]any{}
	switch decision {
	case authz.AsAdmin:
		if input.Firstname != nil {
			updates["firstname"] = strings.TrimSpace(*input.Firstname)
		}
		if input.Surname != nil {
			updates["surname"] = strings.TrimSpace(*input.Surname)
		}
		if input.Role != nil {
			if !input.Role.Valid() {
				return nil, apperrors.NewBadRequest("role must be ADMIN or USER")
			}
			updates["role"] = *input.Role
		}
	case authz.AsSelf:
		// Self-service is restricted to the password field.
		if input.Password == nil || input.Firstname != nil || input.Surname != nil || input.Role != nil {
			return nil, apperrors.ErrPermissionDenied
		}
	default:
		return nil, apperrors.ErrPermissionDenied
	}

	if input.Password != nil {
		if *input.Password == "" {
			return nil, apperrors.NewBadRequest("password must not be empty")
		}
		hash, err := crypto.HashPassword(*input.Password, s.bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("user service: hash password: %w", err)
		}
		updates["password"] = hash
	}

	var user models.User
	err = s.db.WithContext(ctx).First(&user, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("user service: load user: %w", err)
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(&user).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("user service: update user: %w", err)
		}
		if err := s.db.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
			return nil, fmt.Errorf("user service: reload user: %w", err)
		}
	}

	recordAudit(s.audit, ctx, AuditEntry{
		ActorEmail: caller.Email,
		Action:     "user.update",
		Resource:   user.Email,
		Result:     "success",
		Metadata:   map[string]any{"decision": decision.String()},
	})

	return &user, nil
}

// Delete removes a user and their memberships. Admin only.
func (s *UserService) Delete(ctx context.Context, callerEmail, email string) error {
	ctx = ensureContext(ctx)

	caller, err := s.authz.Caller(ctx, callerEmail)
	if err != nil {
		return err
	}
	if err := s.authz.RequireAdmin(caller, "user"); err != nil {
		return err
	}

	email = strings.ToLower(strings.TrimSpace(email))

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		err := tx.First(&user, "email = ?", email).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		if err != nil {
			return fmt.Errorf("user service: load user: %w", err)
		}

		// Memberships must not outlive the user.
		if err := tx.Model(&user).Association("Teams").Clear(); err != nil {
			return fmt.Errorf("user service: clear memberships: %w", err)
		}

		if err := tx.Delete(&user).Error; err != nil {
			return fmt.Errorf("user service: delete user: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	recordAudit(s.audit, ctx, AuditEntry{
		ActorEmail: caller.Email,
		Action:     "user.delete",
		Resource:   email,
		Result:     "success",
	})

	return nil
}

// Search lists accounts matching the filters. Admin only; the role filter is
// mandatory while the name filters are optional substring matches.
func (s *UserService) Search(ctx context.Context, callerEmail string, input SearchUsersInput) ([]models.User, error) {
	ctx = ensureContext(ctx)

	caller, err := s.authz.Caller(ctx, callerEmail)
	if err != nil {
		return nil, err
	}
	if err := s.authz.RequireAdmin(caller, "user"); err != nil {
		return nil, err
	}

	role, ok := models.ParseRole(strings.TrimSpace(input.Role))
	if !ok {
		return nil, apperrors.NewBadRequest("Invalid User Data Parameter")
	}

	query := s.db.WithContext(ctx).Model(&models.User{}).Where("role = ?", role)

	if firstname := strings.TrimSpace(input.Firstname); firstname != "" {
		query = query.Where("firstname LIKE ?", "%"+firstname+"%")
	}
	if surname := strings.TrimSpace(input.Surname); surname != "" {
		query = query.Where("surname LIKE ?", "%"+surname+"%")
	}

	var users []models.User
	if err := query.Order("email").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("user service: search users: %w", err)
	}

	return users, nil
}
