// Package authz implements the flat two-role authorization policy shared by
// every resource service. The caller's record is re-fetched on each decision
// so a role change applies to the very next request, never at next login.
package authz

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/taskdeck/taskdeck/internal/models"
	apperrors "github.com/taskdeck/taskdeck/pkg/errors"
	"github.com/taskdeck/taskdeck/pkg/metrics"
)

// Decision is the enumerated outcome of a policy evaluation.
type Decision int

const (
	// Denied means the caller may not perform the operation.
	Denied Decision = iota
	// AsAdmin grants the operation through the ADMIN role.
	AsAdmin
	// AsSelf grants the operation because the caller targets their own record.
	AsSelf
)

// String renders the decision for logs and metrics labels.
func (d Decision) String() string {
	switch d {
	case AsAdmin:
		return "admin"
	case AsSelf:
		return "self"
	default:
		return "denied"
	}
}

// Allowed reports whether the decision grants the operation.
func (d Decision) Allowed() bool {
	return d != Denied
}

// Checker resolves caller identity and evaluates the role policy.
type Checker struct {
	db *gorm.DB
}

// NewChecker constructs a checker backed by the provided database.
func NewChecker(db *gorm.DB) (*Checker, error) {
	if db == nil {
		return nil, errors.New("authz checker: db is required")
	}
	return &Checker{db: db}, nil
}

// Caller loads the current record for the authenticated email. A valid token
// whose backing user has disappeared is an inconsistent state and surfaces as
// Unauthorized.
func (c *Checker) Caller(ctx context.Context, email string) (*models.User, error) {
	ctx = ensureContext(ctx)

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, apperrors.ErrUnauthorized
	}

	var user models.User
	err := c.db.WithContext(ctx).First(&user, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrUnauthorized
	}
	if err != nil {
		return nil, fmt.Errorf("authz checker: load caller: %w", err)
	}

	return &user, nil
}

// RequireAdmin grants admin-only operations.
func (c *Checker) RequireAdmin(caller *models.User, resource string) error {
	decision := Denied
	if caller.IsAdmin() {
		decision = AsAdmin
	}
	metrics.AuthzDecisions.WithLabelValues(resource, decision.String()).Inc()

	if !decision.Allowed() {
		return apperrors.ErrPermissionDenied
	}
	return nil
}

// DecideUserWrite evaluates a mutation against a user record: admins may
// change anything, a caller may touch their own record (services restrict the
// self path to the password field).
func (c *Checker) DecideUserWrite(caller *models.User, targetEmail string) Decision {
	decision := Denied
	switch {
	case caller.IsAdmin():
		decision = AsAdmin
	case strings.EqualFold(caller.Email, strings.TrimSpace(targetEmail)):
		decision = AsSelf
	}
	metrics.AuthzDecisions.WithLabelValues("user", decision.String()).Inc()
	return decision
}

// DecideUserRead evaluates read visibility of a user record.
func (c *Checker) DecideUserRead(caller *models.User, targetEmail string) Decision {
	// Same rule table as writes: admin sees all, everyone sees themselves.
	return c.DecideUserWrite(caller, targetEmail)
}

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}
