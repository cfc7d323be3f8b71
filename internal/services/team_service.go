package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/taskdeck/taskdeck/internal/authz"
	"github.com/taskdeck/taskdeck/internal/models"
	apperrors "github.com/taskdeck/taskdeck/pkg/errors"
)

// TeamView is a team with its resolved relation lists, as returned to clients.
type TeamView struct {
	ID           uint     `json:"id"`
	Name         string   `json:"name"`
	MemberEmails []string `json:"usersEmail"`
	TaskIDs      []uint   `json:"tasksID"`
}

// TeamService handles team lifecycle and membership management.
type TeamService struct {
	db    *gorm.DB
	authz *authz.Checker
	audit *AuditService
}

// NewTeamService constructs a TeamService instance.
func NewTeamService(db *gorm.DB, checker *authz.Checker, audit *AuditService) (*TeamService, error) {
	if db == nil {
		return nil, errors.New("team service: db is required")
	}
	if checker == nil {
		return nil, errors.New("team service: authz checker is required")
	}
	return &TeamService{
		db:    db,
		authz: checker,
		audit: audit,
	}, nil
}

// Create registers a new team. Admin only.
func (s *TeamService) Create(ctx context.Context, callerEmail, name string) (*models.Team, error) {
	ctx = ensureContext(ctx)

	caller, err := s.authz.Caller(ctx, callerEmail)
	if err != nil {
		return nil, err
	}
	if err := s.authz.RequireAdmin(caller, "team"); err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewBadRequest("team name is required")
	}

	team := &models.Team{Name: name}
	if err := s.db.WithContext(ctx).Create(team).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, ErrDuplicateTeamName
		}
		return nil, fmt.Errorf("team service: create team: %w", err)
	}

	recordAudit(s.audit, ctx, AuditEntry{
		ActorEmail: caller.Email,
		Action:     "team.create",
		Resource:   team.Name,
		Result:     "success",
	})

	return team, nil
}

// Rename changes the team name. Admin only.
func (s *TeamService) Rename(ctx context.Context, callerEmail string, id uint, name string) (*models.Team, error) {
	ctx = ensureContext(ctx)

	caller, err := s.authz.Caller(ctx, callerEmail)
	if err != nil {
		return nil, err
	}
	if err := s.authz.RequireAdmin(caller, "team"); err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewBadRequest("team name is required")
	}

	var team models.Team
	err = s.db.WithContext(ctx).First(&team, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTeamNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("team service: load team: %w", err)
	}

	if err := s.db.WithContext(ctx).Model(&team).Update("name", name).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, ErrDuplicateTeamName
		}
		return nil, fmt.Errorf("team service: rename team: %w", err)
	}

	recordAudit(s.audit, ctx, AuditEntry{
		ActorEmail: caller.Email,
		Action:     "team.rename",
		Resource:   name,
		Result:     "success",
		Metadata:   map[string]any{"id": team.ID},
	})

	return &team, nil
}

// Delete removes a team together with its membership and responsibility rows.
// Admin only.
func (s *TeamService) Delete(ctx context.Context, callerEmail string, id uint) error {
	ctx = ensureContext(ctx)

	caller, err := s.authz.Caller(ctx, callerEmail)
	if err != nil {
		return err
	}
	if err := s.authz.RequireAdmin(caller, "team"); err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var team models.Team
		err := tx.First(&team, id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTeamNotFound
		}
		if err != nil {
			return fmt.Errorf("team service: load team: %w", err)
		}

		// Join rows may not outlive the team.
		if err := tx.Model(&team).Association("Users").Clear(); err != nil {
			return fmt.Errorf("team service: clear members: %w", err)
		}
		if err := tx.Model(&team).Association("Tasks").Clear(); err != nil {
			return fmt.Errorf("team service: clear tasks: %w", err)
		}

		if err := tx.Delete(&team).Error; err != nil {
			return fmt.Errorf("team service: delete team: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	recordAudit(s.audit, ctx, AuditEntry{
		ActorEmail: caller.Email,
		Action:     "team.delete",
		Resource:   fmt.Sprintf("%d", id),
		Result:     "success",
	})

	return nil
}

// AddOrRemoveUsers connects or disconnects the given users to/from the team
// membership set. Adds already present and removals already absent are no-ops;
// only a missing team or user is an error. The refreshed member list is read
// in the same transaction as the mutation.
func (s *TeamService) AddOrRemoveUsers(ctx context.Context, callerEmail string, id uint, emails []string, isAdd bool) (*TeamView, error) {
	ctx = ensureContext(ctx)

	caller, err := s.authz.Caller(ctx, callerEmail)
	if err != nil {
		return nil, err
	}
	if err := s.authz.RequireAdmin(caller, "team"); err != nil {
		return nil, err
	}

	emails = normaliseEmails(emails)

	var view *TeamView
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var team models.Team
		err := tx.First(&team, id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTeamMembersNotFound
		}
		if err != nil {
			return fmt.Errorf("team service: load team: %w", err)
		}

		var users []models.User
		if len(emails) > 0 {
			if err := tx.Where("email IN ?", emails).Find(&users).Error; err != nil {
				return fmt.Errorf("team service: load users: %w", err)
			}
			if len(users) != len(emails) {
				return ErrTeamMembersNotFound
			}
		}

		current, err := memberEmails(tx, team.ID)
		if err != nil {
			return err
		}
		currentSet := make(map[string]struct{}, len(current))
		for _, email := range current {
			currentSet[email] = struct{}{}
		}

		// Union on add, subtraction on remove; the delta is computed here
		// instead of leaning on ORM conflict handling.
		if isAdd {
			var missing []models.User
			for _, user := range users {
				if _, ok := currentSet[user.Email]; !ok {
					missing = append(missing, user)
				}
			}
			if len(missing) > 0 {
				if err := tx.Model(&team).Association("Users").Append(toUserPtrs(missing)...); err != nil {
					return fmt.Errorf("team service: add members: %w", err)
				}
			}
		} else {
			var present []models.User
			for _, user := range users {
				if _, ok := currentSet[user.Email]; ok {
					present = append(present, user)
				}
			}
			if len(present) > 0 {
				if err := tx.Model(&team).Association("Users").Delete(toUserPtrs(present)...); err != nil {
					return fmt.Errorf("team service: remove members: %w", err)
				}
			}
		}

		built, err := buildTeamView(tx, &team)
		if err != nil {
			return err
		}
		view = built
		return nil
	})
	if err != nil {
		return nil, err
	}

	action := "team.members.remove"
	if isAdd {
		action = "team.members.add"
	}
	recordAudit(s.audit, ctx, AuditEntry{
		ActorEmail: caller.Email,
		Action:     action,
		Resource:   fmt.Sprintf("%d", id),
		Result:     "success",
		Metadata:   map[string]any{"emails": emails},
	})

	return view, nil
}

// GetByID returns one team with member emails and task ids. Admins see any
// team; a USER only sees teams they belong to, and anything else reads as
// absent.
func (s *TeamService) GetByID(ctx context.Context, callerEmail string, id uint) (*TeamView, error) {
	ctx = ensureContext(ctx)

	caller, err := s.authz.Caller(ctx, callerEmail)
	if err != nil {
		return nil, err
	}

	query := s.db.WithContext(ctx).Model(&models.Team{}).Where("teams.id = ?", id)
	if !caller.IsAdmin() {
		query = query.
			Joins("JOIN team_members ON team_members.team_id = teams.id").
			Where("team_members.user_email = ?", caller.Email)
	}

	var team models.Team
	err = query.First(&team).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTeamNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("team service: get team: %w", err)
	}

	return buildTeamView(s.db.WithContext(ctx), &team)
}

// List returns teams visible to the caller: all of them for admins, the
// caller's own memberships otherwise.
func (s *TeamService) List(ctx context.Context, callerEmail string) ([]TeamView, error) {
	ctx = ensureContext(ctx)

	caller, err := s.authz.Caller(ctx, callerEmail)
	if err != nil {
		return nil, err
	}

	query := s.db.WithContext(ctx).Model(&models.Team{})
	if !caller.IsAdmin() {
		query = query.
			Joins("JOIN team_members ON team_members.team_id = teams.id").
			Where("team_members.user_email = ?", caller.Email)
	}

	var teams []models.Team
	if err := query.Order("teams.id").Find(&teams).Error; err != nil {
		return nil, fmt.Errorf("team service: list teams: %w", err)
	}

	views := make([]TeamView, 0, len(teams))
	for i := range teams {
		view, err := buildTeamView(s.db.WithContext(ctx), &teams[i])
		if err != nil {
			return nil, err
		}
		views = append(views, *view)
	}

	return views, nil
}

func buildTeamView(tx *gorm.DB, team *models.Team) (*TeamView, error) {
	members, err := memberEmails(tx, team.ID)
	if err != nil {
		return nil, err
	}

	var taskIDs []uint
	if err := tx.Table("team_tasks").
		Where("team_id = ?", team.ID).
		Order("task_id").
		Pluck("task_id", &taskIDs).Error; err != nil {
		return nil, fmt.Errorf("team service: load task ids: %w", err)
	}

	return &TeamView{
		ID:           team.ID,
		Name:         team.Name,
		MemberEmails: members,
		TaskIDs:      taskIDs,
	}, nil
}

func memberEmails(tx *gorm.DB, teamID uint) ([]string, error) {
	var emails []string
	if err := tx.Table("team_members").
		Where("team_id = ?", teamID).
		Order("user_email").
		Pluck("user_email", &emails).Error; err != nil {
		return nil, fmt.Errorf("team service: load member emails: %w", err)
	}
	return emails, nil
}

func toUserPtrs(users []models.User) []any {
	out := make([]any, 0, len(users))
	for i := range users {
		out = append(out, &users[i])
	}
	return out
}
