package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/taskdeck/taskdeck/internal/authz"
	"github.com/taskdeck/taskdeck/internal/models"
	apperrors "github.com/taskdeck/taskdeck/pkg/errors"
)

// TaskView is a task with its resolved relation lists, as returned to clients.
type TaskView struct {
	ID       uint      `json:"id"`
	Name     string    `json:"name"`
	Content  string    `json:"content"`
	Deadline time.Time `json:"deadline"`
	Status   string    `json:"status,omitempty"`
	TeamIDs  []uint    `json:"responsibleTeamsID"`
}

// TaskInput carries the writable task fields for creation.
type TaskInput struct {
	Name     string
	Content  string
	Deadline time.Time
	Status   string
}

// TaskUpdate carries partial task changes. Nil fields are left untouched, so
// an explicitly empty content clears it.
type TaskUpdate struct {
	Name     *string
	Content  *string
	Deadline *time.Time
	Status   *string
}

// TaskService handles task lifecycle and team responsibility management.
type TaskService struct {
	db    *gorm.DB
	authz *authz.Checker
	audit *AuditService
}

// NewTaskService constructs a TaskService instance.
func NewTaskService(db *gorm.DB, checker *authz.Checker, audit *AuditService) (*TaskService, error) {
	if db == nil {
		return nil, errors.New("task service: db is required")
	}
	if checker == nil {
		return nil, errors.New("task service: authz checker is required")
	}
	return &TaskService{
		db:    db,
		authz: checker,
		audit: audit,
	}, nil
}

// Create registers a new task. Admin only. An empty status defaults to Todo.
func (s *TaskService) Create(ctx context.Context, callerEmail string, input TaskInput) (*TaskView, error) {
	ctx = ensureContext(ctx)

	caller, err := s.authz.Caller(ctx, callerEmail)
	if err != nil {
		return nil, err
	}
	if err := s.authz.RequireAdmin(caller, "task"); err != nil {
		return nil, err
	}

	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return nil, apperrors.NewBadRequest("task name is required")
	}
	if input.Deadline.IsZero() {
		return nil, ErrInvalidTaskData
	}

	statusName := input.Status
	if strings.TrimSpace(statusName) == "" {
		statusName = models.StatusTodo
	}
	status, err := s.resolveStatus(ctx, statusName)
	if err != nil {
		return nil, err
	}

	task := &models.Task{
		Name:     input.Name,
		Content:  input.Content,
		Deadline: input.Deadline.UTC(),
		StatusID: &status.ID,
		Status:   status,
	}
	if err := s.db.WithContext(ctx).Create(task).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, ErrInvalidTaskData
		}
		return nil, fmt.Errorf("task service: create task: %w", err)
	}

	recordAudit(s.audit, ctx, AuditEntry{
		ActorEmail: caller.Email,
		Action:     "task.create",
		Resource:   task.Name,
		Result:     "success",
	})

	return buildTaskView(s.db.WithContext(ctx), task)
}

// Update rewrites the supplied task fields. Admin only. Omitted fields keep
// their current value; a supplied empty content clears it.
func (s *TaskService) Update(ctx context.Context, callerEmail string, id uint, input TaskUpdate) (*TaskView, error) {
	ctx = ensureContext(ctx)

	caller, err := s.authz.Caller(ctx, callerEmail)
	if err != nil {
		return nil, err
	}
	if err := s.authz.RequireAdmin(caller, "task"); err != nil {
		return nil, err
	}

	var task models.Task
	err = s.db.WithContext(ctx).Preload("Status").First(&task, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTaskNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("task service: load task: %w", err)
	}

	updates := map[string]any{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, apperrors.NewBadRequest("task name is required")
		}
		if name != task.Name {
			updates["name"] = name
		}
	}
	if input.Content != nil {
		updates["content"] = *input.Content
	}
	if input.Deadline != nil {
		if input.Deadline.IsZero() {
			return nil, ErrInvalidTaskData
		}
		updates["deadline"] = input.Deadline.UTC()
	}
	if input.Status != nil {
		status, err := s.resolveStatus(ctx, *input.Status)
		if err != nil {
			return nil, err
		}
		updates["status_id"] = status.ID
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(&task).Updates(updates).Error; err != nil {
			if isUniqueConstraintError(err) {
				return nil, ErrInvalidTaskData
			}
			return nil, fmt.Errorf("task service: update task: %w", err)
		}
	}

	// Reload so the view reflects what was written.
	if err := s.db.WithContext(ctx).Preload("Status").First(&task, id).Error; err != nil {
		return nil, fmt.Errorf("task service: reload task: %w", err)
	}

	recordAudit(s.audit, ctx, AuditEntry{
		ActorEmail: caller.Email,
		Action:     "task.update",
		Resource:   task.Name,
		Result:     "success",
		Metadata:   map[string]any{"id": task.ID},
	})

	return buildTaskView(s.db.WithContext(ctx), &task)
}

// Delete removes a task together with its responsibility rows. Admin only.
func (s *TaskService) Delete(ctx context.Context, callerEmail string, id uint) error {
	ctx = ensureContext(ctx)

	caller, err := s.authz.Caller(ctx, callerEmail)
	if err != nil {
		return err
	}
	if err := s.authz.RequireAdmin(caller, "task"); err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var task models.Task
		err := tx.First(&task, id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		if err != nil {
			return fmt.Errorf("task service: load task: %w", err)
		}

		if err := tx.Model(&task).Association("Teams").Clear(); err != nil {
			return fmt.Errorf("task service: clear teams: %w", err)
		}

		if err := tx.Delete(&task).Error; err != nil {
			return fmt.Errorf("task service: delete task: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	recordAudit(s.audit, ctx, AuditEntry{
		ActorEmail: caller.Email,
		Action:     "task.delete",
		Resource:   fmt.Sprintf("%d", id),
		Result:     "success",
	})

	return nil
}

// AddOrRemoveTeams connects or disconnects the given teams to/from the task
// responsibility set. Already-present adds and already-absent removals are
// no-ops; only a missing task or team is an error.
func (s *TaskService) AddOrRemoveTeams(ctx context.Context, callerEmail string, id uint, teamIDs []uint, isAdd bool) (*TaskView, error) {
	ctx = ensureContext(ctx)

	caller, err := s.authz.Caller(ctx, callerEmail)
	if err != nil {
		return nil, err
	}
	if err := s.authz.RequireAdmin(caller, "task"); err != nil {
		return nil, err
	}

	teamIDs = normaliseIDs(teamIDs)

	var view *TaskView
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var task models.Task
		err := tx.Preload("Status").First(&task, id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskTeamsNotFound
		}
		if err != nil {
			return fmt.Errorf("task service: load task: %w", err)
		}

		var teams []models.Team
		if len(teamIDs) > 0 {
			if err := tx.Where("id IN ?", teamIDs).Find(&teams).Error; err != nil {
				return fmt.Errorf("task service: load teams: %w", err)
			}
			if len(teams) != len(teamIDs) {
				return ErrTaskTeamsNotFound
			}
		}

		current, err := taskTeamIDs(tx, task.ID)
		if err != nil {
			return err
		}
		currentSet := make(map[uint]struct{}, len(current))
		for _, teamID := range current {
			currentSet[teamID] = struct{}{}
		}

		if isAdd {
			var missing []models.Team
			for _, team := range teams {
				if _, ok := currentSet[team.ID]; !ok {
					missing = append(missing, team)
				}
			}
			if len(missing) > 0 {
				if err := tx.Model(&task).Association("Teams").Append(toTeamPtrs(missing)...); err != nil {
					return fmt.Errorf("task service: add teams: %w", err)
				}
			}
		} else {
			var present []models.Team
			for _, team := range teams {
				if _, ok := currentSet[team.ID]; ok {
					present = append(present, team)
				}
			}
			if len(present) > 0 {
				if err := tx.Model(&task).Association("Teams").Delete(toTeamPtrs(present)...); err != nil {
					return fmt.Errorf("task service: remove teams: %w", err)
				}
			}
		}

		built, err := buildTaskView(tx, &task)
		if err != nil {
			return err
		}
		view = built
		return nil
	})
	if err != nil {
		return nil, err
	}

	action := "task.teams.remove"
	if isAdd {
		action = "task.teams.add"
	}
	recordAudit(s.audit, ctx, AuditEntry{
		ActorEmail: caller.Email,
		Action:     action,
		Resource:   fmt.Sprintf("%d", id),
		Result:     "success",
		Metadata:   map[string]any{"teams": teamIDs},
	})

	return view, nil
}

// GetByID returns one task with its responsible team ids. Admins see any
// task; a USER only sees tasks assigned to a team they belong to, and
// anything else reads as absent.
func (s *TaskService) GetByID(ctx context.Context, callerEmail string, id uint) (*TaskView, error) {
	ctx = ensureContext(ctx)

	caller, err := s.authz.Caller(ctx, callerEmail)
	if err != nil {
		return nil, err
	}

	query := s.db.WithContext(ctx).Model(&models.Task{}).Preload("Status").Where("tasks.id = ?", id)
	if !caller.IsAdmin() {
		query = visibleTasksFor(query, caller.Email)
	}

	var task models.Task
	err = query.First(&task).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTaskNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("task service: get task: %w", err)
	}

	return buildTaskView(s.db.WithContext(ctx), &task)
}

// List returns tasks visible to the caller: all of them for admins, the ones
// assigned to the caller's teams otherwise.
func (s *TaskService) List(ctx context.Context, callerEmail string) ([]TaskView, error) {
	ctx = ensureContext(ctx)

	caller, err := s.authz.Caller(ctx, callerEmail)
	if err != nil {
		return nil, err
	}

	query := s.db.WithContext(ctx).Model(&models.Task{}).Preload("Status")
	if !caller.IsAdmin() {
		query = visibleTasksFor(query, caller.Email)
	}

	var tasks []models.Task
	if err := query.Order("tasks.id").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("task service: list tasks: %w", err)
	}

	views := make([]TaskView, 0, len(tasks))
	for i := range tasks {
		view, err := buildTaskView(s.db.WithContext(ctx), &tasks[i])
		if err != nil {
			return nil, err
		}
		views = append(views, *view)
	}

	return views, nil
}

// visibleTasksFor narrows a task query to tasks assigned to a team the given
// user belongs to. Distinct because a task may reach the user through more
// than one team.
func visibleTasksFor(query *gorm.DB, email string) *gorm.DB {
	return query.
		Joins("JOIN team_tasks ON team_tasks.task_id = tasks.id").
		Joins("JOIN team_members ON team_members.team_id = team_tasks.team_id").
		Where("team_members.user_email = ?", email).
		Distinct("tasks.*")
}

func (s *TaskService) resolveStatus(ctx context.Context, name string) (*models.TaskStatus, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidTaskData
	}

	var status models.TaskStatus
	err := s.db.WithContext(ctx).Where("name = ?", name).First(&status).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidTaskData
	}
	if err != nil {
		return nil, fmt.Errorf("task service: resolve status: %w", err)
	}
	return &status, nil
}

func buildTaskView(tx *gorm.DB, task *models.Task) (*TaskView, error) {
	teamIDs, err := taskTeamIDs(tx, task.ID)
	if err != nil {
		return nil, err
	}

	view := &TaskView{
		ID:       task.ID,
		Name:     task.Name,
		Content:  task.Content,
		Deadline: task.Deadline,
		TeamIDs:  teamIDs,
	}
	if task.Status != nil {
		view.Status = task.Status.Name
	}
	return view, nil
}

func taskTeamIDs(tx *gorm.DB, taskID uint) ([]uint, error) {
	var teamIDs []uint
	if err := tx.Table("team_tasks").
		Where("task_id = ?", taskID).
		Order("team_id").
		Pluck("team_id", &teamIDs).Error; err != nil {
		return nil, fmt.Errorf("task service: load team ids: %w", err)
	}
	return teamIDs, nil
}

func toTeamPtrs(teams []models.Team) []any {
	out := make([]any, 0, len(teams))
	for i := range teams {
		out = append(out, &teams[i])
	}
	return out
}
