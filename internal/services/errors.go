package services

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	apperrors "github.com/taskdeck/taskdeck/pkg/errors"
)

var (
	// ErrUserNotFound indicates the target user does not exist.
	ErrUserNotFound = apperrors.New("USER_NOT_FOUND", "User Data Not Found", http.StatusNotFound)
	// ErrDuplicateEmail signals an attempt to create a user with a taken email.
	ErrDuplicateEmail = apperrors.New("USER_EMAIL_EXISTS", "User Email Exists", http.StatusBadRequest)

	// ErrTeamNotFound indicates the requested team does not exist or is not visible.
	ErrTeamNotFound = apperrors.New("TEAM_NOT_FOUND", "Target Team Not Found", http.StatusNotFound)
	// ErrDuplicateTeamName signals a team name collision.
	ErrDuplicateTeamName = apperrors.New("TEAM_NAME_EXISTS", "Team Name Exists", http.StatusBadRequest)
	// ErrTeamMembersNotFound indicates the team or one of the referenced users is missing.
	ErrTeamMembersNotFound = apperrors.New("TEAM_OR_USERS_NOT_FOUND", "Team or Users Not Found", http.StatusNotFound)

	// ErrTaskNotFound indicates the requested task does not exist or is not visible.
	ErrTaskNotFound = apperrors.New("TASK_NOT_FOUND", "Target Task Not Found", http.StatusNotFound)
	// ErrInvalidTaskData covers name collisions and malformed task fields.
	ErrInvalidTaskData = apperrors.New("INVALID_TASK_DATA", "Invalid Task Data [Task Name Exists or Invalid Date Format]", http.StatusBadRequest)
	// ErrTaskTeamsNotFound indicates the task or one of the referenced teams is missing.
	ErrTaskTeamsNotFound = apperrors.New("TASK_OR_TEAMS_NOT_FOUND", "Task or Teams Not Found", http.StatusNotFound)
)

func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr != nil && pgErr.Code == "23505" {
		return true
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr != nil && myErr.Number == 1062 {
		return true
	}

	lower := strings.ToLower(err.Error())
	return strings.Contains(lower, "unique") ||
		strings.Contains(lower, "duplicate")
}
