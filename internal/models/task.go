package models

import "time"

// Task is a unit of work assigned to teams via the team_tasks join table.
type Task struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	Name     string    `gorm:"uniqueIndex;not null" json:"name"`
	Content  string    `gorm:"type:text" json:"content"`
	Deadline time.Time `gorm:"not null" json:"deadline"`

	StatusID *uint       `json:"status_id,omitempty"`
	Status   *TaskStatus `gorm:"foreignKey:StatusID" json:"status,omitempty"`

	Teams []Team `gorm:"many2many:team_tasks;" json:"-"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}
