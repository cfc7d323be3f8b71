package models

import "time"

// Team groups users and carries responsibility for tasks. Both relations are
// plain join tables with no lifecycle of their own.
type Team struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"uniqueIndex;not null" json:"name"`

	Users []User `gorm:"many2many:team_members;" json:"-"`
	Tasks []Task `gorm:"many2many:team_tasks;" json:"-"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}
