package model

import "time"

// Task represents a single to-do item owned by one user.
//
// CompletedAt and CompletedDate are set exactly once when the task is
// completed and never cleared; CompletedDate is the calendar day of
// CompletedAt, stored as YYYY-MM-DD for day-granularity grouping.
type Task struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	UserID        string     `gorm:"index;not null" json:"user_id"`
	Name          string     `gorm:"size:200;not null" json:"task"`
	Description   string     `gorm:"size:1000" json:"description"`
	DueAt         *time.Time `json:"due_at,omitempty"`
	Recurrence    string     `json:"recurrence,omitempty"`
	Labels        string     `json:"labels,omitempty"`
	Priority      string     `json:"priority,omitempty"`
	Completed     bool       `gorm:"not null;default:false;index" json:"completed"`
	CreatedAt     time.Time  `json:"created_at"`
	CompletedAt   *time.Time `json:"completed_at"`
	CompletedDate *string    `gorm:"size:10;index" json:"completed_date,omitempty"`
}

func (Task) TableName() string {
	return "tasks"
}
