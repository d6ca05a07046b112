package model

// User stores per-user streak and reminder state. The primary key is the
// opaque chat-platform identifier, so the row is created lazily the first
// time a user adds a task or checks in.
type User struct {
	UserID       string  `gorm:"primaryKey;column:user_id"`
	Streak       int     `gorm:"not null;default:0"`
	LastCheck    *string `gorm:"column:last_check;size:10"`
	ReminderHour *int    `gorm:"column:reminder_hour"`
	LastDM       *string `gorm:"column:last_dm;size:10"`
}

func (User) TableName() string {
	return "users"
}
