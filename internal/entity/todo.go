package entity

import "time"

// DbTodo is a per-user to-do item. Read-only over HTTP; rows are maintained
// by seeding and background business processes.
type DbTodo struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	UserID    uint      `gorm:"column:user_id;index;not null" json:"user_id"`
	Title     string    `gorm:"column:title;type:varchar(255);not null" json:"title"`
	Done      bool      `gorm:"column:done;not null;default:false" json:"done"`
}

// TableName overrides default pluralised name.
func (DbTodo) TableName() string {
	return "todos"
}
