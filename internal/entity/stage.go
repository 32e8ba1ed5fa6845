package entity

import "time"

// DbStage is a global workflow phase marker. At most one row is active at a
// time; the switch operation enforces this inside a single transaction.
type DbStage struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Code      string    `gorm:"column:code;type:varchar(50);uniqueIndex;not null" json:"code"`
	Name      string    `gorm:"column:name;type:varchar(255)" json:"name"`
	IsActive  bool      `gorm:"column:is_active;not null;default:false" json:"is_active"`
}

// TableName overrides default pluralised name.
func (DbStage) TableName() string {
	return "stages"
}

type StageSwitchRequest struct {
	Code string `json:"code" binding:"required"`
	Name string `json:"name"`
}
