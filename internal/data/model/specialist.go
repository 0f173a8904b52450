package model

import "time"

// Specialist is the specialists table row, the read model backing the
// reminder SMS phone lookup.
type Specialist struct {
	ID        uint64    `gorm:"primaryKey;column:specialist_id;autoIncrement"`
	Name      string    `gorm:"column:name;index"`
	Email     string    `gorm:"column:email;uniqueIndex"`
	Phone     string    `gorm:"column:phone"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (Specialist) TableName() string { return "specialists" }
