package models

import (
	"time"
)

const (
	ActionAddBalance   = "add_balance"
	ActionToggleStatus = "toggle_status"
	ActionCreateUser   = "create_user"
	ActionLogin        = "login"
)

// Activity is a staff action performed through the dashboard
type Activity struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Action    string    `gorm:"type:varchar(50);not null;index" json:"action"`
	TargetID  string    `gorm:"type:varchar(100);index" json:"target_id"`
	Detail    string    `gorm:"type:text" json:"detail"`
	Actor     string    `gorm:"type:varchar(255)" json:"actor"`
	Success   bool      `json:"success"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Activity) TableName() string {
	return "activities"
}
