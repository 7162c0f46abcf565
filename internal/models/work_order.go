package models

import "time"

// Work order statuses.
const (
	WorkOrderPending    = "pending"
	WorkOrderInProgress = "in_progress"
	WorkOrderCompleted  = "completed"
	WorkOrderCancelled  = "cancelled"
)

// WorkOrder is a scheduled inspection job assigned to an inspector. The
// chat engine offers an inspector their pending work orders for the day,
// marks one in_progress on confirmation, and completes it when the walk
// is finished.
type WorkOrder struct {
	ID           uint      `gorm:"primaryKey;autoIncrement"`
	Number       string    `gorm:"size:32;uniqueIndex;not null"` // human-facing order number
	ContractID   uint      `gorm:"not null;index"`
	InspectorID  uint      `gorm:"not null;index:idx_inspector_status"`
	Status       string    `gorm:"size:16;default:pending;index:idx_inspector_status"`
	ScheduledFor time.Time `gorm:"index"`
	StartedAt    *time.Time
	CompletedAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Contract  Contract  `gorm:"foreignKey:ContractID"`
	Inspector Inspector `gorm:"foreignKey:InspectorID"`
	Locations []Location `gorm:"foreignKey:WorkOrderID"`
}
