package models

import "time"

// Location is a top-level area of a work order's checklist (e.g. "Roof",
// "Basement"). The inspector walks locations in menu order.
type Location struct {
	ID          uint   `gorm:"primaryKey;autoIncrement"`
	WorkOrderID uint   `gorm:"not null;index"`
	Name        string `gorm:"size:128;not null"`
	Position    int    `gorm:"not null;default:0"` // menu ordering
	CreatedAt   time.Time

	SubLocations []SubLocation `gorm:"foreignKey:LocationID"`
}

// SubLocation is a subdivision of a Location (e.g. "Roof / Gutters").
type SubLocation struct {
	ID         uint   `gorm:"primaryKey;autoIncrement"`
	LocationID uint   `gorm:"not null;index"`
	Name       string `gorm:"size:128;not null"`
	Position   int    `gorm:"not null;default:0"`
	CreatedAt  time.Time

	Tasks []Task `gorm:"foreignKey:SubLocationID"`
}

// Task is a single checklist item under a sub-location. The task flow
// records one TaskEntry per task per work order.
type Task struct {
	ID            uint   `gorm:"primaryKey;autoIncrement"`
	SubLocationID uint   `gorm:"not null;index"`
	Name          string `gorm:"size:256;not null"`
	Position      int    `gorm:"not null;default:0"`
	CreatedAt     time.Time
}
