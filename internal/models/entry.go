package models

import "time"

// Recorded condition values for a task entry.
const (
	ConditionGood           = "good"
	ConditionFair           = "fair"
	ConditionUnsatisfactory = "unsatisfactory"
)

// TaskEntry is the durable record of a completed checklist task within a
// work order. One row per (work order, task); a retried confirmation
// updates the existing row instead of inserting a duplicate.
type TaskEntry struct {
	ID          uint   `gorm:"primaryKey;autoIncrement"`
	WorkOrderID uint   `gorm:"not null;uniqueIndex:idx_order_task"`
	TaskID      uint   `gorm:"not null;uniqueIndex:idx_order_task"`
	InspectorID uint   `gorm:"not null;index"`
	Condition   string `gorm:"size:16;not null"`
	Remarks     string `gorm:"type:text"`
	Cause       string `gorm:"type:text"`      // set only when condition is unsatisfactory
	Resolution  string `gorm:"type:text"`      // set only when condition is unsatisfactory
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Media []MediaAttachment `gorm:"foreignKey:TaskEntryID"`
}

// LocationEntry is the durable record of a location visit: a free-text
// remark plus any location-scoped media. One row per (work order, location).
type LocationEntry struct {
	ID          uint   `gorm:"primaryKey;autoIncrement"`
	WorkOrderID uint   `gorm:"not null;uniqueIndex:idx_order_location"`
	LocationID  uint   `gorm:"not null;uniqueIndex:idx_order_location"`
	InspectorID uint   `gorm:"not null;index"`
	Remarks     string `gorm:"type:text"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Media []MediaAttachment `gorm:"foreignKey:LocationEntryID"`
}

// MediaAttachment is evidence (photo or video) attached to a task or
// location entry. StorageKey is unique so re-flushing a buffered upload
// after a failed commit cannot create duplicate attachments. Exactly one
// of TaskEntryID / LocationEntryID is set.
type MediaAttachment struct {
	ID              uint    `gorm:"primaryKey;autoIncrement"`
	TaskEntryID     *uint   `gorm:"index"`
	LocationEntryID *uint   `gorm:"index"`
	URL             string  `gorm:"size:512;not null"`
	StorageKey      string  `gorm:"size:256;uniqueIndex;not null"`
	MediaType       string  `gorm:"size:32;not null"` // "image" or "video"
	Condition       string  `gorm:"size:16"`          // condition at time of upload, if known
	UploadedAt      time.Time
	CreatedAt       time.Time
}
