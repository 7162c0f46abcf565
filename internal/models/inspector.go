// Package models defines the GORM schema for the Surveyor inspection store.
package models

import "time"

// Inspector is a field inspector who performs checklist walks through the
// chat channel. AccessCode is the credential an inspector sends to identify
// themselves at the start of a conversation.
type Inspector struct {
	ID         uint   `gorm:"primaryKey;autoIncrement"`
	Name       string `gorm:"size:128;not null"`
	Phone      string `gorm:"size:32;uniqueIndex"`
	AccessCode string `gorm:"size:32;uniqueIndex;not null"`
	Active     bool   `gorm:"default:true;index"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
