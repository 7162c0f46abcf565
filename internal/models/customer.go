package models

import "time"

// Customer is a property owner or managing agent with one or more
// inspection contracts.
type Customer struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	Name      string `gorm:"size:128;not null"`
	Email     string `gorm:"size:128"`
	Phone     string `gorm:"size:32"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Contracts []Contract `gorm:"foreignKey:CustomerID"`
}

// Contract is an inspection agreement covering a single property. Work
// orders are scheduled against a contract.
type Contract struct {
	ID         uint   `gorm:"primaryKey;autoIncrement"`
	CustomerID uint   `gorm:"not null;index"`
	Reference  string `gorm:"size:64;uniqueIndex;not null"`
	Property   string `gorm:"size:256;not null"` // property address
	Active     bool   `gorm:"default:true;index"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Customer Customer `gorm:"foreignKey:CustomerID"`
}
