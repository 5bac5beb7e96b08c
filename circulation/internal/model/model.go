package model

import (
	"time"
)

type Book struct {
	ID             string    `json:"id" db:"id"`
	Title          string    `json:"title" db:"title"`
	TotalStock     int       `json:"totalStock" db:"total_stock"`
	AvailableStock int       `json:"availableStock" db:"available_stock"`
	Archived       bool      `json:"archived" db:"archived"`
	UpdatedAt      time.Time `json:"updatedAt" db:"updated_at"`
}

type TransactionType string

const (
	TypeBorrow  TransactionType = "borrow"
	TypeReserve TransactionType = "reserve"
)

type Condition string

const (
	ConditionGood    Condition = "good"
	ConditionDamaged Condition = "damaged"
	ConditionLost    Condition = "lost"
)

func (c Condition) Valid() bool {
	switch c {
	case ConditionGood, ConditionDamaged, ConditionLost:
		return true
	}
	return false
}

type Transaction struct {
	ID              string            `json:"id" db:"id"`
	BookID          string            `json:"bookId" db:"book_id"`
	UserEmail       string            `json:"userEmail" db:"user_email"`
	Type            TransactionType   `json:"type" db:"type"`
	Status          TransactionStatus `json:"status" db:"status"`
	RequestedAt     time.Time         `json:"requestedAt" db:"requested_at"`
	StartDate       *time.Time        `json:"startDate,omitempty" db:"start_date"`
	EndDate         *time.Time        `json:"endDate,omitempty" db:"end_date"`
	ReturnDate      *time.Time        `json:"returnDate,omitempty" db:"return_date"`
	ReturnCondition *Condition        `json:"returnCondition,omitempty" db:"return_condition"`
	ReturnRequested bool              `json:"returnRequested" db:"return_requested"`
	ReminderSent    bool              `json:"reminderSent" db:"reminder_sent"`
	UpdatedAt       time.Time         `json:"updatedAt" db:"updated_at"`
}

// IsOverdue is derived, never stored: an active loan past its due date.
func (t Transaction) IsOverdue(now time.Time) bool {
	return t.Status == TransactionActive && t.EndDate != nil && now.After(*t.EndDate)
}

// DaysOverdue counts whole days past the due date.
func (t Transaction) DaysOverdue(now time.Time) int {
	if !t.IsOverdue(now) {
		return 0
	}
	return int(now.Sub(*t.EndDate) / (24 * time.Hour))
}

type Hold struct {
	ID              string     `json:"id" db:"id"`
	BookID          string     `json:"bookId" db:"book_id"`
	UserEmail       string     `json:"userEmail" db:"user_email"`
	Status          HoldStatus `json:"status" db:"status"`
	HoldDate        time.Time  `json:"holdDate" db:"hold_date"`
	QueuePosition   int        `json:"queuePosition" db:"queue_position"`
	ReadyPickupDate *time.Time `json:"readyPickupDate,omitempty" db:"ready_pickup_date"`
	ExpiryDate      time.Time  `json:"expiryDate" db:"expiry_date"`
	CancelReason    string     `json:"cancelReason,omitempty" db:"cancel_reason"`
	UpdatedAt       time.Time  `json:"updatedAt" db:"updated_at"`
}

// CatalogEvent is published by the catalog service when an admin edits a title.
type CatalogEvent struct {
	BookID     string `json:"bookId"`
	Title      string `json:"title"`
	TotalStock int    `json:"totalStock"`
	Archived   bool   `json:"archived"`
}
