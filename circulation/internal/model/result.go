package model

import "time"

type ReturnResult struct {
	Transaction Transaction `json:"transaction"`
	Book        Book        `json:"book"`
	// PromotedHold is set when the returned copy went to the head of the hold queue.
	PromotedHold *Hold `json:"promotedHold,omitempty"`
}

type ExpireResult struct {
	Expired  []Hold `json:"expired"`
	Promoted []Hold `json:"promoted"`
}

type OverdueSweepRequest struct {
	Now                time.Time
	MinimumDaysOverdue int
	DryRun             bool
	// Force resends reminders that were already sent.
	Force bool
}

type OverdueItem struct {
	Transaction Transaction `json:"transaction"`
	DaysOverdue int         `json:"daysOverdue"`
	// Eligible is true when this run sends (or in dry run would send) a reminder.
	Eligible bool `json:"eligible"`
	Notified bool `json:"notified"`
}

type OverdueReport struct {
	Items    []OverdueItem `json:"items"`
	Total    int           `json:"total"`
	Eligible int           `json:"eligible"`
	Notified int           `json:"notified"`
	DryRun   bool          `json:"dryRun"`
}

// Notification payloads.

type OverduePayload struct {
	TransactionID string    `json:"transactionId"`
	BookID        string    `json:"bookId"`
	Title         string    `json:"title"`
	EndDate       time.Time `json:"endDate"`
	DaysOverdue   int       `json:"daysOverdue"`
}

type HoldReadyPayload struct {
	HoldID   string    `json:"holdId"`
	BookID   string    `json:"bookId"`
	Title    string    `json:"title"`
	PickupBy time.Time `json:"pickupBy"`
}

type HoldExpiredPayload struct {
	HoldID    string    `json:"holdId"`
	BookID    string    `json:"bookId"`
	Title     string    `json:"title"`
	ExpiredAt time.Time `json:"expiredAt"`
}
