package model

import "time"

type CreateTransactionRequest struct {
	BookID string          `json:"bookId" validate:"required"`
	Type   TransactionType `json:"type" validate:"required,oneof=borrow reserve"`
}

type ReturnRequest struct {
	Condition Condition `json:"condition" validate:"omitempty,oneof=good damaged lost"`
}

type PlaceHoldRequest struct {
	BookID string `json:"bookId" validate:"required"`
}

type CancelHoldRequest struct {
	Reason string `json:"reason" validate:"max=255"`
}

type OverdueSweepHTTPRequest struct {
	Now                *time.Time `json:"now"`
	MinimumDaysOverdue int        `json:"minimumDaysOverdue" validate:"gte=0"`
	DryRun             bool       `json:"dryRun"`
	Force              bool       `json:"force"`
}

type ExpireSweepRequest struct {
	Now *time.Time `json:"now"`
}

type TransactionList struct {
	Items []Transaction `json:"items"`
}

type HoldList struct {
	Items []Hold `json:"items"`
}

type PromoteResponse struct {
	Promoted *Hold `json:"promoted"`
}
