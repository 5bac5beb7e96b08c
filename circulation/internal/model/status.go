package model

type TransactionStatus string

const (
	TransactionPending   TransactionStatus = "pending"
	TransactionActive    TransactionStatus = "active"
	TransactionCompleted TransactionStatus = "completed"
	TransactionRejected  TransactionStatus = "rejected"
	TransactionCancelled TransactionStatus = "cancelled"
)

var transactionTransitions = map[TransactionStatus][]TransactionStatus{
	TransactionPending: {TransactionActive, TransactionRejected, TransactionCancelled},
	TransactionActive:  {TransactionCompleted},
}

func (s TransactionStatus) CanTransitionTo(to TransactionStatus) bool {
	for _, allowed := range transactionTransitions[s] {
		if allowed == to {
			return true
		}
	}
	return false
}

func (s TransactionStatus) Terminal() bool {
	return len(transactionTransitions[s]) == 0
}

type HoldStatus string

const (
	HoldActive    HoldStatus = "active"
	HoldReady     HoldStatus = "ready"
	HoldExpired   HoldStatus = "expired"
	HoldCancelled HoldStatus = "cancelled"
	// HoldFulfilled marks a ready hold whose holder borrowed the copy.
	HoldFulfilled HoldStatus = "fulfilled"
)

var holdTransitions = map[HoldStatus][]HoldStatus{
	HoldActive: {HoldReady, HoldCancelled, HoldExpired},
	HoldReady:  {HoldFulfilled, HoldCancelled, HoldExpired},
}

func (s HoldStatus) CanTransitionTo(to HoldStatus) bool {
	for _, allowed := range holdTransitions[s] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Open reports whether the hold still occupies the (user, book) slot.
func (s HoldStatus) Open() bool {
	return s == HoldActive || s == HoldReady
}
