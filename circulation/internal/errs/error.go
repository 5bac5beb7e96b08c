package errs

import (
	"errors"
	"net/http"
)

var (
	ErrNotFound               = errors.New("not found")
	ErrOutOfStock             = errors.New("out of stock")
	ErrLimitExceeded          = errors.New("active borrow limit exceeded")
	ErrDuplicateRequest       = errors.New("duplicate request")
	ErrInvalidStateTransition = errors.New("invalid state transition")
	ErrAlreadyOnHold          = errors.New("already on hold")
	ErrStockAvailable         = errors.New("stock available")
	ErrInvariantViolation     = errors.New("invariant violation")
	ErrNotOwner               = errors.New("not the requesting user")
	ErrBookArchived           = errors.New("book is archived")
	ErrUserName               = errors.New("username is required")
	ErrInvalidArgument        = errors.New("invalid argument")
)

type kind struct {
	err     error
	status  int
	message string
}

var kinds = []kind{
	{ErrNotFound, http.StatusNotFound, "not found"},
	{ErrOutOfStock, http.StatusConflict, "no copies available, place a hold instead"},
	{ErrLimitExceeded, http.StatusUnprocessableEntity, "you already have the maximum number of borrowed books"},
	{ErrDuplicateRequest, http.StatusConflict, "you already have an open request for this book"},
	{ErrInvalidStateTransition, http.StatusConflict, "the request is no longer in a state that allows this action"},
	{ErrAlreadyOnHold, http.StatusConflict, "you are already in the queue for this book"},
	{ErrStockAvailable, http.StatusConflict, "copies are available, borrow the book instead"},
	{ErrInvariantViolation, http.StatusConflict, "the change conflicts with copies on loan or held for pickup"},
	{ErrNotOwner, http.StatusForbidden, "only the requesting user can do this"},
	{ErrBookArchived, http.StatusGone, "this book is no longer in circulation"},
	{ErrUserName, http.StatusBadRequest, "username is required"},
	{ErrInvalidArgument, http.StatusBadRequest, "invalid request"},
}

// HTTPStatus maps an engine error to a response code; unknown errors are 500.
func HTTPStatus(err error) int {
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.status
		}
	}
	return http.StatusInternalServerError
}

// Message is the user-facing text for an engine error.
func Message(err error) string {
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.message
		}
	}
	return "internal error"
}
