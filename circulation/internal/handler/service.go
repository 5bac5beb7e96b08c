package handler

import (
	"context"
	"time"

	"github.com/Astemirdum/library-circulation/circulation/internal/model"
	"github.com/Astemirdum/library-circulation/circulation/internal/service"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

type CirculationService interface {
	GetBook(ctx context.Context, bookID string) (model.Book, error)
	GetTransaction(ctx context.Context, id string) (model.Transaction, error)
	ListTransactions(ctx context.Context, userEmail string) ([]model.Transaction, error)
	ListHolds(ctx context.Context, bookID string) ([]model.Hold, error)

	RequestBorrow(ctx context.Context, bookID, userEmail string) (model.Transaction, error)
	RequestReserve(ctx context.Context, bookID, userEmail string) (model.Transaction, error)
	Approve(ctx context.Context, id string) (model.Transaction, error)
	Reject(ctx context.Context, id string) (model.Transaction, error)
	Cancel(ctx context.Context, id, userEmail string) (model.Transaction, error)
	RequestReturn(ctx context.Context, id, userEmail string, condition model.Condition) (model.Transaction, error)
	CompleteReturn(ctx context.Context, id string) (model.ReturnResult, error)

	PlaceHold(ctx context.Context, bookID, userEmail string) (model.Hold, error)
	CancelHold(ctx context.Context, holdID, reason string) (model.Hold, error)
	PromoteNext(ctx context.Context, bookID string) (*model.Hold, error)

	OverdueSweep(ctx context.Context, req model.OverdueSweepRequest) (model.OverdueReport, error)
	ExpireSweep(ctx context.Context, now time.Time) (model.ExpireResult, error)
	ApplyCatalogEvent(ctx context.Context, ev model.CatalogEvent) (model.Book, error)
}

var _ CirculationService = (*service.Service)(nil)
