package service

import (
	"context"

	"github.com/Astemirdum/library-circulation/circulation/internal/errs"
	"github.com/Astemirdum/library-circulation/circulation/internal/model"
	"github.com/Astemirdum/library-circulation/circulation/internal/repository"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// ApplyCatalogEvent mirrors a catalog edit into the circulation store. Unknown
// titles are created fully available. A change of total stock moves the
// available count by the same delta; copies added to a title with a queue go
// straight to the waiting holders.
func (s *Service) ApplyCatalogEvent(ctx context.Context, ev model.CatalogEvent) (model.Book, error) {
	if ev.BookID == "" || ev.TotalStock < 0 {
		return model.Book{}, errors.Wrapf(errs.ErrInvalidArgument, "catalog event for %q with %d copies", ev.BookID, ev.TotalStock)
	}
	unlock := s.lockBook(ev.BookID)
	defer unlock()

	var (
		book     model.Book
		promoted []model.Hold
	)
	err := s.repo.WithTx(ctx, func(r repository.Repository) error {
		now := s.now()
		err := r.LockBook(ctx, ev.BookID)
		if errors.Is(err, errs.ErrNotFound) {
			book = model.Book{
				ID:             ev.BookID,
				Title:          ev.Title,
				TotalStock:     ev.TotalStock,
				AvailableStock: ev.TotalStock,
				Archived:       ev.Archived,
				UpdatedAt:      now,
			}
			return r.CreateBook(ctx, book)
		}
		if err != nil {
			return err
		}
		cur, err := r.GetBook(ctx, ev.BookID)
		if err != nil {
			return err
		}

		delta := ev.TotalStock - cur.TotalStock
		free, err := unreservedCopies(ctx, r, cur)
		if err != nil {
			return err
		}
		if _, err = s.inventory.Adjust(ctx, r, ev.BookID, delta, cur.AvailableStock-free); err != nil {
			return err
		}
		cur.Title = ev.Title
		cur.Archived = ev.Archived
		cur.UpdatedAt = now
		if err = r.UpdateBook(ctx, cur); err != nil {
			return err
		}

		if delta > 0 && !ev.Archived {
			for {
				h, err := s.promoteNext(ctx, r, ev.BookID, now)
				if err != nil {
					return err
				}
				if h == nil {
					break
				}
				promoted = append(promoted, *h)
			}
		}
		book, err = r.GetBook(ctx, ev.BookID)
		return err
	})
	if err != nil {
		return model.Book{}, err
	}

	for _, h := range promoted {
		s.notifyHoldReady(ctx, h, book.Title)
	}
	s.log.Info("catalog event applied",
		zap.String("book", book.ID),
		zap.Int("total", book.TotalStock),
		zap.Int("available", book.AvailableStock),
		zap.Bool("archived", book.Archived))
	return book, nil
}
