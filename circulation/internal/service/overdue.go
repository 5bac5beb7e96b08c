package service

import (
	"context"
	"time"

	"github.com/Astemirdum/library-circulation/circulation/internal/model"
	"github.com/Astemirdum/library-circulation/circulation/internal/notifier"
	"github.com/Astemirdum/library-circulation/circulation/internal/repository"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// OverdueSweep reports active loans due more than MinimumDaysOverdue days
// before req.Now and reminds their borrowers once. A dry run only reports.
// The reminder flag is claimed with a conditional update before the message is
// queued, so overlapping sweeps never remind the same loan twice.
func (s *Service) OverdueSweep(ctx context.Context, req model.OverdueSweepRequest) (model.OverdueReport, error) {
	now := req.Now
	if now.IsZero() {
		now = s.now()
	}
	now = now.UTC()
	minDays := req.MinimumDaysOverdue
	if minDays < 0 {
		minDays = 0
	}
	cutoff := now.Add(-time.Duration(minDays) * 24 * time.Hour)

	loans, err := s.repo.QueryTransactions(ctx, repository.TransactionFilter{
		Statuses:  []model.TransactionStatus{model.TransactionActive},
		EndBefore: &cutoff,
	})
	if err != nil {
		return model.OverdueReport{}, err
	}

	report := model.OverdueReport{
		Items:  make([]model.OverdueItem, 0, len(loans)),
		DryRun: req.DryRun,
	}
	titles := make(map[string]string)
	var sweepErr error
	for _, t := range loans {
		item := model.OverdueItem{
			Transaction: t,
			DaysOverdue: t.DaysOverdue(now),
			Eligible:    !t.ReminderSent || req.Force,
		}
		if item.Eligible {
			report.Eligible++
			if !req.DryRun {
				item.Notified, err = s.remind(ctx, t, item.DaysOverdue, req.Force, now, titles)
				if err != nil {
					s.log.Error("overdue reminder", zap.String("transaction", t.ID), zap.Error(err))
					sweepErr = multierr.Append(sweepErr, err)
				}
				if item.Notified {
					report.Notified++
				}
			}
		}
		report.Items = append(report.Items, item)
	}
	report.Total = len(report.Items)

	s.log.Info("overdue sweep",
		zap.Int("total", report.Total),
		zap.Int("eligible", report.Eligible),
		zap.Int("notified", report.Notified),
		zap.Bool("dryRun", report.DryRun))
	return report, sweepErr
}

func (s *Service) remind(ctx context.Context, t model.Transaction, days int, force bool, now time.Time, titles map[string]string) (bool, error) {
	// first reminders flip the flag false -> true; only those are rolled back
	// when the message cannot be queued, a failed resend leaves it set
	first, err := s.repo.MarkReminderSent(ctx, t.ID, false, now)
	if err != nil {
		return false, err
	}
	claimed := first
	if !first && force {
		if claimed, err = s.repo.MarkReminderSent(ctx, t.ID, true, now); err != nil {
			return false, err
		}
	}
	if !claimed {
		s.log.Debug("reminder already claimed", zap.String("transaction", t.ID))
		return false, nil
	}
	release := func(cause error) error {
		if !first {
			return cause
		}
		return s.releaseReminder(ctx, t.ID, now, cause)
	}

	title, ok := titles[t.BookID]
	if !ok {
		book, err := s.repo.GetBook(ctx, t.BookID)
		if err != nil {
			return false, release(err)
		}
		title = book.Title
		titles[t.BookID] = title
	}

	err = s.notifier.Notify(ctx, t.UserEmail, notifier.KindOverdue, model.OverduePayload{
		TransactionID: t.ID,
		BookID:        t.BookID,
		Title:         title,
		EndDate:       *t.EndDate,
		DaysOverdue:   days,
	})
	if err != nil {
		return false, release(err)
	}
	return true, nil
}

// releaseReminder clears a claimed flag so the next sweep retries the loan.
func (s *Service) releaseReminder(ctx context.Context, id string, now time.Time, cause error) error {
	if err := s.repo.ResetReminder(ctx, id, now); err != nil {
		return multierr.Append(cause, err)
	}
	return cause
}
