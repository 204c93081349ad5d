// Package jobs registers the periodic maintenance jobs with the scheduler.
package jobs

import (
	"context"
	"time"

	"github.com/furnitureops/backend/internal/application/finance"
	"github.com/furnitureops/backend/internal/application/prediction"
	"github.com/furnitureops/backend/internal/infrastructure/scheduler"
	"go.uber.org/zap"
)

// Job names
const (
	InvoiceOverdueSweep = "invoice_overdue_sweep"
	ChurnRefresh        = "churn_refresh"
)

// OverdueSweeper flips past-due invoices to overdue
type OverdueSweeper interface {
	MarkOverdue(ctx context.Context, asOf time.Time) (*finance.OverdueSweepResult, error)
}

// ChurnRefresher re-scores churn risk for every tenant
type ChurnRefresher interface {
	RefreshChurn(ctx context.Context) (*prediction.ChurnRefreshResult, error)
}

// Registrar is the part of the scheduler used to register jobs
type Registrar interface {
	Every(name string, interval time.Duration, task scheduler.Task)
}

// Intervals configures how often each job runs. A non-positive interval
// registers the job for manual triggering only.
type Intervals struct {
	OverdueSweep time.Duration
	ChurnRefresh time.Duration
}

// Register adds the maintenance jobs. A nil collaborator skips its job.
func Register(r Registrar, intervals Intervals, invoices OverdueSweeper, churn ChurnRefresher, logger *zap.Logger) {
	if invoices != nil {
		r.Every(InvoiceOverdueSweep, intervals.OverdueSweep, OverdueSweepTask(invoices, logger))
	}
	if churn != nil {
		r.Every(ChurnRefresh, intervals.ChurnRefresh, ChurnRefreshTask(churn, logger))
	}
}

// OverdueSweepTask marks every invoice past its due date as overdue
func OverdueSweepTask(invoices OverdueSweeper, logger *zap.Logger) scheduler.Task {
	return func(ctx context.Context) error {
		result, err := invoices.MarkOverdue(ctx, time.Now())
		if err != nil {
			return err
		}
		logger.Info("Overdue sweep finished",
			zap.Int("scanned", result.Scanned),
			zap.Int("marked", result.Marked),
			zap.Int("failed", result.Failed))
		return nil
	}
}

// ChurnRefreshTask re-scores churn for all active customers
func ChurnRefreshTask(churn ChurnRefresher, logger *zap.Logger) scheduler.Task {
	return func(ctx context.Context) error {
		_, err := churn.RefreshChurn(ctx)
		return err
	}
}
