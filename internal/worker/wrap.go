package worker

import (
	"context"
	"errors"
	"fmt"
	"redirectadmin/internal/wrapper"
	"redirectadmin/pkg/logger"
	"redirectadmin/pkg/serrors"

	"github.com/riverqueue/river"
	"go.uber.org/zap"
)

// WrapWorker executes one wrap run per job. Runs bill the user as they
// progress, so the job is never retried (MaxAttempts is 1 on the args); a set
// that disappeared between enqueue and execution cancels the job instead of
// failing it.
type WrapWorker struct {
	river.WorkerDefaults[wrapper.JobArgs]

	wrapper *wrapper.Wrapper
}

// Work runs the wrapping pipeline for the job's link set.
func (w *WrapWorker) Work(ctx context.Context, job *river.Job[wrapper.JobArgs]) error {
	ctx = logger.WithFields(ctx,
		zap.Int64("jobID", job.ID),
		zap.Int64("linkSetID", int64(job.Args.LinkSetID)))

	if err := w.wrapper.Wrap(ctx, job.Args.LinkSetID); err != nil {
		if errors.Is(err, serrors.ErrNotFound) {
			return river.JobCancel(err) //nolint: wrapcheck
		}

		logger.Error(ctx, "error in wrapping link set", zap.Error(err))

		return fmt.Errorf("could not wrap link set: %w", err)
	}

	logger.Info(ctx, "link set wrapped successfully")

	return nil
}
