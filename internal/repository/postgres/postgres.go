package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/lib/pq"

	"talentflow/internal/common"
)

const defaultStoreTimeout = 3 * time.Second

// opCtx bounds a single store call. Every read and write carries its own
// deadline independent of the surrounding request.
func opCtx(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		timeout = defaultStoreTimeout
	}
	return context.WithTimeout(ctx, timeout)
}

const uniqueViolation = "23505"

func dbError(message string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return common.NewError(common.CodeTimeout, message, err)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return common.NewError(common.CodeConflict, message, err)
	}
	return common.NewError(common.CodeInternal, message, err)
}
