package aggregates

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	pkgerrors "github.com/yungbote/lifelog-backend/internal/pkg/errors"
)

var (
	// ErrConflict indicates a concurrent writer won.
	ErrConflict = errors.New("aggregate conflict")
	// ErrRetryable indicates a transient failure the caller may retry.
	ErrRetryable = errors.New("aggregate retryable")
)

type Code string

const (
	CodeOK        Code = "success"
	CodeInvalid   Code = "invalid"
	CodeNotFound  Code = "not_found"
	CodeConflict  Code = "conflict"
	CodeRetryable Code = "retryable"
	CodeInternal  Code = "internal"
)

// Error tags a failed aggregate operation with a stable code. It unwraps to
// the original error so sentinel checks keep working.
type Error struct {
	Op   string
	Code Code
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Op + ": " + string(e.Code)
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

func CodeOf(err error) Code {
	if err == nil {
		return CodeOK
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code
	}
	return CodeInternal
}

// MapError classifies infrastructure and domain failures.
func MapError(op string, err error) error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return err
	}
	return &Error{Op: op, Code: classify(err), Err: err}
}

func classify(err error) Code {
	switch {
	case errors.Is(err, pkgerrors.ErrInvalidArgument):
		return CodeInvalid
	case errors.Is(err, pkgerrors.ErrNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		return CodeNotFound
	case errors.Is(err, ErrConflict), errors.Is(err, gorm.ErrDuplicatedKey):
		return CodeConflict
	case errors.Is(err, ErrRetryable),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return CodeRetryable
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch strings.TrimSpace(pgErr.Code) {
		case "23505":
			return CodeConflict // unique_violation
		case "40001", "40P01", "55P03":
			return CodeRetryable // serialization/deadlock/lock_not_available
		}
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "duplicate key"), strings.Contains(msg, "unique constraint"):
		return CodeConflict
	case strings.Contains(msg, "deadlock"),
		strings.Contains(msg, "database is locked"),
		strings.Contains(msg, "timeout"):
		return CodeRetryable
	default:
		return CodeInternal
	}
}
