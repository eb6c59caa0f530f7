package services

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/yungbote/lifelog-backend/internal/pkg/ctxutil"
	pkgerrors "github.com/yungbote/lifelog-backend/internal/pkg/errors"
	"github.com/yungbote/lifelog-backend/internal/platform/apierr"
)

// mapErr turns sentinel errors into API errors; code names the failed operation.
func mapErr(code string, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := apierr.As(err); ok {
		return err
	}
	switch {
	case errors.Is(err, pkgerrors.ErrInvalidArgument):
		return apierr.BadRequest(code, err)
	case errors.Is(err, pkgerrors.ErrNotFound):
		return apierr.NotFound(code, err)
	case errors.Is(err, pkgerrors.ErrUnauthorized):
		return apierr.New(http.StatusUnauthorized, "unauthorized", err)
	case errors.Is(err, pkgerrors.ErrUnavailable):
		return apierr.Unavailable(code, err)
	default:
		return apierr.New(http.StatusInternalServerError, code, err)
	}
}

func requireUser(ctx context.Context) (uuid.UUID, error) {
	id := ctxutil.UserID(ctx)
	if id == uuid.Nil {
		return uuid.Nil, apierr.New(http.StatusUnauthorized, "unauthorized", pkgerrors.ErrUnauthorized)
	}
	return id, nil
}
