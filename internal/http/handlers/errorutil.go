package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/LucianBellevue/ba-website/internal/core"
	"github.com/LucianBellevue/ba-website/pkg/problem"
)

const internalErrorDetail = "Something went wrong on our side. Please try again."

// writeError maps a service error to a problem response. detail is shown to
// the caller for client errors only; server errors always get a fixed text.
func writeError(ctx context.Context, log *slog.Logger, w http.ResponseWriter, err error, detail string) {
	var fe core.FieldErrors
	switch {
	case errors.As(err, &fe):
		log.InfoContext(ctx, "validation failed", "fields", fe.Fields())
		problem.WriteFields(w, "One or more fields are invalid.", fe)

	case errors.Is(err, core.ErrNotFound):
		log.WarnContext(ctx, "resource not found", "err", err)
		problem.Write(w, http.StatusNotFound, "Not Found", detail)

	case errors.Is(err, core.ErrValidation):
		log.WarnContext(ctx, "validation failed", "err", err)
		problem.Write(w, http.StatusBadRequest, "Validation Error", detail)

	case errors.Is(err, core.ErrRateNotFound):
		log.WarnContext(ctx, "no rate for inputs", "err", err)
		problem.Write(w, http.StatusUnprocessableEntity, "No Rate Available",
			"No estimate is available for these inputs. An agent can help.")

	case errors.Is(err, core.ErrConflict):
		log.WarnContext(ctx, "resource conflict", "err", err)
		problem.Write(w, http.StatusConflict, "Conflict", detail)

	case errors.Is(err, core.ErrUnauthorized):
		log.WarnContext(ctx, "unauthorized request", "err", err)
		problem.Write(w, http.StatusUnauthorized, "Unauthorized", detail)

	case errors.Is(err, core.ErrForbidden):
		log.WarnContext(ctx, "forbidden operation", "err", err)
		problem.Write(w, http.StatusForbidden, "Forbidden", detail)

	case errors.Is(err, context.DeadlineExceeded):
		log.ErrorContext(ctx, "operation timeout", "err", err)
		problem.Write(w, http.StatusGatewayTimeout, "Timeout", "Operation took too long.")

	default:
		log.ErrorContext(ctx, "internal server error", "err", err)
		problem.Write(w, http.StatusInternalServerError, "Internal Server Error", internalErrorDetail)
	}
}
