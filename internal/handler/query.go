package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"sqlrunner/helper"
	"sqlrunner/internal/logging"
	"sqlrunner/internal/metrics"
	"sqlrunner/internal/model"
	"sqlrunner/internal/service"
)

const (
	msgInvalidQuery    = "Query parameter is missing or invalid."
	msgNotAllowed      = "Operation not allowed."
	causeNotAllowed    = "Certain PRAGMA, ATTACH, DETACH, or VACUUM commands are restricted."
	msgExecuteFallback = "Failed to execute query"
	causeUnknown       = "Unknown cause"
)

// A literal null body fails on reading the field, not on validation, so it
// takes the execution failure path.
var errNullBody = errors.New("Cannot read properties of null (reading 'query')")

func QueryHandler(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		executionFailed(c, err)
		return
	}

	// A body that is not JSON at all is reported like a failed execution.
	var body any
	if err := json.Unmarshal(raw, &body); err != nil {
		executionFailed(c, err)
		return
	}
	if body == nil {
		executionFailed(c, errNullBody)
		return
	}

	query, ok := helper.ExtractQuery(body)
	if !ok {
		metrics.ObserveOutcome(metrics.OutcomeInvalid)
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: msgInvalidQuery})
		return
	}

	if helper.IsRestrictedQuery(query) {
		metrics.ObserveOutcome(metrics.OutcomeRestricted)
		cause := causeNotAllowed
		c.JSON(http.StatusForbidden, model.ErrorResponse{Error: msgNotAllowed, Cause: &cause})
		return
	}

	start := time.Now()
	result, err := execute(c.Request.Context(), query)
	metrics.ObserveDuration(time.Since(start))
	if err != nil {
		executionFailed(c, err)
		return
	}

	metrics.ObserveOutcome(metrics.OutcomeOK)
	c.JSON(http.StatusOK, result)
}

// execute hands the query to the database exactly as received.
func execute(ctx context.Context, query string) (*model.QueryResult, error) {
	if activeDB == nil {
		return nil, service.ErrNotConnected
	}

	stmt, err := activeDB.Prepare(ctx, query)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	return stmt.All(ctx)
}

func executionFailed(c *gin.Context, err error) {
	log := logging.New("handler")
	log.Error().Err(err).Msg("SQL execution error")

	metrics.ObserveOutcome(metrics.OutcomeFailed)
	c.JSON(http.StatusInternalServerError, executionError(err))
}

func executionError(err error) model.ErrorResponse {
	msg := err.Error()
	if msg == "" {
		msg = msgExecuteFallback
	}

	cause := causeUnknown
	if inner := errors.Unwrap(err); inner != nil && inner.Error() != "" {
		cause = inner.Error()
	}
	return model.ErrorResponse{Error: msg, Cause: &cause}
}
