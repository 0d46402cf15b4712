package handler

import (
	"errors"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/moneyflow-ledger/internal/api_gateway/middleware"
	"github.com/moneyflow-ledger/internal/domain/account"
	"github.com/moneyflow-ledger/internal/domain/category"
	"github.com/moneyflow-ledger/internal/domain/ledger"
	"github.com/moneyflow-ledger/internal/domain/period"
)

// badRequestErrors are shape and rule violations the caller can fix
var badRequestErrors = []error{
	ledger.ErrInvalidAmount,
	ledger.ErrInvalidKind,
	ledger.ErrCurrencyMismatch,
	ledger.ErrSameAccountTransfer,
	ledger.ErrMissingDestination,
	account.ErrEmptyName,
	account.ErrInvalidCurrencyFormat,
	category.ErrEmptyName,
	category.ErrInvalidCategoryType,
	category.ErrSelfParent,
	period.ErrUnsupportedPeriod{},
}

// respondError maps a service error onto the response envelope.
// Anything unrecognised is logged and reported as a generic 500.
func respondError(c *gin.Context, logger *slog.Logger, err error, msg string) {
	for _, target := range badRequestErrors {
		if errors.Is(err, target) {
			RespondBadRequest(c, err.Error())
			return
		}
	}

	switch {
	case errors.Is(err, account.ErrAccountNotFound{}),
		errors.Is(err, category.ErrCategoryNotFound{}),
		errors.Is(err, ledger.ErrTransactionNotFound{}):
		RespondNotFound(c, err.Error())
		return
	}

	var inUse account.ErrAccountInUse
	if errors.As(err, &inUse) {
		RespondConflict(c, err.Error())
		return
	}

	logger.Error(msg, "correlation_id", middleware.GetCorrelationID(c), "error", err)
	RespondInternalError(c)
}

// currentUser returns the caller id; UserIdentity guarantees it on /api/v1 routes
func currentUser(c *gin.Context) (uuid.UUID, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		RespondUnauthorized(c, "")
		return uuid.Nil, false
	}
	return userID, true
}

// pathID parses the :id route parameter, answering 400 when it is not a UUID
func pathID(c *gin.Context, what string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "Invalid "+what+" ID")
		return uuid.Nil, false
	}
	return id, true
}

func parseOptionalUUID(raw *string) (*uuid.UUID, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
