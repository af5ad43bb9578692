package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	request "servihub/internal/adapter/http/dto/request"
	response "servihub/internal/adapter/http/dto/response"
	"servihub/internal/usecase"
	"servihub/pkg"
)

// AcceptanceHandler handles the payment confirmation and acceptance endpoint.

type AcceptanceHandler struct {
	usecase usecase.IAcceptanceUseCase
}

func NewAcceptanceHandler(uc usecase.IAcceptanceUseCase) *AcceptanceHandler {
	return &AcceptanceHandler{usecase: uc}
}

// AcceptProposal verifies the payment intent and accepts the proposal.
func (h *AcceptanceHandler) AcceptProposal(c *gin.Context) {
	id, ok := requestIDParam(c)
	if !ok {
		return
	}

	var payload request.AcceptProposalRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		appErr := pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid acceptance payload", http.StatusBadRequest)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	result, err := h.usecase.AcceptProposal(c.Request.Context(), id, payload.Ref, payload.PaymentIntentID)
	if err != nil {
		log.Warn().Err(err).
			Str("requestId", id.String()).
			Str("ref", payload.Ref).
			Msg("proposal acceptance failed")
		appErr := mapAcceptanceError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusOK, response.FromAcceptResult(result))
}

func mapAcceptanceError(err error) *pkg.AppError {
	switch {
	case errors.Is(err, usecase.ErrRequestNotFound):
		return pkg.NewDomainErrorSimple("REQUEST_NOT_FOUND", "Service request not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrProposalNotFound):
		return pkg.NewDomainErrorSimple("PROPOSAL_NOT_FOUND", "Proposal not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrPaymentNotFound):
		return pkg.NewDomainErrorSimple("PAYMENT_NOT_FOUND", "Payment intent not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrPaymentIncomplete):
		return pkg.NewDomainErrorSimple("PAYMENT_INCOMPLETE", "Payment has not completed", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrPaymentAmountMismatch):
		return pkg.NewDomainErrorSimple("PAYMENT_AMOUNT_MISMATCH", "Payment amount does not match proposal price", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrPaymentIntentMismatch):
		return pkg.NewDomainErrorSimple("INVALID_REQUEST", "Payment intent does not belong to this proposal", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrRequestInProgress):
		return pkg.NewDomainErrorSimple("ALREADY_IN_PROGRESS", "Request already has an accepted proposal", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrProposalAccepted):
		return pkg.NewDomainErrorSimple("ALREADY_PROCESSED", "Proposal already accepted", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrLockConflict):
		// Only lock contention is worth a retry; everything above is a state
		// the client must resolve, not re-send.
		return pkg.NewDomainErrorSimple("CONFLICT_RETRY", "Concurrent update, retry", http.StatusConflict)
	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}
}
