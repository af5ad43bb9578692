package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	request "servihub/internal/adapter/http/dto/request"
	response "servihub/internal/adapter/http/dto/response"
	"servihub/internal/domain/entities"
	"servihub/internal/usecase"
	"servihub/pkg"
)

var errInvalidProposalPayload = pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid proposal payload", http.StatusBadRequest)

// ProposalHandler handles HTTP requests for proposals: submission, listing,
// rejection and payment intent creation.

type ProposalHandler struct {
	usecase usecase.IProposalUseCase
}

func NewProposalHandler(uc usecase.IProposalUseCase) *ProposalHandler {
	return &ProposalHandler{usecase: uc}
}

// SubmitProposal records a provider's priced offer on their lead.
func (h *ProposalHandler) SubmitProposal(c *gin.Context) {
	id, ok := requestIDParam(c)
	if !ok {
		return
	}

	var payload request.SubmitProposalRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidProposalPayload.HTTPStatus, errInvalidProposalPayload.ToHTTPError())
		return
	}
	providerUserID, err := payload.ResolveProviderUserID()
	if err != nil {
		c.JSON(errInvalidProposalPayload.HTTPStatus, errInvalidProposalPayload.ToHTTPError())
		return
	}

	result, err := h.usecase.Submit(c.Request.Context(), id, providerUserID, payload.Details, payload.Price)
	if err != nil {
		appErr := mapProposalError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusCreated, response.FromSubmitResult(result))
}

// ListProposals returns the request's proposals, pending and promoted alike.
func (h *ProposalHandler) ListProposals(c *gin.Context) {
	id, ok := requestIDParam(c)
	if !ok {
		return
	}

	views, err := h.usecase.ListForRequest(c.Request.Context(), id)
	if err != nil {
		appErr := mapProposalError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusOK, gin.H{"proposals": views})
}

// RejectProposal records a customer rejection with a reason.
func (h *ProposalHandler) RejectProposal(c *gin.Context) {
	id, ok := requestIDParam(c)
	if !ok {
		return
	}

	var payload request.RejectProposalRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidProposalPayload.HTTPStatus, errInvalidProposalPayload.ToHTTPError())
		return
	}

	err := h.usecase.Reject(c.Request.Context(), id, payload.Ref, entities.RejectionReason(payload.Reason), payload.Note)
	if err != nil {
		appErr := mapProposalError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// CreatePaymentIntent opens a payment intent for a proposal ref, promoting
// pending offers to first-class rows.
func (h *ProposalHandler) CreatePaymentIntent(c *gin.Context) {
	id, ok := requestIDParam(c)
	if !ok {
		return
	}

	var payload request.PaymentIntentRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidProposalPayload.HTTPStatus, errInvalidProposalPayload.ToHTTPError())
		return
	}

	result, err := h.usecase.CreatePaymentIntent(c.Request.Context(), id, payload.Ref)
	if err != nil {
		appErr := mapProposalError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusCreated, response.FromIntentResult(result))
}

func mapProposalError(err error) *pkg.AppError {
	switch {
	case errors.Is(err, usecase.ErrInvalidProposalPrice),
		errors.Is(err, usecase.ErrInvalidRejectionReason),
		errors.Is(err, usecase.ErrRejectionNoteRequired):
		return pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrRequestNotFound):
		return pkg.NewDomainErrorSimple("REQUEST_NOT_FOUND", "Service request not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrProposalNotFound):
		return pkg.NewDomainErrorSimple("PROPOSAL_NOT_FOUND", "Proposal not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrNoLeadForProvider):
		return pkg.NewDomainErrorSimple("INVALID_REQUEST", "Provider has no lead for this request", http.StatusForbidden)
	case errors.Is(err, usecase.ErrRequestNotOpen):
		return pkg.NewDomainErrorSimple("ALREADY_IN_PROGRESS", "Request no longer accepts proposals", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrDuplicateProposal):
		return pkg.NewDomainErrorSimple("DUPLICATE_PROPOSAL", "Provider already has an active proposal", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrProposalProcessed):
		return pkg.NewDomainErrorSimple("ALREADY_PROCESSED", "Proposal already processed", http.StatusBadRequest)
	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}
}
