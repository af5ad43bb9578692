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

// ReviewHandler handles review submission, the closing step of the lifecycle.

type ReviewHandler struct {
	usecase usecase.IReviewUseCase
}

func NewReviewHandler(uc usecase.IReviewUseCase) *ReviewHandler {
	return &ReviewHandler{usecase: uc}
}

// SubmitReview records the customer's rating and closes the request.
func (h *ReviewHandler) SubmitReview(c *gin.Context) {
	id, ok := requestIDParam(c)
	if !ok {
		return
	}

	var payload request.SubmitReviewRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		appErr := pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid review payload", http.StatusBadRequest)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	customerID, err := payload.ResolveCustomerID()
	if err != nil {
		appErr := pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid customer id", http.StatusBadRequest)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	reviewID, err := h.usecase.Submit(c.Request.Context(), id, customerID, payload.Rating, payload.Title, payload.Comment)
	if err != nil {
		appErr := mapReviewError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusCreated, response.SubmitReviewResponse{
		ReviewID: reviewID.String(),
		Status:   string(entities.RequestStatusClosed),
	})
}

func mapReviewError(err error) *pkg.AppError {
	switch {
	case errors.Is(err, usecase.ErrInvalidRating):
		return pkg.NewDomainErrorSimple("INVALID_REQUEST", "Rating must be between 1 and 5", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrRequestNotFound):
		return pkg.NewDomainErrorSimple("REQUEST_NOT_FOUND", "Service request not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrReviewNotAllowed):
		return pkg.NewDomainErrorSimple("REVIEW_NOT_ALLOWED", "Request is not ready for review", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrDuplicateReview):
		return pkg.NewDomainErrorSimple("DUPLICATE_REVIEW", "Review already submitted for this request", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrNoProviderForReview):
		return pkg.NewDomainErrorSimple("REVIEW_NOT_ALLOWED", "Request has no provider to review", http.StatusBadRequest)
	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}
}
