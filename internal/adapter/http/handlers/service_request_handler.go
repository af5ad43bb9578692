package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	request "servihub/internal/adapter/http/dto/request"
	response "servihub/internal/adapter/http/dto/response"
	"servihub/internal/usecase"
	"servihub/pkg"
)

var (
	errInvalidRequestPayload = pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request payload", http.StatusBadRequest)
	errInvalidRequestID      = pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request id", http.StatusBadRequest)
)

// ServiceRequestHandler handles HTTP requests for the service request lifecycle.

type ServiceRequestHandler struct {
	usecase usecase.IRequestUseCase
}

func NewServiceRequestHandler(uc usecase.IRequestUseCase) *ServiceRequestHandler {
	return &ServiceRequestHandler{usecase: uc}
}

// CreateRequest creates a service request and runs provider assignment.
func (h *ServiceRequestHandler) CreateRequest(c *gin.Context) {
	var payload request.CreateServiceRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidRequestPayload.HTTPStatus, errInvalidRequestPayload.ToHTTPError())
		return
	}

	customerID, err := payload.ResolveCustomerID()
	if err != nil {
		c.JSON(errInvalidRequestPayload.HTTPStatus, errInvalidRequestPayload.ToHTTPError())
		return
	}
	shortlist, err := payload.ResolveShortlist()
	if err != nil {
		c.JSON(errInvalidRequestPayload.HTTPStatus, errInvalidRequestPayload.ToHTTPError())
		return
	}

	req, err := h.usecase.Create(c.Request.Context(), usecase.CreateRequestInput{
		CustomerID:        customerID,
		Category:          payload.Category,
		Subcategory:       payload.Subcategory,
		ZipCode:           payload.ZipCode,
		Title:             payload.Title,
		Description:       payload.Description,
		Attachments:       payload.Attachments,
		PreferredSchedule: payload.PreferredSchedule,
		Shortlist:         shortlist,
	})
	if err != nil {
		appErr := mapRequestError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusCreated, response.FromServiceRequest(req))
}

// ListRequests returns the customer's requests, newest first.
func (h *ServiceRequestHandler) ListRequests(c *gin.Context) {
	customerID, err := uuid.Parse(c.Query("customer_id"))
	if err != nil {
		appErr := pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid customer id", http.StatusBadRequest)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	reqs, err := h.usecase.ListByCustomer(c.Request.Context(), customerID)
	if err != nil {
		appErr := mapRequestError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	views := make([]response.ServiceRequestResponse, 0, len(reqs))
	for i := range reqs {
		views = append(views, response.FromServiceRequest(&reqs[i]))
	}
	c.JSON(http.StatusOK, gin.H{"requests": views})
}

// GetRequest returns one request by id.
func (h *ServiceRequestHandler) GetRequest(c *gin.Context) {
	id, ok := requestIDParam(c)
	if !ok {
		return
	}

	req, err := h.usecase.Get(c.Request.Context(), id)
	if err != nil {
		appErr := mapRequestError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusOK, response.FromServiceRequest(req))
}

// CancelRequest closes a request before completion.
func (h *ServiceRequestHandler) CancelRequest(c *gin.Context) {
	id, ok := requestIDParam(c)
	if !ok {
		return
	}

	var payload request.CancelRequest
	_ = c.ShouldBindJSON(&payload)

	if err := h.usecase.Cancel(c.Request.Context(), id, payload.Reason); err != nil {
		appErr := mapRequestError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// CompleteWork lets the assigned provider mark the work order done.
func (h *ServiceRequestHandler) CompleteWork(c *gin.Context) {
	id, ok := requestIDParam(c)
	if !ok {
		return
	}

	var payload request.CompleteWorkRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidRequestPayload.HTTPStatus, errInvalidRequestPayload.ToHTTPError())
		return
	}
	providerUserID, err := payload.ResolveProviderUserID()
	if err != nil {
		c.JSON(errInvalidRequestPayload.HTTPStatus, errInvalidRequestPayload.ToHTTPError())
		return
	}

	if err := h.usecase.CompleteWork(c.Request.Context(), id, providerUserID); err != nil {
		appErr := mapRequestError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ApproveRequest records the customer's approval of completed work.
func (h *ServiceRequestHandler) ApproveRequest(c *gin.Context) {
	id, ok := requestIDParam(c)
	if !ok {
		return
	}

	if err := h.usecase.Approve(c.Request.Context(), id); err != nil {
		appErr := mapRequestError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func requestIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("request_id"))
	if err != nil {
		c.JSON(errInvalidRequestID.HTTPStatus, errInvalidRequestID.ToHTTPError())
		return uuid.Nil, false
	}
	return id, true
}

func mapRequestError(err error) *pkg.AppError {
	switch {
	case errors.Is(err, usecase.ErrInvalidCategory),
		errors.Is(err, usecase.ErrInvalidZipCode),
		errors.Is(err, usecase.ErrInvalidTitle),
		errors.Is(err, usecase.ErrInvalidShortlist):
		return pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrRequestNotFound):
		return pkg.NewDomainErrorSimple("REQUEST_NOT_FOUND", "Service request not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrRequestNotCancelable):
		return pkg.NewDomainErrorSimple("ALREADY_PROCESSED", "Request already closed", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrRequestNotApprovable):
		return pkg.NewDomainErrorSimple("INVALID_REQUEST", "Request is not in progress", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrWorkNotCompleted):
		return pkg.NewDomainErrorSimple("WORK_NOT_COMPLETED", "Work order is not completed", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrWorkOrderNotFound):
		return pkg.NewDomainErrorSimple("WORK_NOT_COMPLETED", "No work order for this request", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrNotAssignedProvider):
		return pkg.NewDomainErrorSimple("INVALID_REQUEST", "User is not the assigned provider", http.StatusForbidden)
	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}
}
