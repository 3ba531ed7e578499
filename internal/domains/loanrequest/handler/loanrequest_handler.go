package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"library-backend/internal/domains/book"
	"library-backend/internal/domains/loanrequest"
	"library-backend/internal/domains/user"
	"library-backend/internal/shared/middleware"
	"library-backend/internal/shared/response"
)

type LoanRequestHandler struct {
	service loanrequest.Service
}

func NewLoanRequestHandler(service loanrequest.Service) *LoanRequestHandler {
	return &LoanRequestHandler{service: service}
}

// Create handles POST /api/v1/loan-requests
func (h *LoanRequestHandler) Create(c *gin.Context) {
	var req loanrequest.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	req.RequestingUserID = c.GetString(middleware.ContextUserIDKey)
	req.RequestingRole = user.Role(c.GetString(middleware.ContextRoleKey))

	result, err := h.service.RequestLoan(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusCreated, result.Message, result.Request)
}

// ListPending handles GET /api/v1/loan-requests/pending
func (h *LoanRequestHandler) ListPending(c *gin.Context) {
	pending, err := h.service.ListPending(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, pending)
}

// GetByToken handles GET /api/v1/loan-requests/:token
//
// The token itself is the credential: these routes carry no auth
// middleware because the review link lands in the librarian's inbox.
func (h *LoanRequestHandler) GetByToken(c *gin.Context) {
	view, err := h.service.GetByToken(c.Request.Context(), c.Param("token"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusOK, view.Message, view)
}

// Approve handles POST /api/v1/loan-requests/:token/approve
func (h *LoanRequestHandler) Approve(c *gin.Context) {
	var req loanrequest.ApproveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.Approve(c.Request.Context(), c.Param("token"), req.ReviewedBy, req.ParsedDueDate())
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusOK, result.Message, result.Request)
}

// Reject handles POST /api/v1/loan-requests/:token/reject
func (h *LoanRequestHandler) Reject(c *gin.Context) {
	var req loanrequest.RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.service.Reject(c.Request.Context(), c.Param("token"), req.ReviewedBy, req.Reason)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusOK, result.Message, result.Request)
}

func (h *LoanRequestHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, loanrequest.ErrIDsRequired),
		errors.Is(err, loanrequest.ErrTokenReviewerRequired),
		errors.Is(err, loanrequest.ErrTokenRequired):
		response.BadRequest(c, err.Error())
	case errors.Is(err, loanrequest.ErrRequestNotSelf):
		response.Forbidden(c, err.Error())
	case errors.Is(err, loanrequest.ErrRequestNotFound),
		errors.Is(err, loanrequest.ErrUserNotFound),
		errors.Is(err, loanrequest.ErrBookNotFound),
		errors.Is(err, loanrequest.ErrInfoNotFound),
		errors.Is(err, user.ErrUserNotFound),
		errors.Is(err, book.ErrBookNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, loanrequest.ErrAlreadyProcessed),
		errors.Is(err, loanrequest.ErrBookUnavailable),
		errors.Is(err, loanrequest.ErrBookInMaintenance):
		response.Conflict(c, err.Error())
	default:
		response.InternalServerError(c, err.Error())
	}
}
