package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"library-backend/internal/domains/book"
	"library-backend/internal/domains/loan"
	"library-backend/internal/domains/user"
	"library-backend/internal/shared/middleware"
	"library-backend/internal/shared/response"
)

type LoanHandler struct {
	service loan.Service
}

func NewLoanHandler(service loan.Service) *LoanHandler {
	return &LoanHandler{service: service}
}

// Borrow handles POST /api/v1/loans/borrow
func (h *LoanHandler) Borrow(c *gin.Context) {
	var req loan.BorrowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	req.RequestingUserID, req.RequestingRole = caller(c)

	result, err := h.service.BorrowBook(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, result)
}

// Return handles POST /api/v1/loans/return
func (h *LoanHandler) Return(c *gin.Context) {
	var req loan.ReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	req.RequestingUserID, req.RequestingRole = caller(c)

	result, err := h.service.ReturnBook(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

// Renew handles POST /api/v1/loans/renew
func (h *LoanHandler) Renew(c *gin.Context) {
	var req loan.RenewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	req.RequestingUserID, req.RequestingRole = caller(c)

	result, err := h.service.RenewLoan(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

// ListUserLoans handles GET /api/v1/loans/user/:userId
func (h *LoanHandler) ListUserLoans(c *gin.Context) {
	var query loan.ListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}
	query.UserID = c.Param("userId")
	query.RequestingUserID, query.RequestingRole = caller(c)

	result, err := h.service.GetUserLoans(c.Request.Context(), query)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

// ListUserLoansWithBooks handles GET /api/v1/loans/user/:userId/books
func (h *LoanHandler) ListUserLoansWithBooks(c *gin.Context) {
	var query loan.ListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}
	query.UserID = c.Param("userId")
	query.RequestingUserID, query.RequestingRole = caller(c)

	result, err := h.service.GetUserLoansWithBooks(c.Request.Context(), query)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

func caller(c *gin.Context) (string, user.Role) {
	return c.GetString(middleware.ContextUserIDKey), user.Role(c.GetString(middleware.ContextRoleKey))
}

func (h *LoanHandler) handleError(c *gin.Context, err error) {
	var limitErr *loan.LimitReachedError
	var renewalErr *loan.RenewalLimitError

	switch {
	case errors.Is(err, loan.ErrIDsRequired),
		errors.Is(err, loan.ErrLoanIDRequired),
		errors.Is(err, loan.ErrUserIDRequired):
		response.BadRequest(c, err.Error())
	case errors.Is(err, loan.ErrBorrowNotSelf),
		errors.Is(err, loan.ErrReturnNotSelf),
		errors.Is(err, loan.ErrRenewNotSelf),
		errors.Is(err, loan.ErrViewNotSelf):
		response.Forbidden(c, err.Error())
	case errors.Is(err, loan.ErrLoanNotFound),
		errors.Is(err, user.ErrUserNotFound),
		errors.Is(err, book.ErrBookNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, loan.ErrBookNotAvailable),
		errors.Is(err, loan.ErrBookBorrowed),
		errors.Is(err, loan.ErrLoanNotActive),
		errors.Is(err, loan.ErrOnlyActiveRenewable),
		errors.Is(err, loan.ErrOverdueNotRenewable):
		response.Conflict(c, err.Error())
	case errors.As(err, &limitErr), errors.As(err, &renewalErr):
		response.Conflict(c, err.Error())
	case errors.Is(err, loan.ErrRenewFailed),
		errors.Is(err, loan.ErrLoansWithBooks):
		response.InternalServerError(c, err.Error())
	default:
		response.InternalServerError(c, "Internal server error")
	}
}
