package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"library-backend/internal/domains/book"
	"library-backend/internal/domains/user"
	"library-backend/internal/shared/middleware"
	"library-backend/internal/shared/response"
)

type BookHandler struct {
	service book.Service
}

func NewBookHandler(service book.Service) *BookHandler {
	return &BookHandler{service: service}
}

// Create handles POST /api/v1/books
func (h *BookHandler) Create(c *gin.Context) {
	var req book.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	created, err := h.service.Create(c.Request.Context(), requestingRole(c), req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, created)
}

// Update handles PUT /api/v1/books/:id
func (h *BookHandler) Update(c *gin.Context) {
	var req book.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	updated, err := h.service.Update(c.Request.Context(), requestingRole(c), c.Param("id"), req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, updated)
}

// Delete handles DELETE /api/v1/books/:id
func (h *BookHandler) Delete(c *gin.Context) {
	result, err := h.service.Delete(c.Request.Context(), requestingRole(c), c.Param("id"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusOK, result.Message, nil)
}

// Get handles GET /api/v1/books/:id
func (h *BookHandler) Get(c *gin.Context) {
	found, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, found)
}

// Search handles GET /api/v1/books
func (h *BookHandler) Search(c *gin.Context) {
	var query book.SearchQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}
	if err := query.Validate(); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	books, err := h.service.Search(c.Request.Context(), query)
	if err != nil {
		h.handleError(c, err)
		return
	}
	if books == nil {
		books = []*book.Book{}
	}
	response.Success(c, http.StatusOK, books)
}

func requestingRole(c *gin.Context) user.Role {
	return user.Role(c.GetString(middleware.ContextRoleKey))
}

func (h *BookHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, book.ErrCreateForbidden),
		errors.Is(err, book.ErrUpdateForbidden),
		errors.Is(err, book.ErrDeleteForbidden):
		response.Forbidden(c, err.Error())
	case errors.Is(err, book.ErrIDRequired),
		errors.Is(err, book.ErrFieldsRequired),
		errors.Is(err, book.ErrInvalidYear),
		errors.Is(err, book.ErrInvalidCopies),
		errors.Is(err, book.ErrTitleEmpty),
		errors.Is(err, book.ErrAuthorEmpty),
		errors.Is(err, book.ErrCategoryEmpty):
		response.BadRequest(c, err.Error())
	case errors.Is(err, book.ErrBookNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, book.ErrDuplicateISBN),
		errors.Is(err, book.ErrHasActiveLoans):
		response.Conflict(c, err.Error())
	case errors.Is(err, book.ErrUpdateFailed),
		errors.Is(err, book.ErrDeleteFailed):
		response.InternalServerError(c, err.Error())
	default:
		response.InternalServerError(c, "Internal server error")
	}
}
