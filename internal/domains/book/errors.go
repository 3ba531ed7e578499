package book

import "errors"

// Authorization errors.
var (
	ErrCreateForbidden = errors.New("Only librarians and admins can create books")
	ErrUpdateForbidden = errors.New("Only librarians and admins can update books")
	ErrDeleteForbidden = errors.New("Only librarians and admins can delete books")
)

// Validation errors.
var (
	ErrIDRequired     = errors.New("Book ID is required")
	ErrFieldsRequired = errors.New("Title, author, ISBN, and category are required")
	ErrInvalidYear    = errors.New("Invalid published year")
	ErrInvalidCopies  = errors.New("Total copies must be at least 1")
	ErrTitleEmpty     = errors.New("Title cannot be empty")
	ErrAuthorEmpty    = errors.New("Author cannot be empty")
	ErrCategoryEmpty  = errors.New("Category cannot be empty")
	ErrDuplicateISBN  = errors.New("A book with this ISBN already exists")
)

// Business errors.
var (
	ErrBookNotFound   = errors.New("Book not found")
	ErrHasActiveLoans = errors.New("Cannot delete book with active loans. Please ensure the book is returned first.")
)

// Internal failures surfaced with stable messages.
var (
	ErrUpdateFailed = errors.New("Failed to update book")
	ErrDeleteFailed = errors.New("Failed to delete book")
)
