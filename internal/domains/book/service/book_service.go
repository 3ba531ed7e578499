package service

import (
	"context"
	"strings"

	"library-backend/internal/domains/book"
	"library-backend/internal/domains/loan"
	"library-backend/internal/domains/user"
	"library-backend/pkg/clock"
	"library-backend/pkg/logger"
)

// ActiveLoanProbe is the slice of the loan repository the catalog needs
// to refuse deleting a book someone still holds.
type ActiveLoanProbe interface {
	GetActiveLoanForBook(ctx context.Context, bookID string) (*loan.Loan, error)
}

type bookService struct {
	repo      book.Repository
	loanProbe ActiveLoanProbe
	clk       clock.Clock
}

func NewBookService(repo book.Repository, loanProbe ActiveLoanProbe, clk clock.Clock) book.Service {
	return &bookService{
		repo:      repo,
		loanProbe: loanProbe,
		clk:       clk,
	}
}

func (s *bookService) Create(ctx context.Context, requestingRole user.Role, req book.CreateRequest) (*book.Book, error) {
	// 1. AUTHORIZE
	if !requestingRole.IsStaff() {
		return nil, book.ErrCreateForbidden
	}

	// 2. VALIDATE INPUT
	title := strings.TrimSpace(req.Title)
	author := strings.TrimSpace(req.Author)
	isbn := strings.TrimSpace(req.ISBN)
	category := strings.TrimSpace(req.Category)
	if title == "" || author == "" || isbn == "" || category == "" {
		return nil, book.ErrFieldsRequired
	}
	if req.PublishedYear < 1000 || req.PublishedYear > s.clk.Now().Year() {
		return nil, book.ErrInvalidYear
	}
	if req.TotalCopies < 1 {
		return nil, book.ErrInvalidCopies
	}

	// 3. CHECK DUPLICATE ISBN
	existing, err := s.repo.FindByISBN(ctx, isbn)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, book.ErrDuplicateISBN
	}

	// 4. PERSIST
	// Every copy of a new book starts on the shelf.
	newBook := &book.Book{
		Title:           title,
		Author:          author,
		ISBN:            isbn,
		Category:        category,
		PublishedYear:   req.PublishedYear,
		TotalCopies:     req.TotalCopies,
		AvailableCopies: req.TotalCopies,
		Status:          book.StatusAvailable,
	}
	if err := s.repo.Create(ctx, newBook); err != nil {
		return nil, err
	}
	return newBook, nil
}

func (s *bookService) Update(ctx context.Context, requestingRole user.Role, id string, req book.UpdateRequest) (*book.Book, error) {
	// 1. AUTHORIZE
	if !requestingRole.IsStaff() {
		return nil, book.ErrUpdateForbidden
	}
	if strings.TrimSpace(id) == "" {
		return nil, book.ErrIDRequired
	}

	// 2. LOAD CURRENT STATE
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, book.ErrBookNotFound
	}

	// 3. APPLY PARTIAL UPDATE
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, book.ErrTitleEmpty
		}
		current.Title = title
	}
	if req.Author != nil {
		author := strings.TrimSpace(*req.Author)
		if author == "" {
			return nil, book.ErrAuthorEmpty
		}
		current.Author = author
	}
	if req.Category != nil {
		category := strings.TrimSpace(*req.Category)
		if category == "" {
			return nil, book.ErrCategoryEmpty
		}
		current.Category = category
	}
	if req.ISBN != nil {
		isbn := strings.TrimSpace(*req.ISBN)
		if isbn == "" {
			return nil, book.ErrFieldsRequired
		}
		if isbn != current.ISBN {
			existing, err := s.repo.FindByISBN(ctx, isbn)
			if err != nil {
				return nil, err
			}
			if existing != nil {
				return nil, book.ErrDuplicateISBN
			}
			current.ISBN = isbn
		}
	}
	if req.PublishedYear != nil {
		if *req.PublishedYear < 1000 || *req.PublishedYear > s.clk.Now().Year() {
			return nil, book.ErrInvalidYear
		}
		current.PublishedYear = *req.PublishedYear
	}
	if req.TotalCopies != nil {
		if *req.TotalCopies < 1 {
			return nil, book.ErrInvalidCopies
		}
		// Growing or shrinking the holdings moves the shelf count by the
		// same amount, clamped to what the loans outstanding allow.
		delta := *req.TotalCopies - current.TotalCopies
		current.TotalCopies = *req.TotalCopies
		current.AvailableCopies += delta
		if current.AvailableCopies < 0 {
			current.AvailableCopies = 0
		}
		if current.AvailableCopies > current.TotalCopies {
			current.AvailableCopies = current.TotalCopies
		}
	}
	if req.Status != nil {
		current.Status = *req.Status
	}

	// 4. PERSIST
	if err := s.repo.Update(ctx, current); err != nil {
		logger.Error("book update failed", err)
		return nil, book.ErrUpdateFailed
	}
	return current, nil
}

func (s *bookService) Delete(ctx context.Context, requestingRole user.Role, id string) (*book.DeleteResult, error) {
	// 1. AUTHORIZE
	if !requestingRole.IsStaff() {
		return nil, book.ErrDeleteForbidden
	}
	if strings.TrimSpace(id) == "" {
		return nil, book.ErrIDRequired
	}

	// 2. LOAD
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, book.ErrBookNotFound
	}

	// 3. REFUSE WHEN A COPY IS STILL OUT
	// The probe is best-effort: a failed probe must not block deletion.
	active, err := s.loanProbe.GetActiveLoanForBook(ctx, id)
	if err != nil {
		logger.Warn("active loan probe failed, proceeding with delete", map[string]interface{}{
			"bookId": id, "error": err.Error(),
		})
	} else if active != nil {
		return nil, book.ErrHasActiveLoans
	}

	// 4. DELETE
	if err := s.repo.Delete(ctx, id); err != nil {
		logger.Error("book delete failed", err)
		return nil, book.ErrDeleteFailed
	}
	return &book.DeleteResult{Message: "Book deleted successfully"}, nil
}

func (s *bookService) Get(ctx context.Context, id string) (*book.Book, error) {
	if strings.TrimSpace(id) == "" {
		return nil, book.ErrIDRequired
	}
	found, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, book.ErrBookNotFound
	}
	return found, nil
}

func (s *bookService) Search(ctx context.Context, query book.SearchQuery) ([]*book.Book, error) {
	if !query.HasCriteria() {
		if query.AvailableOnly {
			return s.repo.FindAvailable(ctx)
		}
		return s.repo.FindAll(ctx)
	}
	return s.repo.Search(ctx, book.SearchCriteria{
		Title:         strings.TrimSpace(query.Title),
		Author:        strings.TrimSpace(query.Author),
		ISBN:          strings.TrimSpace(query.ISBN),
		Category:      strings.TrimSpace(query.Category),
		Status:        book.Status(query.Status),
		AvailableOnly: query.AvailableOnly,
	})
}
