package book

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// CreateRequest carries the fields of a new catalog entry.
// Business validation (required fields, year range, copy count) lives
// in the service so its error messages stay authoritative.
type CreateRequest struct {
	Title         string `json:"title"`
	Author        string `json:"author"`
	ISBN          string `json:"isbn"`
	Category      string `json:"category"`
	PublishedYear int    `json:"publishedYear"`
	TotalCopies   int    `json:"totalCopies"`
}

// UpdateRequest supports partial updates. Nil means "leave unchanged".
type UpdateRequest struct {
	Title         *string `json:"title"`
	Author        *string `json:"author"`
	ISBN          *string `json:"isbn"`
	Category      *string `json:"category"`
	PublishedYear *int    `json:"publishedYear"`
	TotalCopies   *int    `json:"totalCopies"`
	Status        *Status `json:"status"`
}

func (r UpdateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Status, validation.By(func(value interface{}) error {
			s, _ := value.(*Status)
			if s == nil {
				return nil
			}
			if !s.IsValid() {
				return validation.NewError("validation_invalid_status", "must be a valid book status")
			}
			return nil
		})),
	)
}

// SearchQuery mirrors the catalog search criteria. An explicit Status
// supersedes AvailableOnly.
type SearchQuery struct {
	Title         string `form:"title"`
	Author        string `form:"author"`
	ISBN          string `form:"isbn"`
	Category      string `form:"category"`
	Status        string `form:"status"`
	AvailableOnly bool   `form:"availableOnly"`
}

func (q SearchQuery) Validate() error {
	return validation.ValidateStruct(&q,
		validation.Field(&q.Status, validation.In(
			string(StatusAvailable),
			string(StatusBorrowed),
			string(StatusReserved),
			string(StatusMaintenance),
		)),
	)
}

// HasCriteria reports whether any search filter was supplied.
func (q SearchQuery) HasCriteria() bool {
	return q.Title != "" || q.Author != "" || q.ISBN != "" ||
		q.Category != "" || q.Status != ""
}

// DeleteResult is the confirmation payload of a successful deletion.
type DeleteResult struct {
	Message string `json:"message"`
}
