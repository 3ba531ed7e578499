package book

import "time"

// Status of a book in the catalog.
//
// available and borrowed are derived from the copy count and flip
// automatically as copies move. reserved and maintenance are set by
// staff and are never overwritten by copy movements.
type Status string

const (
	StatusAvailable   Status = "available"
	StatusBorrowed    Status = "borrowed"
	StatusReserved    Status = "reserved"
	StatusMaintenance Status = "maintenance"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusAvailable, StatusBorrowed, StatusReserved, StatusMaintenance:
		return true
	}
	return false
}

type Book struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Author          string    `json:"author"`
	ISBN            string    `json:"isbn"`
	Category        string    `json:"category"`
	PublishedYear   int       `json:"publishedYear"`
	TotalCopies     int       `json:"totalCopies"`
	AvailableCopies int       `json:"availableCopies"`
	Status          Status    `json:"status"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// Borrowable reports whether a direct borrow may proceed.
func (b *Book) Borrowable() bool {
	return b.AvailableCopies > 0 && b.Status == StatusAvailable
}
