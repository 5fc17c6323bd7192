// Package library holds the author and book entities and the repository
// access for them on top of the store package.
package library

import "github.com/pkg/errors"

var (
	// ErrNotFound is returned when no row has the requested id.
	ErrNotFound = errors.New("record not found")
	// ErrUnknownAuthor is returned when a book would reference an author that does not exist.
	ErrUnknownAuthor = errors.New("referenced author does not exist")
	// ErrAuthorHasBooks is returned when deleting an author that still owns books.
	ErrAuthorHasBooks = errors.New("author still has books")
)

type Author struct {
	ID       int64  `json:"id"`
	FullName string `json:"fullName"`

	Books []Book `json:"books"`
}

type Book struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`

	AuthorID int64   `json:"authorId"`
	Author   *Author `json:"author,omitempty"`
}

// BookPatch lists the book fields an update touches. Nil fields are left
// as they are.
type BookPatch struct {
	Title    *string
	AuthorID *int64
}

func (p BookPatch) IsEmpty() bool {
	return p.Title == nil && p.AuthorID == nil
}
