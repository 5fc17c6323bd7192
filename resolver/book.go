package resolver

import (
	"context"

	"github.com/piranimarcos/bookApp/library"
)

type BookResolver struct {
	base
	books BookStore
}

// BookUpdateInput carries the optional fields of updateBookById.
type BookUpdateInput struct {
	Title  *string
	Author *int64
}

// mergeBookUpdate builds the patch for an update. Empty values count as
// absent, so an empty title or a zero author id leaves the field alone.
func mergeBookUpdate(input BookUpdateInput) library.BookPatch {
	var patch library.BookPatch
	if input.Title != nil && *input.Title != "" {
		patch.Title = input.Title
	}
	if input.Author != nil && *input.Author != 0 {
		patch.AuthorID = input.Author
	}
	return patch
}

// CreateBook refuses to write a book for an author that does not exist.
func (r *BookResolver) CreateBook(ctx context.Context, title string, authorID int64) (*library.Book, error) {
	const op = "createBook"
	ctx, err := r.authorize(ctx, op)
	if err != nil {
		return nil, err
	}

	id, err := r.books.Create(ctx, title, authorID)
	if err != nil {
		return nil, r.fail(op, err)
	}

	book, err := r.books.Get(ctx, id)
	if err != nil {
		return nil, r.fail(op, err)
	}

	return book, nil
}

func (r *BookResolver) GetBookById(ctx context.Context, id int64) (*library.Book, error) {
	const op = "getBookById"
	ctx, err := r.authorize(ctx, op)
	if err != nil {
		return nil, err
	}

	book, err := r.books.Get(ctx, id)
	if err != nil {
		return nil, r.fail(op, err)
	}

	return book, nil
}

func (r *BookResolver) GetAllBooks(ctx context.Context) ([]library.Book, error) {
	const op = "getAllBooks"
	ctx, err := r.authorize(ctx, op)
	if err != nil {
		return nil, err
	}

	books, err := r.books.List(ctx)
	if err != nil {
		return nil, r.fail(op, err)
	}

	return books, nil
}

func (r *BookResolver) UpdateBookById(ctx context.Context, bookID int64, input BookUpdateInput) (bool, error) {
	const op = "updateBookById"
	ctx, err := r.authorize(ctx, op)
	if err != nil {
		return false, err
	}

	if err := r.books.Update(ctx, bookID, mergeBookUpdate(input)); err != nil {
		return false, r.fail(op, err)
	}

	return true, nil
}

func (r *BookResolver) DeleteBookById(ctx context.Context, id int64) (bool, error) {
	const op = "deleteBookById"
	ctx, err := r.authorize(ctx, op)
	if err != nil {
		return false, err
	}

	if err := r.books.Delete(ctx, id); err != nil {
		return false, r.fail(op, err)
	}

	return true, nil
}
