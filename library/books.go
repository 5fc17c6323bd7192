package library

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/pkg/errors"

	"github.com/piranimarcos/bookApp/store"
)

// BookRepository is the repository access for the books table. It refuses
// any write that would leave a book pointing at a missing author.
type BookRepository struct {
	db      *store.DB
	schema  *store.Schema[Book]
	authors *AuthorRepository
}

func NewBookRepository(db *store.DB, authors *AuthorRepository) *BookRepository {
	return &BookRepository{db: db, schema: newSchemas().book, authors: authors}
}

// Create inserts a book for an existing author and returns its id.
func (r *BookRepository) Create(ctx context.Context, title string, authorID int64) (int64, error) {
	if err := r.checkAuthor(ctx, authorID); err != nil {
		return 0, err
	}

	return r.db.Insert(ctx, booksTable, map[string]any{
		"title":     title,
		"author_id": authorID,
	})
}

// Get returns the book with its author attached.
func (r *BookRepository) Get(ctx context.Context, id int64) (*Book, error) {
	book, err := r.schema.Query("*", "author").Where("id", id).CollectOne(ctx, r.db)
	if err != nil {
		return nil, notFound(err, "book %d", id)
	}

	return book, nil
}

func (r *BookRepository) List(ctx context.Context) ([]Book, error) {
	books, err := r.schema.Query("*", "author").Collect(ctx, r.db)
	if err != nil {
		return nil, errors.Wrap(err, "list books")
	}

	return books, nil
}

// Update applies the patch as a single statement. The new author, if any,
// is checked first so a failed check changes nothing.
func (r *BookRepository) Update(ctx context.Context, id int64, patch BookPatch) error {
	if patch.IsEmpty() {
		n, err := r.db.Count(ctx, booksTable, squirrel.Eq{"id": id})
		if err != nil {
			return err
		}
		if n == 0 {
			return errors.Wrapf(ErrNotFound, "book %d", id)
		}
		return nil
	}

	values := map[string]any{}
	if patch.Title != nil {
		values["title"] = *patch.Title
	}
	if patch.AuthorID != nil {
		if err := r.checkAuthor(ctx, *patch.AuthorID); err != nil {
			return err
		}
		values["author_id"] = *patch.AuthorID
	}

	n, err := r.db.Update(ctx, booksTable, id, values)
	if err != nil {
		return err
	}
	if n == 0 {
		return errors.Wrapf(ErrNotFound, "book %d", id)
	}

	return nil
}

// Delete removes the book; a missing book is not an error.
func (r *BookRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.Delete(ctx, booksTable, id)
	return err
}

func (r *BookRepository) checkAuthor(ctx context.Context, authorID int64) error {
	ok, err := r.authors.Exists(ctx, authorID)
	if err != nil {
		return err
	}
	if !ok {
		return errors.Wrapf(ErrUnknownAuthor, "author %d", authorID)
	}

	return nil
}
