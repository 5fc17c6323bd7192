package library

import (
	"context"
	"database/sql"

	"github.com/Masterminds/squirrel"
	"github.com/pkg/errors"

	"github.com/piranimarcos/bookApp/store"
)

// AuthorRepository is the repository access for the authors table.
type AuthorRepository struct {
	db     *store.DB
	schema *store.Schema[Author]
}

func NewAuthorRepository(db *store.DB) *AuthorRepository {
	return &AuthorRepository{db: db, schema: newSchemas().author}
}

// Create inserts an author and returns the id the store assigned.
func (r *AuthorRepository) Create(ctx context.Context, fullName string) (int64, error) {
	return r.db.Insert(ctx, authorsTable, map[string]any{"full_name": fullName})
}

// Get returns the author with its books attached.
func (r *AuthorRepository) Get(ctx context.Context, id int64) (*Author, error) {
	author, err := r.schema.Query("*", "books").Where("id", id).CollectOne(ctx, r.db)
	if err != nil {
		return nil, notFound(err, "author %d", id)
	}

	return author, nil
}

func (r *AuthorRepository) List(ctx context.Context) ([]Author, error) {
	authors, err := r.schema.Query("*", "books").Collect(ctx, r.db)
	if err != nil {
		return nil, errors.Wrap(err, "list authors")
	}

	return authors, nil
}

func (r *AuthorRepository) Exists(ctx context.Context, id int64) (bool, error) {
	n, err := r.db.Count(ctx, authorsTable, squirrel.Eq{"id": id})
	if err != nil {
		return false, err
	}

	return n > 0, nil
}

// Update renames the author. An empty name leaves the stored one as it is.
func (r *AuthorRepository) Update(ctx context.Context, id int64, fullName string) error {
	if fullName == "" {
		ok, err := r.Exists(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			return errors.Wrapf(ErrNotFound, "author %d", id)
		}
		return nil
	}

	n, err := r.db.Update(ctx, authorsTable, id, map[string]any{"full_name": fullName})
	if err != nil {
		return err
	}
	if n == 0 {
		return errors.Wrapf(ErrNotFound, "author %d", id)
	}

	return nil
}

// Delete removes the author. Authors that still own books are kept and
// ErrAuthorHasBooks is returned; a missing author is not an error.
func (r *AuthorRepository) Delete(ctx context.Context, id int64) error {
	owned, err := r.db.Count(ctx, booksTable, squirrel.Eq{"author_id": id})
	if err != nil {
		return err
	}
	if owned > 0 {
		return errors.Wrapf(ErrAuthorHasBooks, "author %d owns %d books", id, owned)
	}

	_, err = r.db.Delete(ctx, authorsTable, id)
	return err
}

func notFound(err error, format string, args ...any) error {
	if errors.Is(err, sql.ErrNoRows) {
		return errors.Wrapf(ErrNotFound, format, args...)
	}
	return errors.Wrapf(err, format, args...)
}
