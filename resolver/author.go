package resolver

import (
	"context"
	"strings"

	"github.com/piranimarcos/bookApp/library"
)

type AuthorResolver struct {
	base
	authors AuthorStore
}

// CreateAuthor stores the name with surrounding whitespace removed.
func (r *AuthorResolver) CreateAuthor(ctx context.Context, fullName string) (*library.Author, error) {
	const op = "createAuthor"
	ctx, err := r.authorize(ctx, op)
	if err != nil {
		return nil, err
	}

	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		return nil, &Error{Kind: KindValidation, Op: op, Message: "fullName must not be empty"}
	}

	id, err := r.authors.Create(ctx, fullName)
	if err != nil {
		return nil, r.fail(op, err)
	}

	// The row may be gone again by now; that surfaces as NotFound.
	author, err := r.authors.Get(ctx, id)
	if err != nil {
		return nil, r.fail(op, err)
	}

	return author, nil
}

func (r *AuthorResolver) GetAllAuthors(ctx context.Context) ([]library.Author, error) {
	const op = "getAllAuthors"
	ctx, err := r.authorize(ctx, op)
	if err != nil {
		return nil, err
	}

	authors, err := r.authors.List(ctx)
	if err != nil {
		return nil, r.fail(op, err)
	}

	return authors, nil
}

func (r *AuthorResolver) GetOneAuthor(ctx context.Context, id int64) (*library.Author, error) {
	const op = "getOneAuthor"
	ctx, err := r.authorize(ctx, op)
	if err != nil {
		return nil, err
	}

	author, err := r.authors.Get(ctx, id)
	if err != nil {
		return nil, r.fail(op, err)
	}

	return author, nil
}

// UpdateOneAuthor renames an existing author. An empty name changes nothing.
func (r *AuthorResolver) UpdateOneAuthor(ctx context.Context, id int64, fullName string) (*library.Author, error) {
	const op = "updateOneAuthor"
	ctx, err := r.authorize(ctx, op)
	if err != nil {
		return nil, err
	}

	if err := r.authors.Update(ctx, id, strings.TrimSpace(fullName)); err != nil {
		return nil, r.fail(op, err)
	}

	author, err := r.authors.Get(ctx, id)
	if err != nil {
		return nil, r.fail(op, err)
	}

	return author, nil
}

// DeleteOneAuthor reports true whether or not the author existed. Authors
// that still own books are not deleted.
func (r *AuthorResolver) DeleteOneAuthor(ctx context.Context, id int64) (bool, error) {
	const op = "deleteOneAuthor"
	ctx, err := r.authorize(ctx, op)
	if err != nil {
		return false, err
	}

	if err := r.authors.Delete(ctx, id); err != nil {
		return false, r.fail(op, err)
	}

	return true, nil
}
