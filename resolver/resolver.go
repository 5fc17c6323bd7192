// Package resolver implements the author and book operations. Every
// operation is authorized by the guard before it touches the store.
package resolver

import (
	"context"

	"go.uber.org/zap"

	"github.com/piranimarcos/bookApp/library"
)

type Authorizer interface {
	Authorize(ctx context.Context) (context.Context, error)
}

type AuthorStore interface {
	Create(ctx context.Context, fullName string) (int64, error)
	Get(ctx context.Context, id int64) (*library.Author, error)
	List(ctx context.Context) ([]library.Author, error)
	Update(ctx context.Context, id int64, fullName string) error
	Delete(ctx context.Context, id int64) error
}

type BookStore interface {
	Create(ctx context.Context, title string, authorID int64) (int64, error)
	Get(ctx context.Context, id int64) (*library.Book, error)
	List(ctx context.Context) ([]library.Book, error)
	Update(ctx context.Context, id int64, patch library.BookPatch) error
	Delete(ctx context.Context, id int64) error
}

// Deps are built once at startup and shared by every request.
type Deps struct {
	Guard   Authorizer
	Authors AuthorStore
	Books   BookStore
	Logger  *zap.Logger
}

type Resolvers struct {
	Authors *AuthorResolver
	Books   *BookResolver
}

func New(deps Deps) *Resolvers {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	b := base{guard: deps.Guard, logger: deps.Logger}

	return &Resolvers{
		Authors: &AuthorResolver{base: b, authors: deps.Authors},
		Books:   &BookResolver{base: b, books: deps.Books},
	}
}

type base struct {
	guard  Authorizer
	logger *zap.Logger
}

func (b base) authorize(ctx context.Context, op string) (context.Context, error) {
	ctx, err := b.guard.Authorize(ctx)
	if err != nil {
		return ctx, b.fail(op, err)
	}
	return ctx, nil
}

func (b base) fail(op string, err error) error {
	e := classify(op, err)
	if e.Kind == KindPersistence {
		b.logger.Error("operation failed", zap.String("operation", op), zap.Error(err))
	}
	return e
}
