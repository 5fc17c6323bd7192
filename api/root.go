package api

import (
	"context"
	"math"
	"time"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/piranimarcos/bookApp/library"
	"github.com/piranimarcos/bookApp/resolver"
)

type AuthorInput struct {
	FullName string
}

type AuthorUpdateInput struct {
	ID       int32
	FullName *string
}

type IDInput struct {
	ID int32
}

type BookInput struct {
	Title  string
	Author int32
}

type BookUpdateInput struct {
	Title  *string
	Author *int32
}

// Root is the GraphQL root resolver for both queries and mutations.
type Root struct {
	resolvers *resolver.Resolvers
	metrics   *Metrics
}

func NewRoot(resolvers *resolver.Resolvers, metrics *Metrics) *Root {
	return &Root{resolvers: resolvers, metrics: metrics}
}

func (r *Root) CreateAuthor(ctx context.Context, args struct{ Input AuthorInput }) (res *AuthorResolver, err error) {
	defer r.metrics.track("createAuthor", time.Now(), &err)

	author, err := r.resolvers.Authors.CreateAuthor(ctx, args.Input.FullName)
	if err != nil {
		return nil, err
	}
	return newAuthorResolver(*author), nil
}

func (r *Root) GetAllAuthors(ctx context.Context) (res []*AuthorResolver, err error) {
	defer r.metrics.track("getAllAuthors", time.Now(), &err)

	authors, err := r.resolvers.Authors.GetAllAuthors(ctx)
	if err != nil {
		return nil, err
	}
	return lo.Map(authors, func(a library.Author, _ int) *AuthorResolver { return newAuthorResolver(a) }), nil
}

func (r *Root) GetOneAuthor(ctx context.Context, args struct{ Input IDInput }) (res *AuthorResolver, err error) {
	defer r.metrics.track("getOneAuthor", time.Now(), &err)

	author, err := r.resolvers.Authors.GetOneAuthor(ctx, int64(args.Input.ID))
	if err != nil {
		return nil, err
	}
	return newAuthorResolver(*author), nil
}

func (r *Root) UpdateOneAuthor(ctx context.Context, args struct{ Input AuthorUpdateInput }) (res *AuthorResolver, err error) {
	defer r.metrics.track("updateOneAuthor", time.Now(), &err)

	author, err := r.resolvers.Authors.UpdateOneAuthor(ctx, int64(args.Input.ID), lo.FromPtr(args.Input.FullName))
	if err != nil {
		return nil, err
	}
	return newAuthorResolver(*author), nil
}

func (r *Root) DeleteOneAuthor(ctx context.Context, args struct{ Input IDInput }) (ok bool, err error) {
	defer r.metrics.track("deleteOneAuthor", time.Now(), &err)

	return r.resolvers.Authors.DeleteOneAuthor(ctx, int64(args.Input.ID))
}

func (r *Root) CreateBook(ctx context.Context, args struct{ Input BookInput }) (res *BookResolver, err error) {
	defer r.metrics.track("createBook", time.Now(), &err)

	book, err := r.resolvers.Books.CreateBook(ctx, args.Input.Title, int64(args.Input.Author))
	if err != nil {
		return nil, err
	}
	return newBookResolver(*book), nil
}

func (r *Root) GetBookById(ctx context.Context, args struct{ Input IDInput }) (res *BookResolver, err error) {
	defer r.metrics.track("getBookById", time.Now(), &err)

	book, err := r.resolvers.Books.GetBookById(ctx, int64(args.Input.ID))
	if err != nil {
		return nil, err
	}
	return newBookResolver(*book), nil
}

func (r *Root) GetAllBooks(ctx context.Context) (res []*BookResolver, err error) {
	defer r.metrics.track("getAllBooks", time.Now(), &err)

	books, err := r.resolvers.Books.GetAllBooks(ctx)
	if err != nil {
		return nil, err
	}
	return lo.Map(books, func(b library.Book, _ int) *BookResolver { return newBookResolver(b) }), nil
}

func (r *Root) UpdateBookById(ctx context.Context, args struct {
	BookID IDInput
	Input  BookUpdateInput
}) (ok bool, err error) {
	defer r.metrics.track("updateBookById", time.Now(), &err)

	input := resolver.BookUpdateInput{Title: args.Input.Title}
	if args.Input.Author != nil {
		input.Author = lo.ToPtr(int64(*args.Input.Author))
	}
	return r.resolvers.Books.UpdateBookById(ctx, int64(args.BookID.ID), input)
}

func (r *Root) DeleteBookById(ctx context.Context, args struct{ Input IDInput }) (ok bool, err error) {
	defer r.metrics.track("deleteBookById", time.Now(), &err)

	return r.resolvers.Books.DeleteBookById(ctx, int64(args.Input.ID))
}

type AuthorResolver struct {
	author library.Author
}

func newAuthorResolver(a library.Author) *AuthorResolver {
	return &AuthorResolver{author: a}
}

func (r *AuthorResolver) ID() (int32, error) { return graphqlInt(r.author.ID) }
func (r *AuthorResolver) FullName() string   { return r.author.FullName }

func (r *AuthorResolver) Books() []*BookResolver {
	return lo.Map(r.author.Books, func(b library.Book, _ int) *BookResolver { return newBookResolver(b) })
}

type BookResolver struct {
	book library.Book
}

func newBookResolver(b library.Book) *BookResolver {
	return &BookResolver{book: b}
}

func (r *BookResolver) ID() (int32, error) { return graphqlInt(r.book.ID) }
func (r *BookResolver) Title() string      { return r.book.Title }

func (r *BookResolver) Author() *AuthorResolver {
	if r.book.Author == nil {
		return nil
	}
	return newAuthorResolver(*r.book.Author)
}

// graphqlInt narrows a stored id to the 32-bit GraphQL Int. Ids outside
// that range fail the field instead of wrapping around.
func graphqlInt(id int64) (int32, error) {
	if id < math.MinInt32 || id > math.MaxInt32 {
		return 0, errors.Errorf("id %d does not fit in a GraphQL Int", id)
	}
	return int32(id), nil
}
