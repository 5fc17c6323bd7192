package library

import (
	"context"

	"github.com/pkg/errors"

	"github.com/piranimarcos/bookApp/store"
)

const (
	authorsTable = "authors"
	booksTable   = "books"
)

type schemas struct {
	author *store.Schema[Author]
	book   *store.Schema[Book]
}

func newSchemas() schemas {
	author := store.NewSchema[Author](authorsTable).
		AddSimpleColumn("id", func(a *Author) any { return &a.ID }).
		AddColumn("fullName", store.Col("full_name"), store.Ptr(func(a *Author) any { return &a.FullName })).
		ModifyQuery(store.OrderBy("id"))

	book := store.NewSchema[Book](booksTable).
		AddSimpleColumn("id", func(b *Book) any { return &b.ID }).
		AddSimpleColumn("title", func(b *Book) any { return &b.Title }).
		AddColumn("authorId", store.Col("author_id"), store.Ptr(func(b *Book) any { return &b.AuthorID })).
		ModifyQuery(store.OrderBy("id"))

	author.AddRelation("books",
		store.HasMany(book,
			func(a Author, b Book) bool { return b.AuthorID == a.ID },
			func(a *Author, books []Book) { a.Books = books },
			store.WhereIDs("author_id", func(a Author) int64 { return a.ID }),
			store.DependsOn("id", "books.authorId"),
		))

	book.AddRelation("author",
		store.HasOne(author,
			func(b Book, a Author) bool { return b.AuthorID == a.ID },
			func(b *Book, a Author) { b.Author = &a },
			store.WhereIDs("id", func(b Book) int64 { return b.AuthorID }),
			store.DependsOn("authorId"),
		))

	return schemas{author: author, book: book}
}

var migrations = map[string][]string{
	store.DriverSQLite: {
		`create table if not exists authors (
			id integer primary key autoincrement,
			full_name text not null
		)`,
		`create table if not exists books (
			id integer primary key autoincrement,
			title text not null,
			author_id integer not null references authors (id)
		)`,
		`create index if not exists books_author_id on books (author_id)`,
	},
	store.DriverPostgres: {
		`create table if not exists authors (
			id bigserial primary key,
			full_name text not null
		)`,
		`create table if not exists books (
			id bigserial primary key,
			title text not null,
			author_id bigint not null references authors (id)
		)`,
		`create index if not exists books_author_id on books (author_id)`,
	},
}

// Migrate creates the authors and books tables when they are missing.
func Migrate(ctx context.Context, db *store.DB) error {
	statements, ok := migrations[db.DriverName()]
	if !ok {
		return errors.Errorf("no migrations for driver %q", db.DriverName())
	}

	return db.Migrate(ctx, statements...)
}
