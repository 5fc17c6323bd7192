package store_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/piranimarcos/bookApp/store"
)

type Author struct {
	ID    int64
	Name  string
	Tags  []string
	Books []Book
}

type Book struct {
	ID       int64
	Name     string
	AuthorID int64
	Comments []Comment
}

type Comment struct {
	ID     int64
	Name   string
	BookID int64
	Book   *Book
}

func setupDB(t testing.TB) *store.DB {
	t.Helper()

	db, err := store.Open(store.DriverSQLite, "file:"+uuid.NewString()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, db.Migrate(context.Background(), migrate...))

	return db
}

var migrate = []string{
	`create table authors (
		id integer primary key autoincrement,
		name text not null,
		tags text not null
	)`,
	`create table books (
		id integer primary key autoincrement,
		name text not null,
		author_id integer
	)`,
	`create table book_comments (
		id integer primary key autoincrement,
		name text not null,
		book_id integer
	)`,
}

//nolint:errcheck
func seed(db *store.DB) {
	sq := db.Builder()
	sq.Insert("authors").
		Values(1, "Jeff", "cool,awesome").
		Values(2, "Madonna", "vocal").Exec()
	sq.Insert("books").
		Values(1, "Life of Jeff", 1).
		Values(2, "Cooking like Jeff", 1).
		Values(3, "Sing baby sing", 2).
		Values(4, "the singeth hath endeth", 2).Exec()
	sq.Insert("book_comments").
		Values(1, "Great book!", 1).
		Values(2, "Very insightful", 2).
		Values(3, "A masterpiece", 3).
		Values(4, "Could be better", 4).Exec()
}
