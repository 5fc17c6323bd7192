package store_test

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piranimarcos/bookApp/store"
)

var (
	comment = store.NewSchema[Comment]("book_comments").
		AddSimpleColumn("id", func(t *Comment) any { return &t.ID }).
		AddSimpleColumn("name", func(t *Comment) any { return &t.Name }).
		AddSimpleColumn("book_id", func(t *Comment) any { return &t.BookID })

	book = store.NewSchema[Book]("books").
		AddSimpleColumn("id", func(t *Book) any { return &t.ID }).
		AddSimpleColumn("name", func(t *Book) any { return &t.Name }).
		AddSimpleColumn("author_id", func(t *Book) any { return &t.AuthorID }).
		ModifyQuery(store.OrderBy("id")).
		AddRelation("comments",
			store.HasMany(comment,
				func(book Book, comment Comment) bool { return comment.BookID == book.ID },
				func(book *Book, comments []Comment) { book.Comments = comments },
				store.WhereIDs("book_id", func(book Book) int64 { return book.ID }),
				store.DependsOn("id", "comments.book_id"),
			),
		)

	author = store.NewSchema[Author]("authors").
		AddSimpleColumn("id", func(t *Author) any { return &t.ID }).
		AddSimpleColumn("name", func(t *Author) any { return &t.Name }).
		AddColumn(
			"tags",
			store.Col("tags"),
			func(t *Author) (store.Ptrs, store.Action) {
				var tagString string
				return store.Ptrs{&tagString}, func() {
					t.Tags = strings.Split(tagString, ",")
				}
			},
		).
		ModifyQuery(store.OrderBy("id")).
		AddRelation(
			"books",
			store.HasMany(book,
				func(author Author, book Book) bool { return book.AuthorID == author.ID },
				func(author *Author, books []Book) { author.Books = books },
				store.WhereIDs("author_id", func(a Author) int64 { return a.ID }),
				store.DependsOn("id", "books.author_id"),
			),
		)
)

func init() {
	comment.AddRelation(
		"book",
		store.HasOne(book,
			func(c Comment, b Book) bool { return c.BookID == b.ID },
			func(c *Comment, b Book) { c.Book = &b },
			store.WhereIDs("id", func(c Comment) int64 { return c.BookID }),
			store.DependsOn("book_id"),
		))
}

func TestBasicSchemaUsage(t *testing.T) {
	db := setupDB(t)
	seed(db)

	t.Run("select fields", func(t *testing.T) {
		authors, err := author.Query("id", "tags").Collect(context.Background(), db)
		require.NoError(t, err)

		assert.Len(t, authors, 2)
		for i := range 2 {
			assert.Empty(t, authors[i].Name)
			assert.NotEmpty(t, authors[i].ID)
			assert.NotEmpty(t, authors[i].Tags)
		}
	})

	t.Run("select all by not providing fields", func(t *testing.T) {
		authors, err := author.Query().Collect(context.Background(), db)
		require.NoError(t, err)

		assert.Len(t, authors, 2)
		assert.Equal(t, []string{"cool", "awesome"}, authors[0].Tags)
		for i := range 2 {
			assert.NotEmpty(t, authors[i].Name)
			assert.NotEmpty(t, authors[i].ID)
		}
	})

	t.Run("unknown field is reported", func(t *testing.T) {
		_, err := author.Query("id", "nickname").Collect(context.Background(), db)
		assert.ErrorIs(t, err, store.ErrNoSuchField)
	})

	t.Run("nesting on a plain column is reported", func(t *testing.T) {
		_, err := author.Query("name.first").Collect(context.Background(), db)
		assert.ErrorIs(t, err, store.ErrNoSuchRelation)
	})

	t.Run("unknown nested field is reported", func(t *testing.T) {
		_, err := author.Query("books.isbn").Collect(context.Background(), db)
		assert.ErrorIs(t, err, store.ErrNoSuchField)
	})

	t.Run("empty table collects an empty slice", func(t *testing.T) {
		comments, err := comment.Query().
			Where("book_id", 42).
			Collect(context.Background(), db)
		require.NoError(t, err)
		assert.NotNil(t, comments)
		assert.Empty(t, comments)
	})
}

func TestBasicSchemaRelation(t *testing.T) {
	db := setupDB(t)
	seed(db)

	t.Run("relation all fields", func(t *testing.T) {
		authors, err := author.Query("id", "books").
			Collect(context.Background(), db)
		require.NoError(t, err)

		require.Len(t, authors, 2)
		require.Len(t, authors[0].Books, 2)
		require.Len(t, authors[1].Books, 2)
		require.NotEmpty(t, authors[0].Books[0].Name)
		require.NotEmpty(t, authors[0].Books[1].Name)
		require.NotEmpty(t, authors[0].Books[0].AuthorID)
		require.NotEmpty(t, authors[0].Books[1].AuthorID)
	})

	t.Run("base and relation all fields", func(t *testing.T) {
		authors, err := author.Query("*", "books").
			Collect(context.Background(), db)
		require.NoError(t, err)

		require.Len(t, authors, 2)
		assert.Equal(t, "Jeff", authors[0].Name)
		assert.Equal(t, "Life of Jeff", authors[0].Books[0].Name)
		assert.Equal(t, "Sing baby sing", authors[1].Books[0].Name)
	})

	t.Run("nested relations with specific fields", func(t *testing.T) {
		authors, err := author.Query("id", "name", "books.id", "books.author_id", "books.comments.name", "books.comments.book_id").
			Collect(context.Background(), db)
		require.NoError(t, err)

		require.Len(t, authors, 2)
		require.Len(t, authors[0].Books, 2)
		require.Len(t, authors[1].Books, 2)
		require.Len(t, authors[0].Books[0].Comments, 1)
		require.Len(t, authors[0].Books[1].Comments, 1)
		require.Len(t, authors[1].Books[0].Comments, 1)
		require.Len(t, authors[1].Books[1].Comments, 1)

		require.Empty(t, authors[0].Books[0].Name)
		require.Empty(t, authors[0].Books[0].Comments[0].ID)
	})

	t.Run("backref", func(t *testing.T) {
		books, err := book.Query("*", "comments", "comments.book").
			Collect(context.Background(), db)
		require.NoError(t, err)

		require.Len(t, books, 4)
		for _, book := range books {
			require.NotNil(t, book.Comments[0].Book)
			assert.Equal(t, book.ID, book.Comments[0].Book.ID)
		}
	})

	t.Run("automatically select fields required for relation", func(t *testing.T) {
		authors, err := author.Query("books.name").
			Collect(context.Background(), db)
		require.NoError(t, err)

		require.Len(t, authors, 2)
		require.Len(t, authors[0].Books, 2)
		require.Len(t, authors[1].Books, 2)

		require.NotEmpty(t, authors[0].ID)
		require.NotEmpty(t, authors[0].Books[0].AuthorID)
		require.NotEmpty(t, authors[0].Books[0].Name)
		require.Empty(t, authors[0].Books[0].ID)
	})

	t.Run("parents without children get an empty slice", func(t *testing.T) {
		_, err := db.Builder().Insert("authors").Values(3, "Nobody", "").Exec()
		require.NoError(t, err)

		found, err := author.Query("*", "books").
			Where("id", 3).
			CollectOne(context.Background(), db)
		require.NoError(t, err)
		assert.NotNil(t, found.Books)
		assert.Empty(t, found.Books)
	})

	t.Run("CollectOne should return one item", func(t *testing.T) {
		author, err := author.Query().
			ModifyQuery(func(q store.Q, table string) store.Q { return q.Where("id = ?", 2) }).
			CollectOne(context.Background(), db)
		require.NoError(t, err)
		assert.NotNil(t, author)
		assert.NotEmpty(t, author.ID)
		assert.NotEmpty(t, author.Name)
		assert.Empty(t, author.Books)
	})

	t.Run("CollectOne should error on many returns", func(t *testing.T) {
		author, err := author.Query().
			CollectOne(context.Background(), db)
		assert.ErrorIs(t, err, store.ErrTooManyResults)
		assert.Nil(t, author)
	})

	t.Run("CollectOne should error on no returns", func(t *testing.T) {
		author, err := author.Query().
			ModifyQuery(func(q store.Q, table string) store.Q { return q.Where("false") }).
			CollectOne(context.Background(), db)
		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.Nil(t, author)
	})
}
