package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/piranimarcos/bookApp/api"
	"github.com/piranimarcos/bookApp/auth"
	"github.com/piranimarcos/bookApp/library"
	"github.com/piranimarcos/bookApp/resolver"
	"github.com/piranimarcos/bookApp/store"
)

type gqlError struct {
	Message    string         `json:"message"`
	Extensions map[string]any `json:"extensions"`
}

type gqlResponse struct {
	Data   map[string]json.RawMessage `json:"data"`
	Errors []gqlError                 `json:"errors"`
}

type author struct {
	ID       int    `json:"id"`
	FullName string `json:"fullName"`
	Books    []book `json:"books"`
}

type book struct {
	ID     int     `json:"id"`
	Title  string  `json:"title"`
	Author *author `json:"author"`
}

type server struct {
	handler http.Handler
	metrics *api.Metrics
	token   string
}

func newServer(t *testing.T) server {
	t.Helper()

	db, err := store.Open(store.DriverSQLite, "file:"+uuid.NewString()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, library.Migrate(context.Background(), db))

	verifier, err := auth.NewVerifier("api-secret", "HS256")
	require.NoError(t, err)
	token, err := verifier.Sign("tester", time.Hour)
	require.NoError(t, err)

	logger := zap.NewNop()
	authors := library.NewAuthorRepository(db)
	resolvers := resolver.New(resolver.Deps{
		Guard:   auth.NewGuard(verifier, logger),
		Authors: authors,
		Books:   library.NewBookRepository(db, authors),
		Logger:  logger,
	})

	reg := prometheus.NewRegistry()
	metrics := api.NewMetrics(reg)
	schema, err := api.NewSchema(api.NewRoot(resolvers, metrics))
	require.NoError(t, err)

	return server{
		handler: api.NewHandler(schema, reg, logger),
		metrics: metrics,
		token:   token,
	}
}

func (s server) do(t *testing.T, authorization, query string) gqlResponse {
	t.Helper()

	body, err := json.Marshal(map[string]any{"query": query})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/graphql", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))

	var resp gqlResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func (s server) query(t *testing.T, query string, field string, into any) {
	t.Helper()

	resp := s.do(t, "Bearer "+s.token, query)
	require.Empty(t, resp.Errors)
	require.NoError(t, json.Unmarshal(resp.Data[field], into))
}

func TestGraphQLEndToEnd(t *testing.T) {
	s := newServer(t)

	var ada author
	s.query(t, `mutation { createAuthor(input: {fullName: "Ada Lovelace"}) { id fullName books { id } } }`,
		"createAuthor", &ada)
	assert.Equal(t, "Ada Lovelace", ada.FullName)
	assert.Empty(t, ada.Books)

	var notes book
	s.query(t, fmt.Sprintf(`mutation { createBook(input: {title: "Notes", author: %d}) { id title author { fullName } } }`, ada.ID),
		"createBook", &notes)
	assert.Equal(t, "Notes", notes.Title)
	require.NotNil(t, notes.Author)
	assert.Equal(t, "Ada Lovelace", notes.Author.FullName)

	getBook := fmt.Sprintf(`{ getBookById(input: {id: %d}) { id title author { id fullName } } }`, notes.ID)

	var got book
	s.query(t, getBook, "getBookById", &got)
	assert.Equal(t, "Notes", got.Title)
	assert.Equal(t, "Ada Lovelace", got.Author.FullName)

	var updated bool
	s.query(t, fmt.Sprintf(`mutation { updateBookById(bookId: {id: %d}, input: {title: "Notes v2"}) }`, notes.ID),
		"updateBookById", &updated)
	assert.True(t, updated)

	s.query(t, getBook, "getBookById", &got)
	assert.Equal(t, "Notes v2", got.Title)
	assert.Equal(t, ada.ID, got.Author.ID)

	var authors []author
	s.query(t, `{ getAllAuthors { fullName books { title } } }`, "getAllAuthors", &authors)
	require.Len(t, authors, 1)
	require.Len(t, authors[0].Books, 1)
	assert.Equal(t, "Notes v2", authors[0].Books[0].Title)

	var deleted bool
	s.query(t, fmt.Sprintf(`mutation { deleteBookById(input: {id: %d}) }`, notes.ID), "deleteBookById", &deleted)
	assert.True(t, deleted)

	resp := s.do(t, "Bearer "+s.token, getBook)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "NotFound", resp.Errors[0].Extensions["code"])
	assert.Equal(t, "getBookById", resp.Errors[0].Extensions["operation"])

	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.Operations().WithLabelValues("createAuthor", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.Operations().WithLabelValues("getBookById", "NotFound")))
}

func TestGraphQLErrors(t *testing.T) {
	s := newServer(t)

	t.Run("missing credential", func(t *testing.T) {
		resp := s.do(t, "", `{ getAllBooks { id } }`)
		require.Len(t, resp.Errors, 1)
		assert.Equal(t, "Unauthorized", resp.Errors[0].Extensions["code"])
		assert.Nil(t, resp.Data)
	})

	t.Run("invalid credential", func(t *testing.T) {
		resp := s.do(t, "Bearer nope", `mutation { createAuthor(input: {fullName: "Intruder"}) { id } }`)
		require.Len(t, resp.Errors, 1)
		assert.Equal(t, "Unauthorized", resp.Errors[0].Extensions["code"])

		var authors []author
		s.query(t, `{ getAllAuthors { id } }`, "getAllAuthors", &authors)
		assert.Empty(t, authors)
	})

	t.Run("unknown author", func(t *testing.T) {
		resp := s.do(t, "Bearer "+s.token, `mutation { createBook(input: {title: "Ghost", author: 999}) { id } }`)
		require.Len(t, resp.Errors, 1)
		assert.Equal(t, "ValidationError", resp.Errors[0].Extensions["code"])

		var books []book
		s.query(t, `{ getAllBooks { id } }`, "getAllBooks", &books)
		assert.Empty(t, books)
	})
}

func TestHealthAndMetrics(t *testing.T) {
	s := newServer(t)

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	s.do(t, "", `{ getAllAuthors { id } }`)

	rec = httptest.NewRecorder()
	s.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `bookapp_operations_total{code="Unauthorized",operation="getAllAuthors"} 1`)
}
