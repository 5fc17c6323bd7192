// Package api exposes the resolvers as a GraphQL schema served over HTTP.
package api

import (
	graphql "github.com/graph-gophers/graphql-go"
	"github.com/pkg/errors"
)

const schemaSDL = `
schema {
	query: Query
	mutation: Mutation
}

type Query {
	getAllAuthors: [Author!]!
	getOneAuthor(input: AuthorIdInput!): Author!
	getAllBooks: [Book!]!
	getBookById(input: BookIdInput!): Book!
}

type Mutation {
	createAuthor(input: AuthorInput!): Author!
	updateOneAuthor(input: AuthorUpdateInput!): Author!
	deleteOneAuthor(input: AuthorIdInput!): Boolean!
	createBook(input: BookInput!): Book!
	updateBookById(bookId: BookIdInput!, input: BookUpdateInput!): Boolean!
	deleteBookById(input: BookIdInput!): Boolean!
}

type Author {
	id: Int!
	fullName: String!
	books: [Book!]!
}

type Book {
	id: Int!
	title: String!
	author: Author
}

input AuthorInput {
	fullName: String!
}

input AuthorUpdateInput {
	id: Int!
	fullName: String
}

input AuthorIdInput {
	id: Int!
}

input BookInput {
	title: String!
	author: Int!
}

input BookUpdateInput {
	title: String
	author: Int
}

input BookIdInput {
	id: Int!
}
`

// NewSchema binds root to the schema. Every Query and Mutation field must
// have a matching method on root.
func NewSchema(root *Root) (*graphql.Schema, error) {
	schema, err := graphql.ParseSchema(schemaSDL, root, graphql.MaxDepth(10))
	if err != nil {
		return nil, errors.Wrap(err, "parse graphql schema")
	}

	return schema, nil
}
