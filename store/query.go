package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

var (
	ErrNoSuchField = errors.New("unknown field")
	// ErrNoSuchRelation marks a dotted path that descends into a plain column.
	ErrNoSuchRelation = errors.New("not a relation")
	ErrTooManyResults = errors.New("expected at most one row")
)

type Query[T any] struct {
	schema *Schema[T]

	columns        map[string]Column[T]
	relations      map[string]Relation[T]
	relationFields map[string][]string
	mods           []QueryMod

	errors []error
}

func newQuery[T any](schema *Schema[T], fields ...string) Query[T] {
	query := Query[T]{
		schema:         schema,
		columns:        map[string]Column[T]{},
		relations:      map[string]Relation[T]{},
		relationFields: map[string][]string{},
	}

	return query.Select(fields...)
}

func (query Query[T]) ModifyQuery(mod QueryMod) Query[T] {
	query.mods = append(slices.Clip(query.mods), mod)

	return query
}

// Where is shorthand for ModifyQuery(WhereEq(col, value)).
func (query Query[T]) Where(col string, value any) Query[T] {
	return query.ModifyQuery(WhereEq(col, value))
}

func (query Query[T]) Select(paths ...string) Query[T] {
	if len(paths) == 0 {
		query.selectAllColumns()
		return query
	}

	for _, path := range paths {
		query.resolveSelect(path)
	}

	return query
}

func (query *Query[T]) resolveSelect(path string) {
	field, rest := splitPath(path)

	if field == "*" {
		if rest != "" {
			query.addError(fmt.Errorf("%w: %s", ErrNoSuchRelation, field))
			return
		}

		query.selectAllColumns()
		return
	}

	if relation, ok := query.schema.Relations[field]; ok {
		if rest != "" && rest != "*" {
			if err := relation.Check(rest); err != nil {
				query.addError(err)
				return
			}
		}
		query.selectRelation(field, rest)
		return
	}

	if column, ok := query.schema.Columns[field]; ok {
		if rest != "" {
			query.addError(fmt.Errorf("%w: %s", ErrNoSuchRelation, field))
			return
		}
		query.columns[field] = column
		return
	}

	query.addError(fmt.Errorf("%w: %s", ErrNoSuchField, field))
}

func (query *Query[T]) selectAllColumns() {
	maps.Copy(query.columns, query.schema.Columns)
}

func (query *Query[T]) selectRelation(name, path string) {
	if path == "" {
		path = "*"
	}

	query.relations[name] = query.schema.Relations[name]
	query.relationFields[name] = append(query.relationFields[name], path)
}

func (query Query[T]) Err() error {
	return errors.Join(query.errors...)
}

func (query Query[T]) Collect(ctx context.Context, db *DB) ([]T, error) {
	if err := query.Err(); err != nil {
		return nil, err
	}
	query = query.withDependencies()

	parents, err := query.collectBase(ctx, db)
	if err != nil {
		return nil, err
	}

	if err := query.resolveRelations(ctx, db, parents); err != nil {
		return nil, err
	}

	return parents, nil
}

// CollectOne returns sql.ErrNoRows when nothing matched.
func (query Query[T]) CollectOne(ctx context.Context, db *DB) (*T, error) {
	if err := query.Err(); err != nil {
		return nil, err
	}
	query = query.withDependencies()

	parents, err := query.collectBase(ctx, db)
	if err != nil {
		return nil, err
	}

	if len(parents) == 0 {
		return nil, sql.ErrNoRows
	} else if len(parents) > 1 {
		return nil, ErrTooManyResults
	}

	if err := query.resolveRelations(ctx, db, parents); err != nil {
		return nil, err
	}

	return &parents[0], nil
}

// withDependencies selects the columns every chosen relation needs to bind
// children to parents.
func (query Query[T]) withDependencies() Query[T] {
	for _, name := range slices.Sorted(maps.Keys(query.relations)) {
		if depends := query.relations[name].Depends; depends != nil {
			query = depends(query)
		}
	}

	return query
}

func (query Query[T]) collectBase(ctx context.Context, db *DB) ([]T, error) {
	table := query.schema.Table
	q := db.Builder().Select().From(table)

	q = applyMods(q, table, query.schema.QueryMods)
	q = applyMods(q, table, query.mods)

	var scans []RowScan[T]
	for _, name := range slices.Sorted(maps.Keys(query.columns)) {
		column := query.columns[name]
		q = column.Mod(q, table)
		scans = append(scans, column.RowScan)
	}

	return collectRows(ctx, q, flattenRowScan(scans))
}

func (query Query[T]) resolveRelations(ctx context.Context, db *DB, parents []T) error {
	for _, name := range slices.Sorted(maps.Keys(query.relations)) {
		err := query.relations[name].Resolve(ctx, db, parents, query.relationFields[name])
		if err != nil {
			return fmt.Errorf("resolve %s.%s: %w", query.schema.Table, name, err)
		}
	}

	return nil
}

func (query *Query[T]) addError(err error) {
	query.errors = append(query.errors, err)
}

func splitPath(path string) (string, string) {
	field, rest, _ := strings.Cut(path, ".")
	return field, rest
}
