package store

import "fmt"

// Schema declares how a model T maps onto a table: its columns, the
// relations that can be resolved from it and mods applied to every query.
type Schema[T any] struct {
	Table     string
	Columns   map[string]Column[T]
	Relations map[string]Relation[T]
	QueryMods []QueryMod
}

func NewSchema[T any](table string) *Schema[T] {
	return &Schema[T]{
		Table:     table,
		Columns:   map[string]Column[T]{},
		Relations: make(map[string]Relation[T]),
	}
}

func (schema *Schema[T]) AddColumn(
	name string,
	mod QueryMod,
	rowScan RowScan[T],
) *Schema[T] {
	schema.Columns[name] = NewColumn(mod, rowScan)

	return schema
}

// AddSimpleColumn adds a field stored under a column of the same name.
func (schema *Schema[T]) AddSimpleColumn(name string, ptr func(t *T) any) *Schema[T] {
	return schema.AddColumn(name, Col(name), Ptr(ptr))
}

func (schema *Schema[T]) AddRelation(name string, relation Relation[T]) *Schema[T] {
	schema.Relations[name] = relation

	return schema
}

func (schema *Schema[T]) ModifyQuery(mod QueryMod) *Schema[T] {
	schema.QueryMods = append(schema.QueryMods, mod)

	return schema
}

// Query starts a query selecting the given dotted field paths. No fields
// selects every column and no relation.
func (schema *Schema[T]) Query(fields ...string) Query[T] {
	return newQuery(schema, fields...)
}

// Check reports whether a dotted field path exists on the schema.
func (schema *Schema[T]) Check(path string) error {
	field, rest := splitPath(path)

	if field == "" || field == "*" {
		return nil
	}

	if relation, ok := schema.Relations[field]; ok {
		return relation.Check(rest)
	}

	if _, ok := schema.Columns[field]; ok {
		if rest != "" {
			return fmt.Errorf("%w: %s", ErrNoSuchRelation, field)
		}
		return nil
	}

	return fmt.Errorf("%w: %s", ErrNoSuchField, field)
}
