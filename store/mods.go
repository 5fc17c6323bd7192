package store

import "github.com/Masterminds/squirrel"

type (
	Q        = squirrel.SelectBuilder
	QueryMod func(q Q, table string) Q
)

// Col selects a column of the table being queried.
func Col(name string) QueryMod {
	return func(q Q, table string) Q { return q.Column(TableCol(table, name)) }
}

// WhereEq restricts the query to rows whose column equals value.
func WhereEq(col string, value any) QueryMod {
	return func(q Q, table string) Q {
		return q.Where(squirrel.Eq{TableCol(table, col): value})
	}
}

// OrderBy orders by a column of the table being queried.
func OrderBy(col string) QueryMod {
	return func(q Q, table string) Q { return q.OrderBy(TableCol(table, col)) }
}

func TableCol(table, name string) string {
	if table == "" {
		return name
	}
	return table + "." + name
}

func applyMods(q Q, table string, mods []QueryMod) Q {
	for _, mod := range mods {
		q = mod(q, table)
	}

	return q
}
