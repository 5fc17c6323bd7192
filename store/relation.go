package store

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/samber/lo"
)

type (
	Resolver[M any]      func(ctx context.Context, db *DB, parents []M, fields []string) error
	FieldCheck           func(path string) error
	Binder[M, N any]     func(parents []M, children []N)
	QueryModifier[M any] func(query Query[M]) Query[M]
	// Matcher reports whether child belongs to parent.
	Matcher[M, N any] func(parent M, child N) bool
	// Filter narrows the child query to the rows the parents refer to.
	Filter[M any] func(parents []M) QueryMod
)

// Relation loads related rows for a batch of parents in one extra query.
type Relation[M any] struct {
	Resolve Resolver[M]
	Check   FieldCheck
	// Depends adds the parent fields the relation needs for matching.
	Depends QueryModifier[M]
}

func HasMany[M, N any](child *Schema[N], match Matcher[M, N], set func(*M, []N), filter Filter[M], depends []string) Relation[M] {
	return CreateRelation(child, BindBy(match, set), filter, selecting[M](depends))
}

func HasOne[M, N any](child *Schema[N], match Matcher[M, N], set func(*M, N), filter Filter[M], depends []string) Relation[M] {
	return CreateRelation(child, BindByOne(match, set), filter, selecting[M](depends))
}

func CreateRelation[M, N any](child *Schema[N], bind Binder[M, N], filter Filter[M], depends QueryModifier[M]) Relation[M] {
	resolve := func(ctx context.Context, db *DB, parents []M, fields []string) error {
		if len(parents) == 0 {
			return nil
		}

		children, err := child.Query(fields...).ModifyQuery(filter(parents)).Collect(ctx, db)
		if err != nil {
			return err
		}
		bind(parents, children)

		return nil
	}

	return Relation[M]{Resolve: resolve, Check: child.Check, Depends: depends}
}

func selecting[M any](fields []string) QueryModifier[M] {
	return func(query Query[M]) Query[M] { return query.Select(fields...) }
}

// BindBy hands each parent its matching children, in child order. A parent
// with no match gets an empty, non-nil slice.
func BindBy[M, N any](match Matcher[M, N], set func(*M, []N)) Binder[M, N] {
	return func(parents []M, children []N) {
		for i := range parents {
			set(&parents[i], lo.Filter(children, func(c N, _ int) bool {
				return match(parents[i], c)
			}))
		}
	}
}

// BindByOne hands each parent its first matching child, if any.
func BindByOne[M, N any](match Matcher[M, N], set func(*M, N)) Binder[M, N] {
	return func(parents []M, children []N) {
		for i := range parents {
			if c, ok := lo.Find(children, func(c N) bool { return match(parents[i], c) }); ok {
				set(&parents[i], c)
			}
		}
	}
}

// WhereIDs filters child rows on col IN the distinct keys of the parents.
func WhereIDs[M any, K comparable](col string, key func(m M) K) Filter[M] {
	return func(parents []M) QueryMod {
		keys := lo.Uniq(lo.Map(parents, func(p M, _ int) K { return key(p) }))
		return func(q Q, table string) Q {
			return q.Where(squirrel.Eq{TableCol(table, col): keys})
		}
	}
}

func DependsOn(fields ...string) []string {
	return fields
}
