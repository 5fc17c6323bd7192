package store

type (
	// Ptrs are the scan destinations for one row.
	Ptrs []any
	// RowScan hands out the scan destinations of a model and an optional
	// action to run once the row has been scanned.
	RowScan[T any] func(*T) (Ptrs, Action)
	Action         func()
	Column[T any]  struct {
		Mod     QueryMod
		RowScan RowScan[T]
	}
)

// Ptr scans a single column straight into the pointer returned by ptr.
func Ptr[T any](ptr func(t *T) any) RowScan[T] {
	return func(t *T) (Ptrs, Action) {
		return Ptrs{ptr(t)}, nil
	}
}

func NewColumn[T any](mod QueryMod, scan RowScan[T]) Column[T] {
	return Column[T]{mod, scan}
}

func flattenRowScan[T any](rowScans []RowScan[T]) RowScan[T] {
	return func(t *T) (Ptrs, Action) {
		var (
			pointers Ptrs
			actions  []Action
		)
		for _, rowScan := range rowScans {
			ptr, action := rowScan(t)
			pointers = append(pointers, ptr...)
			if action != nil {
				actions = append(actions, action)
			}
		}

		return pointers, flattenActions(actions)
	}
}

func flattenActions(actions []Action) Action {
	return func() {
		for _, action := range actions {
			action()
		}
	}
}
