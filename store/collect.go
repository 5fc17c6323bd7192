package store

import (
	"context"

	"go.uber.org/zap"
)

func collectRows[T any](ctx context.Context, q Q, scans RowScan[T]) ([]T, error) {
	rows, err := q.QueryContext(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			zap.L().Error("collectRows: failed to close rows", zap.Error(err))
		}
	}()

	collection := []T{}
	for rows.Next() {
		var t T
		pointers, action := scans(&t)
		if err := rows.Scan(pointers...); err != nil {
			return nil, err
		}
		action()
		collection = append(collection, t)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return collection, nil
}
