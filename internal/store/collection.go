package store

import (
	"context"
	"encoding/json"
	"fmt"

	"warehouse/internal/domain"
)

// Collection is a typed view of one named collection.
type Collection[T any] struct {
	store CollectionStore
	name  string
}

func NewCollection[T any](s CollectionStore, name string) *Collection[T] {
	return &Collection[T]{store: s, name: name}
}

func (c *Collection[T]) Name() string { return c.name }

func (c *Collection[T]) All(ctx context.Context) ([]T, error) {
	raw, err := c.store.GetAll(ctx, c.name)
	if err != nil {
		return nil, err
	}
	return decodeAll[T](c.name, raw)
}

func (c *Collection[T]) Get(ctx context.Context, id string) (T, error) {
	var out T
	raw, err := c.store.GetByID(ctx, c.name, id)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("%w: decode %s/%s: %v", domain.ErrTransport, c.name, id, err)
	}
	return out, nil
}

func (c *Collection[T]) Create(ctx context.Context, v T) (T, error) {
	return c.write(ctx, v, func(rec json.RawMessage) (json.RawMessage, error) {
		return c.store.Create(ctx, c.name, rec)
	})
}

func (c *Collection[T]) Update(ctx context.Context, id string, v T) (T, error) {
	return c.write(ctx, v, func(rec json.RawMessage) (json.RawMessage, error) {
		return c.store.Update(ctx, c.name, id, rec)
	})
}

func (c *Collection[T]) Delete(ctx context.Context, id string) error {
	return c.store.Delete(ctx, c.name, id)
}

func (c *Collection[T]) Where(ctx context.Context, field, value string) ([]T, error) {
	raw, err := c.store.Query(ctx, c.name, field, value)
	if err != nil {
		return nil, err
	}
	return decodeAll[T](c.name, raw)
}

func (c *Collection[T]) write(ctx context.Context, v T, do func(json.RawMessage) (json.RawMessage, error)) (T, error) {
	var out T
	rec, err := json.Marshal(v)
	if err != nil {
		return out, fmt.Errorf("encode %s record: %w", c.name, err)
	}
	saved, err := do(rec)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(saved, &out); err != nil {
		return out, fmt.Errorf("%w: decode %s record: %v", domain.ErrTransport, c.name, err)
	}
	return out, nil
}

func decodeAll[T any](name string, raw []json.RawMessage) ([]T, error) {
	out := make([]T, 0, len(raw))
	for _, r := range raw {
		var v T
		if err := json.Unmarshal(r, &v); err != nil {
			return nil, fmt.Errorf("%w: decode %s record: %v", domain.ErrTransport, name, err)
		}
		out = append(out, v)
	}
	return out, nil
}
