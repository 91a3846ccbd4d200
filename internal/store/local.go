package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"warehouse/internal/domain"
	"warehouse/internal/kv"
)

const keyPrefix = "warehouse_"

// Local keeps each collection as one JSON array under "warehouse_<name>".
// Every call is a read-modify-write of that array, serialized by mu.
type Local struct {
	kv kv.Store

	mu     sync.Mutex
	seeded bool
}

func NewLocal(s kv.Store) *Local { return &Local{kv: s} }

func key(collection string) string { return keyPrefix + collection }

func transport(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", domain.ErrTransport, op, err)
}

// ensureSeeded writes the demo dataset the first time the store is touched,
// unless a products array already exists. Caller holds mu.
func (l *Local) ensureSeeded(ctx context.Context) error {
	if l.seeded {
		return nil
	}
	_, ok, err := l.kv.Get(ctx, key(Products))
	if err != nil {
		return transport("seed check", err)
	}
	if !ok {
		for _, c := range seedOrder {
			b, err := json.Marshal(seedData[c])
			if err != nil {
				return err
			}
			if err := l.kv.Set(ctx, key(c), b); err != nil {
				return transport("seed "+c, err)
			}
		}
	}
	l.seeded = true
	return nil
}

// load reads a collection, treating an absent key as empty. Caller holds mu.
func (l *Local) load(ctx context.Context, collection string) ([]json.RawMessage, error) {
	if err := l.ensureSeeded(ctx); err != nil {
		return nil, err
	}
	b, ok, err := l.kv.Get(ctx, key(collection))
	if err != nil {
		return nil, transport("read "+collection, err)
	}
	recs := []json.RawMessage{}
	if !ok || len(b) == 0 {
		return recs, nil
	}
	if err := json.Unmarshal(b, &recs); err != nil {
		return nil, transport("decode "+collection, err)
	}
	return recs, nil
}

func (l *Local) save(ctx context.Context, collection string, recs []json.RawMessage) error {
	b, err := json.Marshal(recs)
	if err != nil {
		return err
	}
	if err := l.kv.Set(ctx, key(collection), b); err != nil {
		return transport("write "+collection, err)
	}
	return nil
}

func (l *Local) GetAll(ctx context.Context, collection string) ([]json.RawMessage, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.load(ctx, collection)
}

func (l *Local) GetByID(ctx context.Context, collection, id string) (json.RawMessage, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	recs, err := l.load(ctx, collection)
	if err != nil {
		return nil, err
	}
	i, err := indexOf(recs, id)
	if err != nil {
		return nil, err
	}
	if i < 0 {
		return nil, fmt.Errorf("%s/%s: %w", collection, id, domain.ErrNotFound)
	}
	return recs[i], nil
}

func (l *Local) Create(ctx context.Context, collection string, rec json.RawMessage) (json.RawMessage, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	recs, err := l.load(ctx, collection)
	if err != nil {
		return nil, err
	}
	id, err := recordID(rec)
	if err != nil {
		return nil, domain.Invalid("record", "not a JSON object")
	}
	if id == "" {
		id = uuid.NewString()
		if rec, err = withID(rec, id); err != nil {
			return nil, err
		}
	}
	i, err := indexOf(recs, id)
	if err != nil {
		return nil, err
	}
	if i >= 0 {
		return nil, domain.Invalid("id", "duplicate id "+id+" in "+collection)
	}
	if err := l.save(ctx, collection, append(recs, rec)); err != nil {
		return nil, err
	}
	return rec, nil
}

func (l *Local) Update(ctx context.Context, collection, id string, rec json.RawMessage) (json.RawMessage, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	recs, err := l.load(ctx, collection)
	if err != nil {
		return nil, err
	}
	i, err := indexOf(recs, id)
	if err != nil {
		return nil, err
	}
	if i < 0 {
		return nil, fmt.Errorf("update %s/%s: %w", collection, id, domain.ErrNotFound)
	}
	if rec, err = withID(rec, id); err != nil {
		return nil, err
	}
	recs[i] = rec
	if err := l.save(ctx, collection, recs); err != nil {
		return nil, err
	}
	return rec, nil
}

func (l *Local) Delete(ctx context.Context, collection, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	recs, err := l.load(ctx, collection)
	if err != nil {
		return err
	}
	i, err := indexOf(recs, id)
	if err != nil {
		return err
	}
	if i < 0 {
		return fmt.Errorf("delete %s/%s: %w", collection, id, domain.ErrNotFound)
	}
	return l.save(ctx, collection, append(recs[:i], recs[i+1:]...))
}

func (l *Local) Query(ctx context.Context, collection, field, value string) ([]json.RawMessage, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	recs, err := l.load(ctx, collection)
	if err != nil {
		return nil, err
	}
	out := []json.RawMessage{}
	for _, r := range recs {
		m, err := decodeObject(r)
		if err != nil {
			return nil, transport("decode "+collection, err)
		}
		if v, ok := m[field]; ok && fmt.Sprint(v) == value {
			out = append(out, r)
		}
	}
	return out, nil
}

func indexOf(recs []json.RawMessage, id string) (int, error) {
	for i, r := range recs {
		rid, err := recordID(r)
		if err != nil {
			return -1, transport("decode record", err)
		}
		if rid == id {
			return i, nil
		}
	}
	return -1, nil
}

// decodeObject keeps numbers as json.Number so filters compare their text.
func decodeObject(rec json.RawMessage) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(rec))
	dec.UseNumber()
	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return nil, err
	}
	return m, nil
}

func withID(rec json.RawMessage, id string) (json.RawMessage, error) {
	m, err := decodeObject(rec)
	if err != nil {
		return nil, domain.Invalid("record", "not a JSON object")
	}
	m["id"] = id
	return json.Marshal(m)
}
