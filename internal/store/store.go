// Package store is the persistence gateway: uniform CRUD over named JSON
// document collections, served either by a remote document server or by a
// local key-value store.
package store

import (
	"context"
	"encoding/json"
)

// Collection names, as exposed by the document server.
const (
	Products    = "produtos"
	Sales       = "vendas"
	SaleLines   = "itensVenda"
	Reports     = "relatorios"
	Adjustments = "ajustesEstoque"
	Checkouts   = "checkouts"
)

// CollectionStore is implemented by every backend. Records are flat JSON
// objects carrying a string "id". Missing records surface as
// domain.ErrNotFound, backend failures as domain.ErrTransport.
type CollectionStore interface {
	GetAll(ctx context.Context, collection string) ([]json.RawMessage, error)
	GetByID(ctx context.Context, collection, id string) (json.RawMessage, error)
	Create(ctx context.Context, collection string, rec json.RawMessage) (json.RawMessage, error)
	// Update replaces the whole record stored under id.
	Update(ctx context.Context, collection, id string, rec json.RawMessage) (json.RawMessage, error)
	Delete(ctx context.Context, collection, id string) error
	// Query returns the records whose top-level field equals value.
	Query(ctx context.Context, collection, field, value string) ([]json.RawMessage, error)
}

type idOnly struct {
	ID string `json:"id"`
}

func recordID(rec json.RawMessage) (string, error) {
	var v idOnly
	if err := json.Unmarshal(rec, &v); err != nil {
		return "", err
	}
	return v.ID, nil
}
