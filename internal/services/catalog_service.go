package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"warehouse/internal/domain"
	"warehouse/internal/repos"
	"warehouse/internal/validate"
)

// ProductInput is the editable part of a product.
type ProductInput struct {
	Name     string          `json:"nome"`
	Code     string          `json:"codigo"`
	Price    decimal.Decimal `json:"preco"`
	Stock    decimal.Decimal `json:"estoque"`
	Category string          `json:"categoria"`
	Unit     string          `json:"unidade"`
}

type CatalogService struct {
	Prods *repos.ProductRepo
}

func NewCatalogService(prods *repos.ProductRepo) *CatalogService {
	return &CatalogService{Prods: prods}
}

// Product checks in and builds the record it describes.
func (in ProductInput) Product(id string) (domain.Product, error) {
	name, ok := validate.Name(in.Name)
	if !ok {
		return domain.Product{}, domain.Invalid("nome", "name is required (max 100 characters)")
	}
	if !validate.ProductCode(in.Code) {
		return domain.Product{}, domain.Invalid("codigo", "code must be 3-10 uppercase letters or digits")
	}
	if in.Price.IsNegative() {
		return domain.Product{}, domain.Invalid("preco", "price must not be negative")
	}
	cat, ok := validate.Category(in.Category)
	if !ok {
		return domain.Product{}, domain.Invalid("categoria", "unknown category")
	}
	unit := domain.UnitPiece
	if in.Unit != "" {
		if unit, ok = validate.Unit(in.Unit); !ok {
			return domain.Product{}, domain.Invalid("unidade", "unit must be unidade or kg")
		}
	}
	if !validate.Stock(in.Stock, unit) {
		return domain.Product{}, domain.Invalid("estoque", "stock must be zero or more, whole for unidade")
	}
	return domain.Product{
		ID: id, Name: name, Code: in.Code, Price: in.Price,
		Stock: in.Stock, Category: cat, Unit: unit,
	}, nil
}

func (s *CatalogService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.Prods.List(ctx)
}

func (s *CatalogService) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	return s.Prods.Get(ctx, id)
}

// Search filters by name or code; an empty query lists everything.
func (s *CatalogService) Search(ctx context.Context, q string) ([]domain.Product, error) {
	if q == "" {
		return s.Prods.List(ctx)
	}
	return s.Prods.Search(ctx, q)
}

func (s *CatalogService) CreateProduct(ctx context.Context, in ProductInput) (domain.Product, error) {
	p, err := in.Product(uuid.NewString())
	if err != nil {
		return domain.Product{}, err
	}
	return s.Prods.Create(ctx, p)
}

// UpdateProduct replaces the whole record; a missing id is ErrNotFound.
func (s *CatalogService) UpdateProduct(ctx context.Context, id string, in ProductInput) (domain.Product, error) {
	p, err := in.Product(id)
	if err != nil {
		return domain.Product{}, err
	}
	return s.Prods.Update(ctx, p)
}

// DeleteProduct does not touch sale lines that reference the product.
func (s *CatalogService) DeleteProduct(ctx context.Context, id string) error {
	return s.Prods.Delete(ctx, id)
}
