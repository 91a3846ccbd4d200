package handlers

import (
	"sync"

	"warehouse/internal/config"
	"warehouse/internal/repos"
	"warehouse/internal/services"
	"warehouse/internal/store"
)

type Deps struct {
	ProductHandler   *ProductHandler
	InventoryHandler *InventoryHandler
	CartHandler      *CartHandler
	SaleHandler      *SaleHandler
	ReportHandler    *ReportHandler
	CheckoutHandler  *CheckoutHandler

	Sales *services.SaleService
}

func NewDeps(s store.CollectionStore, cfg config.Config) *Deps {
	prodRepo := repos.NewProductRepo(s)
	invRepo := repos.NewInventoryRepo(s)
	saleRepo := repos.NewSaleRepo(s)
	journal := repos.NewCheckoutRepo(s)
	reportRepo := repos.NewReportRepo(s)

	// One lock for every stock write in this process.
	var stock sync.Mutex

	catalogSvc := services.NewCatalogService(prodRepo)
	invSvc := services.NewInventoryService(invRepo, prodRepo, &stock)
	saleSvc := services.NewSaleService(saleRepo, prodRepo, journal, &stock)
	cartSvc := services.NewCartService(services.NewCartSessions(), prodRepo, saleSvc)
	reportSvc := services.NewReportService(saleRepo, prodRepo, reportRepo, cfg.ReportTZ)

	return &Deps{
		ProductHandler:   &ProductHandler{Catalog: catalogSvc},
		InventoryHandler: &InventoryHandler{Inv: invSvc},
		CartHandler:      &CartHandler{Cart: cartSvc},
		SaleHandler:      &SaleHandler{Sales: saleSvc, Catalog: catalogSvc},
		ReportHandler:    &ReportHandler{Reports: reportSvc},
		CheckoutHandler:  &CheckoutHandler{Sales: saleSvc},
		Sales:            saleSvc,
	}
}
