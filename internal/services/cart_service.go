package services

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"warehouse/internal/domain"
	"warehouse/internal/repos"
)

// cartIdleTTL bounds how long an untouched session cart is kept.
const cartIdleTTL = 12 * time.Hour

type sessionCart struct {
	mu      sync.Mutex
	cart    *Cart
	touched time.Time
}

// CartSessions holds one cart per session id.
type CartSessions struct {
	mu    sync.Mutex
	carts map[string]*sessionCart
	now   func() time.Time
}

func NewCartSessions() *CartSessions {
	return &CartSessions{carts: make(map[string]*sessionCart), now: time.Now}
}

// With runs fn with exclusive access to the session's cart.
func (s *CartSessions) With(sid string, fn func(*Cart) error) error {
	s.mu.Lock()
	now := s.now()
	for id, sc := range s.carts {
		if id != sid && now.Sub(sc.touched) > cartIdleTTL && sc.mu.TryLock() {
			if !sc.cart.committing {
				delete(s.carts, id)
			}
			sc.mu.Unlock()
		}
	}
	sc, ok := s.carts[sid]
	if !ok {
		sc = &sessionCart{cart: NewCart()}
		s.carts[sid] = sc
	}
	sc.touched = now
	s.mu.Unlock()

	sc.mu.Lock()
	defer sc.mu.Unlock()
	return fn(sc.cart)
}

type CartView struct {
	Items []domain.CartItem `json:"itens"`
	Total decimal.Decimal   `json:"total"`
	Phase Phase             `json:"fase"`
}

func viewOf(c *Cart) CartView {
	items := c.Items()
	if items == nil {
		items = []domain.CartItem{}
	}
	return CartView{Items: items, Total: c.Total(), Phase: c.Phase()}
}

type CartService struct {
	Carts *CartSessions
	Prods *repos.ProductRepo
	Sales *SaleService
}

func NewCartService(carts *CartSessions, prods *repos.ProductRepo, sales *SaleService) *CartService {
	return &CartService{Carts: carts, Prods: prods, Sales: sales}
}

// Add loads the product fresh so the stock check sees the current snapshot.
func (s *CartService) Add(ctx context.Context, sessionID, productID string, qty decimal.Decimal) (CartView, error) {
	p, err := s.Prods.Get(ctx, productID)
	if err != nil {
		return CartView{}, err
	}
	var view CartView
	err = s.Carts.With(sessionID, func(c *Cart) error {
		if _, err := c.Add(p, qty); err != nil {
			return err
		}
		view = viewOf(c)
		return nil
	})
	return view, err
}

func (s *CartService) View(sessionID string) CartView {
	var view CartView
	_ = s.Carts.With(sessionID, func(c *Cart) error {
		view = viewOf(c)
		return nil
	})
	return view
}

func (s *CartService) Remove(sessionID, itemID string) (CartView, error) {
	var view CartView
	err := s.Carts.With(sessionID, func(c *Cart) error {
		if err := c.Remove(itemID); err != nil {
			return err
		}
		view = viewOf(c)
		return nil
	})
	return view, err
}

func (s *CartService) Clear(sessionID string) (CartView, error) {
	var view CartView
	err := s.Carts.With(sessionID, func(c *Cart) error {
		if err := c.Clear(); err != nil {
			return err
		}
		view = viewOf(c)
		return nil
	})
	return view, err
}

// Checkout commits the session's cart as a sale.
func (s *CartService) Checkout(ctx context.Context, sessionID string) (Receipt, error) {
	var rc Receipt
	err := s.Carts.With(sessionID, func(c *Cart) error {
		var err error
		rc, err = s.Sales.Checkout(ctx, c)
		return err
	})
	return rc, err
}
