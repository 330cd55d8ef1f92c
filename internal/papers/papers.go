// Package papers holds the product catalog. The catalog lives in memory and
// is seeded at startup; the admin surface can mutate it at runtime.
package papers

import (
	"errors"
	"sort"
	"sync"

	"github.com/shopspring/decimal"
)

// Paper is one catalog product.
type Paper struct {
	ID           int             `json:"id"`
	Name         string          `json:"name"`
	Discontinued bool            `json:"discontinued"`
	Stock        int             `json:"stock"`
	Price        decimal.Decimal `json:"price"`
}

// StockLevel is the trimmed projection returned by stock lookups.
type StockLevel struct {
	ID    int `json:"id"`
	Stock int `json:"stock"`
}

// ErrNotFound reports a lookup for an id the catalog does not hold.
var ErrNotFound = errors.New("paper not found")

// Catalog is a concurrency-safe in-memory paper store.
type Catalog struct {
	mu     sync.Mutex
	papers map[int]Paper
	nextID int
}

// NewCatalog returns a catalog seeded with the given papers. IDs of value
// zero are assigned sequentially.
func NewCatalog(seed ...Paper) *Catalog {
	c := &Catalog{papers: map[int]Paper{}, nextID: 1}
	for _, p := range seed {
		if p.ID == 0 {
			p.ID = c.nextID
		}
		c.papers[p.ID] = p
		if p.ID >= c.nextID {
			c.nextID = p.ID + 1
		}
	}
	return c
}

// DefaultCatalog seeds the catalog Dunder Mifflin actually sells.
func DefaultCatalog() *Catalog {
	price := func(s string) decimal.Decimal { return decimal.RequireFromString(s) }
	return NewCatalog(
		Paper{Name: "Standard White A4", Stock: 500, Price: price("4.99")},
		Paper{Name: "Premium Cardstock", Stock: 120, Price: price("12.50")},
		Paper{Name: "Recycled Multi-Use", Stock: 340, Price: price("3.75")},
		Paper{Name: "Glossy Photo Paper", Stock: 60, Price: price("19.99")},
		Paper{Name: "Legal Pad Yellow", Stock: 0, Discontinued: true, Price: price("2.45")},
	)
}

// List returns every paper ordered by id.
func (c *Catalog) List() []Paper {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Paper, 0, len(c.papers))
	for _, p := range c.papers {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Get returns one paper by id.
func (c *Catalog) Get(id int) (Paper, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.papers[id]
	if !ok {
		return Paper{}, ErrNotFound
	}
	return p, nil
}

// Stocks returns the stock levels for the requested ids. Unknown ids are
// skipped; an empty result means none of the ids exist.
func (c *Catalog) Stocks(ids []int) []StockLevel {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]StockLevel, 0, len(ids))
	for _, id := range ids {
		if p, ok := c.papers[id]; ok {
			out = append(out, StockLevel{ID: p.ID, Stock: p.Stock})
		}
	}
	return out
}

// Create adds a new paper and assigns it an id.
func (c *Catalog) Create(name string, stock int, price decimal.Decimal) Paper {
	c.mu.Lock()
	defer c.mu.Unlock()
	p := Paper{ID: c.nextID, Name: name, Stock: stock, Price: price}
	c.nextID++
	c.papers[p.ID] = p
	return p
}

// Update rewrites name, stock and price of an existing paper.
func (c *Catalog) Update(id int, name string, stock int, price decimal.Decimal) (Paper, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.papers[id]
	if !ok {
		return Paper{}, ErrNotFound
	}
	p.Name = name
	p.Stock = stock
	p.Price = price
	c.papers[id] = p
	return p, nil
}

// SetDiscontinued flips the discontinued flag.
func (c *Catalog) SetDiscontinued(id int, discontinued bool) (Paper, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.papers[id]
	if !ok {
		return Paper{}, ErrNotFound
	}
	p.Discontinued = discontinued
	c.papers[id] = p
	return p, nil
}

// Delete removes a paper from the catalog.
func (c *Catalog) Delete(id int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.papers[id]; !ok {
		return ErrNotFound
	}
	delete(c.papers, id)
	return nil
}
