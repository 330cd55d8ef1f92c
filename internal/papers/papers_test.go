package papers

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestCatalog_CreateAssignsSequentialIDs(t *testing.T) {
	c := NewCatalog()
	a := c.Create("A4", 10, decimal.NewFromInt(5))
	b := c.Create("A3", 5, decimal.NewFromInt(8))
	if a.ID != 1 || b.ID != 2 {
		t.Fatalf("expected ids 1 and 2, got %d and %d", a.ID, b.ID)
	}
}

func TestCatalog_SeedKeepsExplicitIDs(t *testing.T) {
	c := NewCatalog(Paper{ID: 7, Name: "Cardstock"})
	p := c.Create("Next", 1, decimal.NewFromInt(1))
	if p.ID != 8 {
		t.Fatalf("expected id after seeded max, got %d", p.ID)
	}
}

func TestCatalog_ListOrderedByID(t *testing.T) {
	c := NewCatalog(
		Paper{ID: 3, Name: "C"},
		Paper{ID: 1, Name: "A"},
		Paper{ID: 2, Name: "B"},
	)
	got := c.List()
	if len(got) != 3 {
		t.Fatalf("expected 3 papers, got %d", len(got))
	}
	for i, want := range []int{1, 2, 3} {
		if got[i].ID != want {
			t.Fatalf("position %d: expected id %d, got %d", i, want, got[i].ID)
		}
	}
}

func TestCatalog_StocksSkipsUnknownIDs(t *testing.T) {
	c := NewCatalog(
		Paper{ID: 1, Stock: 10},
		Paper{ID: 2, Stock: 0},
	)
	got := c.Stocks([]int{2, 99, 1})
	if len(got) != 2 {
		t.Fatalf("expected 2 stock rows, got %d", len(got))
	}
	if got[0].ID != 2 || got[0].Stock != 0 {
		t.Fatalf("unexpected first row: %+v", got[0])
	}
	if empty := c.Stocks([]int{42}); len(empty) != 0 {
		t.Fatalf("expected no rows for unknown ids, got %+v", empty)
	}
}

func TestCatalog_UpdateAndDiscontinue(t *testing.T) {
	c := NewCatalog(Paper{ID: 1, Name: "Old", Stock: 5, Price: decimal.NewFromInt(2)})

	p, err := c.Update(1, "New", 9, decimal.NewFromInt(3))
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if p.Name != "New" || p.Stock != 9 {
		t.Fatalf("update not applied: %+v", p)
	}

	p, err = c.SetDiscontinued(1, true)
	if err != nil || !p.Discontinued {
		t.Fatalf("expected discontinued, got %+v err=%v", p, err)
	}

	if _, err := c.Update(42, "X", 0, decimal.Zero); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCatalog_Delete(t *testing.T) {
	c := NewCatalog(Paper{ID: 1, Name: "A4"})
	if err := c.Delete(1); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if err := c.Delete(1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}
