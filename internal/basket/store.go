package basket

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/NaylinHla/Dunder-Mifflin-Infinity/internal/storage"
)

// Storage keys for the persisted basket and its expiry timestamp.
const (
	dataKey   = "basket_data"
	expiryKey = "basket_expiry"
)

// Store persists baskets through a KV with a rolling time-based expiry.
// Every mutating operation persists its result as its final step.
type Store struct {
	kv      storage.KV
	ttl     time.Duration
	nowFunc func() time.Time
}

// NewStore returns a basket store with the given expiry window.
func NewStore(kv storage.KV, ttl time.Duration) *Store {
	return &Store{
		kv:      kv,
		ttl:     ttl,
		nowFunc: time.Now,
	}
}

// Load reads the persisted basket. An absent or expired basket clears both
// stored keys and loads as empty; a second Load after expiry is a no-op.
func (s *Store) Load(ctx context.Context) (Basket, error) {
	var saved Basket
	ok, err := storage.ReadJSON(ctx, s.kv, dataKey, &saved)
	if err != nil {
		return nil, err
	}

	expired, err := s.expired(ctx)
	if err != nil {
		return nil, err
	}
	if !ok || expired {
		return s.Clear(ctx)
	}
	return saved, nil
}

// Add merges item into b. An existing entry for the same product has its
// quantity incremented and its name overwritten; the stored price wins over
// the incoming one. New products are appended. The result is persisted.
func (s *Store) Add(ctx context.Context, b Basket, item Item) (Basket, error) {
	updated := make(Basket, 0, len(b)+1)
	merged := false
	for _, existing := range b {
		if existing.ProductID == item.ProductID {
			existing.Quantity += item.Quantity
			existing.Name = item.Name
			merged = true
		}
		updated = append(updated, existing)
	}
	if !merged {
		updated = append(updated, item)
	}

	if err := s.persist(ctx, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// UpdateQuantity replaces the quantity of productID in place, or appends a
// new item built from the given fields when the product is absent. The
// returned basket keeps zero/negative-quantity rows so callers can render a
// transient removal state; the persisted copy filters them out.
func (s *Store) UpdateQuantity(ctx context.Context, b Basket, productID, newQuantity int, price decimal.Decimal, name string) (Basket, error) {
	updated := make(Basket, 0, len(b)+1)
	found := false
	for _, existing := range b {
		if existing.ProductID == productID {
			existing.Quantity = newQuantity
			found = true
		}
		updated = append(updated, existing)
	}
	if !found {
		updated = append(updated, Item{ProductID: productID, Quantity: newQuantity, Price: price, Name: name})
	}

	persisted := make(Basket, 0, len(updated))
	for _, item := range updated {
		if item.Quantity > 0 {
			persisted = append(persisted, item)
		}
	}
	if err := s.persist(ctx, persisted); err != nil {
		return nil, err
	}
	return updated, nil
}

// Clear empties the basket and removes both storage keys.
func (s *Store) Clear(ctx context.Context) (Basket, error) {
	if err := s.kv.Del(ctx, dataKey, expiryKey); err != nil {
		return nil, err
	}
	return Basket{}, nil
}

// persist writes the basket with a fresh expiry when non-empty, and removes
// both keys when empty.
func (s *Store) persist(ctx context.Context, b Basket) error {
	if len(b) == 0 {
		return s.kv.Del(ctx, dataKey, expiryKey)
	}
	if err := storage.WriteJSON(ctx, s.kv, dataKey, b); err != nil {
		return err
	}
	expiry := s.nowFunc().Add(s.ttl).UnixMilli()
	return storage.WriteJSON(ctx, s.kv, expiryKey, expiry)
}

func (s *Store) expired(ctx context.Context) (bool, error) {
	var expiry int64
	ok, err := storage.ReadJSON(ctx, s.kv, expiryKey, &expiry)
	if err != nil {
		return false, err
	}
	if !ok {
		return true, nil
	}
	return s.nowFunc().UnixMilli() > expiry, nil
}
