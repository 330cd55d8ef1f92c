package checkout

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/NaylinHla/Dunder-Mifflin-Infinity/internal/basket"
	"github.com/NaylinHla/Dunder-Mifflin-Infinity/internal/profile"
	"github.com/NaylinHla/Dunder-Mifflin-Infinity/internal/session"
	"github.com/NaylinHla/Dunder-Mifflin-Infinity/internal/shipping"
)

// Flow drives the five-step checkout wizard for one visitor. It owns only
// transient wizard state; baskets, session, and profile stay in their own
// stores and are read on demand.
type Flow struct {
	baskets  *basket.Store
	sessions *session.Manager
	profiles *profile.Store
	placer   OrderPlacer
	nowFunc  func() time.Time

	mu           sync.Mutex
	step         Step
	password     string
	payment      PaymentDetails
	selected     shipping.Option
	hasSelection bool
	fieldErrors  map[string]string
	confirmation *Confirmation
}

// NewFlow starts a wizard at the login step, or directly at shipping when
// the visitor is already logged in.
func NewFlow(baskets *basket.Store, sessions *session.Manager, profiles *profile.Store, placer OrderPlacer, loggedIn bool) *Flow {
	f := &Flow{
		baskets:     baskets,
		sessions:    sessions,
		profiles:    profiles,
		placer:      placer,
		nowFunc:     time.Now,
		step:        StepLogin,
		fieldErrors: map[string]string{},
	}
	if loggedIn {
		f.step = StepShipping
	}
	return f
}

// Step returns the current wizard position.
func (f *Flow) Step() Step {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.step
}

// SyncAuth is the externally driven step override: a login-state change
// forces the wizard to shipping (logged in) or back to login (logged out),
// regardless of where it currently is.
func (f *Flow) SyncAuth(loggedIn bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.step == StepReceipt {
		return
	}
	if loggedIn {
		f.step = StepShipping
	} else {
		f.step = StepLogin
	}
}

// SetPassword records the never-persisted password field for step 1.
func (f *Flow) SetPassword(p string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.password = p
}

// SetPayment records the payment fields for step 3.
func (f *Flow) SetPayment(p PaymentDetails) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.payment = p
}

// SelectShipping picks an option from the catalog.
func (f *Flow) SelectShipping(o shipping.Option) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.selected = o
	f.hasSelection = true
}

// SelectedShipping returns the chosen option, if any.
func (f *Flow) SelectedShipping() (shipping.Option, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.selected, f.hasSelection
}

// FieldErrors returns the per-field messages from the last failed validation.
func (f *Flow) FieldErrors() map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]string, len(f.fieldErrors))
	for k, v := range f.fieldErrors {
		out[k] = v
	}
	return out
}

// Confirmation returns the receipt payload once the wizard is terminal.
func (f *Flow) Confirmation() *Confirmation {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.confirmation == nil {
		return nil
	}
	c := *f.confirmation
	return &c
}

// Next advances the wizard one step. Steps 1-3 are gated on their field
// validation; at the confirmation step the forward transition is the order
// submission itself. At the receipt step Next does nothing.
func (f *Flow) Next(ctx context.Context) error {
	f.mu.Lock()
	step := f.step
	f.mu.Unlock()

	switch step {
	case StepLogin, StepShipping, StepPayment:
		if !f.validate(step) {
			return ErrValidation
		}
		f.mu.Lock()
		f.step = step + 1
		f.mu.Unlock()
		return nil
	case StepConfirmation:
		return f.Submit(ctx)
	}
	return nil
}

// Back moves one step backwards without validation. Login and receipt have
// no previous step.
func (f *Flow) Back() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.step > StepLogin && f.step < StepReceipt {
		f.step--
	}
}

// Logout clears auth, profile, and the login form state. The wizard stays at
// the login step.
func (f *Flow) Logout(ctx context.Context) error {
	if _, err := f.sessions.Logout(ctx); err != nil {
		return err
	}
	f.mu.Lock()
	f.password = ""
	f.step = StepLogin
	f.mu.Unlock()
	return nil
}

// Totals recomputes the confirmation-step amounts from the current basket
// and shipping selection. Nothing here is cached: the basket and the
// selection may change while the wizard sits on earlier steps.
func (f *Flow) Totals(ctx context.Context) (subtotal, shippingCost, total decimal.Decimal, err error) {
	b, err := f.baskets.Load(ctx)
	if err != nil {
		return decimal.Zero, decimal.Zero, decimal.Zero, err
	}
	subtotal = basket.Total(b)

	option, ok := f.SelectedShipping()
	if ok {
		shippingCost = shipping.Cost(subtotal, option)
	}
	return subtotal, shippingCost, subtotal.Add(shippingCost), nil
}

// Submit sends the order to the collaborator. On success the wizard moves to
// the terminal receipt step carrying the server-assigned order id and
// delivery date, and the basket is cleared. On failure the wizard stays at
// the confirmation step and the error is surfaced to the caller.
func (f *Flow) Submit(ctx context.Context) error {
	f.mu.Lock()
	if f.step != StepConfirmation {
		step := f.step
		f.mu.Unlock()
		return fmt.Errorf("cannot submit from %s step", step)
	}
	option := f.selected
	hasSelection := f.hasSelection
	f.mu.Unlock()

	b, err := f.baskets.Load(ctx)
	if err != nil {
		return err
	}
	subtotal := basket.Total(b)
	total := subtotal
	if hasSelection {
		total = subtotal.Add(shipping.Cost(subtotal, option))
	}

	entries := make([]Entry, 0, len(b))
	for _, item := range b {
		entries = append(entries, Entry{ProductID: item.ProductID, Quantity: item.Quantity})
	}

	now := f.nowFunc()
	req := OrderRequest{
		Customer:     f.profiles.Get(),
		OrderDate:    now,
		DeliveryDate: now.AddDate(0, 0, option.DeliveryDays),
		Status:       "Pending",
		TotalAmount:  total,
		Entries:      entries,
	}

	confirmation, err := f.placer.PlaceOrder(ctx, req)
	if err != nil {
		return fmt.Errorf("place order: %w", err)
	}

	if _, err := f.baskets.Clear(ctx); err != nil {
		return err
	}

	f.mu.Lock()
	f.confirmation = &confirmation
	f.step = StepReceipt
	f.mu.Unlock()
	return nil
}

// validate runs the current step's required-field checks and records
// per-field messages.
func (f *Flow) validate(step Step) bool {
	customer := f.profiles.Get()

	f.mu.Lock()
	defer f.mu.Unlock()
	errs := map[string]string{}

	switch step {
	case StepLogin:
		if customer.Email == "" {
			errs["email"] = "Email is required"
		}
		if f.password == "" {
			errs["password"] = "Password is required"
		}
	case StepShipping:
		if customer.Name == "" {
			errs["name"] = "Name is required"
		}
		if customer.Address == "" {
			errs["address"] = "Address is required"
		}
		if customer.Phone == "" {
			errs["phoneNumber"] = "Phone number is required"
		}
	case StepPayment:
		if f.payment.CardNumber == "" {
			errs["cardNumber"] = "Card number is required"
		}
		if f.payment.ExpirationDate == "" {
			errs["expirationDate"] = "Expiration date is required"
		}
		if f.payment.CVV == "" {
			errs["cvv"] = "CVV is required"
		}
	}

	f.fieldErrors = errs
	return len(errs) == 0
}
