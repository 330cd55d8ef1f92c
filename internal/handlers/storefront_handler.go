package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/NaylinHla/Dunder-Mifflin-Infinity/internal/basket"
	"github.com/NaylinHla/Dunder-Mifflin-Infinity/internal/checkout"
	"github.com/NaylinHla/Dunder-Mifflin-Infinity/internal/profile"
	"github.com/NaylinHla/Dunder-Mifflin-Infinity/internal/session"
	"github.com/NaylinHla/Dunder-Mifflin-Infinity/internal/shipping"
	"github.com/NaylinHla/Dunder-Mifflin-Infinity/internal/storage"
	"github.com/NaylinHla/Dunder-Mifflin-Infinity/internal/validation"
)

// Authenticator verifies credentials and returns the role carried by the
// session token. It is the authoritative source of authorization.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (role string, err error)
}

// StaticAuthenticator accepts any credentials and derives the role from the
// admin allow-list. It stands in until a real identity provider is wired.
type StaticAuthenticator struct{}

func (StaticAuthenticator) Authenticate(ctx context.Context, email, password string) (string, error) {
	if session.IsAdmin(email) {
		return "Admin", nil
	}
	return "Customer", nil
}

// StorefrontConfig groups dependencies for the storefront handlers.
type StorefrontConfig struct {
	KV                   storage.KV
	Placer               checkout.OrderPlacer
	Shipping             shipping.Catalog
	Auth                 Authenticator
	SessionTTL           time.Duration
	SessionCheckInterval time.Duration
	BasketTTL            time.Duration
	JWTSecret            []byte
	Logger               zerolog.Logger
}

// visitor bundles the per-visitor stores. Each visitor id gets its own
// namespaced slice of the shared key-value backend.
type visitor struct {
	baskets  *basket.Store
	sessions *session.Manager
	profiles *profile.Store
	flow     *checkout.Flow
}

// Storefront serves the browser-facing API: session, basket, profile and the
// checkout wizard, all keyed by the X-Visitor-ID header.
type Storefront struct {
	cfg      StorefrontConfig
	mu       sync.Mutex
	visitors map[string]*visitor
}

// NewStorefront builds the storefront over the given dependencies.
func NewStorefront(cfg StorefrontConfig) *Storefront {
	if cfg.Auth == nil {
		cfg.Auth = StaticAuthenticator{}
	}
	if cfg.Shipping == nil {
		cfg.Shipping = shipping.NewStaticCatalog()
	}
	return &Storefront{
		cfg:      cfg,
		visitors: map[string]*visitor{},
	}
}

// Close stops every visitor's session watchdog.
func (s *Storefront) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range s.visitors {
		v.sessions.Close()
	}
}

// visitorFor returns the stores for the given id, creating them on first use.
func (s *Storefront) visitorFor(ctx context.Context, id string) *visitor {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.visitors[id]; ok {
		return v
	}

	ns := storage.WithPrefix(s.cfg.KV, "visitor:"+id)
	v := &visitor{
		baskets:  basket.NewStore(ns, s.cfg.BasketTTL),
		sessions: session.NewManager(ns, s.cfg.SessionTTL, s.cfg.SessionCheckInterval, s.cfg.JWTSecret, s.cfg.Logger),
		profiles: profile.NewStore(),
	}
	v.sessions.OnSessionEnd(v.profiles.SessionEndHook())

	state, err := v.sessions.RestoreOnStartup(ctx)
	if err != nil {
		s.cfg.Logger.Warn().Err(err).Str("visitor", id).Msg("session restore failed")
		state = session.Anonymous
	}
	if state.IsLoggedIn {
		v.profiles.Update(func(c *profile.Customer) { c.Email = state.Email })
	}

	v.flow = checkout.NewFlow(v.baskets, v.sessions, v.profiles, s.cfg.Placer, state.IsLoggedIn)
	v.sessions.OnSessionEnd(func(ctx context.Context) { v.flow.SyncAuth(false) })

	s.visitors[id] = v
	return v
}

// RegisterStorefrontRoutes mounts the storefront API on the router.
func RegisterStorefrontRoutes(r *gin.Engine, cfg StorefrontConfig) *Storefront {
	s := NewStorefront(cfg)
	v10 := validation.New()

	// every storefront route resolves (or mints) a visitor id first
	sf := r.Group("/", func(c *gin.Context) {
		id := c.GetHeader("X-Visitor-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Header("X-Visitor-ID", id)
		c.Set("visitor", s.visitorFor(c.Request.Context(), id))
		c.Next()
	})

	vis := func(c *gin.Context) *visitor {
		return c.MustGet("visitor").(*visitor)
	}

	sf.GET("/session", func(c *gin.Context) {
		v := vis(c)
		state, err := v.sessions.RestoreOnStartup(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "session_restore_failed", "detail": err.Error()})
			return
		}
		v.flow.SyncAuth(state.IsLoggedIn)
		c.JSON(http.StatusOK, state)
	})

	sf.POST("/session/login", func(c *gin.Context) {
		ctx := c.Request.Context()
		v := vis(c)

		var req validation.LoginRequest
		if err := validation.BindAndValidate(c, &req, v10); err != nil {
			return
		}
		role, err := s.cfg.Auth.Authenticate(ctx, req.Email, req.Password)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_credentials"})
			return
		}
		state, err := v.sessions.Login(ctx, req.Email, role)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "login_failed", "detail": err.Error()})
			return
		}
		v.profiles.Update(func(p *profile.Customer) { p.Email = req.Email })
		v.flow.SyncAuth(true)
		c.JSON(http.StatusOK, gin.H{
			"email":      state.Email,
			"isLoggedIn": state.IsLoggedIn,
			"role":       role,
			"isAdmin":    session.IsAdmin(state.Email),
		})
	})

	sf.POST("/session/logout", func(c *gin.Context) {
		v := vis(c)
		if err := v.flow.Logout(c.Request.Context()); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "logout_failed", "detail": err.Error()})
			return
		}
		c.JSON(http.StatusOK, session.Anonymous)
	})

	sf.GET("/basket", func(c *gin.Context) {
		v := vis(c)
		b, err := v.baskets.Load(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "basket_load_failed", "detail": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": b, "total": basket.Total(b)})
	})

	sf.POST("/basket/items", func(c *gin.Context) {
		ctx := c.Request.Context()
		v := vis(c)

		var req validation.AddItemRequest
		if err := validation.BindAndValidate(c, &req, v10); err != nil {
			return
		}
		b, err := v.baskets.Load(ctx)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "basket_load_failed", "detail": err.Error()})
			return
		}
		b, err = v.baskets.Add(ctx, b, basket.Item{
			ProductID: req.ProductID,
			Quantity:  req.Quantity,
			Price:     req.Price,
			Name:      req.Name,
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "basket_update_failed", "detail": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": b, "total": basket.Total(b)})
	})

	sf.PUT("/basket/items/:productId", func(c *gin.Context) {
		ctx := c.Request.Context()
		v := vis(c)

		productID, err := strconv.Atoi(c.Param("productId"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_product_id"})
			return
		}
		// quantity zero is legal here; the row disappears on the next reload
		var req struct {
			Quantity int             `json:"quantity"`
			Price    decimal.Decimal `json:"price"`
			Name     string          `json:"name"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request_body", "msg": err.Error()})
			return
		}
		if err := v10.Struct(validation.UpdateQuantityRequest{ProductID: productID, Quantity: req.Quantity}); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "validation_failed"})
			return
		}

		b, err := v.baskets.Load(ctx)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "basket_load_failed", "detail": err.Error()})
			return
		}
		b, err = v.baskets.UpdateQuantity(ctx, b, productID, req.Quantity, req.Price, req.Name)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "basket_update_failed", "detail": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": b, "total": basket.Total(b)})
	})

	sf.DELETE("/basket", func(c *gin.Context) {
		v := vis(c)
		b, err := v.baskets.Clear(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "basket_clear_failed", "detail": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": b, "total": basket.Total(b)})
	})

	sf.GET("/shipping/options", func(c *gin.Context) {
		options, err := s.cfg.Shipping.Options(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "shipping_options_failed", "detail": err.Error()})
			return
		}
		c.JSON(http.StatusOK, options)
	})

	registerCheckoutRoutes(sf, s, v10, vis)
	return s
}

func registerCheckoutRoutes(sf *gin.RouterGroup, s *Storefront, v10 *validatorv10.Validate, vis func(*gin.Context) *visitor) {
	sf.GET("/checkout", func(c *gin.Context) {
		v := vis(c)
		subtotal, shippingCost, total, err := v.flow.Totals(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "totals_failed", "detail": err.Error()})
			return
		}
		resp := gin.H{
			"step":        int(v.flow.Step()),
			"stepName":    v.flow.Step().String(),
			"fieldErrors": v.flow.FieldErrors(),
			"subtotal":    subtotal,
			"shipping":    shippingCost,
			"total":       total,
		}
		if option, ok := v.flow.SelectedShipping(); ok {
			resp["shippingOption"] = option
		}
		if conf := v.flow.Confirmation(); conf != nil {
			resp["confirmation"] = conf
		}
		c.JSON(http.StatusOK, resp)
	})

	sf.POST("/checkout/next", func(c *gin.Context) {
		v := vis(c)
		if err := v.flow.Next(c.Request.Context()); err != nil {
			switch {
			case errors.Is(err, checkout.ErrValidation):
				c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "validation_failed", "fields": v.flow.FieldErrors()})
			case errors.Is(err, checkout.ErrConflict):
				c.JSON(http.StatusConflict, gin.H{"error": "duplicate_email"})
			default:
				c.JSON(http.StatusBadGateway, gin.H{"error": "submit_failed", "detail": err.Error()})
			}
			return
		}
		c.JSON(http.StatusOK, gin.H{"step": int(v.flow.Step()), "stepName": v.flow.Step().String()})
	})

	sf.POST("/checkout/back", func(c *gin.Context) {
		v := vis(c)
		v.flow.Back()
		c.JSON(http.StatusOK, gin.H{"step": int(v.flow.Step()), "stepName": v.flow.Step().String()})
	})

	sf.POST("/checkout/password", func(c *gin.Context) {
		v := vis(c)
		var req struct {
			Password string `json:"password"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request_body", "msg": err.Error()})
			return
		}
		v.flow.SetPassword(req.Password)
		c.Status(http.StatusNoContent)
	})

	sf.POST("/checkout/payment", func(c *gin.Context) {
		v := vis(c)
		var req validation.PaymentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request_body", "msg": err.Error()})
			return
		}
		if err := v10.Struct(req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "validation_failed"})
			return
		}
		v.flow.SetPayment(checkout.PaymentDetails{
			CardNumber:     req.CardNumber,
			ExpirationDate: req.ExpirationDate,
			CVV:            req.CVV,
		})
		c.Status(http.StatusNoContent)
	})

	sf.POST("/checkout/shipping", func(c *gin.Context) {
		ctx := c.Request.Context()
		v := vis(c)
		var req struct {
			OptionID string `json:"optionId"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request_body", "msg": err.Error()})
			return
		}
		options, err := s.cfg.Shipping.Options(ctx)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "shipping_options_failed", "detail": err.Error()})
			return
		}
		for _, option := range options {
			if option.ID == req.OptionID {
				v.flow.SelectShipping(option)
				c.JSON(http.StatusOK, option)
				return
			}
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "shipping_option_not_found"})
	})

	sf.PUT("/checkout/profile", func(c *gin.Context) {
		v := vis(c)
		var req struct {
			Name    string `json:"name"`
			Address string `json:"address"`
			Phone   string `json:"phone"`
			Email   string `json:"email"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request_body", "msg": err.Error()})
			return
		}
		v.profiles.Update(func(p *profile.Customer) {
			p.Name = req.Name
			p.Address = req.Address
			p.Phone = req.Phone
			if req.Email != "" {
				p.Email = req.Email
			}
		})
		c.JSON(http.StatusOK, v.profiles.Get())
	})
}
