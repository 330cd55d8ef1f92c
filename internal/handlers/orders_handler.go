package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/NaylinHla/Dunder-Mifflin-Infinity/internal/aws"
	"github.com/NaylinHla/Dunder-Mifflin-Infinity/internal/customers"
	"github.com/NaylinHla/Dunder-Mifflin-Infinity/internal/orders"
	"github.com/NaylinHla/Dunder-Mifflin-Infinity/internal/papers"
	"github.com/NaylinHla/Dunder-Mifflin-Infinity/internal/session"
	"github.com/NaylinHla/Dunder-Mifflin-Infinity/internal/validation"
)

// OrderAPIConfig groups dependencies for the order API handlers.
type OrderAPIConfig struct {
	DynamoDBClient aws.DynamoDBAPI
	SQSClient      aws.SQSAPI
	Metrics        *aws.Metrics
	OrdersTable    string
	CustomersTable string
	QueueURL       string
	JWTSecret      []byte
	Catalog        *papers.Catalog
	Logger         zerolog.Logger
}

// RegisterOrderAPIRoutes registers the order, customer and paper routes.
func RegisterOrderAPIRoutes(r *gin.Engine, cfg OrderAPIConfig) {
	v := validation.New()
	ordersStore := orders.NewStore(cfg.DynamoDBClient, cfg.OrdersTable)
	customersStore := customers.NewStore(cfg.DynamoDBClient, cfg.CustomersTable)
	publisher := aws.NewPublisher(cfg.SQSClient, cfg.QueueURL)

	r.POST("/orders", func(c *gin.Context) {
		ctx := c.Request.Context()

		var req validation.PlaceOrderRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			// BindAndValidate already wrote a 400
			return
		}

		orderID := uuid.NewString()
		status := req.Status
		if status == "" {
			status = orders.StatusPending
		}

		entries := make([]orders.Entry, 0, len(req.Entries))
		for _, e := range req.Entries {
			entries = append(entries, orders.Entry{ProductID: e.ProductID, Quantity: e.Quantity})
		}

		order := orders.Order{
			OrderID:       orderID,
			CustomerEmail: req.Customer.Email,
			OrderDate:     req.OrderDate,
			DeliveryDate:  req.DeliveryDate,
			Status:        status,
			TotalAmount:   req.TotalAmount.String(),
			Entries:       entries,
		}

		existing, err := customersStore.Get(ctx, req.Customer.Email)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "customer_lookup_failed", "detail": err.Error()})
			return
		}

		if existing != nil {
			err = ordersStore.Create(ctx, order)
		} else {
			// first order from this email registers the customer atomically
			rec := customers.Record{
				Email:   req.Customer.Email,
				Name:    req.Customer.Name,
				Address: req.Customer.Address,
				Phone:   req.Customer.Phone,
			}
			err = ordersStore.CreateWithCustomerTransaction(ctx, cfg.CustomersTable, rec, order)
		}
		if err != nil {
			if errors.Is(err, orders.ErrEmailTaken) {
				c.JSON(http.StatusConflict, gin.H{"error": "duplicate_email"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "order_create_failed", "detail": err.Error()})
			return
		}

		// enqueue is best effort; the order is already durable
		msg := aws.OrderPlacedMessage{
			OrderID:       orderID,
			CustomerEmail: req.Customer.Email,
			CorrelationID: c.GetHeader("X-Request-Id"),
		}
		if err := publisher.PublishOrderPlaced(ctx, msg, map[string]string{"order_id": orderID}); err != nil {
			cfg.Logger.Warn().Err(err).Str("order_id", orderID).Msg("order placed but enqueue failed")
		}
		if cfg.Metrics != nil {
			if err := cfg.Metrics.Count(ctx, aws.MetricOrdersPlaced, 1); err != nil {
				cfg.Logger.Warn().Err(err).Msg("metric emit failed")
			}
		}

		c.Header("Location", fmt.Sprintf("/orders/%s", orderID))
		c.JSON(http.StatusCreated, gin.H{
			"order_id":      orderID,
			"status":        status,
			"delivery_date": order.DeliveryDate,
			"total_amount":  order.TotalAmount,
		})
	})

	r.GET("/orders/:id", func(c *gin.Context) {
		ctx := c.Request.Context()
		o, err := ordersStore.Get(ctx, c.Param("id"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "order_lookup_failed", "detail": err.Error()})
			return
		}
		if o == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "order_not_found"})
			return
		}
		c.JSON(http.StatusOK, o)
	})

	r.POST("/orders/:id/cancel", func(c *gin.Context) {
		ctx := c.Request.Context()
		err := ordersStore.Cancel(ctx, c.Param("id"))
		if err != nil {
			if errors.Is(err, orders.ErrStatusMismatch) {
				c.JSON(http.StatusConflict, gin.H{"error": "order_not_pending"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "order_cancel_failed", "detail": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"order_id": c.Param("id"), "status": orders.StatusCancelled})
	})

	r.POST("/customers", func(c *gin.Context) {
		ctx := c.Request.Context()
		var req validation.RegisterCustomerRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}
		created, err := customersStore.CreateIfNotExists(ctx, customers.Record{
			Email:   req.Email,
			Name:    req.Name,
			Address: req.Address,
			Phone:   req.Phone,
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "customer_create_failed", "detail": err.Error()})
			return
		}
		if !created {
			c.JSON(http.StatusConflict, gin.H{"error": "duplicate_email"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"email": req.Email})
	})

	r.GET("/customers/:email", func(c *gin.Context) {
		ctx := c.Request.Context()
		rec, err := customersStore.Get(ctx, c.Param("email"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "customer_lookup_failed", "detail": err.Error()})
			return
		}
		if rec == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "customer_not_found"})
			return
		}
		c.JSON(http.StatusOK, rec)
	})

	r.PUT("/customers/:email", func(c *gin.Context) {
		ctx := c.Request.Context()
		var req validation.UpdateCustomerRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}
		err := customersStore.UpdateProfile(ctx, c.Param("email"), req.Name, req.Address, req.Phone)
		if err != nil {
			if errors.Is(err, customers.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "customer_not_found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "customer_update_failed", "detail": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"email": c.Param("email")})
	})

	registerPaperRoutes(r, cfg)
}

// registerPaperRoutes exposes the catalog. Reads are public; writes require
// an Admin bearer token.
func registerPaperRoutes(r *gin.Engine, cfg OrderAPIConfig) {
	catalog := cfg.Catalog
	if catalog == nil {
		catalog = papers.DefaultCatalog()
	}

	r.GET("/papers", func(c *gin.Context) {
		c.JSON(http.StatusOK, catalog.List())
	})

	r.GET("/papers/stocks", func(c *gin.Context) {
		raw := c.Query("productIds")
		if raw == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing_product_ids"})
			return
		}
		var ids []int
		for _, part := range strings.Split(raw, ",") {
			id, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_product_ids"})
				return
			}
			ids = append(ids, id)
		}
		levels := catalog.Stocks(ids)
		if len(levels) == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "no_stocks_found"})
			return
		}
		c.JSON(http.StatusOK, levels)
	})

	r.GET("/papers/:id", func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_paper_id"})
			return
		}
		p, err := catalog.Get(id)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "paper_not_found"})
			return
		}
		c.JSON(http.StatusOK, p)
	})

	admin := r.Group("/", requireAdmin(cfg.JWTSecret))

	admin.POST("/papers", func(c *gin.Context) {
		var req struct {
			Name  string `json:"name" binding:"required"`
			Stock int    `json:"stock"`
			Price string `json:"price" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request_body", "msg": err.Error()})
			return
		}
		price, err := parsePrice(req.Price)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_price"})
			return
		}
		c.JSON(http.StatusCreated, catalog.Create(req.Name, req.Stock, price))
	})

	admin.PUT("/papers/:id", func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_paper_id"})
			return
		}
		var req struct {
			Name  string `json:"name" binding:"required"`
			Stock int    `json:"stock"`
			Price string `json:"price" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request_body", "msg": err.Error()})
			return
		}
		price, err := parsePrice(req.Price)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_price"})
			return
		}
		p, err := catalog.Update(id, req.Name, req.Stock, price)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "paper_not_found"})
			return
		}
		c.JSON(http.StatusOK, p)
	})

	admin.PATCH("/papers/:id/discontinue", func(c *gin.Context) {
		setDiscontinued(c, catalog, true)
	})

	admin.PATCH("/papers/:id/continue", func(c *gin.Context) {
		setDiscontinued(c, catalog, false)
	})

	admin.DELETE("/papers/:id", func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_paper_id"})
			return
		}
		if err := catalog.Delete(id); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "paper_not_found"})
			return
		}
		c.Status(http.StatusOK)
	})
}

func setDiscontinued(c *gin.Context, catalog *papers.Catalog, discontinued bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_paper_id"})
		return
	}
	p, err := catalog.SetDiscontinued(id, discontinued)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "paper_not_found"})
		return
	}
	c.JSON(http.StatusOK, p)
}

func parsePrice(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, err
	}
	if d.IsNegative() {
		return decimal.Decimal{}, errors.New("negative price")
	}
	return d, nil
}

// requireAdmin verifies a Bearer token signed by the session signing key and
// carrying the Admin role.
func requireAdmin(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing_bearer_token"})
			return
		}
		claims, err := session.ParseToken(strings.TrimPrefix(auth, "Bearer "), secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token"})
			return
		}
		if claims.Role != "Admin" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin_only"})
			return
		}
		c.Next()
	}
}
