package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"bitbucket.org/mmdatafocus/garments_backend/config"
	"bitbucket.org/mmdatafocus/garments_backend/middlewares"
	"bitbucket.org/mmdatafocus/garments_backend/models"
	"bitbucket.org/mmdatafocus/garments_backend/utils"
	"bitbucket.org/mmdatafocus/garments_backend/workflow"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const defaultPort = "8080"

var tracer = otel.Tracer("garments-distribution")

// Define a struct to represent the rate limiter.
type RateLimiter struct {
	client *redis.Client
	limit  int64
	window time.Duration
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func getRedisClient(redisAddress string) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: redisAddress,
	})
	return client
}

// respondError maps domain errors onto HTTP status codes.
func respondError(c *gin.Context, err error) {
	var stockErr *models.StockInsufficientError
	var manifestErr *models.ManifestConflictError

	switch {
	case errors.As(err, &stockErr):
		c.JSON(http.StatusConflict, gin.H{
			"error":     stockErr.Error(),
			"kind":      "stock_insufficient",
			"reference": stockErr.Reference,
			"color":     stockErr.Color,
			"size":      stockErr.Size,
			"requested": stockErr.Requested,
			"available": stockErr.Available,
		})
	case errors.As(err, &manifestErr):
		c.JSON(http.StatusConflict, gin.H{
			"error":    manifestErr.Error(),
			"kind":     "manifest_conflict",
			"romaneio": manifestErr.Code,
		})
	case errors.Is(err, utils.ErrorRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrOrderLocked),
		errors.Is(err, models.ErrNothingPicked),
		errors.Is(err, models.ErrPickedExceedsOrder),
		errors.Is(err, models.ErrNotAssortedItem),
		errors.Is(err, models.ErrEmptyDistribution),
		errors.Is(err, models.ErrOrderHasNoItems),
		errors.Is(err, models.ErrManifestCodeRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logger := config.GetLogger()
		config.LogError(logger, "server.go", c.FullPath(), "unhandled error", nil, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func bindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":  "validation failed",
				"fields": utils.ProcessValidationErrors(validationErrs),
			})
			return false
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}

func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return uuid.Nil, false
	}
	return id, true
}

/* auth */

func loginHandler() gin.HandlerFunc {
	type loginInput struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	return func(c *gin.Context) {
		var input loginInput
		if !bindJSON(c, &input) {
			return
		}
		token, user, err := models.Login(c.Request.Context(), input.Username, input.Password)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
	}
}

/* products */

func listProductsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.Query("limit"))
		offset, _ := strconv.Atoi(c.Query("offset"))
		filter := models.ProductFilter{
			Search:  c.Query("search"),
			LowOnly: c.Query("low_stock") == "true",
			Limit:   limit,
			Offset:  offset,
		}
		products, err := models.GetProducts(c.Request.Context(), filter)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, products)
	}
}

func getProductHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathUUID(c, "id")
		if !ok {
			return
		}
		product, err := models.GetProduct(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

func createProductHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewProduct
		if !bindJSON(c, &input) {
			return
		}
		product, err := models.CreateProduct(c.Request.Context(), &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, product)
	}
}

func updateProductHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathUUID(c, "id")
		if !ok {
			return
		}
		var input models.NewProduct
		if !bindJSON(c, &input) {
			return
		}
		product, err := models.UpdateProduct(c.Request.Context(), id, &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

func deleteProductHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathUUID(c, "id")
		if !ok {
			return
		}
		if err := models.DeleteProduct(c.Request.Context(), id); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

/* orders */

func listOrdersHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		limit, _ := strconv.Atoi(c.Query("limit"))
		offset, _ := strconv.Atoi(c.Query("offset"))
		filter := models.OrderFilter{
			ClientName: c.Query("client"),
			Status:     models.OrderStatus(c.Query("status")),
			Limit:      limit,
			Offset:     offset,
		}
		if v := c.Query("has_romaneio"); v != "" {
			has := v == "true"
			filter.HasRomaneio = &has
		}
		// reps only see their own orders
		if isAdmin, _ := utils.GetIsAdminFromContext(ctx); !isAdmin {
			filter.RepId, _ = utils.GetUserIdFromContext(ctx)
		} else if v := c.Query("rep_id"); v != "" {
			filter.RepId, _ = strconv.Atoi(v)
		}
		orders, err := models.GetOrders(ctx, filter)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

func getOrderHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathUUID(c, "id")
		if !ok {
			return
		}
		order, err := models.GetOrder(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

func createOrderHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		var input models.NewOrder
		if !bindJSON(c, &input) {
			return
		}
		// reps book orders under their own id
		if isAdmin, _ := utils.GetIsAdminFromContext(ctx); !isAdmin {
			input.RepId, _ = utils.GetUserIdFromContext(ctx)
			if user, err := models.GetUser(ctx, input.RepId); err == nil {
				input.RepName = user.Name
			}
		}
		order, err := models.CreateOrder(ctx, &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, order)
	}
}

func editOrderHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathUUID(c, "id")
		if !ok {
			return
		}
		var input models.NewOrder
		if !bindJSON(c, &input) {
			return
		}
		order, err := workflow.EditOrder(c.Request.Context(), id, &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

func deleteOrderHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathUUID(c, "id")
		if !ok {
			return
		}
		if err := models.DeleteOrder(c.Request.Context(), id); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func savePickingHandler() gin.HandlerFunc {
	type pickingInput struct {
		Items models.OrderItems `json:"items" binding:"required"`
	}
	return func(c *gin.Context) {
		id, ok := pathUUID(c, "id")
		if !ok {
			return
		}
		var input pickingInput
		if !bindJSON(c, &input) {
			return
		}
		order, err := workflow.SavePicking(c.Request.Context(), id, input.Items)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

func resolveAssortedHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathUUID(c, "id")
		if !ok {
			return
		}
		var input workflow.AssortedResolution
		if !bindJSON(c, &input) {
			return
		}
		order, err := workflow.ResolveAssorted(c.Request.Context(), id, &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

type manifestInput struct {
	Romaneio string `json:"romaneio" binding:"required"`
}

func finalizeOrderHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathUUID(c, "id")
		if !ok {
			return
		}
		var input manifestInput
		if !bindJSON(c, &input) {
			return
		}
		order, err := workflow.FinalizeCancelRemainder(c.Request.Context(), id, input.Romaneio)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

func partialDeliveryHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathUUID(c, "id")
		if !ok {
			return
		}
		var input manifestInput
		if !bindJSON(c, &input) {
			return
		}
		delivered, backlog, err := workflow.PartialDeliver(c.Request.Context(), id, input.Romaneio)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"delivered": delivered, "backlog": backlog})
	}
}

func setRomaneioHandler() gin.HandlerFunc {
	type romaneioInput struct {
		Romaneio string `json:"romaneio"`
	}
	return func(c *gin.Context) {
		id, ok := pathUUID(c, "id")
		if !ok {
			return
		}
		var input romaneioInput
		if !bindJSON(c, &input) {
			return
		}
		order, err := models.SetOrderManifest(c.Request.Context(), id, strings.TrimSpace(input.Romaneio))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

func setOrderStatusHandler() gin.HandlerFunc {
	type statusInput struct {
		Status models.OrderStatus `json:"status" binding:"required"`
	}
	return func(c *gin.Context) {
		id, ok := pathUUID(c, "id")
		if !ok {
			return
		}
		var input statusInput
		if !bindJSON(c, &input) {
			return
		}
		order, err := models.UpdateOrderStatus(c.Request.Context(), id, input.Status)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

/* clients */

func listClientsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		clients, err := models.GetClients(c.Request.Context(), c.Query("search"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, clients)
	}
}

func createClientHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewClient
		if !bindJSON(c, &input) {
			return
		}
		client, err := models.CreateClient(c.Request.Context(), &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, client)
	}
}

func getClientHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathUUID(c, "id")
		if !ok {
			return
		}
		client, err := models.GetClient(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, client)
	}
}

func updateClientHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathUUID(c, "id")
		if !ok {
			return
		}
		var input models.NewClient
		if !bindJSON(c, &input) {
			return
		}
		client, err := models.UpdateClient(c.Request.Context(), id, &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, client)
	}
}

func deleteClientHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathUUID(c, "id")
		if !ok {
			return
		}
		if err := models.DeleteClient(c.Request.Context(), id); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

/* rep prices */

func listRepPricesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		repId, err := strconv.Atoi(c.Param("repId"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid repId"})
			return
		}
		prices, err := models.GetRepPrices(c.Request.Context(), repId)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, prices)
	}
}

func upsertRepPriceHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewRepPrice
		if !bindJSON(c, &input) {
			return
		}
		price, err := models.UpsertRepPrice(c.Request.Context(), &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, price)
	}
}

func deleteRepPriceHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}
		if err := models.DeleteRepPrice(c.Request.Context(), id); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

/* users */

func listUsersHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		users, err := models.GetUsers(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, users)
	}
}

func createUserHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewUser
		if !bindJSON(c, &input) {
			return
		}
		user, err := models.CreateUser(c.Request.Context(), &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, user)
	}
}

func toggleUserActiveHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}
		user, err := models.ToggleUserActive(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

/* app config */

func getAppConfigHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		value, err := models.GetAppConfig(c.Request.Context(), c.Param("key"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"key": c.Param("key"), "value": value})
	}
}

func setAppConfigHandler() gin.HandlerFunc {
	type configInput struct {
		Value string `json:"value"`
	}
	return func(c *gin.Context) {
		var input configInput
		if !bindJSON(c, &input) {
			return
		}
		if err := models.SetAppConfig(c.Request.Context(), c.Param("key"), input.Value); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"key": c.Param("key"), "value": input.Value})
	}
}

func customNotFoundHandler(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
}

func main() {
	port := os.Getenv("API_PORT")
	if port == "" {
		// Cloud Run standard env var.
		port = os.Getenv("PORT")
	}
	if port == "" {
		port = defaultPort
	}

	logger := config.GetLogger()

	// Shutdown coordination.
	// Cloud Run sends SIGTERM on revision shutdown; handle it for graceful drain.
	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	// Start the HTTP server ASAP so Cloud Run considers the revision healthy.
	// Until DB/Redis are ready, we return 503 for app endpoints.
	r := gin.New()
	// Correlation IDs: generate once per request and attach to context.
	r.Use(func(c *gin.Context) {
		cid := c.GetHeader("x-correlation-id")
		if cid == "" {
			cid = uuid.NewString()
		}
		c.Request = c.Request.WithContext(utils.SetCorrelationIdInContext(c.Request.Context(), cid))
		c.Next()
	})
	// One server span per request; otelgorm hangs DB spans under it.
	r.Use(func(c *gin.Context) {
		spanName := c.Request.Method + " " + c.FullPath()
		ctx, span := tracer.Start(c.Request.Context(), spanName, trace.WithSpanKind(trace.SpanKindServer))
		defer span.End()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	})
	r.Use(func(c *gin.Context) {
		// Always allow Cloud Run startup probe.
		if c.Request.URL.Path == "/healthz" {
			c.Status(http.StatusNoContent)
			c.Abort()
			return
		}
		// Gate critical endpoints on dependency readiness.
		if config.GetDB() == nil || config.GetRedisDB() == nil {
			c.AbortWithStatus(http.StatusServiceUnavailable)
			return
		}
		c.Next()
	})

	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	corsConfig := cors.DefaultConfig()
	// Production-safe CORS:
	// - In production, require explicit allowlist via CORS_ALLOWED_ORIGINS (comma-separated).
	// - In non-production, allow all (developer convenience).
	allowedOrigins := strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGINS"))
	if strings.EqualFold(strings.TrimSpace(os.Getenv("GO_ENV")), "production") {
		if allowedOrigins == "" {
			// Safer default: deny all if not configured in production.
			corsConfig.AllowOrigins = []string{}
		} else {
			corsConfig.AllowOrigins = splitAndTrim(allowedOrigins)
		}
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AddAllowMethods("GET", "POST", "PUT", "DELETE", "OPTIONS")
	corsConfig.AddAllowHeaders("token", "Origin", "Content-Type", "Authorization")
	corsConfig.AddExposeHeaders("Content-Length")
	corsConfig.AllowCredentials = true

	r.Use(cors.New(corsConfig))

	// Optional rate limiting (recommended for production).
	// Env:
	// - RATE_LIMIT_ENABLED=true
	// - RATE_LIMIT_WINDOW_SECONDS=60
	// - RATE_LIMIT_MAX_REQUESTS=600
	if strings.EqualFold(strings.TrimSpace(os.Getenv("RATE_LIMIT_ENABLED")), "true") {
		client := getRedisClient(os.Getenv("REDIS_ADDRESS"))
		limit := int64(600)
		if v := strings.TrimSpace(os.Getenv("RATE_LIMIT_MAX_REQUESTS")); v != "" {
			if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
				limit = n
			}
		}
		windowSec := int64(60)
		if v := strings.TrimSpace(os.Getenv("RATE_LIMIT_WINDOW_SECONDS")); v != "" {
			if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
				windowSec = n
			}
		}
		rateLimiter := NewRateLimiter(client, limit, time.Duration(windowSec)*time.Second)
		r.Use(rateLimiter.RateLimitMiddleware)
	}

	r.Use(middlewares.AuthMiddleware())
	r.Use(customErrorLogger(logger))
	r.Use(gin.Recovery())

	r.POST("/login", loginHandler())

	api := r.Group("/api", middlewares.RequireAuth())
	{
		api.GET("/products", listProductsHandler())
		api.GET("/products/:id", getProductHandler())
		api.POST("/products", middlewares.RequireAdmin(), createProductHandler())
		api.PUT("/products/:id", middlewares.RequireAdmin(), updateProductHandler())
		api.DELETE("/products/:id", middlewares.RequireAdmin(), deleteProductHandler())

		api.GET("/orders", listOrdersHandler())
		api.GET("/orders/:id", getOrderHandler())
		api.POST("/orders", createOrderHandler())
		api.PUT("/orders/:id", middlewares.RequireAdmin(), editOrderHandler())
		api.DELETE("/orders/:id", middlewares.RequireAdmin(), deleteOrderHandler())
		api.POST("/orders/:id/picking", middlewares.RequireAdmin(), savePickingHandler())
		api.POST("/orders/:id/resolve-assorted", middlewares.RequireAdmin(), resolveAssortedHandler())
		api.POST("/orders/:id/finalize", middlewares.RequireAdmin(), finalizeOrderHandler())
		api.POST("/orders/:id/partial-delivery", middlewares.RequireAdmin(), partialDeliveryHandler())
		api.PUT("/orders/:id/romaneio", middlewares.RequireAdmin(), setRomaneioHandler())
		api.PUT("/orders/:id/status", middlewares.RequireAdmin(), setOrderStatusHandler())

		api.GET("/clients", listClientsHandler())
		api.GET("/clients/:id", getClientHandler())
		api.POST("/clients", createClientHandler())
		api.PUT("/clients/:id", updateClientHandler())
		api.DELETE("/clients/:id", middlewares.RequireAdmin(), deleteClientHandler())

		api.GET("/rep-prices/:repId", listRepPricesHandler())
		api.POST("/rep-prices", middlewares.RequireAdmin(), upsertRepPriceHandler())
		api.DELETE("/rep-prices/:id", middlewares.RequireAdmin(), deleteRepPriceHandler())

		api.GET("/config/:key", getAppConfigHandler())
		api.PUT("/config/:key", middlewares.RequireAdmin(), setAppConfigHandler())

		api.GET("/users", middlewares.RequireAdmin(), listUsersHandler())
		api.POST("/users", middlewares.RequireAdmin(), createUserHandler())
		api.POST("/users/:id/toggle-active", middlewares.RequireAdmin(), toggleUserActiveHandler())
	}

	r.NoRoute(customNotFoundHandler)

	// Start listening immediately (Cloud Run startup probe is TCP based).
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}
	serverErrCh := make(chan error, 1)
	go func() {
		// ListenAndServe returns http.ErrServerClosed on graceful shutdown.
		serverErrCh <- srv.ListenAndServe()
	}()

	// Connect dependencies after the port is open.
	config.ConnectDatabaseWithRetry()
	config.ConnectRedisWithRetry()

	// Now DB is ready; run migrations.
	db := config.GetDB()
	sqlDB, _ := db.DB()
	defer func() {
		if sqlDB != nil {
			_ = sqlDB.Close()
		}
	}()
	// IMPORTANT: AutoMigrate can run DDL that blocks tables and causes 504/502 timeouts.
	// Allow disabling migrations on startup (run them as a separate job instead).
	if config.AutoMigrateOnBoot() {
		models.MigrateTable()
	} else {
		logger.WithFields(logrus.Fields{"field": "migrations"}).Warn("DB_AUTO_MIGRATE not set; skipping AutoMigrate on startup")
	}

	// Set the session isolation level to READ COMMITTED
	for attempt := 1; ; attempt++ {
		err := db.Exec("SET SESSION TRANSACTION ISOLATION LEVEL READ COMMITTED").Error
		if err == nil {
			break
		}
		sleep := time.Second * time.Duration(1<<min(attempt, 5))
		if sleep > 30*time.Second {
			sleep = 30 * time.Second
		}
		logger.WithFields(logrus.Fields{
			"field":   "database",
			"attempt": attempt,
		}).Warn("failed to set isolation level; retrying in " + sleep.String() + ": " + err.Error())
		time.Sleep(sleep)
	}

	log.Println("Server started successfully on port " + port)

	// Block until shutdown or server error.
	select {
	case <-sigCtx.Done():
		// graceful shutdown below
	case err := <-serverErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithFields(logrus.Fields{"field": "http"}).Error("server stopped unexpectedly: " + err.Error())
		}
	}

	// Drain HTTP requests.
	shutdownTimeout := 30 * time.Second
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithFields(logrus.Fields{"field": "http"}).Error("graceful shutdown failed: " + err.Error())
	}

	// Close Redis (best-effort).
	if rdb := config.GetRedisDB(); rdb != nil {
		_ = rdb.Close()
	}
}

// customErrorLogger is a custom Gin middleware that logs only errors
func customErrorLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		// Only log when there are errors
		if len(c.Errors) > 0 {
			logger.Error(c.Errors.String())
		}
	}
}

// Initialize a new RateLimiter instance.
func NewRateLimiter(client *redis.Client, limit int64, window time.Duration) *RateLimiter {
	return &RateLimiter{
		client: client,
		limit:  limit,
		window: window,
	}
}

// Middleware function to check rate limits.
func (rl *RateLimiter) RateLimitMiddleware(c *gin.Context) {
	// Get the IP address or user identifier from the request.
	key := c.ClientIP() // Assuming IP-based rate limiting

	// Check if the key exists in Redis.
	exists, err := rl.client.Exists(c.Request.Context(), key).Result()
	if err != nil {
		c.AbortWithError(http.StatusInternalServerError, err)
		return
	}

	// If the key doesn't exist, create it and set expiry.
	if exists == 0 {
		err := rl.client.Set(c.Request.Context(), key, 1, rl.window).Err()
		if err != nil {
			c.AbortWithError(http.StatusInternalServerError, err)
			return
		}
		c.Next()
		return
	}

	// If the key exists, get the current count.
	count, err := rl.client.Incr(c.Request.Context(), key).Result()
	if err != nil {
		c.AbortWithError(http.StatusInternalServerError, err)
		return
	}

	// If the count exceeds the limit, return an error response.
	if count > rl.limit {
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"error": fmt.Sprintf("Rate limit exceeded. Try again in %d seconds", int(rl.window.Seconds())),
		})
		return
	}

	c.Next()
}

func splitAndTrim(csv string) []string {
	if strings.TrimSpace(csv) == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
