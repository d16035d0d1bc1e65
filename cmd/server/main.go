package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/csrf"
	"github.com/gorilla/sessions"
	"github.com/zeyadattiaa/TradeEngine/internal/checkout"
	"github.com/zeyadattiaa/TradeEngine/internal/config"
	"github.com/zeyadattiaa/TradeEngine/internal/handlers"
	"github.com/zeyadattiaa/TradeEngine/internal/store"
)

func main() {
	handlerOpts := &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, handlerOpts))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	db, err := store.NewStore(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize store", "error", err)
		os.Exit(1)
	}

	if err := db.Migrate("migrations"); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	sessionStore := sessions.NewCookieStore(cfg.SessionKey)
	sessionStore.Options.HttpOnly = true
	sessionStore.Options.Secure = cfg.CookieSecure
	sessionStore.Options.SameSite = http.SameSiteLaxMode
	sessionStore.Options.Path = "/"
	if cfg.CookieDomain != "" {
		sessionStore.Options.Domain = cfg.CookieDomain
	}

	templates := handlers.NewTemplateCache()
	if err := templates.Load("templates"); err != nil {
		slog.Error("Failed to load templates", "error", err)
		os.Exit(1)
	}

	checkoutSvc := &checkout.Service{Store: db}

	shopHandler := &handlers.ShopHandler{Store: db, Templates: templates, SessionStore: sessionStore}
	authHandler := &handlers.AuthHandler{Store: db, Templates: templates, SessionStore: sessionStore}
	cartHandler := &handlers.CartHandler{Store: db, Templates: templates, SessionStore: sessionStore}
	wishlistHandler := &handlers.WishlistHandler{Store: db, Templates: templates, SessionStore: sessionStore}
	checkoutHandler := &handlers.CheckoutHandler{Store: db, Checkout: checkoutSvc, Templates: templates, SessionStore: sessionStore}
	orderHandler := &handlers.OrderHandler{Store: db, Templates: templates, SessionStore: sessionStore}
	reviewHandler := &handlers.ReviewHandler{Store: db, SessionStore: sessionStore}
	adminHandler := &handlers.AdminHandler{Store: db, Templates: templates, SessionStore: sessionStore}
	apiHandler := &handlers.APIHandler{Store: db, Checkout: checkoutSvc, SessionStore: sessionStore}

	auth := func(next http.HandlerFunc) http.HandlerFunc {
		return handlers.RequireAuth(sessionStore, next)
	}
	admin := func(next http.HandlerFunc) http.HandlerFunc {
		return handlers.RequireAdmin(sessionStore, next)
	}

	// 1 request per second per IP on the abuse-prone POST endpoints.
	rateLimiter := handlers.NewRateLimiter(1 * time.Second)

	mux := http.NewServeMux()

	fileServer := http.FileServer(http.Dir("./static"))
	mux.Handle("/static/", http.StripPrefix("/static", fileServer))

	// Catalog
	mux.HandleFunc("GET /{$}", shopHandler.Index)
	mux.HandleFunc("GET /products/{id}", shopHandler.ProductDetail)
	mux.HandleFunc("GET /search", shopHandler.Search)

	// Accounts
	mux.HandleFunc("GET /register", authHandler.RegisterGet)
	mux.HandleFunc("POST /register", rateLimiter.Middleware(authHandler.RegisterPost))
	mux.HandleFunc("GET /login", authHandler.LoginGet)
	mux.HandleFunc("POST /login", rateLimiter.Middleware(authHandler.LoginPost))
	mux.HandleFunc("GET /logout", authHandler.Logout)

	// Cart
	mux.HandleFunc("GET /cart", auth(cartHandler.View))
	mux.HandleFunc("POST /cart/add/{id}", auth(cartHandler.Add))
	mux.HandleFunc("POST /cart/update", auth(cartHandler.UpdateQuantity))
	mux.HandleFunc("POST /cart/remove/{id}", auth(cartHandler.Remove))
	mux.HandleFunc("POST /cart/clear", auth(cartHandler.Clear))

	// Wishlist
	mux.HandleFunc("GET /wishlist", auth(wishlistHandler.View))
	mux.HandleFunc("POST /wishlist/add/{id}", auth(wishlistHandler.Add))
	mux.HandleFunc("POST /wishlist/remove/{id}", auth(wishlistHandler.Remove))
	mux.HandleFunc("POST /wishlist/move/{id}", auth(wishlistHandler.MoveToCart))
	mux.HandleFunc("POST /wishlist/clear", auth(wishlistHandler.Clear))

	// Checkout and orders
	mux.HandleFunc("GET /checkout", auth(checkoutHandler.Show))
	mux.HandleFunc("POST /checkout", auth(rateLimiter.Middleware(checkoutHandler.Submit)))
	mux.HandleFunc("GET /orders", auth(orderHandler.List))
	mux.HandleFunc("GET /orders/{id}", auth(orderHandler.Detail))

	// Reviews
	mux.HandleFunc("POST /products/{id}/reviews", auth(reviewHandler.Create))

	// Admin
	mux.HandleFunc("GET /admin", admin(adminHandler.Dashboard))
	mux.HandleFunc("GET /admin/products", admin(adminHandler.ListProducts))
	mux.HandleFunc("GET /admin/products/new", admin(adminHandler.NewProductForm))
	mux.HandleFunc("POST /admin/products", admin(adminHandler.CreateProduct))
	mux.HandleFunc("GET /admin/products/{id}/edit", admin(adminHandler.EditProductForm))
	mux.HandleFunc("POST /admin/products/{id}", admin(adminHandler.UpdateProduct))
	mux.HandleFunc("POST /admin/products/{id}/delete", admin(adminHandler.DeleteProduct))
	mux.HandleFunc("GET /admin/users", admin(adminHandler.ListUsers))
	mux.HandleFunc("POST /admin/users/{id}/delete", admin(adminHandler.DeleteUser))
	mux.HandleFunc("GET /admin/orders", admin(adminHandler.ListOrders))
	mux.HandleFunc("POST /admin/orders/{id}/status", admin(adminHandler.UpdateOrderStatus))

	CSRF := csrf.Protect(
		cfg.CSRFKey,
		csrf.Secure(cfg.CookieSecure),
		csrf.TrustedOrigins([]string{"localhost:" + cfg.Port, "127.0.0.1:" + cfg.Port, "localhost", "127.0.0.1"}),
	)

	// The JSON API sits outside the CSRF wrapper; its clients do not carry
	// the form token.
	apiMux := http.NewServeMux()
	apiMux.HandleFunc("POST /api/checkout/validate-address", apiHandler.ValidateAddress)
	apiMux.HandleFunc("GET /api/checkout/payment-methods", apiHandler.PaymentMethods)
	apiMux.HandleFunc("POST /api/checkout/process-payment", rateLimiter.Middleware(apiHandler.ProcessPayment))
	apiMux.HandleFunc("GET /api/checkout/order/{id}", apiHandler.Order)

	root := http.NewServeMux()
	root.Handle("/api/", apiMux)
	root.Handle("/", CSRF(mux))

	// Chain: Logger -> Security Headers -> CSRF'd mux + API
	handler := handlers.LoggingMiddleware(
		handlers.SecurityHeadersMiddleware(root),
	)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handler,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("Server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to listen and serve", "error", err)
			os.Exit(1)
		}
	}()

	<-stop

	slog.Info("Shutting down server gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server shutdown failed", "error", err)
		os.Exit(1)
	}

	slog.Info("Server exited gracefully.")
}
