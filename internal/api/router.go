// Package api wires the HTTP surface: JSON handlers, routing, and the
// operational endpoints.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mhofer/pizzapool/internal/auth"
	"github.com/mhofer/pizzapool/internal/middleware"
	"github.com/mhofer/pizzapool/internal/service"
)

// NewRouter builds the full route tree. Order routes require a valid bearer
// token; auth and operational routes do not.
func NewRouter(authService *service.AuthService, orderService *service.OrderService, jwtManager *auth.JWTManager) http.Handler {
	authHandler := NewAuthHandler(authService)
	orderHandler := NewOrderHandler(orderService)

	r := chi.NewRouter()
	r.Use(middleware.Logging)
	r.Use(middleware.Metrics)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Use(middleware.RequireAuth(jwtManager))

			r.Post("/", orderHandler.Create)
			r.Route("/{orderID}", func(r chi.Router) {
				r.Get("/", orderHandler.Get)
				r.Post("/participants", orderHandler.Join)
				r.Post("/meals", orderHandler.AddMeal)
				r.Delete("/meals/{mealID}", orderHandler.RemoveMeal)
				r.Put("/payment", orderHandler.RecordPayment)
				r.Put("/ready", orderHandler.MarkReady)
				r.Post("/status", orderHandler.AdvanceStatus)
				r.Get("/summary", orderHandler.Summary)
			})
		})
	})

	return r
}
