package transport

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bruninhodeville-wq/atelie-vanda-araujo/internal/auth"
	"github.com/bruninhodeville-wq/atelie-vanda-araujo/internal/catalog"
	"github.com/bruninhodeville-wq/atelie-vanda-araujo/internal/customer"
	"github.com/bruninhodeville-wq/atelie-vanda-araujo/internal/handler"
	"github.com/bruninhodeville-wq/atelie-vanda-araujo/internal/order"
)

// NewRouter wires repositories, services and handlers onto the HTTP routes.
// Everything under /admin requires a signed-in session; /track is public.
func NewRouter(pool *pgxpool.Pool, sessions *handler.Sessions, mail handler.ResetMailer) *chi.Mux {
	customerSvc := customer.NewService(customer.NewRepository(pool))
	catalogSvc := catalog.NewService(catalog.NewRepository(pool))
	orderSvc := order.NewService(order.NewRepository(pool), catalogSvc, customerSvc)
	authSvc := auth.NewService(auth.NewRepository(pool))

	authHandler := handler.NewAuthHandler(authSvc, sessions, mail)
	customerHandler := handler.NewCustomerHandler(customerSvc, sessions)
	productHandler := handler.NewProductHandler(catalogSvc, sessions)
	orderHandler := handler.NewOrderHandler(orderSvc, sessions)
	trackingHandler := handler.NewTrackingHandler(orderSvc)
	flashHandler := handler.NewFlashHandler(sessions)

	r := chi.NewRouter()
	r.Use(handler.RequestLogger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	r.Post("/setup", authHandler.Setup)
	r.Post("/login", authHandler.Login)
	r.Post("/logout", authHandler.Logout)
	r.Post("/password/forgot", authHandler.ForgotPassword)
	r.Post("/password/validate", authHandler.ValidateCode)
	r.Post("/password/new", authHandler.NewPassword)

	// Flashes queue up across redirects (login errors included), so the
	// endpoint sits outside the admin gate.
	r.Get("/flashes", flashHandler.List)

	r.Get("/track/{customerID}", trackingHandler.Track)

	r.Route("/admin", func(r chi.Router) {
		r.Use(handler.RequireAdmin(sessions))

		r.Route("/customers", func(r chi.Router) {
			r.Get("/", customerHandler.List)
			r.Post("/", customerHandler.Create)
			r.Get("/{id}", customerHandler.Get)
			r.Put("/{id}", customerHandler.Update)
			r.Delete("/{id}", customerHandler.Delete)
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", productHandler.List)
			r.Post("/", productHandler.Create)
			r.Get("/{id}", productHandler.Get)
			r.Put("/{id}", productHandler.Update)
			r.Delete("/{id}", productHandler.Delete)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", orderHandler.List)
			r.Post("/", orderHandler.Create)
			r.Get("/{id}", orderHandler.Get)
			r.Delete("/{id}", orderHandler.Delete)
			r.Post("/{id}/items", orderHandler.ReplaceItems)
			r.Post("/{id}/settle", orderHandler.Settle)
			r.Post("/{id}/status", orderHandler.UpdateStatus)
			r.Post("/{id}/payments", orderHandler.AddPayment)
		})
	})

	return r
}
