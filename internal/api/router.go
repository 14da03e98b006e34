package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Jegadheeswaran/Rentify-backend/internal/api/handlers"
	"github.com/Jegadheeswaran/Rentify-backend/internal/auth"
	"github.com/Jegadheeswaran/Rentify-backend/internal/services"
)

// Tokens issues tokens at signup/signin and verifies them on protected routes.
type Tokens interface {
	auth.TokenVerifier
	handlers.TokenIssuer
}

// NewRouter creates and configures a new Chi router.
func NewRouter(
	tokens Tokens,
	allowedOrigins []string,
	userService services.UserServiceProvider,
	propertyService services.PropertyServiceProvider,
	eventService services.EventServiceProvider,
) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	// Initialize handlers
	userHandler := handlers.NewUserHandler(userService, tokens)
	propertyHandler := handlers.NewPropertyHandler(propertyService)
	eventHandler := handlers.NewEventHandler(eventService)

	// Public endpoints
	r.Post("/signup", userHandler.Signup)
	r.Post("/signin", userHandler.Signin)
	r.Get("/allproperties", propertyHandler.Search)

	// Everything below requires a bearer token
	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware(tokens))

		r.Post("/property", propertyHandler.Create)
		r.Get("/property/{id}", propertyHandler.GetOwner)
		r.Get("/properties", propertyHandler.GetMine)
		r.Put("/properties/{id}", propertyHandler.Update)
		r.Delete("/properties/{id}", propertyHandler.Delete)
		r.Get("/events", eventHandler.GetRecent)
	})

	return r
}
