package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/upb/casting-agency/app"
	"github.com/upb/casting-agency/handlers"
	"github.com/upb/casting-agency/middleware"
	"github.com/upb/casting-agency/utils"
)

// Permissions granted by the identity provider, one per protected route
const (
	PermGetMovies    = "get:movies"
	PermPostMovies   = "post:movies"
	PermPatchMovies  = "patch:movies"
	PermDeleteMovies = "delete:movies"
	PermGetActors    = "get:actors"
	PermPostActors   = "post:actors"
	PermPatchActors  = "patch:actors"
	PermDeleteActors = "delete:actors"
)

// SetupRoutes configures all application routes and middleware
func SetupRoutes(deps *app.Dependencies) http.Handler {
	r := chi.NewRouter()

	// Core middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(deps.Config.Server.RequestTimeout))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.Config.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: deps.Config.CORS.AllowCredentials,
		MaxAge:           deps.Config.CORS.MaxAge,
	}))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		_ = utils.WriteNotFound(w, "")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		_ = utils.WriteMethodNotAllowed(w)
	})

	health := handlers.NewHealthHandler(deps.DB, deps.KeyCache, deps.Logger)
	greeting := handlers.NewGreetingHandler(deps.Config.Excited)
	movies := handlers.NewMovieHandler(deps.MovieService, deps.Logger)
	actors := handlers.NewActorHandler(deps.ActorService, deps.Logger)
	guard := deps.AuthMiddleware.RequirePermission

	// Public endpoints
	r.Get("/", greeting.HandleGreeting)
	r.Get("/healthz", health.HandleHealth)
	r.Get("/readyz", health.HandleReadiness)

	r.Route("/movies", func(r chi.Router) {
		r.With(guard(PermGetMovies)).Get("/", movies.HandleList)
		r.With(guard(PermPostMovies)).Post("/", movies.HandleCreate)
		r.With(guard(PermPatchMovies)).Patch("/{id:[0-9]+}", movies.HandleUpdate)
		r.With(guard(PermDeleteMovies)).Delete("/{id:[0-9]+}", movies.HandleDelete)
	})

	r.Route("/actors", func(r chi.Router) {
		r.With(guard(PermGetActors)).Get("/", actors.HandleList)
		r.With(guard(PermPostActors)).Post("/", actors.HandleCreate)
		r.With(guard(PermPatchActors)).Patch("/{id:[0-9]+}", actors.HandleUpdate)
		r.With(guard(PermDeleteActors)).Delete("/{id:[0-9]+}", actors.HandleDelete)
	})

	return r
}
