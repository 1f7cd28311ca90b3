// Package http exposes the url shortening service over HTTP.
package http

import (
	"context"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v2"
	"github.com/go-playground/validator/v10"
	"github.com/melihemreguler/urlshortener/internal/metrics"
	"github.com/melihemreguler/urlshortener/internal/models"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"
)

type URLService interface {
	CreateAndSave(ctx context.Context, longURL string) (string, error)
	Resolve(ctx context.Context, shortCode string) (string, error)
	List(ctx context.Context, page, size int) (*models.Page, error)
	Search(ctx context.Context, term string, page, size int) (*models.Page, error)
	Delete(ctx context.Context, id int64) error
}

func getValidate() *validator.Validate {
	validate := validator.New()

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return validate
}

func NewRouter(logger *httplog.Logger, urlSvc URLService) http.Handler {
	metrics.Register()

	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"POST", "GET", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Accept"},
		AllowCredentials: false,
		MaxAge:           84600,
	}))
	r.Use(middleware.AllowContentType("application/json"))
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(httplog.RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(collectMetrics)

	r.Get("/ping", handlePing)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/docs/swagger.yml"),
	))
	r.Get("/docs/swagger.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./docs/swagger.yml")
	})

	r.Route("/api/url", func(r chi.Router) {
		validate := getValidate()

		r.Post("/", handleCreateShortURL(urlSvc, validate))
		r.Get("/", handleListURLs(urlSvc))
		r.Delete("/{id}", handleDeleteShortURL(urlSvc))
	})

	r.Get("/{shortCode}", handleRedirect(urlSvc))

	return r
}
