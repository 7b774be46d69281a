package handler

import (
	"database/sql"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"mynotes/docs"
	"mynotes/internal/auth"
	"mynotes/internal/http/middleware"
	"mynotes/internal/service"
)

// Deps are the collaborators the HTTP layer is wired with.
type Deps struct {
	DB           *sql.DB
	Notes        service.NoteService
	Uploads      service.UploadService
	Events       EventProcessor
	Identity     auth.IdentityResolver
	WebhookToken string
	Gatherer     prometheus.Gatherer
	Log          *slog.Logger
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
//
// Identity is checked per route rather than with group middleware so that a
// wrong method on a known path is answered with 405 before authentication.
func RegisterRoutes(app *fiber.App, d Deps) {
	app.Get("/health", HealthCheck(d.DB))
	app.Get("/healthz", LivenessProbe())

	if d.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	authed := auth.RequireIdentity(d.Identity)

	app.Post("/notes", authed, CreateNote(d.Notes))
	app.Get("/notes", authed, ListNotes(d.Notes))
	app.Put("/notes/:id", authed, UpdateNote(d.Notes))
	app.Delete("/notes/:id", authed, DeleteNote(d.Notes))

	app.Post("/uploads", authed, IssueUpload(d.Uploads))
	app.Get("/uploads/:id", authed, IssueDownload(d.Uploads))

	// The webhook is only served behind a shared token.
	if d.Events != nil && d.WebhookToken != "" {
		app.Post("/events/storage", middleware.WebhookToken(d.WebhookToken), StorageEvents(d.Events, d.Log))
	}
}
