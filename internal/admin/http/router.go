package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/bioisac/admindesk/internal/admin/service"
	"github.com/bioisac/admindesk/internal/admin/store"
	"github.com/bioisac/admindesk/pkg/httpx"
	"github.com/bioisac/admindesk/pkg/slogx"

	_ "github.com/bioisac/admindesk/api/admindesk" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store               store.Store
	LoginFlow           *service.LoginFlow
	SessionManager      *service.SessionManager
	ContactService      *service.ContactService
	NotificationService *service.NotificationService

	// LoginLimit throttles login attempts per client IP and username.
	LoginLimit httpx.RateLimitConfig
}

func NewRouter(buildVersion string, st store.Store, logger *slog.Logger) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
		LoginLimit:   httpx.StrictLimit,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

// Use appends middleware to the global chain, after the request logger.
func (r *Router) Use(mws ...httpx.Middleware) {
	r.middlewares = append(r.middlewares, mws...)
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerContacts()
	r.registerEmail()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			BioIsac Admin Desk API
//	@version		0.1.0
//	@description	Single-administrator console for a contact directory and notification dispatch.
//	@description
//	@description				Sign-in is password plus TOTP. Successful logins return an opaque bearer token.
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Session token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// secured wraps h so it only runs for requests carrying a live session.
func (r *Router) secured(h http.HandlerFunc) http.Handler {
	return httpx.Chain(h,
		httpx.SessionAuth(r.SessionManager.CheckToken),
		httpx.RateLimitByUser(httpx.LenientLimit),
	)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{
		LoginFlow:      r.LoginFlow,
		SessionManager: r.SessionManager,
	}

	// POST /login - strict rate limit by IP + username to slow down guessing
	r.Mux.Handle("POST /api/auth/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIPAndJSONField(r.LoginLimit, "username"),
		),
	)

	r.Mux.Handle("GET /api/auth/verify", r.secured(h.HandleVerify))
	r.Mux.Handle("POST /api/auth/logout", r.secured(h.HandleLogout))
}

func (r *Router) registerContacts() {
	h := &ContactsHandler{ContactService: r.ContactService}

	r.Mux.Handle("GET /api/contacts", r.secured(h.HandleList))
	r.Mux.Handle("GET /api/contacts/categories", r.secured(h.HandleCategories))
	r.Mux.Handle("POST /api/contacts", r.secured(h.HandleCreate))
	r.Mux.Handle("PUT /api/contacts/{id}", r.secured(h.HandleUpdate))
	r.Mux.Handle("DELETE /api/contacts/{id}", r.secured(h.HandleDelete))
}

func (r *Router) registerEmail() {
	h := &EmailHandler{NotificationService: r.NotificationService}

	// POST /email/send - moderate rate limit by user (each call fans out)
	r.Mux.Handle("POST /api/email/send",
		httpx.Chain(http.HandlerFunc(h.HandleSend),
			httpx.SessionAuth(r.SessionManager.CheckToken),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerSystem() {
	h := &HealthHandler{Store: r.store, Version: r.buildVersion, Started: r.startTime}

	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(http.HandlerFunc(h.HandleLivez),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(http.HandlerFunc(h.HandleReadyz),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
