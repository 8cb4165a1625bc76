package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/vincejv/fpi-login-api/internal/login/service"
	"github.com/vincejv/fpi-login-api/internal/login/store"
	"github.com/vincejv/fpi-login-api/pkg/httpx"
	"github.com/vincejv/fpi-login-api/pkg/slogx"

	_ "github.com/vincejv/fpi-login-api/api/login" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	trustedKey   string
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store          store.Store
	TrustedService *service.TrustedLoginService
	LoginService   *service.LoginService
	UserService    *service.UserService
}

func NewRouter(trustedKey, buildVersion string, st store.Store, logger *slog.Logger) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		trustedKey:   trustedKey,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerLogin()
	r.registerUsers()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			FPI Login API
//	@version		0.1.0
//	@description	Identity reconciliation and login-session service. Trusted webhook relays assert end-user identities from messaging platforms; verified users receive sessions backed by the upstream authorization server.
//
//	@contact.name	vincejv
//	@contact.url	https://github.com/vincejv/fpi-login-api
//
//	@license.name	Apache 2.0
//	@license.url	https://www.apache.org/licenses/LICENSE-2.0
//
//	@host			localhost:8080
//	@BasePath		/
//
//	@schemes		http https
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerLogin() {
	trusted := &TrustedLoginHandler{TrustedService: r.TrustedService}

	// POST /fpi/login/trusted - preauthorized relays only, strict rate limit
	r.Mux.Handle("POST /fpi/login/trusted",
		httpx.Chain(trusted,
			TrustedKeyMiddleware(r.trustedKey),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// Keyed by IP plus the attempted username.
	login := &LoginHandler{LoginService: r.LoginService}
	r.Mux.Handle("POST /fpi/login",
		httpx.Chain(login,
			httpx.RateLimitByIPAndJSONField(httpx.StrictLimit, "username"),
		),
	)

	refresh := &RefreshHandler{LoginService: r.LoginService}
	r.Mux.Handle("POST /fpi/login/refresh",
		httpx.Chain(refresh,
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerUsers() {
	h := &UserHandler{UserService: r.UserService}

	r.Mux.Handle("GET /fpi/users/meta/{metaId}",
		httpx.Chain(http.HandlerFunc(h.GetByMetaID),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("GET /fpi/users/mobile/{mobileNo}",
		httpx.Chain(http.HandlerFunc(h.GetByMobile),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store))
}
