package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/famlyapp/famly/internal/famly/service"
	"github.com/famlyapp/famly/internal/famly/store"
	"github.com/famlyapp/famly/pkg/httpx"
	"github.com/famlyapp/famly/pkg/jwtx"
	"github.com/famlyapp/famly/pkg/slogx"

	_ "github.com/famlyapp/famly/api" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	codec        *jwtx.Codec
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store      store.Store
	Accounts   *service.AccountService
	Membership *service.MembershipService
}

func NewRouter(
	codec *jwtx.Codec,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		codec:        codec,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerFamilies()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Famly API
//	@version		0.1.0
//	@description	Backend for the famly family-coordination app: accounts, family membership
//	@description	via shareable codes, and the client reconciliation snapshot.
//
//	@contact.name	Famly Team
//	@contact.url	https://github.com/famlyapp/famly
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host			localhost:3000
//	@BasePath		/
//
//	@schemes		http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT session token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	// Credential endpoints - strict rate limit by IP (brute force surface)
	r.Mux.Handle("POST /api/auth/register",
		httpx.Chain(&RegisterHandler{Accounts: r.Accounts},
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /api/auth/login",
		httpx.Chain(&LoginHandler{Accounts: r.Accounts},
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// The reconciliation fetch - lenient, the mobile client polls this
	r.Mux.Handle("GET /api/auth/me",
		httpx.Chain(&MeHandler{Membership: r.Membership},
			httpx.AuthnMiddleware(r.codec),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerFamilies() {
	// Membership mutations - moderate rate limit by user
	r.Mux.Handle("POST /api/families",
		httpx.Chain(&CreateFamilyHandler{Membership: r.Membership},
			httpx.AuthnMiddleware(r.codec),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("POST /api/families/join",
		httpx.Chain(&JoinFamilyHandler{Membership: r.Membership},
			httpx.AuthnMiddleware(r.codec),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("POST /api/families/{familyId}/leave",
		httpx.Chain(&LeaveFamilyHandler{Membership: r.Membership},
			httpx.AuthnMiddleware(r.codec),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("PATCH /api/families/{familyId}/members/{memberId}/role",
		httpx.Chain(&ChangeRoleHandler{Membership: r.Membership},
			httpx.AuthnMiddleware(r.codec),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("DELETE /api/families/{familyId}/members/{memberId}",
		httpx.Chain(&RemoveMemberHandler{Membership: r.Membership},
			httpx.AuthnMiddleware(r.codec),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)

	// Reads - lenient rate limit by user
	r.Mux.Handle("GET /api/families/validate/{code}",
		httpx.Chain(&ValidateCodeHandler{Membership: r.Membership},
			httpx.AuthnMiddleware(r.codec),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /api/families/{familyId}/members",
		httpx.Chain(&FamilyMembersHandler{Membership: r.Membership},
			httpx.AuthnMiddleware(r.codec),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
