package api

import (
	"context"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/coursehub/coursehub/api/middleware"
	"github.com/coursehub/coursehub/api/web"
	"github.com/coursehub/coursehub/core/auth"
	"github.com/coursehub/coursehub/core/course"
	"github.com/coursehub/coursehub/core/enrollment"
	"github.com/coursehub/coursehub/core/progress"
	"github.com/coursehub/coursehub/core/review"
	"github.com/coursehub/coursehub/core/stats"
	"github.com/coursehub/coursehub/core/user"
	"github.com/coursehub/coursehub/rate"
	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

type APIConfig struct {
	CorsOrigin       string
	Log              logrus.FieldLogger
	DB               *sqlx.DB
	Session          *scs.SessionManager
	LoginLimiter     *rate.Limiter
	Providers        map[string]auth.Provider
	LoginRedirectURL string
	SiteURL          string
}

type api struct {
	*mux.Router
	mw  []web.Middleware
	log logrus.FieldLogger
}

func APIMux(cfg APIConfig) http.Handler {
	a := &api{
		Router: mux.NewRouter(),
		log:    cfg.Log,
	}

	a.mw = append(a.mw, auth.LoadAndSave(cfg.Session))
	a.mw = append(a.mw, middleware.RequestID())
	a.mw = append(a.mw, middleware.Logger(cfg.Log))
	a.mw = append(a.mw, middleware.Errors(cfg.Log))
	a.mw = append(a.mw, middleware.Panics())

	if cfg.CorsOrigin != "" {
		a.mw = append(a.mw, middleware.Cors(cfg.CorsOrigin))

		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			w.WriteHeader(http.StatusNoContent)
			return nil
		}

		a.Handle(http.MethodOptions, "/{path:.*}", h)
	}

	authen := auth.Authenticate(cfg.Session)
	admin := auth.Admin(cfg.Session)
	viewer := auth.LoadClaims(cfg.Session)
	throttle := middleware.RateLimit(cfg.LoginLimiter)

	a.Handle(http.MethodPost, "/auth/signup", auth.HandleSignup(cfg.DB, cfg.Session), throttle)
	a.Handle(http.MethodPost, "/auth/login", auth.HandleLogin(cfg.DB, cfg.Session), throttle)
	a.Handle(http.MethodPost, "/auth/logout", auth.HandleLogout(cfg.Session))
	a.Handle(http.MethodGet, "/auth/oauth-login/{provider}", auth.HandleOauthLogin(cfg.Session, cfg.Providers))
	a.Handle(http.MethodGet, "/auth/oauth-callback/{provider}", auth.HandleOauthCallback(cfg.DB, cfg.Session, cfg.Providers, cfg.LoginRedirectURL))

	a.Handle(http.MethodGet, "/users/current", user.HandleShowCurrent(cfg.DB), authen)
	a.Handle(http.MethodGet, "/users/{id}", user.HandleShow(cfg.DB), authen)
	a.Handle(http.MethodPost, "/users", user.HandleCreate(cfg.DB), authen)

	a.Handle(http.MethodGet, "/courses/featured", course.HandleFeatured(cfg.DB))
	a.Handle(http.MethodGet, "/courses/{slug}", course.HandleShow(cfg.DB), viewer)
	a.Handle(http.MethodGet, "/courses", course.HandleList(cfg.DB))
	a.Handle(http.MethodPost, "/courses", course.HandleCreate(cfg.DB), admin)
	a.Handle(http.MethodPatch, "/courses/{slug}", course.HandleUpdate(cfg.DB), admin)
	a.Handle(http.MethodPost, "/courses/{slug}/sections", course.HandleCreateSection(cfg.DB), admin)
	a.Handle(http.MethodPost, "/courses/{slug}/sections/{id}/lessons", course.HandleCreateLesson(cfg.DB), admin)

	a.Handle(http.MethodPost, "/enroll", enrollment.HandleEnroll(cfg.DB), authen)
	a.Handle(http.MethodGet, "/enroll", enrollment.HandleEnrollRedirect(cfg.DB, cfg.SiteURL), viewer)
	a.Handle(http.MethodGet, "/my-courses", enrollment.HandleListOwned(cfg.DB), authen)

	a.Handle(http.MethodGet, "/progress", progress.HandleShow(cfg.DB), authen)
	a.Handle(http.MethodPost, "/progress", progress.HandleUpsert(cfg.DB), authen)

	a.Handle(http.MethodPost, "/reviews", review.HandleUpsert(cfg.DB), authen)

	a.Handle(http.MethodGet, "/admin/stats", stats.HandleShow(cfg.DB), admin)
	a.Handle(http.MethodGet, "/admin/courses", course.HandleListAll(cfg.DB), admin)

	return a.Router
}

func (a *api) Handle(method string, path string, handler web.Handler, mw ...web.Middleware) {

	handler = web.WrapMiddleware(mw, handler)

	handler = web.WrapMiddleware(a.mw, handler)

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		ctx := r.Context()

		if err := handler(ctx, w, r); err != nil {

			a.log.WithFields(logrus.Fields{
				"req_id":  middleware.ContextRequestID(ctx),
				"message": err,
			}).Error("ERROR")
		}
	})

	a.Router.Handle(path, h).Methods(method)
}
