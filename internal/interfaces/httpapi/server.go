package httpapi

import (
	"net/http"
	"strings"

	"github.com/riskibarqy/tournament-portal/internal/platform/logging"
)

type RouterConfig struct {
	CORSAllowedOrigins []string
	// UploadDir is served read-only under UploadPublicPath when both are set.
	UploadDir        string
	UploadPublicPath string
}

func NewRouter(handler *Handler, verifier TokenVerifier, logger *logging.Logger, cfg RouterConfig) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}

	mux := http.NewServeMux()
	registerSystemRoutes(mux, handler)
	registerStaticRoutes(mux, cfg.UploadDir, cfg.UploadPublicPath)
	registerAuthRoutes(mux, handler, verifier)
	registerEventRoutes(mux, handler, verifier)
	registerSportRoutes(mux, handler, verifier)
	registerTeamRoutes(mux, handler, verifier)
	registerMatchRoutes(mux, handler, verifier)

	return RequestTracing(RequestLogging(logger, CORS(cfg.CORSAllowedOrigins, recoverPanic(logger, mux))))
}

func registerStaticRoutes(mux *http.ServeMux, dir, publicPath string) {
	dir = strings.TrimSpace(dir)
	publicPath = "/" + strings.Trim(strings.TrimSpace(publicPath), "/")
	if dir == "" || publicPath == "/" {
		return
	}
	prefix := publicPath + "/"
	mux.Handle("GET "+prefix, http.StripPrefix(prefix, http.FileServer(http.Dir(dir))))
}

func recoverPanic(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := startSpan(r.Context(), "httpapi.recoverPanic")
		defer span.End()

		defer func() {
			if rec := recover(); rec != nil {
				logger.ErrorContext(ctx, "panic recovered", "panic", rec, "path", r.URL.Path)
				writeInternalError(ctx, w)
			}
		}()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
