package mid

import (
	"context"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/ardanlabs/blockcoin/foundation/web"
)

// CorsConfig lists the origins allowed to call the API from a browser.
// An origin of "*" allows every caller.
type CorsConfig struct {
	Origins []string
	MaxAge  time.Duration
}

var (
	corsMethods = strings.Join([]string{
		http.MethodGet,
		http.MethodPost,
		http.MethodPut,
		http.MethodDelete,
		http.MethodOptions,
	}, ", ")

	corsHeaders = "Origin, Accept, Content-Type, Content-Length, Accept-Encoding"
)

// Cors sets the Cross-Origin Resource Sharing headers for requests from an
// allowed origin. Requests from other origins get no CORS headers and the
// browser blocks them.
func Cors(cfg CorsConfig) web.Middleware {
	anyOrigin := len(cfg.Origins) == 0 || slices.Contains(cfg.Origins, "*")

	maxAge := cfg.MaxAge
	if maxAge <= 0 {
		maxAge = 24 * time.Hour
	}
	age := strconv.Itoa(int(maxAge.Seconds()))

	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			origin := r.Header.Get("Origin")

			switch {
			case anyOrigin:
				w.Header().Set("Access-Control-Allow-Origin", "*")

			case origin != "" && slices.Contains(cfg.Origins, origin):
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Add("Vary", "Origin")

			default:
				return handler(ctx, w, r)
			}

			w.Header().Set("Access-Control-Allow-Methods", corsMethods)
			w.Header().Set("Access-Control-Allow-Headers", corsHeaders)
			w.Header().Set("Access-Control-Max-Age", age)

			return handler(ctx, w, r)
		}

		return h
	}

	return m
}
