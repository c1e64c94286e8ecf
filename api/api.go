// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/vechain/stakepool/api/admin"
	healthAPI "github.com/vechain/stakepool/api/health"
	"github.com/vechain/stakepool/api/pool"
	"github.com/vechain/stakepool/api/stakers"
	"github.com/vechain/stakepool/api/tokens"
	"github.com/vechain/stakepool/api/utils"
	"github.com/vechain/stakepool/health"
	"github.com/vechain/stakepool/log"
	stakepool "github.com/vechain/stakepool/pool"
)

var logger = log.WithContext("pkg", "api")

type Options struct {
	AllowedOrigins       string
	EnableReqLogger      bool
	SlowQueriesThreshold time.Duration
	EnableMetrics        bool
	// Health is served under /health when set.
	Health *health.Health
}

// New returns the api handler serving p.
func New(p *stakepool.Pool, opts Options) http.Handler {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}

	router := mux.NewRouter()

	pool.New(p).
		Mount(router, "/pool")
	stakers.New(p).
		Mount(router, "/stakers")
	admin.New(p, stakepool.TokenAddress).
		Mount(router, "/admin")
	tokens.New(p, stakepool.TokenAddress).
		Mount(router, "/tokens")
	if opts.Health != nil {
		healthAPI.New(opts.Health).
			Mount(router, "/health")
	}

	if opts.EnableMetrics {
		router.Use(metricsMiddleware)
	}
	router.Use(genesisIDMiddleware(p.GenesisID().String()))

	var handler http.Handler = handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost}),
		handlers.AllowedHeaders([]string{"content-type", utils.CallerHeader}),
		handlers.ExposedHeaders([]string{genesisIDHeader}),
	)(handler)

	if opts.EnableReqLogger || opts.SlowQueriesThreshold > 0 {
		handler = requestLoggerMiddleware(logger, opts.EnableReqLogger, opts.SlowQueriesThreshold)(handler)
	}
	return handler
}

const genesisIDHeader = "x-genesis-id"

func genesisIDMiddleware(id string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set(genesisIDHeader, id)
			next.ServeHTTP(w, r)
		})
	}
}
