// Package query implements the read-side HTTP API (C5): a chi.Router
// dispatching GET requests across the list/global search, browse, and
// byauthor/byemail access patterns defined over the Records and Terms
// tables, plus the status singleton.
package query

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"

	"github.com/mailarchive/indexer/internal/indexer"
)

// NewRouter builds the query server's chi.Router. chi matches on the full
// path, so the registration order below does not affect dispatch; it follows
// the access-pattern table for readability: list search, global search, list
// browse, global browse, list byauthor, list byemail, global byauthor,
// global byemail, status. Required query parameters are checked inside each
// handler, which answers 404 when one is missing.
func NewRouter(repo *Repository, status StatusReader) chi.Router {
	srv := &Server{repo: repo, status: status, termParams: indexer.QueryParams()}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(requestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/healthz"))
	r.Use(middleware.Timeout(30 * time.Second))

	r.Group(func(r chi.Router) {
		r.Use(httprate.LimitByIP(30, 1*time.Second))

		r.Get("/lists/{list}/mail/search", srv.handleListSearch)
		r.Get("/mail/search", srv.handleGlobalSearch)
		r.Get("/lists/{list}/mail", srv.handleListMail)
		r.Get("/mail", srv.handleGlobalMail)
		r.Get("/lists/{list}/mail/byauthor", srv.handleListByAuthor)
		r.Get("/lists/{list}/mail/byemail", srv.handleListByEmail)
		r.Get("/mail/byauthor", srv.handleGlobalByAuthor)
		r.Get("/mail/byemail", srv.handleGlobalByEmail)
		r.Get("/mail/status", srv.handleStatus)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) { writeNotFound(w) })
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) { writeNotFound(w) })

	return r
}
