package query

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mailarchive/indexer/internal/indexer"
)

// Server holds the dependencies every route handler needs.
type Server struct {
	repo       *Repository
	status     StatusReader
	termParams indexer.Params
}

// StatusReader is the narrow slice of the storage writer the status route
// needs, kept as an interface so tests can fake it without a DynamoDB
// client at all. Returns (last_check, last_update, error).
type StatusReader interface {
	Status(ctx context.Context) (string, string, error)
}

func (s *Server) handleListSearch(w http.ResponseWriter, r *http.Request) {
	list := chi.URLParam(r, "list")
	q := r.URL.Query().Get("q")
	if q == "" {
		writeNotFound(w)
		return
	}
	term := indexer.QueryTerm(s.termParams, q)
	p := parseCommonParams(r)
	pg, err := s.repo.SearchList(r.Context(), list, term, p)
	if err != nil {
		writeError(w, err)
		return
	}
	writeItems(w, pg.records, pg.lastKey)
}

func (s *Server) handleGlobalSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeNotFound(w)
		return
	}
	term := indexer.QueryTerm(s.termParams, q)
	p := parseCommonParams(r)
	pg, err := s.repo.SearchGlobal(r.Context(), term, p)
	if err != nil {
		writeError(w, err)
		return
	}
	writeItems(w, pg.records, pg.lastKey)
}

func (s *Server) handleListMail(w http.ResponseWriter, r *http.Request) {
	list := chi.URLParam(r, "list")
	p := parseCommonParams(r)
	pg, err := s.repo.ListMail(r.Context(), list, p)
	if err != nil {
		writeError(w, err)
		return
	}
	writeItems(w, pg.records, pg.lastKey)
}

func (s *Server) handleGlobalMail(w http.ResponseWriter, r *http.Request) {
	p := parseCommonParams(r)
	pg, err := s.repo.GlobalMail(r.Context(), p)
	if err != nil {
		writeError(w, err)
		return
	}
	writeItems(w, pg.records, pg.lastKey)
}

func (s *Server) handleListByAuthor(w http.ResponseWriter, r *http.Request) {
	author := r.URL.Query().Get("author")
	if author == "" {
		writeNotFound(w)
		return
	}
	list := chi.URLParam(r, "list")
	p := parseCommonParams(r)
	pg, err := s.repo.ListMailByAuthor(r.Context(), list, author, p)
	if err != nil {
		writeError(w, err)
		return
	}
	writeItems(w, pg.records, pg.lastKey)
}

func (s *Server) handleListByEmail(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		writeNotFound(w)
		return
	}
	list := chi.URLParam(r, "list")
	p := parseCommonParams(r)
	pg, err := s.repo.ListMailByEmail(r.Context(), list, email, p)
	if err != nil {
		writeError(w, err)
		return
	}
	writeItems(w, pg.records, pg.lastKey)
}

func (s *Server) handleGlobalByAuthor(w http.ResponseWriter, r *http.Request) {
	author := r.URL.Query().Get("author")
	if author == "" {
		writeNotFound(w)
		return
	}
	p := parseCommonParams(r)
	pg, err := s.repo.GlobalMailByAuthor(r.Context(), author, p)
	if err != nil {
		writeError(w, err)
		return
	}
	writeItems(w, pg.records, pg.lastKey)
}

func (s *Server) handleGlobalByEmail(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		writeNotFound(w)
		return
	}
	p := parseCommonParams(r)
	pg, err := s.repo.GlobalMailByEmail(r.Context(), email, p)
	if err != nil {
		writeError(w, err)
		return
	}
	writeItems(w, pg.records, pg.lastKey)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	last, updated, err := s.status.Status(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"last_check": last, "last_update": updated})
}
