package handlers

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	middleware "github.com/markdave123-py/covidsearch/internal/api/middlewares"
	"github.com/markdave123-py/covidsearch/internal/core"
	"github.com/markdave123-py/covidsearch/internal/models"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// DocumentFinder is the document service behind the /api/documents routes.
type DocumentFinder interface {
	Search(ctx context.Context, uid string, req models.SearchRequest) (*models.SearchResult, error)
	Facets(ctx context.Context) (*models.Facets, error)
	Get(ctx context.Context, id string) (*models.Document, error)
	History(ctx context.Context, uid string, limit int) ([]models.SearchHistoryEntry, error)
}

type DocumentHandler struct {
	docs DocumentFinder
	log  *zap.Logger
}

func NewDocumentHandler(docs DocumentFinder, log *zap.Logger) *DocumentHandler {
	return &DocumentHandler{docs: docs, log: log.Named("document_handler")}
}

// Search handles GET /api/documents/search. Facet parameters may repeat,
// with or without a trailing "[]"; values of one dimension are OR-ed and
// dimensions are AND-ed.
func (h *DocumentHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	req := models.SearchRequest{
		Query:  query.Get("q"),
		Facets: map[string][]string{},
		Page:   intParam(query.Get("page"), 1, 0),
		Limit:  intParam(query.Get("limit"), defaultPageSize, maxPageSize),
	}
	for key, values := range query {
		switch key {
		case "q", "page", "limit":
			continue
		}
		// axios encodes array params as key[]=v
		dim := strings.TrimSuffix(key, "[]")
		if !core.IsFacetDimension(dim) {
			h.log.Debug("rejected search parameter", zap.String("param", key))
			writeError(w, http.StatusBadRequest, "unknown facet dimension")
			return
		}
		req.Facets[dim] = append(req.Facets[dim], values...)
	}

	res, err := h.docs.Search(r.Context(), uidFrom(r), req)
	if err != nil {
		writeServiceError(w, h.log, err, "error searching documents")
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *DocumentHandler) Facets(w http.ResponseWriter, r *http.Request) {
	facets, err := h.docs.Facets(r.Context())
	if err != nil {
		writeServiceError(w, h.log, err, "error fetching facets")
		return
	}
	writeJSON(w, http.StatusOK, facets)
}

// GetDocument resolves {id} as an ObjectID or, failing that, a DOI. DOIs
// contain slashes, so clients send them percent-encoded.
func (h *DocumentHandler) GetDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if unescaped, err := url.PathUnescape(id); err == nil {
		id = unescaped
	}

	doc, err := h.docs.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.log, err, "error fetching document")
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (h *DocumentHandler) SearchHistory(w http.ResponseWriter, r *http.Request) {
	limit := intParam(r.URL.Query().Get("limit"), 0, 0)

	entries, err := h.docs.History(r.Context(), uidFrom(r), limit)
	if err != nil {
		writeServiceError(w, h.log, err, "error fetching search history")
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func uidFrom(r *http.Request) string {
	if user, ok := middleware.UserFromContext(r.Context()); ok {
		return user.UID
	}
	return ""
}

// intParam parses a positive integer, falling back to def when the value is
// missing or below 1. A ceiling of 0 means unbounded.
func intParam(raw string, def, ceiling int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return def
	}
	if ceiling > 0 && n > ceiling {
		return ceiling
	}
	return n
}
