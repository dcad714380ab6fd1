package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/hazyhaar/dpr-registry/pkg/kit"
	"github.com/hazyhaar/dpr-registry/pkg/search"
	"github.com/hazyhaar/dpr-registry/pkg/store"
	"github.com/mark3labs/mcp-go/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// debugSampleSize is the number of rows shown by /debug.
const debugSampleSize = 3

// Config wires the router to the rest of the service.
type Config struct {
	Engine     *search.Engine
	Store      *store.Store
	SourcePath string              // file served by /download
	Gatherer   prometheus.Gatherer // nil disables /metrics
	MCPServer  *server.MCPServer   // nil disables /mcp
	Logger     *slog.Logger
}

// NewRouter returns an http.Handler with all directory API routes.
func NewRouter(cfg Config) http.Handler {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	mux := http.NewServeMux()
	h := &handler{
		search:     kit.Logging(cfg.Logger, "search")(searchEndpoint(cfg.Engine)),
		stats:      kit.Logging(cfg.Logger, "stats")(statsEndpoint(cfg.Engine)),
		engine:     cfg.Engine,
		store:      cfg.Store,
		sourcePath: cfg.SourcePath,
	}

	mux.HandleFunc("GET /search", methodNotAllowed)
	mux.HandleFunc("POST /search", h.handleSearch)
	mux.HandleFunc("GET /v1/search", h.handleSearchQuery)
	mux.HandleFunc("GET /stats", h.handleStats)
	mux.HandleFunc("GET /v1/stats", h.handleStats)
	mux.HandleFunc("GET /health", h.handleHealth)
	mux.HandleFunc("GET /debug", h.handleDebug)
	mux.HandleFunc("GET /download", h.handleDownload)

	if cfg.Gatherer != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}
	if cfg.MCPServer != nil {
		mux.Handle("/mcp", server.NewStreamableHTTPServer(cfg.MCPServer,
			server.WithEndpointPath("/mcp"),
			server.WithStateLess(true),
		))
	}

	return requestID(accessLog(cfg.Logger, securityHeaders(cors(mux))))
}

type handler struct {
	search     kit.Endpoint
	stats      kit.Endpoint
	engine     *search.Engine
	store      *store.Store
	sourcePath string
}

// --- search ---

type httpSearchRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit,omitempty"`
}

func (h *handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 16*1024) // 16 KiB max
	var req httpSearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	h.runSearch(w, r, &searchReq{Query: req.Query, Limit: req.Limit})
}

func (h *handler) handleSearchQuery(w http.ResponseWriter, r *http.Request) {
	req := &searchReq{Query: r.URL.Query().Get("q")}
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "limit must be an integer")
			return
		}
		req.Limit = n
	}
	h.runSearch(w, r, req)
}

func (h *handler) runSearch(w http.ResponseWriter, r *http.Request, req *searchReq) {
	resp, err := h.search(r.Context(), req)
	if errors.Is(err, errEmptyQuery) {
		writeError(w, http.StatusBadRequest, emptyQueryMessage)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- stats ---

func (h *handler) handleStats(w http.ResponseWriter, r *http.Request) {
	resp, err := h.stats(r.Context(), nil)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("stats error: %v", err))
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- health ---

type healthResponse struct {
	Status     string     `json:"status"`
	Database   string     `json:"database"`
	Records    int        `json:"records"`
	LastImport *store.Run `json:"last_import,omitempty"`
	Error      string     `json:"error,omitempty"`
}

func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	hl := h.engine.Health(r.Context())
	if hl.Status != search.StatusOK {
		writeJSON(w, http.StatusServiceUnavailable, healthResponse{
			Status:   "unhealthy",
			Database: "unavailable",
			Error:    hl.Error,
		})
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{
		Status:     "healthy",
		Database:   "connected",
		Records:    hl.Members,
		LastImport: hl.LastImport,
	})
}

// --- debug ---

type sampleRow struct {
	Name    string `json:"nama"`
	Faction string `json:"fraksi"`
	Party   string `json:"partai"`
}

type debugResponse struct {
	Status         string      `json:"status"`
	DatabasePath   string      `json:"database_path"`
	DatabaseExists bool        `json:"database_exists"`
	TotalRows      int         `json:"total_rows"`
	SampleData     []sampleRow `json:"sample_data"`
}

func (h *handler) handleDebug(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	total, err := h.store.CountMembers(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("debug error: %v", err))
		return
	}
	rows, err := h.store.SampleMembers(ctx, debugSampleSize)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("debug error: %v", err))
		return
	}

	resp := debugResponse{
		Status:       "OK",
		DatabasePath: h.store.Path(),
		TotalRows:    total,
		SampleData:   make([]sampleRow, 0, len(rows)),
	}
	if _, err := os.Stat(resp.DatabasePath); err == nil {
		resp.DatabaseExists = true
	}
	for _, m := range rows {
		resp.SampleData = append(resp.SampleData, sampleRow{Name: m.Name, Faction: m.Faction, Party: m.Party})
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- download ---

func (h *handler) handleDownload(w http.ResponseWriter, r *http.Request) {
	fi, err := os.Stat(h.sourcePath)
	if h.sourcePath == "" || err != nil || fi.IsDir() {
		writeError(w, http.StatusNotFound, "File data tidak tersedia")
		return
	}
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filepath.Base(h.sourcePath)))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	http.ServeFile(w, r, h.sourcePath)
}

// --- helpers ---

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

func methodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}
