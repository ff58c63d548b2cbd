// Package api exposes the HTTP surface: paper upload and management,
// search, index administration, and model management.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"
	"go.uber.org/zap"

	"paperag/internal/config"
	"paperag/internal/models"
	"paperag/internal/prompt"
	"paperag/internal/providers"
	"paperag/internal/rag"
	"paperag/internal/util"
	"paperag/internal/vector"
	"paperag/internal/workflows"
)

const maxUploadBytes = 100 << 20

type Server struct {
	cfg      config.Config
	engine   *rag.Engine
	index    *vector.Manager
	registry *providers.Registry
	ollama   *providers.OllamaProvider
	temporal client.Client
	logger   *zap.Logger
}

func NewServer(cfg config.Config, engine *rag.Engine, index *vector.Manager,
	registry *providers.Registry, ollama *providers.OllamaProvider,
	temporal client.Client, logger *zap.Logger) *Server {
	return &Server{
		cfg:      cfg,
		engine:   engine,
		index:    index,
		registry: registry,
		ollama:   ollama,
		temporal: temporal,
		logger:   logger,
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("POST /papers/upload", s.handleUpload)
	mux.HandleFunc("GET /papers", s.handleListPapers)
	mux.HandleFunc("GET /papers/{id}", s.handleGetPaper)
	mux.HandleFunc("DELETE /papers/{id}", s.handleDeletePaper)
	mux.HandleFunc("POST /search", s.handleSearch)
	mux.HandleFunc("GET /database/stats", s.handleStats)
	mux.HandleFunc("POST /database/rebuild", s.handleRebuild)
	mux.HandleFunc("GET /models/list", s.handleListModels)
	mux.HandleFunc("POST /models/download", s.handleDownloadModel)
	mux.HandleFunc("GET /prompts", s.handleGetPrompts)
	mux.HandleFunc("POST /prompts/set", s.handleSetPrompt)
	return withCORS(s.withRequestLog(mux))
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// withRequestLog tags every request with an ID and logs its outcome.
func (s *Server) withRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get("X-Request-ID")
		if reqID == "" {
			reqID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", reqID)

		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)

		s.logger.Info("request",
			zap.String("request_id", reqID),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", sw.status),
			zap.Duration("duration", time.Since(start)))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		writeErr(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	filename := filepath.Base(header.Filename)
	if !strings.EqualFold(filepath.Ext(filename), ".pdf") {
		writeErr(w, http.StatusBadRequest, "only PDF files are supported")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		writeErr(w, http.StatusBadRequest, fmt.Sprintf("read upload: %v", err))
		return
	}
	paperID := util.SHA256Hex(data)

	exists, err := s.index.PaperExists(r.Context(), paperID)
	if err != nil {
		s.fail(w, "check paper", err)
		return
	}
	if exists {
		writeErr(w, http.StatusConflict, fmt.Sprintf("%v: %s", util.ErrPaperExists, paperID))
		return
	}

	if err := os.MkdirAll(s.cfg.PapersDir, 0o755); err != nil {
		s.fail(w, "create papers dir", err)
		return
	}
	path := filepath.Join(s.cfg.PapersDir, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		s.fail(w, "store pdf", err)
		return
	}

	run, err := s.temporal.ExecuteWorkflow(r.Context(), client.StartWorkflowOptions{
		ID:        "ingest-" + paperID,
		TaskQueue: s.cfg.TemporalTaskQueue,
	}, workflows.PaperIngestWorkflow, workflows.IngestInput{
		PaperID:  paperID,
		Path:     path,
		Filename: filename,
	})
	if err != nil {
		s.fail(w, "start ingest workflow", err)
		return
	}

	var res workflows.IngestResult
	if err := run.Get(r.Context(), &res); err != nil {
		// Workflow errors arrive serialized, so sentinel matching is by message.
		if strings.Contains(err.Error(), util.ErrNoExtractableText.Error()) {
			writeErr(w, http.StatusUnprocessableEntity, "no extractable text in PDF")
			return
		}
		s.fail(w, "ingest workflow", err)
		return
	}

	s.logger.Info("paper ingested",
		zap.String("paper_id", res.PaperID),
		zap.String("filename", filename),
		zap.Int("chunks", res.Chunks))
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleListPapers(w http.ResponseWriter, r *http.Request) {
	papers, err := s.engine.ListPapers(r.Context())
	if err != nil {
		s.fail(w, "list papers", err)
		return
	}
	if papers == nil {
		papers = []models.Paper{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"papers": papers, "count": len(papers)})
}

func (s *Server) handleGetPaper(w http.ResponseWriter, r *http.Request) {
	paper, err := s.engine.GetPaper(r.Context(), r.PathValue("id"))
	if err != nil {
		writeErr(w, http.StatusNotFound, "paper not found")
		return
	}
	writeJSON(w, http.StatusOK, paper)
}

func (s *Server) handleDeletePaper(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	deleted, err := s.engine.DeletePaper(r.Context(), id)
	if err != nil {
		s.fail(w, "delete paper", err)
		return
	}
	if !deleted {
		writeErr(w, http.StatusNotFound, "paper not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"deleted": id})
}

type searchRequest struct {
	Query        string `json:"query"`
	TopK         int    `json:"top_k"`
	Provider     string `json:"provider"`
	Model        string `json:"model"`
	APIKey       string `json:"api_key"`
	PromptMode   string `json:"prompt_mode"`
	CustomPrompt string `json:"custom_prompt"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		writeErr(w, http.StatusBadRequest, "query is required")
		return
	}
	if req.Provider == "" {
		req.Provider = providers.ProviderLocal
	}
	if req.PromptMode == "" {
		req.PromptMode = prompt.ModeTech
	}

	result, err := s.engine.Search(r.Context(), rag.SearchParams{
		Query:          req.Query,
		TopK:           req.TopK,
		Provider:       req.Provider,
		Model:          req.Model,
		APIKey:         req.APIKey,
		PromptMode:     req.PromptMode,
		CustomTemplate: req.CustomPrompt,
	})
	if err != nil {
		switch {
		case errors.Is(err, util.ErrUnsupportedProvider):
			writeErr(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, util.ErrAPIKeyRequired):
			writeErr(w, http.StatusUnauthorized, err.Error())
		default:
			s.fail(w, "search", err)
		}
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.engine.Stats(r.Context())
	if err != nil {
		s.fail(w, "stats", err)
		return
	}
	status := "ready"
	if stats.Papers == 0 {
		status = "empty"
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"total_papers":    stats.Papers,
		"total_chunks":    stats.Chunks,
		"embedding_model": s.cfg.EmbedModel,
		"status":          status,
	})
}

func (s *Server) handleRebuild(w http.ResponseWriter, r *http.Request) {
	_, err := s.temporal.ExecuteWorkflow(r.Context(), client.StartWorkflowOptions{
		ID:        workflows.RebuildWorkflowID,
		TaskQueue: s.cfg.TemporalTaskQueue,
	}, workflows.RebuildWorkflow)
	if err != nil {
		var already *serviceerror.WorkflowExecutionAlreadyStarted
		if errors.As(err, &already) {
			writeErr(w, http.StatusConflict, "rebuild already in progress")
			return
		}
		s.fail(w, "start rebuild workflow", err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"message": "Rebuilding started"})
}

func (s *Server) handleListModels(w http.ResponseWriter, r *http.Request) {
	providerName := r.URL.Query().Get("provider")
	if providerName == "" {
		providerName = providers.ProviderLocal
	}
	gen, err := s.registry.Generator(providerName)
	if err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}
	models, err := gen.ListModels(r.Context(), bearerToken(r))
	if err != nil {
		if errors.Is(err, util.ErrAPIKeyRequired) {
			writeErr(w, http.StatusUnauthorized, err.Error())
			return
		}
		s.fail(w, "list models", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"provider": providerName, "models": models})
}

func (s *Server) handleDownloadModel(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Model string `json:"model"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Model == "" {
		writeErr(w, http.StatusBadRequest, "model is required")
		return
	}
	if err := s.ollama.Pull(r.Context(), req.Model); err != nil {
		s.fail(w, "pull model", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"downloaded": req.Model})
}

func (s *Server) handleGetPrompts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"modes": prompt.Modes()})
}

// handleSetPrompt validates a mode selection. Prompt choice travels with
// each search request, so this is an acknowledgment, not stored state.
func (s *Server) handleSetPrompt(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Mode         string `json:"mode"`
		CustomPrompt string `json:"custom_prompt"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	valid := false
	for _, m := range prompt.Modes() {
		if req.Mode == m {
			valid = true
			break
		}
	}
	if !valid {
		writeErr(w, http.StatusBadRequest, "invalid mode")
		return
	}
	if req.Mode == prompt.ModeCustom && req.CustomPrompt == "" {
		writeErr(w, http.StatusBadRequest, "custom prompt is required for custom mode")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "success", "mode": req.Mode})
}

func (s *Server) fail(w http.ResponseWriter, op string, err error) {
	s.logger.Error(op, zap.Error(err))
	writeErr(w, http.StatusInternalServerError, fmt.Sprintf("%s: %v", op, err))
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
