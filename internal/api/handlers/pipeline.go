package handlers

import (
	"encoding/csv"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gorilla/mux"

	"github.com/wonny/sectorml/internal/benchmark"
	"github.com/wonny/sectorml/internal/contracts"
	"github.com/wonny/sectorml/internal/train"
	"github.com/wonny/sectorml/pkg/database"
	"github.com/wonny/sectorml/pkg/logger"
)

// PipelineHandler serves the read-only inspection endpoints over the
// pipeline's persisted artifacts and the source database.
type PipelineHandler struct {
	db        *database.DB
	directory contracts.StockDirectory
	outputDir string
	modelDir  string
	logger    *logger.Logger
}

// NewPipelineHandler creates a new pipeline handler
func NewPipelineHandler(
	db *database.DB,
	directory contracts.StockDirectory,
	outputDir string,
	modelDir string,
	log *logger.Logger,
) *PipelineHandler {
	return &PipelineHandler{
		db:        db,
		directory: directory,
		outputDir: outputDir,
		modelDir:  modelDir,
		logger:    log,
	}
}

// Health returns server and database health
// GET /health
func (h *PipelineHandler) Health(w http.ResponseWriter, r *http.Request) {
	status, err := h.db.HealthCheck(r.Context())
	if err != nil {
		respondJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status": "degraded",
			"db":     status,
		})
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"db":     status,
	})
}

// GetIndustries lists all industries known to the source database
// GET /api/industries
func (h *PipelineHandler) GetIndustries(w http.ResponseWriter, r *http.Request) {
	industries, err := h.directory.ListIndustries(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to list industries")
		respondError(w, http.StatusInternalServerError, "Failed to list industries")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"industries": industries,
	})
}

// GetBenchmarks returns the persisted benchmark table
// GET /api/benchmarks
func (h *PipelineHandler) GetBenchmarks(w http.ResponseWriter, r *http.Request) {
	path := filepath.Join(h.outputDir, benchmark.FileName)
	f, err := os.Open(path)
	if err != nil {
		respondError(w, http.StatusNotFound, "No benchmark table has been built yet")
		return
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil || len(rows) == 0 {
		h.logger.WithError(err).Error("Failed to read benchmark table")
		respondError(w, http.StatusInternalServerError, "Failed to read benchmark table")
		return
	}

	header := rows[0]
	var out []map[string]string
	for _, row := range rows[1:] {
		entry := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(row) {
				entry[col] = row[i]
			}
		}
		out = append(out, entry)
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"benchmarks": out,
	})
}

// GetModel returns one industry model's metadata
// GET /api/models/{slug}
func (h *PipelineHandler) GetModel(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]

	artifact, err := train.LoadModel(filepath.Join(h.modelDir, slug+"_model.json"))
	if err != nil {
		respondError(w, http.StatusNotFound, "No model for industry "+slug)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"model":   artifact.Info(),
	})
}
