// Package server exposes the advisor over HTTP for presentation layers.
package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/iwvelando/ads-advisor/internal/advisor"
	"github.com/iwvelando/ads-advisor/internal/config"
	"github.com/iwvelando/ads-advisor/internal/telemetry"
	"github.com/iwvelando/ads-advisor/pkg/constants"
	"github.com/iwvelando/ads-advisor/pkg/output"
	"github.com/iwvelando/ads-advisor/pkg/product"
	"go.uber.org/zap"
)

type handler struct {
	logger        *zap.Logger
	metrics       *telemetry.Metrics
	maxUploadSize int64
	version       string
}

// NewHandler constructs the HTTP handler that serves the evaluation API and
// the Prometheus metrics endpoint.
func NewHandler(logger *zap.Logger, metrics *telemetry.Metrics, maxUploadSize int64, version string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if metrics == nil {
		metrics = telemetry.New()
	}
	if maxUploadSize <= 0 {
		maxUploadSize = constants.DefaultMaxUploadSizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{logger: logger, metrics: metrics, maxUploadSize: maxUploadSize, version: trimmedVersion}

	mux := http.NewServeMux()

	// Evaluation of a JSON product collection
	mux.HandleFunc("/api/evaluate", h.handleEvaluate)

	// Evaluation of an uploaded YAML configuration
	mux.HandleFunc("/api/upload", h.handleUpload)

	mux.HandleFunc("/api/version", h.handleVersion)
	mux.Handle("/metrics", metrics.Handler())

	return metrics.Middleware(mux)
}

type evaluateRequest struct {
	Settings *product.Settings   `json:"settings"`
	Policy   config.PolicyConfig `json:"policy"`
	Products []product.Row       `json:"products"`
}

type evaluateResponse struct {
	Report   advisor.Report `json:"report"`
	CSV      string         `json:"csv"`
	Warnings []string       `json:"warnings,omitempty"`
	Duration string         `json:"duration"`
}

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
	SKU   string `json:"sku,omitempty"`
}

func (h *handler) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleEvaluate"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)

	var req evaluateRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondError(w, http.StatusRequestEntityTooLarge, fmt.Errorf("request exceeds limit of %d bytes", h.maxUploadSize), op)
			return
		}
		h.respondError(w, http.StatusBadRequest, fmt.Errorf("failed to decode request: %w", err), op)
		return
	}

	conf := config.Configuration{
		Settings: product.Settings{
			DailyBudget: constants.DefaultDailyBudget,
			TargetROAS:  constants.DefaultTargetROAS,
		},
		Policy:   req.Policy,
		Products: req.Products,
	}
	if req.Settings != nil {
		conf.Settings = *req.Settings
	}

	h.runEvaluation(w, conf, start, op)
}

func (h *handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleUpload"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondError(w, http.StatusRequestEntityTooLarge, fmt.Errorf("upload exceeds limit of %d bytes", h.maxUploadSize), op)
			return
		}
		h.respondError(w, http.StatusBadRequest, fmt.Errorf("failed to parse upload: %w", err), op)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		h.respondError(w, http.StatusBadRequest, errors.New("missing configuration file"), op)
		return
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			h.logger.Warn("failed to close uploaded file",
				zap.String("op", op),
				zap.Error(closeErr),
			)
		}
	}()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, file); err != nil {
		h.respondError(w, http.StatusInternalServerError, fmt.Errorf("failed to read configuration: %w", err), op)
		return
	}

	conf, err := config.LoadConfigurationFromReader(&buf)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err, op)
		return
	}

	h.runEvaluation(w, *conf, start, op)
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) runEvaluation(w http.ResponseWriter, conf config.Configuration, start time.Time, op string) {
	warnings := conf.ValidateConfiguration()

	report, err := advisor.EvaluateConfiguration(h.logger, conf)
	if err != nil {
		h.metrics.ObserveRejection()
		status := http.StatusBadRequest
		if errors.Is(err, product.ErrInvalidInput) {
			status = http.StatusUnprocessableEntity
		}
		h.respondError(w, status, err, op)
		return
	}

	csvTable, err := output.CsvString(report)
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, err, op)
		return
	}

	elapsed := time.Since(start)
	h.metrics.ObserveEvaluation(report.Actions(), elapsed)

	h.logger.Info("evaluation served",
		zap.String("op", op),
		zap.Int("products", len(report.Evaluations)),
		zap.Int("warnings", len(warnings)),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, evaluateResponse{
		Report:   report,
		CSV:      csvTable,
		Warnings: warnings,
		Duration: elapsed.String(),
	})
}

func (h *handler) respondError(w http.ResponseWriter, status int, err error, op string) {
	h.logger.Error("evaluation request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.Error(err),
	)

	resp := errorResponse{Error: err.Error()}
	var invalid *product.InvalidInputError
	if errors.As(err, &invalid) {
		resp.Field = invalid.Field
		resp.SKU = invalid.SKU
	}
	h.writeJSON(w, status, resp)
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}
