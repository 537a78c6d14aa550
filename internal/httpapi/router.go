// Package httpapi exposes the lawsuit pipeline over HTTP.
package httpapi

import (
	"context"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Lllllllleong/lawsuitflow/internal/models"
	"github.com/Lllllllleong/lawsuitflow/internal/packager"
	"github.com/Lllllllleong/lawsuitflow/internal/validation"
)

type DocumentGenerator interface {
	Process(ctx context.Context, req *models.GenerateDocumentsRequest) (*models.GenerateDocumentsResponse, error)
}

type CaseRegisterer interface {
	Process(ctx context.Context, req *models.RegisterCaseRequest) (*models.RegisterCaseResponse, error)
}

type CaseExporter interface {
	Process(ctx context.Context, req *models.ExportCaseRequest) (*packager.Archive, error)
}

// Handler serves the pipeline operations.
type Handler struct {
	generator  DocumentGenerator
	registerer CaseRegisterer
	exporter   CaseExporter
	log        *zap.Logger
}

func NewHandler(g DocumentGenerator, r CaseRegisterer, e CaseExporter, log *zap.Logger) *Handler {
	return &Handler{generator: g, registerer: r, exporter: e, log: log}
}

// NewRouter registers every route on a chi router.
func NewRouter(h *Handler, requestTimeout time.Duration) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, h.log, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		if requestTimeout > 0 {
			r.Use(middleware.Timeout(requestTimeout))
		}
		r.Post("/documents/generate", h.GenerateDocuments)
		r.Post("/cases", h.RegisterCase)
		r.Post("/archives", h.ExportCase)
	})
	return r
}

func (h *Handler) GenerateDocuments(w http.ResponseWriter, r *http.Request) {
	var req models.GenerateDocumentsRequest
	if err := decodeValidated(r, validation.GenerateDocuments, &req); err != nil {
		writeDecodeError(w, h.log, err)
		return
	}
	res, err := h.generator.Process(r.Context(), &req)
	if err != nil {
		writeServiceError(w, h.log.With(zap.String("contractId", req.ContractID)), err)
		return
	}
	writeJSON(w, h.log, http.StatusOK, res)
}

func (h *Handler) RegisterCase(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterCaseRequest
	if err := decodeValidated(r, validation.RegisterCase, &req); err != nil {
		writeDecodeError(w, h.log, err)
		return
	}
	res, err := h.registerer.Process(r.Context(), &req)
	if err != nil {
		writeServiceError(w, h.log.With(zap.String("contractId", req.ContractID)), err)
		return
	}
	writeJSON(w, h.log, http.StatusCreated, res)
}

// ExportCase streams the zip archive. X-Export-Warnings counts failed or degraded entries and each one is
// repeated as a query-escaped X-Export-Warning header.
func (h *Handler) ExportCase(w http.ResponseWriter, r *http.Request) {
	var req models.ExportCaseRequest
	if err := decodeValidated(r, validation.ExportCase, &req); err != nil {
		writeDecodeError(w, h.log, err)
		return
	}
	a, err := h.exporter.Process(r.Context(), &req)
	if err != nil {
		writeServiceError(w, h.log.With(zap.String("contractId", req.ContractID)), err)
		return
	}
	WriteArchive(w, h.log, a)
}

// WriteArchive writes a as a zip attachment.
func WriteArchive(w http.ResponseWriter, log *zap.Logger, a *packager.Archive) {
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": a.FileName}))
	if msgs := a.Messages(); len(msgs) > 0 {
		w.Header().Set("X-Export-Warnings", strconv.Itoa(len(msgs)))
		for _, m := range msgs {
			w.Header().Add("X-Export-Warning", url.QueryEscape(m))
		}
	}
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(a.Data); err != nil {
		log.Error("write archive", zap.Error(err), zap.String("fileName", a.FileName))
	}
}
