package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nao1215/seoscan/internal/database"
	"github.com/nao1215/seoscan/internal/document"
	"github.com/nao1215/seoscan/internal/fetch"
	"github.com/nao1215/seoscan/internal/model"
	"github.com/nao1215/seoscan/internal/pipeline"
)

// AnalyzeRequest is the body of POST /api/v1/analyze. With HTML set the
// markup is analyzed as given and URL only resolves relative links.
type AnalyzeRequest struct {
	URL  string `json:"url"`
	HTML string `json:"html"`
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "analyzer_version": model.AnalyzerVersion})
}

func (s *Server) analyze(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.maxBodyBytes)

	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, CodeInvalidRequest, "invalid JSON body", nil)
		return
	}
	req.URL = strings.TrimSpace(req.URL)
	if req.URL == "" && strings.TrimSpace(req.HTML) == "" {
		respondError(c, http.StatusBadRequest, CodeInvalidRequest, "url or html is required", nil)
		return
	}

	var target *pipeline.Target
	if req.HTML != "" {
		target = pipeline.NewMarkupTarget(req.HTML, req.URL)
	} else {
		target = pipeline.NewTarget(req.URL)
	}

	if err := s.pipelineFactory().Execute(c.Request.Context(), target); err != nil {
		s.respondAnalyzeError(c, err)
		return
	}
	if target.Report == nil {
		respondError(c, http.StatusInternalServerError, CodeInternal, "analysis produced no report", nil)
		return
	}
	c.JSON(http.StatusOK, target.Report)
}

func (s *Server) respondAnalyzeError(c *gin.Context, err error) {
	var statusErr *fetch.StatusError
	switch {
	case errors.As(err, &statusErr):
		respondError(c, http.StatusBadGateway, CodeUpstream, "target returned an error status", gin.H{
			"status_code": statusErr.StatusCode,
		})
	case errors.Is(err, fetch.ErrNoResponse):
		respondError(c, http.StatusBadGateway, CodeUpstream, "target did not respond", nil)
	case errors.Is(err, fetch.ErrInvalidAddress), errors.Is(err, document.ErrEmptyMarkup):
		respondError(c, http.StatusBadRequest, CodeInvalidRequest, err.Error(), nil)
	case errors.Is(err, pipeline.ErrBlockedByRobots):
		respondError(c, http.StatusForbidden, CodeBlocked, err.Error(), nil)
	default:
		s.logger.Error("analysis failed", "error", err)
		respondError(c, http.StatusInternalServerError, CodeInternal, "analysis failed", nil)
	}
}

func (s *Server) listReports(c *gin.Context) {
	limit := DefaultListLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			respondError(c, http.StatusBadRequest, CodeInvalidRequest, "limit must be a positive integer", nil)
			return
		}
		limit = min(n, MaxListLimit)
	}

	reports, err := s.store.ListReports(c.Request.Context(), c.Query("url"), limit)
	if err != nil {
		s.logger.Error("list reports failed", "error", err)
		respondError(c, http.StatusInternalServerError, CodeInternal, "failed to list reports", nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reports": reports, "count": len(reports)})
}

func (s *Server) getReport(c *gin.Context) {
	report, err := s.store.GetReport(c.Request.Context(), c.Param("id"))
	if errors.Is(err, database.ErrReportNotFound) {
		respondError(c, http.StatusNotFound, CodeNotFound, "report not found", nil)
		return
	}
	if err != nil {
		s.logger.Error("get report failed", "error", err)
		respondError(c, http.StatusInternalServerError, CodeInternal, "failed to get report", nil)
		return
	}
	c.JSON(http.StatusOK, report)
}
