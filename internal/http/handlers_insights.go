package http

import (
	"bytes"
	"net/http"
	"strconv"

	"subtrack/internal/log"
	"subtrack/internal/report"
)

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	m, err := s.svc.Metrics(r.Context())
	if err != nil {
		s.internalError(w, r, "Compute metrics failed", log.OpMetrics, err)
		return
	}
	NewJSONResponse().Body(toMetricsJSON(m)).Write(w)
}

func (s *Server) handleRenewals(w http.ResponseWriter, r *http.Request) {
	days := ParseDaysParam(r.URL.Query(), s.svc.WindowDays())
	renewals, err := s.svc.Renewals(r.Context(), days)
	if err != nil {
		s.internalError(w, r, "Load renewals failed", log.OpRenewals, err)
		return
	}
	NewJSONResponse().Body(toRenewalsJSON(renewals)).Write(w)
}

// handleExport buffers the workbook so a generation failure can still be
// reported as a 500 instead of a truncated download.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := s.svc.Export(r.Context(), &buf); err != nil {
		s.internalError(w, r, "Export report failed", log.OpExport, err)
		return
	}

	h := w.Header()
	h.Set("Content-Type", report.ContentType)
	h.Set("Content-Disposition", `attachment; filename="`+report.Filename+`"`)
	h.Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
