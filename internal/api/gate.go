package api

import (
	"html/template"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ruslano69/itemgate/internal/infra"
)

// gate lets a request through only when the backend is configured and answers
// a ping. Otherwise it renders the diagnostic page with status 200: an
// undeployed database is reported as a page, not as a server error.
func (s *Server) gate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.backend.Configured() {
			s.diag.Add("Access denied: DB not configured (DB_TYPE/DB_HOST/DB_NAME or DB_PORT for inference)")
			gateDecisionsTotal.WithLabelValues(gateNotConfigured).Inc()
			s.renderUnavailable(w)
			return
		}

		start := time.Now()
		err := s.backend.Ping(r.Context())
		pingDuration.Observe(time.Since(start).Seconds())
		if err != nil {
			s.diag.AddError("Ping failed: " + err.Error())
			s.diag.Add("Access denied: DB ping failed")
			gateDecisionsTotal.WithLabelValues(gatePingFailed).Inc()
			s.renderUnavailable(w)
			return
		}

		if s.pingLogged.CompareAndSwap(false, true) {
			s.diag.Add("Ping OK (" + s.backend.Kind().Label() + ")")
		}
		gateDecisionsTotal.WithLabelValues(gateAllowed).Inc()
		next.ServeHTTP(w, r)
	})
}

type logLine struct {
	Stamp   string
	IsError bool
	Message string
}

type unavailablePage struct {
	Env  []infra.EnvVar
	Logs []logLine
}

func (s *Server) renderUnavailable(w http.ResponseWriter) {
	page := unavailablePage{Env: s.cfg.DisplayEnv(true)}
	for _, e := range s.diag.Snapshot() {
		page.Logs = append(page.Logs, logLine{Stamp: e.Stamp(), IsError: e.IsError, Message: e.Message})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("X-Service-Status", "unavailable")
	w.WriteHeader(http.StatusOK)
	if err := unavailableTmpl.Execute(w, page); err != nil {
		log.Error().Err(err).Msg("render unavailable page")
	}
}

var unavailableTmpl = template.Must(template.New("unavailable").Parse(`<!DOCTYPE html>
<html lang="en">
<head><meta charset="UTF-8"><title>Service unavailable</title></head>
<body style="font-family:sans-serif;max-width:560px;margin:3rem auto;padding:2rem;text-align:center;">
  <h1 style="color:#dc2626;">Service unavailable</h1>
  <p>The database is not configured or not reachable, so the service cannot be used.</p>
  <p style="color:#64748b;font-size:0.9rem;">Set DB_TYPE, DB_HOST, DB_NAME and related environment variables and check that the database server is running.</p>
  <p style="margin-top:1.5rem;font-size:0.9rem;color:#333;">Current environment</p>
  <table style="width:100%;max-width:400px;margin:1rem auto;font-size:0.9rem;border-collapse:collapse;">
  {{- range .Env}}
    <tr><th style="text-align:left;padding:0.4rem 0.6rem;border-bottom:1px solid #eee;">{{.Key}}</th><td style="padding:0.4rem 0.6rem;border-bottom:1px solid #eee;word-break:break-all;">{{.Value}}</td></tr>
  {{- end}}
  </table>
  <p style="margin-top:1.5rem;font-size:0.9rem;color:#333;">Connection / debug log</p>
  <pre style="text-align:left;background:#1a1a2e;color:#e2e8f0;padding:1rem;border-radius:6px;font-size:0.8rem;overflow:auto;max-height:200px;">
{{- if .Logs}}
{{- range .Logs}}[{{.Stamp}}] {{if .IsError}}ERROR: {{end}}{{.Message}}
{{end}}
{{- else}}(no logs yet){{end -}}
</pre>
</body>
</html>
`))
