package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io/fs"
	"net/http"
	"path"
	"strconv"

	"go.uber.org/zap"

	"gitstats/derive"
	"gitstats/dummy"
	"gitstats/models"
)

// StatsResponse is the body of /api/stats and /api/dummy
type StatsResponse struct {
	Data               *models.GitStatsData `json:"data"`
	Source             models.DataSource    `json:"source"`
	IsDummy            bool                 `json:"isDummy"`
	DataSourceText     string               `json:"dataSourceText"`
	LastUpdatedText    string               `json:"lastUpdatedText,omitempty"`
	TotalContributions int                  `json:"totalContributions"`
	Failures           []string             `json:"failures,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// profileIndex reads ?profile=N, defaulting to the first profile
func profileIndex(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("profile")
	if raw == "" {
		return 0, nil
	}
	i, err := strconv.Atoi(raw)
	if err != nil || i < 0 {
		return 0, fmt.Errorf("invalid profile index %q", raw)
	}
	return i, nil
}

func (s *Server) respond(w http.ResponseWriter, result models.DataResult, profile int) {
	resp := StatsResponse{
		Data:           result.Data,
		Source:         result.Source,
		IsDummy:        result.IsDummy,
		DataSourceText: derive.DataSourceText(result.Source, result.IsDummy),
	}
	for _, err := range result.Failures {
		resp.Failures = append(resp.Failures, err.Error())
	}

	if data := result.Data; data != nil {
		// Index 0 of an empty document totals to zero
		if profile > 0 && profile >= len(data.Profiles) {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("profile index %d out of range", profile))
			return
		}
		if text, err := derive.FormatLastUpdated(data.LastUpdated, s.now()); err == nil {
			resp.LastUpdatedText = text
		}
		if profile < len(data.Profiles) {
			resp.TotalContributions = derive.TotalContributions(data.Profiles[profile].Stats.Contributions)
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) getStats(w http.ResponseWriter, r *http.Request) {
	if s.provider == nil {
		writeError(w, http.StatusServiceUnavailable, "no data source configured")
		return
	}
	profile, err := profileIndex(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result := s.provider.Fetch(r.Context())
	s.log.Debug("Stats served",
		zap.String("source", string(result.Source)),
		zap.Int("failures", len(result.Failures)))
	s.respond(w, result, profile)
}

func (s *Server) getDummy(w http.ResponseWriter, r *http.Request) {
	profile, err := profileIndex(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	gen := s.dummy()
	var data *models.GitStatsData
	if multi, _ := strconv.ParseBool(r.URL.Query().Get("multi")); multi {
		data = gen.MultiProfileStats()
	} else {
		data = gen.Stats(dummy.Options{})
	}
	s.respond(w, dummy.Result(data), profile)
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) serveStatic(w http.ResponseWriter, r *http.Request) {
	name := path.Clean("/" + r.URL.Path)
	if name == "/" {
		name = "/" + s.indexFile
	}

	f, err := http.Dir(s.staticDir).Open(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			notFound(w, r.URL.Path)
			return
		}
		s.log.Warn("Failed to open static file", zap.String("path", name), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to read file")
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		notFound(w, r.URL.Path)
		return
	}
	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
}

const notFoundPage = `<!DOCTYPE html>
<html>
<head>
<title>404 Not Found</title>
<style>
body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', sans-serif; background: #0d1117; color: #e6edf3; display: flex; align-items: center; justify-content: center; height: 100vh; margin: 0; text-align: center; }
h1 { font-size: 72px; margin: 0; }
p { color: #7d8590; margin: 16px 0; }
a { color: #58a6ff; text-decoration: none; }
</style>
</head>
<body>
<div>
<h1>404</h1>
<p>File not found: %s</p>
<a href="/">Back to demos</a>
</div>
</body>
</html>
`

func notFound(w http.ResponseWriter, urlPath string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	fmt.Fprintf(w, notFoundPage, html.EscapeString(urlPath))
}
