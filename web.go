package main

import (
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

//go:embed templates/terminal.html
var templateFS embed.FS

const sessionCookie = "session_id"

// WebServer exposes the terminal over HTTP. Each browser session gets
// its own Terminal, identified by an opaque cookie-backed id.
type WebServer struct {
	cfg       *Config
	registry  *SessionRegistry
	logger    *slog.Logger
	startTime time.Time
	mux       *http.ServeMux
}

type executeRequest struct {
	Command string `json:"command"`
}

type executeResponse struct {
	Output     string `json:"output"`
	ExitCode   int    `json:"exit_code"`
	CurrentDir string `json:"current_dir"`
	AIEnabled  bool   `json:"ai_enabled"`
}

type aiRequest struct {
	Query string `json:"query"`
}

type historyResponse struct {
	History []string `json:"history"`
}

type statusResponse struct {
	CurrentDir   string `json:"current_dir"`
	AIEnabled    bool   `json:"ai_enabled"`
	HistoryCount int    `json:"history_count"`
	Version      string `json:"version"`
	Uptime       string `json:"uptime"`
}

// NewWebServer wires the routes and the session registry.
func NewWebServer(cfg *Config, logger *slog.Logger) *WebServer {
	s := &WebServer{
		cfg:       cfg,
		registry:  NewSessionRegistry(cfg.SessionTTL(), func() *Terminal { return NewTerminal(cfg) }),
		logger:    logger,
		startTime: time.Now(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.indexHandler)
	mux.HandleFunc("/api/execute", s.executeHandler)
	mux.HandleFunc("/api/ai", s.aiHandler)
	mux.HandleFunc("/api/history", s.historyHandler)
	mux.HandleFunc("/api/status", s.statusHandler)
	mux.Handle("/metrics", promhttp.Handler())
	s.mux = mux
	return s
}

// Handler returns the route table, exposed for tests.
func (s *WebServer) Handler() http.Handler {
	return s.mux
}

// Run blocks serving HTTP on host:port.
func (s *WebServer) Run(host string, port int, debug bool) error {
	if debug {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}
	addr := host + ":" + strconv.Itoa(port)
	s.logger.Info("starting web terminal", "addr", addr, "ai_enabled", s.cfg.APIKey != "")
	server := &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return server.ListenAndServe()
}

// terminal resolves the caller's session Terminal, assigning a new
// session id cookie on first contact.
func (s *WebServer) terminal(w http.ResponseWriter, r *http.Request) *Terminal {
	var id string
	if c, err := r.Cookie(sessionCookie); err == nil && c.Value != "" {
		id = c.Value
	} else {
		id = uuid.NewString()
		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookie,
			Value:    id,
			Path:     "/",
			HttpOnly: true,
		})
	}
	return s.registry.Get(id)
}

func (s *WebServer) indexHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	page, err := templateFS.ReadFile("templates/terminal.html")
	if err != nil {
		http.Error(w, "terminal UI unavailable", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(page)
}

func (s *WebServer) executeHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeJSON(w, "/api/execute", http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req executeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, "/api/execute", http.StatusBadRequest, executeResponse{Output: fmt.Sprintf("Error: %v", err), ExitCode: 1})
		return
	}

	command := strings.TrimSpace(req.Command)
	if command == "" {
		s.writeJSON(w, "/api/execute", http.StatusOK, executeResponse{})
		return
	}

	term := s.terminal(w, r)
	output, exitCode := term.Execute(command)
	if exitCode == 0 {
		commandCount.WithLabelValues("success").Inc()
	} else {
		commandCount.WithLabelValues("failure").Inc()
	}
	s.logger.Debug("executed command", "command", command, "exit_code", exitCode)

	s.writeJSON(w, "/api/execute", http.StatusOK, executeResponse{
		Output:     output,
		ExitCode:   exitCode,
		CurrentDir: term.CurrentDir(),
		AIEnabled:  term.AIEnabled(),
	})
}

func (s *WebServer) aiHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeJSON(w, "/api/ai", http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req aiRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, "/api/ai", http.StatusBadRequest, executeResponse{Output: fmt.Sprintf("AI Error: %v", err), ExitCode: 1})
		return
	}

	query := strings.TrimSpace(req.Query)
	if query == "" {
		s.writeJSON(w, "/api/ai", http.StatusOK, executeResponse{Output: "No query provided", ExitCode: 1})
		return
	}

	term := s.terminal(w, r)
	if !term.AIEnabled() {
		s.writeJSON(w, "/api/ai", http.StatusOK, executeResponse{
			Output:     "AI functionality not available. Please provide a Gemini API key.",
			ExitCode:   1,
			CurrentDir: term.CurrentDir(),
		})
		return
	}

	output, exitCode := term.handleAI(strings.Fields(query))
	s.writeJSON(w, "/api/ai", http.StatusOK, executeResponse{
		Output:     output,
		ExitCode:   exitCode,
		CurrentDir: term.CurrentDir(),
		AIEnabled:  true,
	})
}

func (s *WebServer) historyHandler(w http.ResponseWriter, r *http.Request) {
	term := s.terminal(w, r)
	history := term.History()
	if len(history) > 50 {
		history = history[len(history)-50:]
	}
	// An empty history renders as [] rather than null.
	out := make([]string, len(history))
	copy(out, history)
	s.writeJSON(w, "/api/history", http.StatusOK, historyResponse{History: out})
}

func (s *WebServer) statusHandler(w http.ResponseWriter, r *http.Request) {
	term := s.terminal(w, r)
	s.writeJSON(w, "/api/status", http.StatusOK, statusResponse{
		CurrentDir:   term.CurrentDir(),
		AIEnabled:    term.AIEnabled(),
		HistoryCount: len(term.History()),
		Version:      Version,
		Uptime:       time.Since(s.startTime).Round(time.Second).String(),
	})
}

func (s *WebServer) writeJSON(w http.ResponseWriter, endpoint string, status int, payload any) {
	requestCount.WithLabelValues(endpoint, strconv.Itoa(status)).Inc()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", "endpoint", endpoint, "error", err)
	}
}

// newWebLogger builds the slog logger used by the web subcommand.
func newWebLogger(debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
