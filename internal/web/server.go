package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"foldertree/internal/logging"
	"foldertree/internal/model"
	"foldertree/internal/view"
	"foldertree/internal/workspace"

	"github.com/dustin/go-humanize"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

//go:embed static/*
var staticFS embed.FS

// previewLines caps how much of a text file /api/preview returns.
const previewLines = 200

// Workspace is what the web host needs from the coordinator.
type Workspace interface {
	Host() view.Host
	Folders() []string
	ShowHidden() bool
	AddFolder(dir string) (string, error)
	RemoveFolder(dir string) (string, error)
	ToggleShowHidden() string
}

// Server serves the tree page and its JSON API.
type Server struct {
	ws     Workspace
	host   view.Host
	logger *zap.Logger
}

// NewServer creates a Server over ws.
func NewServer(ws Workspace, logger *zap.Logger) *Server {
	return &Server{
		ws:     ws,
		host:   ws.Host(),
		logger: logging.OrNop(logger).Named("web"),
	}
}

// Handler returns the routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Serve static files
	subFS, _ := fs.Sub(staticFS, "static")
	mux.Handle("GET /", http.FileServer(http.FS(subFS)))

	// API Endpoints
	mux.HandleFunc("GET /api/roots", s.handleRoots)
	mux.HandleFunc("GET /api/children", s.handleChildren)
	mux.HandleFunc("POST /api/expand", s.handleExpansion(s.host.Expand))
	mux.HandleFunc("POST /api/collapse", s.handleExpansion(s.host.Collapse))
	mux.HandleFunc("POST /api/folders", s.handleAddFolder)
	mux.HandleFunc("DELETE /api/folders", s.handleRemoveFolder)
	mux.HandleFunc("POST /api/hidden/toggle", s.handleToggleHidden)
	mux.HandleFunc("GET /api/preview", s.handlePreview)
	mux.HandleFunc("GET /api/help", handleHelp)
	mux.HandleFunc("GET /api/events", s.handleEvents)
	return mux
}

// StartServer serves on addr until ctx is cancelled.
func StartServer(ctx context.Context, addr string, ws Workspace, logger *zap.Logger) error {
	s := NewServer(ws, logger)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	fmt.Printf("Starting foldertree web server at http://%s\n", addr)
	fmt.Printf("Go to http://%s in your browser.\n", addr)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("shutting down", zap.String("addr", addr))
		return srv.Shutdown(shutdownCtx)
	}
}

type nodeView struct {
	Name   string            `json:"name"`
	Path   string            `json:"path"`
	IsDir  bool              `json:"isDir"`
	IsRoot bool              `json:"isRoot"`
	State  model.VisualState `json:"state"`
}

type previewView struct {
	model.Preview
	SizeText    string `json:"SizeText"`
	ModTimeText string `json:"ModTimeText"`
}

type noticeView struct {
	Message    string `json:"message"`
	ShowHidden bool   `json:"showHidden"`
}

type pathRequest struct {
	ID   string `json:"id"`
	Path string `json:"path"`
}

func (s *Server) handleRoots(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.describe(s.host.Children(r.Context(), nil)))
}

func (s *Server) handleChildren(w http.ResponseWriter, r *http.Request) {
	path, ok := s.requirePath(w, r.URL.Query().Get("path"))
	if !ok {
		return
	}
	info, err := os.Stat(path)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	if !info.IsDir() {
		writeError(w, http.StatusBadRequest, fmt.Errorf("%s: %w", path, workspace.ErrNotDirectory))
		return
	}
	parent := model.Node{Name: filepath.Base(path), Path: path, IsDir: true, IsRoot: s.isRoot(path)}
	writeJSON(w, http.StatusOK, s.describe(s.host.Children(r.Context(), &parent)))
}

func (s *Server) handleExpansion(apply func(id string)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req pathRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		if req.ID == "" {
			writeError(w, http.StatusBadRequest, errors.New("id is required"))
			return
		}
		apply(req.ID)
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) handleAddFolder(w http.ResponseWriter, r *http.Request) {
	var req pathRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if strings.TrimSpace(req.Path) == "" {
		writeError(w, http.StatusBadRequest, errors.New("path is required"))
		return
	}
	msg, err := s.ws.AddFolder(req.Path)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, noticeView{Message: msg, ShowHidden: s.ws.ShowHidden()})
}

func (s *Server) handleRemoveFolder(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		writeError(w, http.StatusBadRequest, errors.New("path is required"))
		return
	}
	msg, err := s.ws.RemoveFolder(path)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, workspace.ErrNotRoot) {
			status = http.StatusNotFound
		}
		writeError(w, status, err)
		return
	}
	writeJSON(w, http.StatusOK, noticeView{Message: msg, ShowHidden: s.ws.ShowHidden()})
}

func (s *Server) handleToggleHidden(w http.ResponseWriter, r *http.Request) {
	msg := s.ws.ToggleShowHidden()
	writeJSON(w, http.StatusOK, noticeView{Message: msg, ShowHidden: s.ws.ShowHidden()})
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	path, ok := s.requirePath(w, r.URL.Query().Get("path"))
	if !ok {
		return
	}
	p := model.ReadPreview(path, previewLines)
	resp := previewView{Preview: p}
	if p.ErrorMsg == "" {
		resp.SizeText = humanize.Bytes(uint64(p.Size))
		resp.ModTimeText = humanize.Time(p.ModTime)
	}
	writeJSON(w, http.StatusOK, resp)
}

func handleHelp(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/markdown")
	w.Write([]byte(model.HelpText()))
}

type eventPayload struct {
	Type string `json:"type"`
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	output, cancel := s.host.Subscribe()
	defer cancel()

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Debug("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	done := make(chan struct{})
	defer close(done)

	go func() {
		for {
			select {
			case _, ok := <-output:
				if !ok {
					conn.Close()
					return
				}
				if err := conn.SetWriteDeadline(time.Now().Add(10 * time.Second)); err != nil {
					return
				}
				if err := conn.WriteJSON(eventPayload{Type: "refresh"}); err != nil {
					return
				}
			case <-done:
				return
			}
		}
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *Server) describe(nodes []model.Node) []nodeView {
	out := make([]nodeView, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, nodeView{
			Name:   n.Name,
			Path:   n.Path,
			IsDir:  n.IsDir,
			IsRoot: n.IsRoot,
			State:  s.host.VisualState(n),
		})
	}
	return out
}

// requirePath checks that raw names something inside a configured root.
func (s *Server) requirePath(w http.ResponseWriter, raw string) (string, bool) {
	if raw == "" {
		writeError(w, http.StatusBadRequest, errors.New("path is required"))
		return "", false
	}
	path := filepath.Clean(model.ExpandTilde(raw))
	if !filepath.IsAbs(path) || !s.withinRoots(path) {
		writeError(w, http.StatusNotFound, fmt.Errorf("%s is not inside a configured folder", raw))
		return "", false
	}
	return path, true
}

func (s *Server) withinRoots(path string) bool {
	for _, root := range s.ws.Folders() {
		rel, err := filepath.Rel(root, path)
		if err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

func (s *Server) isRoot(path string) bool {
	for _, root := range s.ws.Folders() {
		if root == path {
			return true
		}
	}
	return false
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
