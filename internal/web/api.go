package web

import (
	"context"
	"errors"
	"log/slog"
	"mime"
	"net/http"
	"path"

	"github.com/coder/websocket"
	"github.com/goccy/go-json"

	"github.com/p-n-ai/pai-tutorials/internal/assets"
	"github.com/p-n-ai/pai-tutorials/internal/catalog"
	"github.com/p-n-ai/pai-tutorials/internal/session"
	"github.com/p-n-ai/pai-tutorials/internal/tutorial"
)

type categoriesResponse struct {
	Categories []catalog.TechCategory `json:"categories"`
	Active     string                 `json:"active,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Error("encoding response", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data)
}

func (s *Server) handleAPICategories(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	resp := categoriesResponse{Categories: sess.Categories.List()}
	if c, ok := sess.Categories.Active(); ok {
		resp.Active = c.URL
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAPITutorial(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	t, ok := sess.Current()
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "no tutorial resolved"})
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// handleAsset serves raw asset files: markdown bodies, quizzes and the
// JSON documents.
func (s *Server) handleAsset(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	data, err := s.cfg.Loader.Source().Read(r.Context(), name)
	if errors.Is(err, assets.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		slog.Error("reading asset", "name", name, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", contentType(name, data))
	w.Write(data)
}

func contentType(name string, data []byte) string {
	switch ext := path.Ext(name); ext {
	case ".md":
		return "text/markdown; charset=utf-8"
	case ".yaml", ".yml":
		return "application/yaml"
	default:
		if ct := mime.TypeByExtension(ext); ct != "" {
			return ct
		}
		return http.DetectContentType(data)
	}
}

// handleWS pushes the session's tutorial to the client as JSON every time a
// new one is published, starting with the current one.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		slog.Warn("websocket accept failed", "error", err)
		return
	}
	defer conn.CloseNow()

	// Only the latest tutorial matters; older undelivered ones are dropped.
	updates := make(chan tutorial.Tutorial, 1)
	cancel := sess.Resolver.Subscribe(func(t tutorial.Tutorial) {
		for {
			select {
			case updates <- t:
				return
			default:
			}
			select {
			case <-updates:
			default:
			}
		}
	})
	defer cancel()

	ctx := conn.CloseRead(r.Context())

	if t, ok := sess.Current(); ok {
		if err := writeTutorial(ctx, conn, t); err != nil {
			return
		}
	}

	for {
		select {
		case <-ctx.Done():
			conn.Close(websocket.StatusNormalClosure, "")
			return
		case t := <-updates:
			if err := writeTutorial(ctx, conn, t); err != nil {
				slog.Debug("websocket write failed", "session_id", sess.ID, "error", err)
				return
			}
		}
	}
}

func writeTutorial(ctx context.Context, conn *websocket.Conn, t tutorial.Tutorial) error {
	data, err := json.Marshal(t)
	if err != nil {
		return err
	}
	return conn.Write(ctx, websocket.MessageText, data)
}
