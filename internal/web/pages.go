package web

import (
	"bytes"
	"errors"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/p-n-ai/pai-tutorials/internal/assets"
	"github.com/p-n-ai/pai-tutorials/internal/assets/layout"
	"github.com/p-n-ai/pai-tutorials/internal/catalog"
	"github.com/p-n-ai/pai-tutorials/internal/quiz"
	"github.com/p-n-ai/pai-tutorials/internal/router"
	"github.com/p-n-ai/pai-tutorials/internal/session"
	"github.com/p-n-ai/pai-tutorials/internal/topics"
	"github.com/p-n-ai/pai-tutorials/internal/tutorial"
)

// SessionCookie is the name of the cookie carrying the session id.
const SessionCookie = "tutor_session"

type sessionHandler func(w http.ResponseWriter, r *http.Request, sess *session.Session)

// withSession looks up the browser's session, starting a new one when the
// cookie is missing or stale.
func (s *Server) withSession(h sessionHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var id string
		if c, err := r.Cookie(SessionCookie); err == nil {
			id = c.Value
		}
		sess, created := s.cfg.Sessions.Get(id)
		if created {
			http.SetCookie(w, &http.Cookie{
				Name:     SessionCookie,
				Value:    sess.ID,
				Path:     "/",
				HttpOnly: true,
				Secure:   s.cfg.SecureCookie,
				SameSite: http.SameSiteLaxMode,
			})
		}
		h(w, r, sess)
	}
}

// page is the data every template renders from.
type page struct {
	AppName        string
	Meta           router.Meta
	Categories     []catalog.TechCategory
	ActiveCategory string

	Course  string
	Topic   string
	Query   string
	Outline []topics.Topic
	Body    template.HTML
	Quiz    *quizSection

	Reason string
}

type quizSection struct {
	Title     string
	Questions []quiz.View
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	// A filter change on the page already shown is rendered in place:
	// navigating would resolve again and hide every revealed answer.
	if r.URL.Query().Has("q") && r.URL.Path == sess.LastPath() {
		if t, ok := shownTopic(sess); ok {
			s.renderTopic(w, r, sess, t, http.StatusOK)
			return
		}
	}

	res := sess.Navigate(r.Context(), r.URL.Path)
	if res.Redirect != "" {
		http.Redirect(w, r, res.Redirect, http.StatusFound)
		return
	}

	v := res.View
	if !res.Changed {
		// Cancelled, overtaken or without a course: show what the session
		// shows now.
		v = sess.Dispatcher.View()
	}

	switch v.Kind {
	case router.ViewTopic:
		t := res.Tutorial
		if !res.Changed {
			var ok bool
			if t, ok = shownTopic(sess); !ok {
				s.renderError(w, sess, http.StatusNotFound, errorReason(assets.ErrNotFound))
				return
			}
		}
		s.renderTopic(w, r, sess, t, http.StatusOK)
	case router.ViewError:
		s.renderError(w, sess, errorStatus(v.Err), errorReason(v.Err))
	default:
		s.execute(w, "home.html", http.StatusOK, s.newPage(sess))
	}
}

// shownTopic returns the tutorial of the topic view the session shows.
func shownTopic(sess *session.Session) (tutorial.Tutorial, bool) {
	v := sess.Dispatcher.View()
	t, ok := sess.Current()
	if !ok || v.Kind != router.ViewTopic || t.Course != v.Course || t.Topic != v.Topic {
		return tutorial.Tutorial{}, false
	}
	return t, true
}

func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	course, topic := r.PathValue("course"), r.PathValue("topic")

	t, ok := shownTopic(sess)
	if !ok || t.Course != course || t.Topic != topic {
		s.renderError(w, sess, http.StatusNotFound, "This question is not on the current page.")
		return
	}
	if _, ok := sess.ToggleAnswer(r.PathValue("id")); !ok {
		s.renderError(w, sess, http.StatusNotFound, "This question is not part of the quiz.")
		return
	}
	// Rendered in place: navigating again would publish a new tutorial and
	// hide every answer.
	s.renderTopic(w, r, sess, t, http.StatusOK)
}

func (s *Server) handleCategory(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	if _, ok := sess.Categories.Activate(r.PathValue("url")); !ok {
		s.renderError(w, sess, http.StatusNotFound, "Unknown category.")
		return
	}
	target := sess.LastPath()
	if target == "" {
		target = router.HomePath
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (s *Server) renderTopic(w http.ResponseWriter, r *http.Request, sess *session.Session, t tutorial.Tutorial, status int) {
	p := s.newPage(sess)
	p.Course = t.Course
	p.Topic = t.Topic
	p.Query = r.URL.Query().Get("q")
	p.Outline = topics.Filter(t.Outline, p.Query)
	p.Body = s.body(r, t)
	if t.Quiz != nil {
		p.Quiz = &quizSection{
			Title:     t.Quiz.Title,
			Questions: quiz.RenderAll(t.Quiz, sess.Reveal),
		}
	}
	s.execute(w, "topic.html", status, p)
}

// body renders the markdown of a tutorial. A missing or broken body leaves
// the article empty; the rest of the page still works.
func (s *Server) body(r *http.Request, t tutorial.Tutorial) template.HTML {
	src, err := s.cfg.Loader.Content(r.Context(), t.Course, t.Topic)
	if err != nil {
		slog.Warn("tutorial content unavailable",
			"content", layout.Content(t.Course, t.Topic),
			"error", err,
		)
		return ""
	}
	html, err := s.markdown.Render(src)
	if err != nil {
		slog.Warn("tutorial content not rendered", "course", t.Course, "topic", t.Topic, "error", err)
		return ""
	}
	return html
}

func (s *Server) renderError(w http.ResponseWriter, sess *session.Session, status int, reason string) {
	p := s.newPage(sess)
	p.Reason = reason
	s.execute(w, "error.html", status, p)
}

func (s *Server) newPage(sess *session.Session) page {
	p := page{
		AppName:    s.cfg.AppName,
		Meta:       sess.Dispatcher.Meta(),
		Categories: sess.Categories.List(),
	}
	if c, ok := sess.Categories.Active(); ok {
		p.ActiveCategory = c.URL
	}
	return p
}

func (s *Server) execute(w http.ResponseWriter, name string, status int, p page) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, p); err != nil {
		slog.Error("template execution failed", "template", name, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

func errorStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, tutorial.ErrMissingTopic),
		errors.Is(err, assets.ErrNotFound),
		errors.Is(err, layout.ErrInvalidIdentifier):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func errorReason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, tutorial.ErrMissingTopic):
		return "No topic was selected."
	case errors.Is(err, assets.ErrNotFound), errors.Is(err, layout.ErrInvalidIdentifier):
		return "This tutorial does not exist."
	default:
		return "This tutorial could not be loaded."
	}
}
