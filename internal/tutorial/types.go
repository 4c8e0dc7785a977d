// Package tutorial resolves a course topic into the tutorial shown on the
// page and publishes it as the current tutorial.
package tutorial

import (
	"context"

	"github.com/p-n-ai/pai-tutorials/internal/quiz"
	"github.com/p-n-ai/pai-tutorials/internal/topics"
)

// SEO is the per-topic page metadata.
type SEO struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Keywords    string `json:"keywords"`
}

// Tutorial is the resolved view of one topic of a course.
type Tutorial struct {
	Course  string         `json:"course"`
	Topic   string         `json:"topic"`
	SEO     SEO            `json:"seo"`
	Content string         `json:"content"` // URL of the markdown body
	Outline []topics.Topic `json:"outline"`
	Quiz    *quiz.Quiz     `json:"quiz,omitempty"`
}

// Loader reads the per-course and per-topic documents a tutorial is built from.
type Loader interface {
	Outline(ctx context.Context, course string) ([]topics.Topic, error)
	SEO(ctx context.Context, course, topic string) (SEO, error)
	// Quiz returns nil, nil when the topic has no quiz.
	Quiz(ctx context.Context, course, topic string) (*quiz.Quiz, error)
}
