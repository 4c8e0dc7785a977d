package assets

import (
	"context"
	"errors"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/p-n-ai/pai-tutorials/internal/assets/layout"
	"github.com/p-n-ai/pai-tutorials/internal/catalog"
	"github.com/p-n-ai/pai-tutorials/internal/quiz"
	"github.com/p-n-ai/pai-tutorials/internal/topics"
	"github.com/p-n-ai/pai-tutorials/internal/tutorial"
)

// Loader decodes and validates asset documents read from a Source.
type Loader struct {
	src Source
}

// NewLoader creates a loader over src.
func NewLoader(src Source) *Loader {
	return &Loader{src: src}
}

// Source returns the underlying source.
func (l *Loader) Source() Source {
	return l.src
}

// Categories loads the category list.
func (l *Loader) Categories(ctx context.Context) ([]catalog.TechCategory, error) {
	var out []catalog.TechCategory
	if err := l.readJSON(ctx, layout.CategoriesFile, SchemaCategories, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Outline loads the topic tree of a course.
func (l *Loader) Outline(ctx context.Context, course string) ([]topics.Topic, error) {
	if err := layout.CheckID("course", course); err != nil {
		return nil, err
	}
	name := layout.Outline(course)

	var out []topics.Topic
	if err := l.readJSON(ctx, name, SchemaOutline, &out); err != nil {
		return nil, err
	}
	if err := topics.Validate(out); err != nil {
		return nil, &InvalidAssetError{Name: name, Err: err}
	}
	return out, nil
}

// SEO loads the metadata of a topic.
func (l *Loader) SEO(ctx context.Context, course, topic string) (tutorial.SEO, error) {
	if err := checkIDs(course, topic); err != nil {
		return tutorial.SEO{}, err
	}

	var out tutorial.SEO
	if err := l.readJSON(ctx, layout.SEO(course, topic), SchemaSEO, &out); err != nil {
		return tutorial.SEO{}, err
	}
	return out, nil
}

// Quiz loads the quiz of a topic. A topic without a quiz file has no quiz
// and is not an error.
func (l *Loader) Quiz(ctx context.Context, course, topic string) (*quiz.Quiz, error) {
	if err := checkIDs(course, topic); err != nil {
		return nil, err
	}
	name := layout.Quiz(course, topic)

	data, err := l.src.Read(ctx, name)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return decodeQuiz(name, data)
}

// Content loads the markdown body of a topic.
func (l *Loader) Content(ctx context.Context, course, topic string) ([]byte, error) {
	if err := checkIDs(course, topic); err != nil {
		return nil, err
	}
	return l.src.Read(ctx, layout.Content(course, topic))
}

func (l *Loader) readJSON(ctx context.Context, name, schema string, v any) error {
	return checkJSON(ctx, l.src, name, schema, v)
}

func decodeJSON(name, schema string, data []byte, v any) error {
	if err := validate(schema, name, data); err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return &InvalidAssetError{Name: name, Err: err}
	}
	return nil
}

func decodeQuiz(name string, data []byte) (*quiz.Quiz, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, &InvalidAssetError{Name: name, Err: err}
	}
	if err := validate(SchemaQuiz, name, raw); err != nil {
		return nil, err
	}

	var doc quiz.Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &InvalidAssetError{Name: name, Err: err}
	}
	q, err := quiz.FromDocument(doc)
	if err != nil {
		return nil, &InvalidAssetError{Name: name, Err: err}
	}
	return q, nil
}

func checkIDs(course, topic string) error {
	if err := layout.CheckID("course", course); err != nil {
		return err
	}
	return layout.CheckID("topic", topic)
}

// Check validates a single asset document by name. checked is false for
// names the loader has no schema for.
func Check(ctx context.Context, src Source, name string) (checked bool, err error) {
	course, file, inCourse := layout.Split(name)
	switch {
	case name == layout.CategoriesFile:
		var v []catalog.TechCategory
		return true, checkJSON(ctx, src, name, SchemaCategories, &v)
	case !inCourse:
		return false, nil
	case layout.CheckID("course", course) != nil:
		return true, layout.CheckID("course", course)
	case file == layout.OutlineFile:
		var v []topics.Topic
		if err := checkJSON(ctx, src, name, SchemaOutline, &v); err != nil {
			return true, err
		}
		if err := topics.Validate(v); err != nil {
			return true, &InvalidAssetError{Name: name, Err: err}
		}
		return true, nil
	case topicFile(file, layout.SEOSuffix):
		var v tutorial.SEO
		return true, checkJSON(ctx, src, name, SchemaSEO, &v)
	case topicFile(file, layout.QuizSuffix):
		data, err := src.Read(ctx, name)
		if err != nil {
			return true, err
		}
		_, err = decodeQuiz(name, data)
		return true, err
	}
	return false, nil
}

func checkJSON(ctx context.Context, src Source, name, schema string, v any) error {
	data, err := src.Read(ctx, name)
	if err != nil {
		return err
	}
	return decodeJSON(name, schema, data, v)
}

func topicFile(file, suffix string) bool {
	id, ok := strings.CutSuffix(file, suffix)
	return ok && layout.CheckID("topic", id) == nil
}
