// Package layout names the files of the tutorial asset tree.
//
//	categories.json
//	tutorials/<course>/outline.json
//	tutorials/<course>/<topic>.seo.json
//	tutorials/<course>/<topic>.quiz.yaml
//	tutorials/<course>/<topic>.md
package layout

import (
	"errors"
	"fmt"
	"path"
	"regexp"
	"strings"
)

const (
	CategoriesFile = "categories.json"
	TutorialsDir   = "tutorials"
	OutlineFile    = "outline.json"
	SEOSuffix      = ".seo.json"
	QuizSuffix     = ".quiz.yaml"
	ContentSuffix  = ".md"
)

// ErrInvalidIdentifier is returned for course or topic ids that are not a
// single safe path segment.
var ErrInvalidIdentifier = errors.New("invalid identifier")

var identRe = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]*$`)

// CheckID validates a course or topic id.
func CheckID(kind, id string) error {
	if !identRe.MatchString(id) {
		return fmt.Errorf("%w: %s %q", ErrInvalidIdentifier, kind, id)
	}
	return nil
}

// Outline is the outline document of a course.
func Outline(course string) string {
	return path.Join(TutorialsDir, course, OutlineFile)
}

// SEO is the metadata document of a topic.
func SEO(course, topic string) string {
	return path.Join(TutorialsDir, course, topic+SEOSuffix)
}

// Quiz is the optional quiz document of a topic.
func Quiz(course, topic string) string {
	return path.Join(TutorialsDir, course, topic+QuizSuffix)
}

// Content is the markdown body of a topic, relative to the asset root.
func Content(course, topic string) string {
	return path.Join(TutorialsDir, course, topic+ContentSuffix)
}

// ContentURL is the public URL of a topic's markdown body under base.
func ContentURL(base, course, topic string) string {
	return strings.TrimSuffix(base, "/") + "/" + Content(course, topic)
}

// TopicURL is the page URL of a topic.
func TopicURL(course, topic string) string {
	return "/" + path.Join(TutorialsDir, course, topic)
}

// Split reports the course and topic of an asset name under tutorials/.
// ok is false for names outside a course directory.
func Split(name string) (course, file string, ok bool) {
	rest, found := strings.CutPrefix(name, TutorialsDir+"/")
	if !found {
		return "", "", false
	}
	course, file, found = strings.Cut(rest, "/")
	if !found || course == "" || strings.Contains(file, "/") {
		return "", "", false
	}
	return course, file, true
}
