// Package router maps URL paths to views and drives tutorial resolution.
package router

import "strings"

// ViewKind identifies one of the site's views.
type ViewKind int

const (
	ViewHome ViewKind = iota
	ViewTopic
	ViewError
)

func (k ViewKind) String() string {
	switch k {
	case ViewHome:
		return "home"
	case ViewTopic:
		return "topic"
	case ViewError:
		return "error"
	default:
		return "unknown"
	}
}

// Paths of the fixed views.
const (
	HomePath  = "/home"
	ErrorPath = "/error"
)

// Route is the result of matching a path.
type Route struct {
	Kind     ViewKind
	Course   string
	Topic    string
	Redirect string // set when the path is not a view of its own
}

// Match maps a URL path to a route. "/" and unknown paths redirect to
// /home. Under /tutorials/ the course and topic segments may be empty; the
// dispatcher decides what that means.
func Match(path string) Route {
	path = strings.TrimSuffix(path, "/")

	switch path {
	case "":
		return Route{Kind: ViewHome, Redirect: HomePath}
	case HomePath:
		return Route{Kind: ViewHome}
	case ErrorPath:
		return Route{Kind: ViewError}
	}

	rest, ok := strings.CutPrefix(path, "/tutorials/")
	if !ok {
		return Route{Kind: ViewHome, Redirect: HomePath}
	}
	parts := strings.Split(rest, "/")
	switch len(parts) {
	case 1:
		return Route{Kind: ViewTopic, Course: parts[0]}
	case 2:
		return Route{Kind: ViewTopic, Course: parts[0], Topic: parts[1]}
	default:
		return Route{Kind: ViewHome, Redirect: HomePath}
	}
}
