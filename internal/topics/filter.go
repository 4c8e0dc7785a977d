package topics

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
)

// Filter returns the topics whose label contains term, ignoring case.
// Only the given level is filtered: a matching topic keeps all of its
// children and a non-matching topic is dropped together with them.
// An empty or whitespace-only term returns topics unchanged.
func Filter(topics []Topic, term string) []Topic {
	term = strings.TrimSpace(term)
	if term == "" {
		return topics
	}

	// A Caser is stateful, so each call gets its own.
	fold := cases.Fold()
	needle := fold.String(term)

	out := make([]Topic, 0, len(topics))
	for _, t := range topics {
		if strings.Contains(fold.String(t.Label), needle) {
			out = append(out, t)
		}
	}
	return out
}

// Find returns the topic with the given id at any depth.
func Find(topics []Topic, id string) (Topic, bool) {
	for _, t := range topics {
		if t.ID == id {
			return t, true
		}
		if found, ok := Find(t.Children, id); ok {
			return found, true
		}
	}
	return Topic{}, false
}

var (
	ErrEmptyID     = errors.New("topic id is empty")
	ErrDuplicateID = errors.New("duplicate topic id")
	ErrCycle       = errors.New("topic appears among its own descendants")
	ErrMissingURL  = errors.New("subtopic has no url")
)

// Validate checks an outline loaded from an asset: ids are present and
// unique within a level, no topic repeats on its own ancestor path, and
// every subtopic is navigable.
func Validate(topics []Topic) error {
	return validateLevel(topics, nil, false)
}

func validateLevel(topics []Topic, ancestors []string, nested bool) error {
	seen := make(map[string]bool, len(topics))
	for _, t := range topics {
		if t.ID == "" {
			return fmt.Errorf("%w (label %q)", ErrEmptyID, t.Label)
		}
		if seen[t.ID] {
			return fmt.Errorf("%w: %s", ErrDuplicateID, t.ID)
		}
		seen[t.ID] = true

		for _, a := range ancestors {
			if a == t.ID {
				return fmt.Errorf("%w: %s", ErrCycle, t.ID)
			}
		}
		if nested && t.URL == "" {
			return fmt.Errorf("%w: %s", ErrMissingURL, t.ID)
		}

		if t.HasChildren() {
			path := append(append([]string(nil), ancestors...), t.ID)
			if err := validateLevel(t.Children, path, true); err != nil {
				return err
			}
		}
	}
	return nil
}
