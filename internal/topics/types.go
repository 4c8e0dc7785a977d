// Package topics models a course outline and filters it for the sidebar.
package topics

// Topic is a node of a course outline. Children carry a navigable URL.
type Topic struct {
	ID       string  `json:"id"`
	Label    string  `json:"label"`
	URL      string  `json:"url,omitempty"`
	Children []Topic `json:"children,omitempty"`
}

// HasChildren reports whether the topic has subtopics.
func (t Topic) HasChildren() bool {
	return len(t.Children) > 0
}
