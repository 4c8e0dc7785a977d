package layout

import (
	"errors"
	"testing"
)

func TestPaths(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"outline", Outline("python"), "tutorials/python/outline.json"},
		{"seo", SEO("python", "loops"), "tutorials/python/loops.seo.json"},
		{"quiz", Quiz("python", "loops"), "tutorials/python/loops.quiz.yaml"},
		{"content", Content("python", "loops"), "tutorials/python/loops.md"},
		{"content url", ContentURL("/assets", "python", "loops"), "/assets/tutorials/python/loops.md"},
		{"content url trailing slash", ContentURL("/assets/", "python", "loops"), "/assets/tutorials/python/loops.md"},
		{"topic url", TopicURL("python", "loops"), "/tutorials/python/loops"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestCheckID(t *testing.T) {
	tests := []struct {
		id      string
		wantErr bool
	}{
		{"python", false},
		{"react-hooks", false},
		{"go_1", false},
		{"", true},
		{"..", true},
		{"a/b", true},
		{"-flag", true},
		{"loops.md", true},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			err := CheckID("topic", tt.id)
			if (err != nil) != tt.wantErr {
				t.Fatalf("CheckID(%q) error = %v, wantErr %v", tt.id, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidIdentifier) {
				t.Errorf("CheckID(%q) error = %v, want ErrInvalidIdentifier", tt.id, err)
			}
		})
	}
}

func TestSplit(t *testing.T) {
	tests := []struct {
		name       string
		wantCourse string
		wantFile   string
		wantOK     bool
	}{
		{"tutorials/python/loops.md", "python", "loops.md", true},
		{"tutorials/python/outline.json", "python", "outline.json", true},
		{"categories.json", "", "", false},
		{"tutorials/python", "", "", false},
		{"tutorials/python/deep/file.md", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			course, file, ok := Split(tt.name)
			if course != tt.wantCourse || file != tt.wantFile || ok != tt.wantOK {
				t.Errorf("Split(%q) = %q, %q, %v; want %q, %q, %v",
					tt.name, course, file, ok, tt.wantCourse, tt.wantFile, tt.wantOK)
			}
		})
	}
}
