// Package assetstest writes small asset trees for tests.
package assetstest

import (
	"os"
	"path/filepath"
	"testing"
)

// Categories is the categories.json written by Tree.
const Categories = `[
  {"label": "Python", "icon": "python.svg", "url": "python"},
  {"label": "React", "icon": "react.svg", "url": "react"}
]`

// PythonOutline is tutorials/python/outline.json written by Tree.
const PythonOutline = `[{"id": "t1", "label": "Loops"}]`

// LoopsSEO is tutorials/python/loops.seo.json written by Tree.
const LoopsSEO = `{"title": "Loops", "description": "Learn loops", "keywords": "python,loops"}`

// LoopsQuiz is tutorials/python/loops.quiz.yaml written by Tree.
const LoopsQuiz = `title: Loops quiz
questions:
  - id: q2
    questionNo: 2
    text: "Which keywords start a loop?"
    type: MCQ
    answer: "for, while"
    options: ["for", "while", "loop"]
  - id: q1
    questionNo: 1
    text: "Does a while loop check its condition first?"
    type: SCQ
    answer: "Yes"
    options: ["Yes", "No"]
`

// Tree writes a python course with a "loops" topic (with quiz) and a
// "functions" topic (without quiz) and returns its root.
func Tree(t testing.TB) string {
	t.Helper()
	dir := t.TempDir()

	Write(t, dir, "categories.json", Categories)
	Write(t, dir, "tutorials/python/outline.json", PythonOutline)
	Write(t, dir, "tutorials/python/loops.seo.json", LoopsSEO)
	Write(t, dir, "tutorials/python/loops.quiz.yaml", LoopsQuiz)
	Write(t, dir, "tutorials/python/loops.md", "# Loops\n\nA `for` loop repeats.\n")
	Write(t, dir, "tutorials/python/functions.seo.json",
		`{"title": "Functions", "description": "Define functions", "keywords": "python,functions"}`)
	Write(t, dir, "tutorials/python/functions.md", "# Functions\n")

	return dir
}

// Write creates root/name with content, making parent directories.
func Write(t testing.TB, root, name, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}
