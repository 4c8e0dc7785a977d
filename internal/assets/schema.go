package assets

import (
	"fmt"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

const categoriesSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "array",
  "items": {
    "type": "object",
    "required": ["label", "icon", "url"],
    "properties": {
      "label": {"type": "string", "minLength": 1},
      "icon": {"type": "string"},
      "url": {"type": "string", "minLength": 1}
    }
  }
}`

const outlineSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "definitions": {
    "topic": {
      "type": "object",
      "required": ["id", "label"],
      "properties": {
        "id": {"type": "string", "minLength": 1},
        "label": {"type": "string"},
        "url": {"type": "string"},
        "children": {"type": "array", "items": {"$ref": "#/definitions/topic"}}
      }
    }
  },
  "type": "array",
  "items": {"$ref": "#/definitions/topic"}
}`

const seoSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["title", "description", "keywords"],
  "properties": {
    "title": {"type": "string"},
    "description": {"type": "string"},
    "keywords": {"type": "string"}
  }
}`

const quizSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["title", "questions"],
  "properties": {
    "title": {"type": "string"},
    "questions": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "questionNo", "text", "type"],
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "questionNo": {"type": "integer"},
          "text": {"type": "string"},
          "type": {"enum": ["SCQ", "MCQ", "FILL_IN_THE_BLANK", "TYPE"]},
          "answer": {"type": "string"},
          "options": {"type": "array", "items": {"type": "string"}}
        },
        "if": {"properties": {"type": {"enum": ["SCQ", "MCQ"]}}},
        "then": {
          "required": ["options"],
          "properties": {"options": {"minItems": 1}}
        }
      }
    }
  }
}`

// Schema names.
const (
	SchemaCategories = "categories"
	SchemaOutline    = "outline"
	SchemaSEO        = "seo"
	SchemaQuiz       = "quiz"
)

var schemaSources = map[string]string{
	SchemaCategories: categoriesSchema,
	SchemaOutline:    outlineSchema,
	SchemaSEO:        seoSchema,
	SchemaQuiz:       quizSchema,
}

var compiledSchemas = sync.OnceValues(func() (map[string]*gojsonschema.Schema, error) {
	out := make(map[string]*gojsonschema.Schema, len(schemaSources))
	for name, src := range schemaSources {
		s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
		if err != nil {
			return nil, fmt.Errorf("compiling %s schema: %w", name, err)
		}
		out[name] = s
	}
	return out, nil
})

// validate checks a document against a named schema. doc is either raw
// JSON bytes or an already decoded Go value.
func validate(schema, assetName string, doc any) error {
	schemas, err := compiledSchemas()
	if err != nil {
		return err
	}
	s, ok := schemas[schema]
	if !ok {
		return fmt.Errorf("unknown schema %q", schema)
	}

	var loader gojsonschema.JSONLoader
	switch d := doc.(type) {
	case []byte:
		loader = gojsonschema.NewBytesLoader(d)
	default:
		loader = gojsonschema.NewGoLoader(d)
	}

	res, err := s.Validate(loader)
	if err != nil {
		return &InvalidAssetError{Name: assetName, Err: err}
	}
	if !res.Valid() {
		problems := make([]string, 0, len(res.Errors()))
		for _, e := range res.Errors() {
			problems = append(problems, e.String())
		}
		return &InvalidAssetError{Name: assetName, Problems: problems}
	}
	return nil
}
