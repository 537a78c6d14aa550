// Package validation checks request payloads against embedded JSON schemas before they are decoded.
package validation

import (
	"embed"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schemas/*.json
var schemaFS embed.FS

// Schema names, one per request type.
const (
	GenerateDocuments = "generate_documents"
	RegisterCase      = "register_case"
	ExportCase        = "export_case"
)

var (
	compileOnce sync.Once
	compiled    map[string]*gojsonschema.Schema
	compileErr  error
)

// Error lists every schema violation in a payload.
type Error struct {
	Details []string
}

func (e *Error) Error() string {
	return "invalid request: " + strings.Join(e.Details, "; ")
}

func load() (map[string]*gojsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiled = make(map[string]*gojsonschema.Schema)
		for _, name := range []string{GenerateDocuments, RegisterCase, ExportCase} {
			raw, err := schemaFS.ReadFile("schemas/" + name + ".json")
			if err != nil {
				compileErr = fmt.Errorf("read schema %s: %w", name, err)
				return
			}
			s, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
			if err != nil {
				compileErr = fmt.Errorf("compile schema %s: %w", name, err)
				return
			}
			compiled[name] = s
		}
	})
	return compiled, compileErr
}

// Validate checks body against the named schema. Violations come back as *Error; anything else is a bug
// or malformed JSON.
func Validate(name string, body []byte) error {
	schemas, err := load()
	if err != nil {
		return err
	}
	s, ok := schemas[name]
	if !ok {
		return fmt.Errorf("unknown schema %q", name)
	}

	result, err := s.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return &Error{Details: []string{"malformed JSON: " + err.Error()}}
	}
	if result.Valid() {
		return nil
	}
	details := make([]string, len(result.Errors()))
	for i, desc := range result.Errors() {
		details[i] = desc.String()
	}
	return &Error{Details: details}
}
