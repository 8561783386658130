package store

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema/todos.schema.json
var todosSchemaJSON []byte

const todosSchemaURL = "https://tada.local/todos.schema.json"

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		c := jsonschema.NewCompiler()
		c.Draft = jsonschema.Draft7
		c.AssertFormat = true
		if err := c.AddResource(todosSchemaURL, bytes.NewReader(todosSchemaJSON)); err != nil {
			schemaErr = fmt.Errorf("add schema resource: %w", err)
			return
		}
		schema, schemaErr = c.Compile(todosSchemaURL)
	})
	return schema, schemaErr
}

// Violation is a single schema deviation found in the persisted slot.
type Violation struct {
	Path string // JSON pointer into the slot, e.g. /0/priority
	Msg  string
}

func (v Violation) String() string {
	if v.Path == "" {
		return v.Msg
	}
	return v.Path + ": " + v.Msg
}

// validate checks raw against the persisted layout. A parse error is
// reported as a single violation at the root.
func validate(raw []byte) ([]Violation, error) {
	s, err := compiledSchema()
	if err != nil {
		return nil, err
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return []Violation{{Msg: "malformed JSON: " + err.Error()}}, nil
	}
	err = s.Validate(doc)
	if err == nil {
		return nil, nil
	}
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return nil, fmt.Errorf("validate: %w", err)
	}
	var out []Violation
	collectViolations(ve, &out)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

// collectViolations keeps only leaf causes; intermediate nodes just say
// "doesn't validate with ...".
func collectViolations(ve *jsonschema.ValidationError, out *[]Violation) {
	if len(ve.Causes) == 0 {
		*out = append(*out, Violation{Path: ve.InstanceLocation, Msg: ve.Message})
		return
	}
	for _, c := range ve.Causes {
		collectViolations(c, out)
	}
}
