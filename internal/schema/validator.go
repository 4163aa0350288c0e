// Package schema checks model payloads against the JSON Schema documents
// of the problem and grade contracts.
package schema

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/santhosh-tekuri/jsonschema/v6/kind"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Kind names a schema document.
type Kind string

const (
	KindProblem Kind = "problem"
	KindGrade   Kind = "grade"
)

//go:embed schemas/*.schema.json
var schemaFS embed.FS

// schemaCache caches compiled schemas by kind.
var schemaCache sync.Map // map[Kind]*jsonschema.Schema

var printer = message.NewPrinter(language.English)

// ErrSchemaViolation reports the first violation found by Check.
type ErrSchemaViolation struct {
	Kind    Kind
	Message string
}

func (e *ErrSchemaViolation) Error() string {
	return fmt.Sprintf("%s schema violation: %s", e.Kind, e.Message)
}

// Validate returns every violation of the schema for kind, or an empty
// slice if payload conforms. Problems with the schema itself are reported
// as a single message.
func Validate(payload any, kind Kind) []string {
	verr, err := validate(payload, kind)
	if err != nil {
		return []string{err.Error()}
	}
	if verr == nil {
		return []string{}
	}
	return leafMessages(verr)
}

// Check is the fail-fast form of Validate. It returns *ErrSchemaViolation
// carrying the first violation, or nil.
func Check(payload any, kind Kind) error {
	verr, err := validate(payload, kind)
	if err != nil {
		return err
	}
	if verr == nil {
		return nil
	}
	return &ErrSchemaViolation{Kind: kind, Message: leafMessages(verr)[0]}
}

func validate(payload any, kind Kind) (*jsonschema.ValidationError, error) {
	compiled, err := getCompiledSchema(kind)
	if err != nil {
		return nil, err
	}

	doc, err := normalize(payload)
	if err != nil {
		return nil, fmt.Errorf("normalize %s payload: %w", kind, err)
	}

	err = compiled.Validate(doc)
	if err == nil {
		return nil, nil
	}
	var verr *jsonschema.ValidationError
	if errors.As(err, &verr) {
		return verr, nil
	}
	return nil, fmt.Errorf("validate %s payload: %w", kind, err)
}

// normalize round-trips payload through JSON so structs and typed maps
// validate the same way decoded model output does.
func normalize(payload any) (any, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return jsonschema.UnmarshalJSON(bytes.NewReader(raw))
}

// leafMessages flattens the error tree into one message per failing
// keyword, and one per missing property for "required".
func leafMessages(verr *jsonschema.ValidationError) []string {
	if len(verr.Causes) == 0 {
		if req, ok := verr.ErrorKind.(*kind.Required); ok && len(req.Missing) > 1 {
			out := make([]string, 0, len(req.Missing))
			for _, name := range req.Missing {
				out = append(out, formatLeaf(&jsonschema.ValidationError{
					InstanceLocation: verr.InstanceLocation,
					ErrorKind:        &kind.Required{Missing: []string{name}},
				}))
			}
			return out
		}
		return []string{formatLeaf(verr)}
	}
	var out []string
	for _, c := range verr.Causes {
		out = append(out, leafMessages(c)...)
	}
	return out
}

func formatLeaf(verr *jsonschema.ValidationError) string {
	loc := "/" + strings.Join(verr.InstanceLocation, "/")
	return fmt.Sprintf("%s: %s", loc, verr.ErrorKind.LocalizedString(printer))
}

// getCompiledSchema returns a cached compiled schema or compiles and caches it.
func getCompiledSchema(kind Kind) (*jsonschema.Schema, error) {
	if cached, ok := schemaCache.Load(kind); ok {
		return cached.(*jsonschema.Schema), nil
	}

	raw, err := schemaFS.ReadFile("schemas/" + string(kind) + ".schema.json")
	if err != nil {
		return nil, fmt.Errorf("unknown schema kind %q", kind)
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parse %s schema: %w", kind, err)
	}

	c := jsonschema.NewCompiler()
	c.DefaultDraft(jsonschema.Draft7)
	url := fmt.Sprintf("schema://%s.schema.json", kind)
	if err := c.AddResource(url, doc); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	compiled, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile %s schema: %w", kind, err)
	}

	actual, _ := schemaCache.LoadOrStore(kind, compiled)
	return actual.(*jsonschema.Schema), nil
}
