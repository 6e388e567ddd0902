package validation

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const settingsSchemaURL = "settings.schema.json"

//go:embed settings.schema.json
var settingsSchemaJSON []byte

var (
	settingsSchema     *jsonschema.Schema
	settingsSchemaErr  error
	settingsSchemaOnce sync.Once
)

func compiledSettingsSchema() (*jsonschema.Schema, error) {
	settingsSchemaOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(settingsSchemaJSON))
		if err != nil {
			settingsSchemaErr = fmt.Errorf("failed to parse settings schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(settingsSchemaURL, doc); err != nil {
			settingsSchemaErr = fmt.Errorf("failed to add settings schema: %w", err)
			return
		}
		settingsSchema, settingsSchemaErr = c.Compile(settingsSchemaURL)
	})
	return settingsSchema, settingsSchemaErr
}

// ValidateSettingsDocument checks a persisted settings document before it is decoded.
func ValidateSettingsDocument(data []byte) error {
	schema, err := compiledSettingsSchema()
	if err != nil {
		return err
	}

	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to parse settings document: %w", err)
	}
	if err := schema.Validate(inst); err != nil {
		return formatSchemaError(err)
	}
	return nil
}

func formatSchemaError(err error) error {
	verr, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return fmt.Errorf("validation error: %w", err)
	}
	var lines []string
	collectSchemaErrors(verr, &lines)
	return fmt.Errorf("schema validation failed:\n%s", strings.Join(lines, "\n"))
}

func collectSchemaErrors(err *jsonschema.ValidationError, lines *[]string) {
	if len(err.Causes) == 0 {
		location := "/" + strings.Join(err.InstanceLocation, "/")
		keyword := ""
		if err.ErrorKind != nil {
			keyword = strings.Join(err.ErrorKind.KeywordPath(), ".")
		}
		*lines = append(*lines, fmt.Sprintf("  - at %s: %s validation failed", location, keyword))
	}
	for _, cause := range err.Causes {
		collectSchemaErrors(cause, lines)
	}
}
