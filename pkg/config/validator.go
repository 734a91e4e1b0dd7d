package config

import (
	"fmt"
	"path/filepath"

	"github.com/xeipuuv/gojsonschema"
)

// Validate validates a settings file against the JSON schema
func Validate(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return &Error{Reason: fmt.Sprintf("cannot resolve settings path: %v", err)}
	}

	schemaLoader := gojsonschema.NewStringLoader(Schema)
	documentLoader := gojsonschema.NewReferenceLoader("file://" + abs)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return &Error{Reason: fmt.Sprintf("failed to validate schema: %v", err)}
	}

	if !result.Valid() {
		reason := "settings file is not valid"
		for _, desc := range result.Errors() {
			reason += fmt.Sprintf("; %s", desc)
		}
		return &Error{Reason: reason}
	}

	return nil
}
