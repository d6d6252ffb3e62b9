package model

import (
	_ "embed"
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed uispec.schema.json
var uiSpecSchema string

// ValidateUISpec validates a generated UI spec payload against the embedded
// schema before it is allowed anywhere near a preview surface. Section types
// outside the fixed component set are legal; renderers skip them.
func ValidateUISpec(m map[string]interface{}) error {
	schemaLoader := gojsonschema.NewStringLoader(uiSpecSchema)
	docLoader := gojsonschema.NewGoLoader(m)

	res, err := gojsonschema.Validate(schemaLoader, docLoader)
	if err != nil {
		return err
	}
	if res.Valid() {
		return nil
	}
	msgs := ""
	for _, e := range res.Errors() {
		msgs += fmt.Sprintf("%s; ", e.String())
	}
	return fmt.Errorf("ui spec validation failed: %s", msgs)
}
