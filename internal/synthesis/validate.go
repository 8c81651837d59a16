package synthesis

import (
	_ "embed"

	"github.com/xeipuuv/gojsonschema"
	"go.uber.org/zap"
)

//go:embed profile_schema.json
var profileSchemaJSON string

// validateAdvisory checks the extracted document against the expected shape
// and logs every deviation. The sanitizer remains the authority on what
// enters the typed model, so validation failures are never fatal. They exist
// to make schema drift visible in the logs.
func validateAdvisory(doc map[string]any, logger *zap.Logger) {
	schema := gojsonschema.NewStringLoader(profileSchemaJSON)
	payload := gojsonschema.NewGoLoader(doc)

	result, err := gojsonschema.Validate(schema, payload)
	if err != nil {
		logger.Warn("profile schema validation unavailable", zap.Error(err))
		return
	}

	if result.Valid() {
		return
	}

	for _, issue := range result.Errors() {
		logger.Warn("synthesized profile deviates from schema",
			zap.String("field", issue.Field()),
			zap.String("issue", issue.Description()),
		)
	}
}
