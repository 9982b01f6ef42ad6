package core

import (
	"github.com/invopop/jsonschema"
)

// ManifestJSONSchema returns the JSON Schema describing manifest.json.
func ManifestJSONSchema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		DoNotReference:             true,
	}
	s := reflector.Reflect(&Manifest{})
	s.Title = "rhasspy skill manifest"
	return s
}
