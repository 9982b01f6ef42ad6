// Package core implements skill resolution and packaging: the manifest model,
// the repository resolver and its cache, the archiver and the config
// prompter. It has no UI dependencies and is independently testable.
package core

const (
	// AppDirName is the per-user application directory name.
	AppDirName = "rhasspy_skills"

	// ManifestFileName is the skill descriptor inside every skill folder.
	ManifestFileName = "manifest.json"

	// ConfigFileName holds the collected configuration bundled with a skill.
	ConfigFileName = "config.json"
)

// Manifest describes a skill. Field order matches the manifest.json layout.
type Manifest struct {
	Name           string         `json:"name" jsonschema:"required,description=Human readable skill name"`
	Slug           string         `json:"slug" jsonschema:"required,description=Unique identifier used in paths and URLs,pattern=^[A-Za-z0-9][A-Za-z0-9_.-]*$"`
	Version        string         `json:"version" jsonschema:"required,description=Semantic version of the skill"`
	InternetAccess bool           `json:"internet_access" jsonschema:"default=false"`
	Description    string         `json:"description,omitempty"`
	Image          string         `json:"image,omitempty"`
	Languages      []string       `json:"languages,omitempty" jsonschema:"description=Supported locale tags"`
	AutoTrain      bool           `json:"auto_train" jsonschema:"default=true"`
	TopicAccess    map[string]int `json:"topic_access,omitempty" jsonschema:"description=Access level per topic"`
	DefaultConfig  map[string]any `json:"default_config,omitempty"`
	SchemaConfig   *Schema        `json:"schema_config,omitempty"`
}
