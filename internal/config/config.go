// Package config loads operator-tunable CLI defaults that sit outside
// DSL semantics: chunk size, OCR toggle, and default execution
// timeout. Modeled on the teacher's cli/cmd/config.go DatabaseConfig,
// but tolerant of a missing file since none of these settings are
// required for a script to run.
package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/filesdsl/filesdsl/docextract"
)

// FileName is the config file cmd/fdsl looks for in the current
// directory, analogous to the teacher's sqlcode.yaml.
const FileName = "fdsl.yaml"

// Config holds CLI defaults. Zero Config is invalid; use Default or
// Load.
type Config struct {
	DefaultTimeoutSeconds float64 `yaml:"default_timeout_seconds"`
	ChunkLines            int     `yaml:"chunk_lines"`
	OCREnabled            bool    `yaml:"ocr_enabled"`
}

// Default returns the built-in defaults used when no config file is
// present.
func Default() Config {
	return Config{
		DefaultTimeoutSeconds: 30,
		ChunkLines:            docextract.DefaultTextChunkLines,
		OCREnabled:            false,
	}
}

// Load reads path (FileName if empty), merging onto Default. A
// missing file is not an error: the teacher's LoadConfig treats a
// missing sqlcode.yaml as fatal only because its one call site
// requires database credentials; fdsl has no such requirement.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = FileName
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
