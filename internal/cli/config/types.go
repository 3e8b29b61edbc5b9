// Package config provides configuration management for the schemaprune CLI.
package config

// Config holds all CLI configuration options.
type Config struct {
	SchemaPath   string   `koanf:"schema"`
	ServerRoots  []string `koanf:"server_roots"`
	ClientRoots  []string `koanf:"client_roots"`
	Extensions   []string `koanf:"extensions"`
	ExcludeDirs  []string `koanf:"exclude_dirs"`
	StatePath    string   `koanf:"state_path"`
	OutputFormat string   `koanf:"output"`
	Verbose      bool     `koanf:"verbose"`
	Strict       bool     `koanf:"strict"`
	Jobs         int      `koanf:"jobs"`

	// ProjectRoot is the directory config-relative paths resolve against.
	// Derived during loading, never set from a file.
	ProjectRoot string `koanf:"-"`
}

// Default configuration values.
const (
	DefaultSchemaPath = "prisma/schema.prisma"
	DefaultStateFile  = ".schemaprune/history.db"
	DefaultOutput     = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultJobs       = 1
)
