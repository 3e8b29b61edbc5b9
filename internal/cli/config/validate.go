package config

import "fmt"

// Validate checks configuration consistency. Directory existence is not
// checked here so that help and version invocations work anywhere; the
// walker reports missing roots at analysis time.
func (c *Config) Validate() error {
	if c.SchemaPath == "" {
		return fmt.Errorf("schema path is required")
	}
	if c.Jobs < 1 {
		return fmt.Errorf("jobs must be at least 1, got %d", c.Jobs)
	}
	switch c.OutputFormat {
	case "", "auto", "text", "markdown", "json":
	default:
		return fmt.Errorf("invalid output format %q (want auto|text|markdown|json)", c.OutputFormat)
	}
	return nil
}
