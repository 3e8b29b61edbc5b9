package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/schemaprune/internal/cli/output"
	"github.com/leapstack-labs/schemaprune/internal/schema"
)

// NewListCommand creates the list command.
func NewListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List declared schema models",
		Long: `List every model declared in the schema with its field count and
declared relationships. No source scanning is performed.`,
		Example: `  # List models from the configured schema
  schemaprune list

  # List models as JSON
  schemaprune list --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd)
		},
	}
	return cmd
}

func runList(cmd *cobra.Command) error {
	cmdCtx := NewCommandContext(cmd)

	models, err := schema.Load(cmdCtx.Cfg.SchemaPath)
	if err != nil {
		return err
	}

	r := cmdCtx.Renderer
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(models.Models())
	}

	r.Header(1, fmt.Sprintf("Models (%d total)", models.Len()))
	for i, m := range models.Models() {
		relStr := ""
		if len(m.Relationships) > 0 {
			var rels []string
			for _, rel := range m.Relationships {
				suffix := ""
				if rel.IsArray {
					suffix = "[]"
				}
				rels = append(rels, rel.Model+suffix)
			}
			relStr = fmt.Sprintf(" -> %s", strings.Join(rels, ", "))
		}
		r.Printf("  %2d. %-30s %d fields%s\n", i+1, m.Name, len(m.Fields), relStr)
	}
	return nil
}
