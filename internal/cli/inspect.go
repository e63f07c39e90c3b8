package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"docref/internal/app"
	"docref/internal/types"
)

type inspectOptions struct {
	Schema string
	Data   string
}

func newInspectCommand() *cobra.Command {
	opts := inspectOptions{}
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Summarize a schema's collections and the references between them",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInspect(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.Schema, "schema", "", "Schema file path")
	cmd.Flags().StringVar(&opts.Data, "data", "", "Dataset directory (optional)")
	_ = viper.BindPFlag("schema", cmd.Flags().Lookup("schema"))
	_ = viper.BindPFlag("data", cmd.Flags().Lookup("data"))
	return cmd
}

func runInspect(ctx context.Context, cmd *cobra.Command, opts inspectOptions) error {
	service := newAppService()
	result, err := service.Inspect(ctx, app.InspectRequest{
		SchemaPath: resolveString(cmd, opts.Schema, "schema", "schema"),
		DataDir:    resolveString(cmd, opts.Data, "data", "data"),
	})
	if err != nil {
		return err
	}

	fmt.Printf("schema %s: %d collections\n", result.SchemaVersion, len(result.Collections))
	for _, summary := range result.Collections {
		fmt.Printf("- %s: %d documents\n", summary.Name, summary.Documents)
		for _, ref := range summary.References {
			if ref.Kind == types.RefKindVirtual {
				fmt.Printf("  %s <- %s\n", ref.Path, ref.Collection)
				continue
			}
			fmt.Printf("  %s -> %s\n", ref.Path, ref.Collection)
		}
	}
	return nil
}
