package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"docref/internal/app"
	"docref/internal/types"
)

type populateOptions struct {
	Schema      string
	Data        string
	Collection  string
	Requests    string
	Paths       []string
	OutputDir   string
	Format      string
	Store       string
	SQLitePath  string
	PostgresDSN string
	Strict      bool
	Verify      bool
}

func newPopulateCommand() *cobra.Command {
	opts := populateOptions{}
	cmd := &cobra.Command{
		Use:   "populate",
		Short: "Resolve references on a collection and write the populated documents",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPopulate(cmd.Context(), cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Schema, "schema", "", "Schema file path")
	cmd.Flags().StringVar(&opts.Data, "data", "", "Dataset directory")
	cmd.Flags().StringVar(&opts.Collection, "collection", "", "Root collection to populate")
	cmd.Flags().StringVar(&opts.Requests, "requests", "", "Population request file")
	cmd.Flags().StringSliceVar(&opts.Paths, "path", nil, "Population path(s), space separated lists allowed")
	cmd.Flags().StringVar(&opts.OutputDir, "output", "out", "Output directory")
	cmd.Flags().StringVar(&opts.Format, "format", "json", "Output format (json or yaml)")
	cmd.Flags().StringVar(&opts.Store, "store", "memory", "Document store (memory, sqlite or postgres)")
	cmd.Flags().StringVar(&opts.SQLitePath, "sqlite-path", "", "SQLite database path")
	cmd.Flags().StringVar(&opts.PostgresDSN, "postgres-dsn", "", "Postgres connection string")
	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "Fail on unresolved paths and missing models")
	cmd.Flags().BoolVar(&opts.Verify, "verify", false, "Depopulate after writing and check the raw references are restored")

	_ = viper.BindPFlag("schema", cmd.Flags().Lookup("schema"))
	_ = viper.BindPFlag("data", cmd.Flags().Lookup("data"))
	_ = viper.BindPFlag("collection", cmd.Flags().Lookup("collection"))
	_ = viper.BindPFlag("requests", cmd.Flags().Lookup("requests"))
	_ = viper.BindPFlag("paths", cmd.Flags().Lookup("path"))
	_ = viper.BindPFlag("output", cmd.Flags().Lookup("output"))
	_ = viper.BindPFlag("format", cmd.Flags().Lookup("format"))
	_ = viper.BindPFlag("store", cmd.Flags().Lookup("store"))
	_ = viper.BindPFlag("sqlite_path", cmd.Flags().Lookup("sqlite-path"))
	_ = viper.BindPFlag("postgres_dsn", cmd.Flags().Lookup("postgres-dsn"))
	_ = viper.BindPFlag("strict", cmd.Flags().Lookup("strict"))
	_ = viper.BindPFlag("verify", cmd.Flags().Lookup("verify"))

	return cmd
}

func runPopulate(ctx context.Context, cmd *cobra.Command, opts populateOptions) error {
	service := newAppService()
	result, err := service.Populate(ctx, app.PopulateRequest{
		SchemaPath:      resolveString(cmd, opts.Schema, "schema", "schema"),
		DataDir:         resolveString(cmd, opts.Data, "data", "data"),
		Collection:      resolveString(cmd, opts.Collection, "collection", "collection"),
		RequestsPath:    resolveString(cmd, opts.Requests, "requests", "requests"),
		Paths:           resolveStrings(cmd, opts.Paths, "paths", "path"),
		OutputDir:       resolveString(cmd, opts.OutputDir, "output", "output"),
		Format:          types.OutputFormat(resolveString(cmd, opts.Format, "format", "format")),
		Store:           types.StoreKind(resolveString(cmd, opts.Store, "store", "store")),
		SQLitePath:      resolveString(cmd, opts.SQLitePath, "sqlite_path", "sqlite-path"),
		PostgresDSN:     resolveString(cmd, opts.PostgresDSN, "postgres_dsn", "postgres-dsn"),
		Strict:          resolveBool(cmd, opts.Strict, "strict", "strict"),
		VerifyRoundTrip: resolveBool(cmd, opts.Verify, "verify", "verify"),
	})
	if err != nil {
		return err
	}

	fmt.Printf("populated %d %s documents in %s\n", result.Documents, result.Collection, result.Elapsed.Round(time.Millisecond))
	if len(result.Populated) > 0 {
		fmt.Printf("paths: %s\n", strings.Join(result.Populated, ", "))
	}
	if result.OutputPath != "" {
		fmt.Printf("written: %s\n", result.OutputPath)
	}
	if result.RoundTripVerified {
		fmt.Println("depopulation round-trip verified")
	}
	return nil
}
