package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/tordrt/cinemaschema"
	"github.com/tordrt/cinemaschema/internal/schema"
)

func (a *app) upCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := a.options()
			if err != nil {
				return err
			}

			applied, err := cinemaschema.Migrate(cmd.Context(), a.cfg.DatabaseURL, opts)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(applied) == 0 {
				_, _ = fmt.Fprintln(out, "Schema is up to date")
				return nil
			}
			for _, name := range applied {
				_, _ = fmt.Fprintf(out, "%s %s\n", color.GreenString("applied"), name)
			}
			return nil
		},
	}
}

func (a *app) downCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "down",
		Short: "Revert the most recently applied migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := a.options()
			if err != nil {
				return err
			}

			name, err := cinemaschema.Rollback(cmd.Context(), a.cfg.DatabaseURL, opts)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", color.YellowString("reverted"), name)
			return nil
		},
	}
}

func (a *app) statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show which migrations are applied",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := a.options()
			if err != nil {
				return err
			}

			status, err := cinemaschema.Status(cmd.Context(), a.cfg.DatabaseURL, opts)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, s := range status {
				state := color.YellowString("pending")
				if s.Applied {
					state = color.GreenString("applied")
				}
				_, _ = fmt.Fprintf(out, "%-8s %d %s\n", state, s.ID, s.Name)
			}
			return nil
		},
	}
}

// outputFlags are shared by the commands that print a schema
type outputFlags struct {
	format    string
	output    string
	outputDir string
}

func (o *outputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.format, "format", "f", "text", "Output format: text or markdown")
	cmd.Flags().StringVarP(&o.output, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().StringVarP(&o.outputDir, "output-dir", "d", "", "Output directory for multi-file output")
}

func (o *outputFlags) write(cmd *cobra.Command, s *schema.Schema) error {
	if o.outputDir != "" && o.output != "" {
		return fmt.Errorf("cannot use both --output-dir and --output flags")
	}

	var writer io.Writer = cmd.OutOrStdout()
	if o.output != "" {
		f, err := os.Create(o.output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer func() {
			if err := f.Close(); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to close output file: %v\n", err)
			}
		}()
		writer = f
	}

	if err := cinemaschema.FormatSchema(s, &cinemaschema.OutputOptions{
		Writer:    writer,
		OutputDir: o.outputDir,
		Format:    o.format,
	}); err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	return nil
}

func (a *app) describeCmd() *cobra.Command {
	var out outputFlags
	var dialect string

	cmd := &cobra.Command{
		Use:   "describe",
		Short: "Print the declared schema without connecting to a database",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := cinemaschema.Describe(dialect)
			if err != nil {
				return err
			}
			return out.write(cmd, s)
		},
	}
	out.register(cmd)
	cmd.Flags().StringVar(&dialect, "dialect", "", "Show physical types for postgres, mysql, or sqlite")
	return cmd
}

func (a *app) inspectCmd() *cobra.Command {
	var out outputFlags
	var tables, exclude string

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Print the live schema of the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := a.options()
			if err != nil {
				return err
			}
			opts.Tables = parseTableList(tables)
			opts.ExcludeTables = parseTableList(exclude)

			s, err := cinemaschema.Inspect(cmd.Context(), a.cfg.DatabaseURL, opts)
			if err != nil {
				return err
			}
			return out.write(cmd, s)
		},
	}
	out.register(cmd)
	cmd.Flags().StringVarP(&tables, "tables", "t", "", "Specific tables (comma-separated, optional)")
	cmd.Flags().StringVar(&exclude, "exclude", "", "Tables to leave out (comma-separated)")
	return cmd
}
