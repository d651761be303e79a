// Package main provides an offline CLI that computes next-session targets
// from a JSON history file or FIT activity files.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/2beens/gymprogress/internal/config"
	"github.com/2beens/gymprogress/internal/gymstats/fitimport"
	"github.com/2beens/gymprogress/internal/progression"
	"github.com/2beens/gymprogress/pkg"

	"github.com/spf13/cobra"
)

const (
	defaultEnv        = "development"
	defaultConfigPath = "./config.toml"
)

type rootOptions struct {
	env        string
	configPath string
}

type computeOptions struct {
	rule        string
	historyPath string
	fitPaths    []string
	adherence   float64
	jsonOutput  bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	rootCmd := &cobra.Command{
		Use:           "progression",
		Short:         "Compute training progression targets offline",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.PersistentFlags().StringVar(&opts.env, "env", defaultEnv, "config environment [prod | production | dev | development | ddev | dockerdev]")
	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", defaultConfigPath, "TOML config with progression bounds; defaults are used when missing")

	rootCmd.AddCommand(newComputeCmd(opts))
	rootCmd.AddCommand(newBoundsCmd(opts))

	return rootCmd
}

func newComputeCmd(root *rootOptions) *cobra.Command {
	opts := &computeOptions{}
	cmd := &cobra.Command{
		Use:   "compute",
		Short: "Compute adjustments from a history file or FIT files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCompute(cmd, root, opts)
		},
	}

	cmd.Flags().StringVar(&opts.rule, "rule", "", "progression rule: INTENSITY or VOLUME")
	cmd.Flags().StringVar(&opts.historyPath, "history", "", "JSON file with an array of history entries (- for stdin)")
	cmd.Flags().StringSliceVar(&opts.fitPaths, "fit", nil, "FIT activity file(s) to import sets from")
	cmd.Flags().Float64Var(&opts.adherence, "adherence", fitimport.DefaultOptions().Adherence, "adherence assigned to imported FIT sets (0-1)")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "print adjustments as JSON")
	_ = cmd.MarkFlagRequired("rule")

	return cmd
}

func newBoundsCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "bounds",
		Short: "Print the progression bounds in effect",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			bounds, err := loadBounds(root)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), bounds)
		},
	}
}

func runCompute(cmd *cobra.Command, root *rootOptions, opts *computeOptions) error {
	rule, err := progression.ParseRule(opts.rule)
	if err != nil {
		return err
	}

	if opts.historyPath == "" && len(opts.fitPaths) == 0 {
		return errors.New("no input: use --history and/or --fit")
	}

	bounds, err := loadBounds(root)
	if err != nil {
		return err
	}
	engine, err := progression.NewEngine(bounds)
	if err != nil {
		return err
	}

	var history []progression.HistoryEntry
	if opts.historyPath != "" {
		entries, err := readHistory(cmd.InOrStdin(), opts.historyPath)
		if err != nil {
			return err
		}
		history = append(history, entries...)
	}

	if len(opts.fitPaths) > 0 {
		importer, err := fitimport.NewImporter(fitimport.Options{Adherence: opts.adherence})
		if err != nil {
			return err
		}
		for _, path := range opts.fitPaths {
			entries, err := importer.DecodeFile(path)
			if err != nil {
				return fmt.Errorf("import fit file [%s]: %w", path, err)
			}
			history = append(history, entries...)
		}
	}

	adjustments, err := engine.ComputeAdjustments(history, rule)
	if err != nil {
		for _, vErr := range progression.ValidationErrors(err) {
			fmt.Fprintf(cmd.ErrOrStderr(), " - %s\n", vErr)
		}
		return fmt.Errorf("invalid history: %d violation(s)", len(progression.ValidationErrors(err)))
	}

	if opts.jsonOutput {
		return printJSON(cmd.OutOrStdout(), adjustments)
	}
	return printTable(cmd.OutOrStdout(), rule, adjustments)
}

func loadBounds(root *rootOptions) (progression.Bounds, error) {
	exists, err := pkg.PathExists(root.configPath, false)
	if err != nil {
		return progression.Bounds{}, fmt.Errorf("check config path: %w", err)
	}
	if !exists {
		return progression.DefaultBounds(), nil
	}

	cfg, err := config.Load(root.env, root.configPath)
	if err != nil {
		return progression.Bounds{}, fmt.Errorf("load config: %w", err)
	}
	return cfg.ProgressionBounds()
}

func readHistory(stdin io.Reader, path string) ([]progression.HistoryEntry, error) {
	var r io.Reader
	if path == "-" {
		r = stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open history file: %w", err)
		}
		defer f.Close()
		r = f
	}

	var history []progression.HistoryEntry
	if err := json.NewDecoder(r).Decode(&history); err != nil {
		return nil, fmt.Errorf("decode history [%s]: %w", path, err)
	}
	return history, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printTable(w io.Writer, rule progression.Rule, adjustments []progression.Adjustment) error {
	if len(adjustments) == 0 {
		_, err := fmt.Fprintln(w, "no history, nothing to progress")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "rule: %s\n", rule)
	fmt.Fprintln(tw, "EXERCISE\tWEIGHT\tREPS\tADHERENCE")
	for _, a := range adjustments {
		fmt.Fprintf(tw, "%s\t%.2f\t%d\t%.2f\n", a.ExerciseID, a.TargetWeight, a.TargetReps, a.Adherence)
	}
	return tw.Flush()
}
