// scriptbox - sandboxed entity scripting
//
// Runs, checks and inspects scriptbox scripts. Entities are YAML
// documents bound as the script's facade.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/kolkov/scriptbox"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "scriptbox: %v\n", err)
		os.Exit(1)
	}
}

// globals are the flags shared by every command.
type globals struct {
	config    string
	maxSteps  int
	maxMillis int
	debug     bool
}

func newRootCmd() *cobra.Command {
	var g globals

	rootCmd := &cobra.Command{
		Use:           "scriptbox",
		Short:         "Run sandboxed entity scripts",
		Version:       scriptbox.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&g.config, "config", "c", "", "YAML options file")
	rootCmd.PersistentFlags().IntVar(&g.maxSteps, "max-steps", 0, "step budget per invocation (default 100000)")
	rootCmd.PersistentFlags().IntVar(&g.maxMillis, "max-millis", 0, "time budget per invocation in ms (default 250)")
	rootCmd.PersistentFlags().BoolVar(&g.debug, "debug", false, "log run diagnostics to stderr")

	rootCmd.AddCommand(
		newRunCmd(&g),
		newCheckCmd(&g),
		newASTCmd(&g),
		newReplCmd(&g),
		newNamesCmd(&g),
	)
	return rootCmd
}

// options loads the config file, if any, and applies flag overrides.
func (g *globals) options(stderr io.Writer) (*scriptbox.Options, error) {
	opts := &scriptbox.Options{}
	if g.config != "" {
		f, err := os.Open(g.config)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		if opts, err = scriptbox.LoadOptions(f); err != nil {
			return nil, fmt.Errorf("%s: %w", g.config, err)
		}
	}
	if g.maxSteps > 0 {
		opts.MaxSteps = g.maxSteps
	}
	if g.maxMillis > 0 {
		opts.MaxMillis = g.maxMillis
	}

	level := slog.LevelWarn
	if g.debug {
		level = slog.LevelDebug
	}
	opts.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	return opts, nil
}

func newCheckCmd(g *globals) *cobra.Command {
	var identifiers, free bool
	cmd := &cobra.Command{
		Use:   "check <file|->",
		Short: "Parse a script without running it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := g.options(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			prog, err := parseFile(args[0], cmd.InOrStdin(), opts)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			analysis := prog.Analyze(opts)
			for _, w := range analysis.Warnings {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s:%s\n", args[0], w)
			}
			switch {
			case identifiers:
				for _, name := range prog.Identifiers() {
					fmt.Fprintln(out, name)
				}
			case free:
				for _, name := range analysis.Free {
					fmt.Fprintln(out, name)
				}
			default:
				fmt.Fprintf(out, "%s: ok\n", args[0])
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&identifiers, "identifiers", false, "list the identifiers the script uses")
	cmd.Flags().BoolVar(&free, "free", false, "list the names the host must supply")
	return cmd
}

func newASTCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "ast <file|->",
		Short: "Print the syntax tree of a script",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := g.options(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			prog, err := parseFile(args[0], cmd.InOrStdin(), opts)
			if err != nil {
				return err
			}
			_, err = io.WriteString(cmd.OutOrStdout(), prog.Dump())
			return err
		},
	}
}

func newNamesCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "names",
		Short: "Print the naming tables for highlighters and obfuscators",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := g.options(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(opts.Names()); err != nil {
				return err
			}
			return enc.Close()
		},
	}
}

// parseFile reads a script from path, or from stdin for "-".
func parseFile(path string, stdin io.Reader, opts *scriptbox.Options) (*scriptbox.Program, error) {
	src, err := readSource(path, stdin)
	if err != nil {
		return nil, err
	}
	prog, err := scriptbox.ParseWith(src, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return prog, nil
}

func readSource(path string, stdin io.Reader) (string, error) {
	if path == "-" {
		b, err := io.ReadAll(stdin)
		return string(b), err
	}
	b, err := os.ReadFile(path)
	return string(b), err
}
