package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/tuannm99/novaddl"
	"github.com/tuannm99/novaddl/internal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "novaddl:", err)
		stop()
		os.Exit(1)
	}
}

type cliFlags struct {
	configPath string
	dialect    string
}

func newRootCmd() *cobra.Command {
	var flags cliFlags

	root := &cobra.Command{
		Use:           "novaddl",
		Short:         "lower logical DDL plans for a warehouse dialect",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "path to a YAML config file")
	root.PersistentFlags().StringVar(&flags.dialect, "dialect", "", "target dialect, overrides the config")

	root.AddCommand(
		&cobra.Command{
			Use:   "lower [plan.yaml...]",
			Short: "lower plan files and print the physical trees",
			Long: `
  Lowers every plan file (stdin when none is given) for the configured
  dialect and prints one physical tree per file.
`,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runLower(cmd, flags, args)
			},
		},
		&cobra.Command{
			Use:   "check",
			Short: "report node kinds the dialect has no visitor for",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runCheck(cmd, flags)
			},
		},
		&cobra.Command{
			Use:   "dialects",
			Short: "list the known dialect profiles",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runDialects(cmd, flags)
			},
		},
	)
	return root
}

func loadConfig(flags cliFlags) (*internal.NovaDDLConfig, error) {
	cfg, err := internal.LoadConfig(flags.configPath)
	if err != nil {
		return nil, err
	}
	if flags.dialect != "" {
		cfg.Dialect = flags.dialect
	}
	return cfg, nil
}

func newLowerer(cmd *cobra.Command, flags cliFlags) (*novaddl.Lowerer, error) {
	cfg, err := loadConfig(flags)
	if err != nil {
		return nil, err
	}
	logger, err := cfg.Logger(cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}
	return novaddl.NewLowerer(cfg, nil, logger)
}

func runLower(cmd *cobra.Command, flags cliFlags, args []string) error {
	l, err := newLowerer(cmd, flags)
	if err != nil {
		return err
	}

	names := args
	readers := make([]io.Reader, 0, len(args))
	if len(args) == 0 {
		names = []string{"<stdin>"}
		readers = append(readers, cmd.InOrStdin())
	}
	for _, path := range args {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open plan: %w", err)
		}
		defer f.Close()
		readers = append(readers, f)
	}

	plans, err := l.LowerFiles(cmd.Context(), readers)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for i, p := range plans {
		fmt.Fprintf(out, "-- %s (%s, %d nodes)\n", names[i], p.Dialect, p.Visited)
		fmt.Fprint(out, p.Tree.String())
	}
	return nil
}

func runCheck(cmd *cobra.Command, flags cliFlags) error {
	l, err := newLowerer(cmd, flags)
	if err != nil {
		return err
	}

	errs := multierr.Errors(l.Check())
	out := cmd.OutOrStdout()
	for _, e := range errs {
		fmt.Fprintln(out, e)
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s: %d node kinds cannot be lowered", l.Dialect(), len(errs))
	}
	fmt.Fprintf(out, "%s: ok\n", l.Dialect())
	return nil
}

func runDialects(cmd *cobra.Command, flags cliFlags) error {
	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}
	catalog, err := novaddl.Catalog(cfg.ProfilesFile)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, name := range catalog.Names() {
		p, _ := catalog.Lookup(name)
		marker := " "
		if strings.EqualFold(string(name), cfg.Dialect) {
			marker = "*"
		}
		fmt.Fprintf(out, "%s %-10s %s\n", marker, name, p.Features)
	}
	return nil
}
