package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/silt-lang/silt/internal/config"
	"github.com/silt-lang/silt/pkg/crash"
	"github.com/silt-lang/silt/pkg/heap"
	"github.com/silt-lang/silt/pkg/script"
	"github.com/silt-lang/silt/pkg/types"
)

const version = "silt-rt v0.1.0"

type options struct {
	configFile string
	checks     bool
	heapLimit  int64
	trace      bool

	cfg config.Config
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "silt-rt",
		Short: "Drive the silt runtime value layer",
		Long: `silt-rt exercises the runtime value layer: it lists registered types
and executes trace scripts against the runtime boundary.`,
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: opts.load,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", "", "config file (default: silt.yaml in the working directory)")
	flags.BoolVar(&opts.checks, "checks", false, "enable debug checks")
	flags.Int64Var(&opts.heapLimit, "heap-limit", 0, "heap limit in bytes, 0 for unlimited")
	flags.BoolVar(&opts.trace, "trace", false, "print every witness operation")

	root.AddCommand(newTypesCmd(opts), newRunCmd(opts), newVersionCmd())
	return root
}

// load reads the configuration; flags given on the command line win.
func (opts *options) load(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "version" {
		return nil
	}

	cfg, err := config.Load(".", opts.configFile)
	if err != nil {
		return err
	}

	changed := cmd.Flags().Changed
	if changed("checks") {
		cfg.Checks = opts.checks
	}
	if changed("heap-limit") {
		if opts.heapLimit < 0 {
			return fmt.Errorf("--heap-limit must not be negative, got %d", opts.heapLimit)
		}
		cfg.HeapLimit = opts.heapLimit
	}
	if changed("trace") {
		cfg.Trace = opts.trace
	}
	opts.cfg = cfg
	return nil
}

// newHeap returns a fresh heap with the configured settings applied.
func (opts *options) newHeap() *heap.Heap {
	h := heap.New(crash.Default)
	opts.cfg.Apply(h)
	return h
}

func newTypesCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "types [FILE...]",
		Short: "List registered types",
		Long: `List the builtin types. With script files, list the types each
script registers, after running it with its output discarded.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(args) == 0 {
				listTypes(out, types.Default)
				return nil
			}

			for n, file := range args {
				in := script.New(io.Discard, opts.newHeap())
				if err := runFile(in, file); err != nil {
					return err
				}
				if len(args) > 1 {
					header(out, n, file)
				}
				listTypes(out, in.Types())
			}
			return nil
		},
	}
}

func listTypes(out io.Writer, reg *types.Registry) {
	for _, it := range reg.Entries() {
		typ := it.Type
		fmt.Fprintf(out, "%3d  %-8s %3d  %s", typ.Id(), typ.Name(), typ.Size(), typ.Kind())
		if it.IsTrivial() {
			fmt.Fprint(out, " trivial")
		}
		fmt.Fprintln(out)
	}
}

func newRunCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "run FILE...",
		Short: "Execute trace scripts",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for n, file := range args {
				if len(args) > 1 {
					header(out, n, file)
				}
				in := script.New(out, opts.newHeap())
				in.SetTrace(opts.cfg.Trace)
				if err := runFile(in, file); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func runFile(in *script.Interpreter, file string) error {
	input, err := os.Open(file)
	if err != nil {
		return err
	}
	defer input.Close()

	if err := in.Run(input); err != nil {
		return fmt.Errorf("%s: %w", file, err)
	}
	return nil
}

func header(out io.Writer, n int, file string) {
	if n > 0 {
		fmt.Fprintln(out)
	}
	fmt.Fprintf(out, "==> %s <==\n", file)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}
}
