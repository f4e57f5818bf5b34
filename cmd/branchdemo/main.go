// cmd/branchdemo/main.go
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sghaida/osingleton/branch"
	"github.com/sghaida/osingleton/internal/config"
	"github.com/sghaida/osingleton/singleton"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// This binary walks through the single-branch demonstration.
//
// Key behaviors:
// - Loads the first branch record from env (BRANCH_*) and an optional YAML seed file
// - Flags override env/seed values
// - Constructs the branch twice with different payloads and shows both handles are the same branch
// - Attempts an unauthorized, then an authorized, telephone update

// options collects the flag values.
type options struct {
	name            string
	telephone       string
	secondName      string
	secondTelephone string
	newTelephone    string
	logLevel        string
}

// Demo defaults used when neither env, seed file nor flags set a value.
var defaultRecord = branch.Record{Name: "New York", Telephone: "555-5000"}

// run executes the demo and returns an exit code.
// It exists separately from main to allow unit testing without os.Exit.
// environ nil means the process environment; holders is where the branch lives.
func run(args []string, environ map[string]string, holders *singleton.Registry, stdout, stderr io.Writer) int {
	cmd := newRootCommand(environ, holders, stdout, stderr)
	cmd.SetArgs(args)

	if err := cmd.Execute(); err != nil {
		_, _ = fmt.Fprintln(stderr, "branchdemo:", err)
		return 1
	}
	return 0
}

func main() {
	os.Exit(run(os.Args[1:], nil, singleton.Default(), os.Stdout, os.Stderr))
}

func newRootCommand(environ map[string]string, holders *singleton.Registry, stdout, stderr io.Writer) *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:           "branchdemo",
		Short:         "Show that a process only ever has one bank branch",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(
				config.WithEnvironment(environ),
				config.WithDefaults(defaultRecord),
				config.WithOverrides(branch.Record{Name: opts.name, Telephone: opts.telephone}),
			)
			if err != nil {
				return err
			}

			level := cfg.LogLevel
			if cmd.Flags().Changed("log-level") {
				level = opts.logLevel
			}
			logger, err := newLogger(level, stderr)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			return demo(cfg.Branch, opts, holders, logger, stdout)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.name, "name", "", "name of the first branch (default \"New York\")")
	flags.StringVar(&opts.telephone, "telephone", "", "telephone of the first branch")
	flags.StringVar(&opts.secondName, "second-name", "Amsterdam", "name passed to the second Construct call")
	flags.StringVar(&opts.secondTelephone, "second-telephone", "420-6969", "telephone passed to the second Construct call")
	flags.StringVar(&opts.newTelephone, "new-telephone", "777-7000", "telephone used for the update attempts")
	flags.StringVar(&opts.logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	return cmd
}

func newLogger(level string, w io.Writer) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.TimeKey = ""
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(w), lvl)
	return zap.New(core), nil
}

// demo prints the walkthrough to out.
func demo(first branch.Record, opts options, holders *singleton.Registry, logger *zap.Logger, out io.Writer) error {
	reg := branch.NewRegistry(
		branch.WithLogger(logger),
		branch.WithHolders(holders),
	)

	second := branch.Record{Name: opts.secondName, Telephone: opts.secondTelephone}

	p := &printer{w: out}
	p.printf("Attempting to create branch %q\n", first.Name)
	a := reg.Construct(first)
	p.printf("This is branch A: %+v\n", a.GetInfo())

	p.printf("Attempting to create branch %q\n", second.Name)
	b := reg.Construct(second)
	p.printf("This is branch B: %+v\n", b.GetInfo())

	p.printf("\nBranch A is the same as Branch B: %t\n", a == b)
	p.printf("There is only one Branch object in this process: %t\n", a == b)
	p.printf("We have successfully implemented a Singleton pattern: %t\n", a == b)

	p.printf("\nUpdating telephone to %q without authorization\n", opts.newTelephone)
	err := a.UpdateTelephone(opts.newTelephone, false)
	switch {
	case errors.Is(err, branch.ErrPermissionDenied):
		p.printf("Update refused: %v\n", err)
	case err != nil:
		return err
	}
	p.printf("Branch info: %+v\n", b.GetInfo())

	p.printf("\nUpdating telephone to %q with authorization\n", opts.newTelephone)
	if err := a.UpdateTelephone(opts.newTelephone, true); err != nil {
		return err
	}
	p.printf("Branch info: %+v\n", b.GetInfo())

	return p.err
}

// printer remembers the first write error so demo can report it once.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}
