package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/cottand/elab/elab"
	"github.com/cottand/elab/frontend/ilerr"
	"github.com/cottand/elab/frontend/source"
	"github.com/cottand/elab/internal/config"
	"github.com/cottand/elab/internal/log"
)

var CheckCmd = &cobra.Command{
	Use:   "check [module.yaml...]",
	Short: "Elaborate the declarations of desugared modules, in the order given",
	Long: `check loads the modules listed in the project file, then the ones given as
arguments, and elaborates them one after the other against a single environment.
It stops at the first module that does not check.`,
	RunE:          runCheck,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// ErrCheckFailed is returned once the reason for the failure has been printed
var ErrCheckFailed = errors.New("check failed")

var (
	configPath  *string
	mainModule  *string
	logLevel    *string
	logSections *[]string
	dumpEnv     *bool
)

func init() {
	configPath = CheckCmd.Flags().StringP("config", "c", config.FileName, "project file, optional when left as default")
	mainModule = CheckCmd.Flags().StringP("main", "m", "", "module holding the program entry point")
	logLevel = CheckCmd.Flags().StringP("log-level", "l", "", "log level: debug, info, warn or error")
	logSections = CheckCmd.Flags().StringSlice("log-sections", nil, "sections whose debug records are shown")
	dumpEnv = CheckCmd.Flags().Bool("dump-env", false, "print the environment once every module checked")
}

// settings merges the project file with the flags, flags winning
func settings(cmd *cobra.Command) (config.Config, error) {
	c, err := config.Load(*configPath, !cmd.Flags().Changed("config"))
	if err != nil {
		return config.Config{}, err
	}
	if cmd.Flags().Changed("main") {
		c.Main = strings.TrimSpace(*mainModule)
	}
	if cmd.Flags().Changed("log-level") {
		c.LogLevel = *logLevel
	}
	if cmd.Flags().Changed("log-sections") {
		c.LogSections = *logSections
	}
	if cmd.Flags().Changed("dump-env") {
		c.DumpEnv = *dumpEnv
	}
	return c, nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	c, err := settings(cmd)
	if err != nil {
		return err
	}
	level, err := c.Level()
	if err != nil {
		return err
	}
	log.SetLevel(level)
	if c.LogSections != nil {
		log.SetSections(c.LogSections)
	}

	paths := append(append([]string{}, c.Modules...), args...)
	if len(paths) == 0 {
		return errors.New("no modules to check: pass module files or list them in the project file")
	}

	program := elab.NewProgram(elab.Settings{MainModule: c.MainModule()})
	stderr := cmd.ErrOrStderr()
	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			return errors.Wrapf(err, "reading module file %s", path)
		}
		modules, err := source.Parse(path, content)
		if err != nil {
			report(stderr, err)
			return ErrCheckFailed
		}
		for _, m := range modules {
			if err := program.CheckModule(m); err != nil {
				report(stderr, err)
				return ErrCheckFailed
			}
		}
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "checked %d modules\n", len(program.Modules()))
	if c.DumpEnv {
		return program.Env().Dump(out)
	}
	return nil
}

const (
	red   = "\x1b[31m"
	reset = "\x1b[0m"
)

// report prints err the way ilerr.Render does, once per error for loader errors
func report(w io.Writer, err error) {
	var internal *ilerr.InternalError
	if errors.As(err, &internal) {
		_, _ = fmt.Fprintf(w, "%+v\n", err)
		return
	}
	var rendered []string
	var errs *ilerr.Errors
	if errors.As(err, &errs) {
		for _, e := range errs.Errors() {
			rendered = append(rendered, ilerr.Render(e))
		}
	} else {
		rendered = append(rendered, ilerr.Render(err))
	}
	colour := colourful(w)
	for _, r := range rendered {
		if colour {
			r = red + "Error" + reset + strings.TrimPrefix(r, "Error")
		}
		_, _ = fmt.Fprintln(w, r)
	}
}

func colourful(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
