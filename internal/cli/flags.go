// Package cli provides the command-line interface for crucible.
package cli

import (
	stderrors "errors"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/crucible-dev/crucible/internal/errors"
)

// Process exit codes: 0 success, 1 execution failure, 2 invalid input.
const (
	ExitSuccess      = 0
	ExitError        = 1
	ExitInvalidInput = 2
)

// Accepted --output values.
const (
	OutputText = "text"
	OutputJSON = "json"
)

// GlobalFlags carries the persistent flags shared by every subcommand.
type GlobalFlags struct {
	// Output selects text or json rendering.
	Output string
	// Verbose raises the log level to debug.
	Verbose bool
	// Quiet drops the log level to warn. Mutually exclusive with Verbose.
	Quiet bool
}

// AddGlobalFlags registers the persistent flags on the root command.
func AddGlobalFlags(cmd *cobra.Command, flags *GlobalFlags) {
	pf := cmd.PersistentFlags()
	pf.StringVarP(&flags.Output, "output", "o", OutputText, "output format (text|json)")
	pf.BoolVarP(&flags.Verbose, "verbose", "v", false, "enable verbose output")
	pf.BoolVarP(&flags.Quiet, "quiet", "q", false, "suppress non-essential output")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")
}

// BindGlobalFlags wires the persistent flags into viper so CRUCIBLE_OUTPUT,
// CRUCIBLE_VERBOSE, and CRUCIBLE_QUIET can override them. Flags are looked up
// through cmd.Root() because subcommand PersistentPreRunE hooks call this too.
func BindGlobalFlags(v *viper.Viper, cmd *cobra.Command) error {
	pf := cmd.Root().PersistentFlags()
	for _, name := range []string{"output", "verbose", "quiet"} {
		if err := v.BindPFlag(name, pf.Lookup(name)); err != nil {
			return err
		}
	}

	v.SetEnvPrefix("CRUCIBLE")
	v.AutomaticEnv()
	return nil
}

// IsValidOutputFormat reports whether format names a supported output mode.
func IsValidOutputFormat(format string) bool {
	return format == OutputText || format == OutputJSON
}

// inputErrorFragments identify cobra's flag and argument errors, which carry
// no sentinel and are only distinguishable by message text.
var inputErrorFragments = []string{
	"unknown flag",
	"unknown shorthand flag",
	"flag needs an argument",
	"invalid argument",
	"if any flags in the group",
	"required flag",
	"unknown command",
}

// ExitCodeForError maps an Execute error to the process exit code.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}
	if stderrors.Is(err, errors.ErrInvalidOutputFormat) {
		return ExitInvalidInput
	}

	msg := err.Error()
	for _, fragment := range inputErrorFragments {
		if strings.Contains(msg, fragment) {
			return ExitInvalidInput
		}
	}
	return ExitError
}
