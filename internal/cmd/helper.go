package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/kong/gridctl/internal/build"
	"github.com/kong/gridctl/internal/cmd/common"
	"github.com/kong/gridctl/internal/cmd/root/verbs"
	"github.com/kong/gridctl/internal/config"
	"github.com/kong/gridctl/internal/iostreams"
	"github.com/kong/gridctl/internal/log"
)

type Helper interface {
	GetCmd() *cobra.Command
	GetArgs() []string
	GetVerb() (verbs.VerbValue, error)
	GetStreams() *iostreams.IOStreams
	GetConfig() (config.Hook, error)
	GetOutputFormat() (common.OutputFormat, error)
	IsInteractive() (bool, error)
	GetLogger() (*slog.Logger, error)
	GetBuildInfo() (*build.Info, error)
	GetContext() context.Context
}

type CommandHelper struct {
	// Cmd is a pointer to the command that is being executed
	Cmd *cobra.Command
	// Args are the arguments (not flags) passed to the command
	Args []string
}

func (r *CommandHelper) GetCmd() *cobra.Command {
	return r.Cmd
}

func (r *CommandHelper) GetArgs() []string {
	return r.Args
}

// fromContext reads a value the root command stored on the command context.
func fromContext[T any](r *CommandHelper, key any, what string) (T, error) {
	var zero T
	ctx := r.Cmd.Context()
	if ctx == nil {
		return zero, &ConfigurationError{Err: fmt.Errorf("no %s configured", what)}
	}
	switch v := ctx.Value(key).(type) {
	case nil:
		return zero, &ConfigurationError{Err: fmt.Errorf("no %s configured", what)}
	case T:
		return v, nil
	default:
		return zero, &ConfigurationError{Err: fmt.Errorf("invalid %s configured: %T", what, v)}
	}
}

func (r *CommandHelper) GetBuildInfo() (*build.Info, error) {
	info, err := fromContext[*build.Info](r, build.InfoKey, "build info")
	if err == nil && info == nil {
		err = &ConfigurationError{Err: errors.New("invalid build info configured")}
	}
	return info, err
}

func (r *CommandHelper) GetLogger() (*slog.Logger, error) {
	logger, err := fromContext[*slog.Logger](r, log.LoggerKey, "logger")
	if err == nil && logger == nil {
		err = &ConfigurationError{Err: errors.New("no logger configured")}
	}
	return logger, err
}

func (r *CommandHelper) GetVerb() (verbs.VerbValue, error) {
	return fromContext[verbs.VerbValue](r, verbs.Verb, "verb")
}

func (r *CommandHelper) GetStreams() *iostreams.IOStreams {
	streams, _ := fromContext[*iostreams.IOStreams](r, iostreams.StreamsKey, "streams")
	return streams
}

func (r *CommandHelper) GetConfig() (config.Hook, error) {
	return fromContext[config.Hook](r, config.ConfigKey, "config")
}

func (r *CommandHelper) GetOutputFormat() (common.OutputFormat, error) {
	c, e := r.GetConfig()
	if e != nil {
		return common.TEXT, e
	}
	s := c.GetString(common.OutputConfigPath)
	rv, e := common.OutputFormatStringToIota(s)
	if e != nil {
		return common.TEXT, e
	}
	return rv, nil
}

func (r *CommandHelper) IsInteractive() (bool, error) {
	flag := r.Cmd.Flags().Lookup(common.InteractiveFlagName)
	if flag == nil {
		flag = r.Cmd.InheritedFlags().Lookup(common.InteractiveFlagName)
	}
	if flag == nil {
		return false, nil
	}

	val := flag.Value.String()
	if val == "" {
		return false, nil
	}

	interactive, err := strconv.ParseBool(val)
	if err != nil {
		return false, &ConfigurationError{
			Err: fmt.Errorf("invalid value %q for --%s flag", val, common.InteractiveFlagName),
		}
	}
	return interactive, nil
}

func (r *CommandHelper) GetContext() context.Context {
	return r.Cmd.Context()
}

func BuildHelper(cmd *cobra.Command, args []string) Helper {
	return &CommandHelper{
		Cmd:  cmd,
		Args: args,
	}
}

// ConfigurationError represents errors that are a result of bad flags, combinations of
// flags, configuration settings, environment values, or other command usage issues.
type ConfigurationError struct {
	Err error
}

// ExecutionError represents errors that occur after a command has been validated and an
// unsuccessful result occurs. Unreadable data files, store failures and rejected
// deletes are examples.
type ExecutionError struct {
	// friendly error message to display to the user
	Msg string
	// Err is the error that occurred during execution
	Err error
	// Optional attributes that can be used to provide additional context to the error
	Attrs []any
}

func (e *ConfigurationError) Error() string {
	return e.Err.Error()
}

func (e *ExecutionError) Error() string {
	return e.Err.Error()
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}

// PrepareExecutionErrorWithHelper mirrors PrepareExecutionError but accepts a Helper.
// It ensures command usage/error output is silenced for runtime failures.
func PrepareExecutionErrorWithHelper(helper Helper, msg string, err error, attrs ...any) *ExecutionError {
	if helper == nil {
		return PrepareExecutionError(msg, err, nil, attrs...)
	}
	return PrepareExecutionError(msg, err, helper.GetCmd(), attrs...)
}

// PrepareExecutionErrorFromErr converts an arbitrary error into an ExecutionError while
// silencing usage/error output on the associated command. The friendly message defaults
// to the underlying error string when msg is empty.
func PrepareExecutionErrorFromErr(helper Helper, err error, attrs ...any) *ExecutionError {
	if err == nil {
		return nil
	}
	msg := err.Error()
	return PrepareExecutionErrorWithHelper(helper, msg, err, attrs...)
}

// PrepareExecutionErrorMsg builds an ExecutionError from a message when a backing error
// is not already available.
func PrepareExecutionErrorMsg(helper Helper, msg string, attrs ...any) *ExecutionError {
	if msg == "" {
		return PrepareExecutionErrorWithHelper(helper, msg, errors.New("an unknown error occurred"), attrs...)
	}
	return PrepareExecutionErrorWithHelper(helper, msg, errors.New(msg), attrs...)
}

// This will construct an execution error AND turn off error and usage output for the command
func PrepareExecutionError(msg string, err error, cmd *cobra.Command, attrs ...any) *ExecutionError {
	if cmd != nil {
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
	}

	return &ExecutionError{
		Msg:   msg,
		Err:   err,
		Attrs: attrs,
	}
}
