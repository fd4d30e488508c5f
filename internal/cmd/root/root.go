package root

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/segmentio/cli"
	"github.com/spf13/cobra"

	"github.com/kong/gridctl/internal/build"
	"github.com/kong/gridctl/internal/cmd"
	"github.com/kong/gridctl/internal/cmd/common"
	"github.com/kong/gridctl/internal/cmd/root/verbs/del"
	"github.com/kong/gridctl/internal/cmd/root/verbs/get"
	"github.com/kong/gridctl/internal/cmd/root/verbs/list"
	"github.com/kong/gridctl/internal/cmd/root/verbs/seed"
	"github.com/kong/gridctl/internal/cmd/root/version"
	"github.com/kong/gridctl/internal/config"
	"github.com/kong/gridctl/internal/iostreams"
	"github.com/kong/gridctl/internal/log"
	"github.com/kong/gridctl/internal/meta"
	"github.com/kong/gridctl/internal/profile"
	"github.com/kong/gridctl/internal/theme"
	"github.com/kong/gridctl/internal/util"
	"github.com/kong/gridctl/internal/util/i18n"
	"github.com/kong/gridctl/internal/util/normalizers"
)

var (
	rootLong = normalizers.LongDesc(i18n.T("root.rootLong", `
  gridctl browses tabular records in the terminal: users, roles,
  notifications, audit logs and feedback, read from JSON or YAML files or
  from a local SQLite store.

  Every page shares one table engine with search, column filters, sorting,
  pagination, row selection, list and card layouts, and view, edit and
  delete dialogs.`))

	rootShort = i18n.T("root/rootShort", fmt.Sprintf("%s browses tabular records", meta.CLIName))

	rootCmd *cobra.Command

	// Stores the global runtime value for the Configuration file path,
	configFilePath = config.ExpandDefaultConfigFilePath()
	currProfile    = profile.DefaultProfile

	currConfig   config.Hook
	streams      *iostreams.IOStreams
	pMgr         profile.Manager
	outputFormat = cmd.NewEnum([]string{"json", "yaml", "text"}, "text")
	logLevel     = cmd.NewEnum([]string{"trace", "debug", "info", "warn", "error"}, common.DefaultLogLevel)
	colorMode    = cmd.NewEnum([]string{"auto", "always", "never"}, common.DefaultColorMode)
	colorTheme   = theme.NewFlag(common.DefaultColorTheme)

	logCloser io.Closer
	buildInfo *build.Info
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           meta.CLIName,
		Short:         rootShort,
		Long:          rootLong,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			ctx := context.WithValue(cmd.Context(), config.ConfigKey, currConfig)
			ctx = context.WithValue(ctx, iostreams.StreamsKey, streams)
			ctx = context.WithValue(ctx, profile.ProfileManagerKey, pMgr)
			ctx = context.WithValue(ctx, build.InfoKey, buildInfo)

			level, err := resolveLogLevel(currConfig)
			if err != nil {
				return err
			}
			logger, closer, err := log.New(log.Options{
				Level:   level.String(),
				File:    util.ExpandPath(currConfig.GetString(common.LogFileConfigPath)),
				Console: streams.ErrOut,
			})
			if err != nil {
				return err
			}
			logCloser = closer
			logger = logger.With(slog.String("profile", currConfig.GetProfile()))
			ctx = context.WithValue(ctx, log.LoggerKey, logger)

			if err := applyTheme(currConfig); err != nil {
				return err
			}
			ctx = theme.ContextWithPalette(ctx, theme.Current())

			cmd.SetContext(ctx)
			return nil
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			return closeLog()
		},
	}

	// parses all flags not just the target command
	rootCmd.TraverseChildren = true

	rootCmd.PersistentFlags().StringVar(&configFilePath, common.ConfigFilePathFlagName,
		config.ExpandDefaultConfigFilePath(),
		i18n.T("root."+common.ConfigFilePathFlagName, "Path to the configuration file to load."))

	rootCmd.PersistentFlags().StringVarP(&currProfile, common.ProfileFlagName, common.ProfileFlagShort,
		profile.DefaultProfile,
		"Specify the profile to use for this command.")

	rootCmd.PersistentFlags().VarP(outputFormat, common.OutputFlagName, common.OutputFlagShort,
		fmt.Sprintf(`Configures the output format.
- Config path: [ %s ]
- Allowed    : [ %s ]`,
			common.OutputConfigPath, strings.Join(outputFormat.Allowed, "|")))

	rootCmd.PersistentFlags().Var(logLevel, common.LogLevelFlagName,
		fmt.Sprintf(`Configures the logging level. Errors are also printed to stderr.
- Config path: [ %s ]
- Allowed    : [ %s ]`,
			common.LogLevelConfigPath, strings.Join(logLevel.Allowed, "|")))

	rootCmd.PersistentFlags().String(common.LogFileFlagName, "",
		fmt.Sprintf(`Write log records to this file.
- Config path: [ %s ]`, common.LogFileConfigPath))

	rootCmd.PersistentFlags().Var(colorMode, common.ColorFlagName,
		fmt.Sprintf(`Controls colorized output.
- Config path: [ %s ]
- Allowed    : [ %s ]`,
			common.ColorConfigPath, strings.Join(colorMode.Allowed, "|")))

	rootCmd.PersistentFlags().Var(colorTheme, common.ColorThemeFlagName,
		fmt.Sprintf(`Color theme of the interactive views (see '%s list themes').
- Config path: [ %s ]`, meta.CLIName, common.ColorThemeConfigPath))

	return rootCmd
}

// resolveLogLevel validates the configured log level. The flag is checked by
// its enum; config files and GRIDCTL_LOG_LEVEL are not.
func resolveLogLevel(cfg config.Hook) (common.LogLevel, error) {
	raw := strings.ToLower(strings.TrimSpace(cfg.GetString(common.LogLevelConfigPath)))
	if raw == "" {
		raw = common.DefaultLogLevel
	}
	level, err := common.LogLevelStringToIota(raw)
	if err != nil {
		return level, &cmd.ConfigurationError{Err: err}
	}
	return level, nil
}

// applyTheme activates the configured color theme.
func applyTheme(cfg config.Hook) error {
	name := strings.TrimSpace(cfg.GetString(common.ColorThemeConfigPath))
	theme.SetConfiguredExplicitly(cfg.IsSet(common.ColorThemeConfigPath) && name != "")
	if err := theme.SetCurrent(name); err != nil {
		return &cmd.ConfigurationError{Err: err}
	}
	return nil
}

func closeLog() error {
	if logCloser == nil {
		return nil
	}
	err := logCloser.Close()
	logCloser = nil
	return err
}

// addCommands adds the root subcommands to the command.
func addCommands() error {
	rootCmd.AddCommand(version.NewVersionCmd())

	builders := []func() (*cobra.Command, error){
		get.NewGetCmd,
		list.NewListCmd,
		del.NewDeleteCmd,
		seed.NewSeedCmd,
	}
	for _, newCmd := range builders {
		c, e := newCmd()
		if e != nil {
			return e
		}
		rootCmd.AddCommand(c)
	}
	return nil
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd = newRootCmd()
	err := addCommands()
	util.CheckError(err)

	// Because the profile is not part of the configuration, we can't use viper
	// to read it following it's built in priorities.  So here we look for a well known
	// profile variable and set our package level variable if it's set before
	// continuing to process the command run.  This creates a ENV_VAR < CLI_FLAG priority
	profileEnvVar, found := os.LookupEnv(fmt.Sprintf("%s_PROFILE", strings.ToUpper(meta.CLIName)))
	if found {
		currProfile = profileEnvVar
	}
}

func initConfig() {
	config, e1 := config.GetConfig(configFilePath, currProfile, config.ExpandDefaultConfigFilePath())
	util.CheckError(e1)
	currConfig = config

	pMgr = profile.NewManager(config.Viper)

	bindings := []struct{ flag, cfgPath string }{
		{common.OutputFlagName, common.OutputConfigPath},
		{common.LogLevelFlagName, common.LogLevelConfigPath},
		{common.LogFileFlagName, common.LogFileConfigPath},
		{common.ColorFlagName, common.ColorConfigPath},
		{common.ColorThemeFlagName, common.ColorThemeConfigPath},
	}
	for _, b := range bindings {
		f := rootCmd.PersistentFlags().Lookup(b.flag)
		util.CheckError(config.BindFlag(b.cfgPath, f))
	}
}

// Execute runs the command line and exits non-zero on failure.
func Execute(ctx context.Context, s *iostreams.IOStreams, bi *build.Info) {
	buildInfo = bi
	cobra.EnableTraverseRunHooks = true
	streams = s
	err := rootCmd.ExecuteContext(ctx)
	_ = closeLog()
	if err == nil {
		return
	}

	var executionError *cmd.ExecutionError
	if errors.As(err, &executionError) {
		printer, perr := cli.Format(outputFormat.String(), s.ErrOut)
		if perr != nil {
			fmt.Fprintln(s.ErrOut, "Error:", err)
			os.Exit(1)
		}
		printer.Print(executionError)
		printer.Flush()
		os.Exit(1)
	}
	fmt.Fprintln(s.ErrOut, "Error:", err)
	os.Exit(1)
}
