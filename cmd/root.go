package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/yasmagic/elasticrtc-tools/pkg/config"
	"github.com/yasmagic/elasticrtc-tools/pkg/display"
	"github.com/yasmagic/elasticrtc-tools/pkg/logger"
	"github.com/yasmagic/elasticrtc-tools/pkg/models"
)

const ProgramName = "elasticrtc"

const (
	flagConfig  = "config"
	flagVerbose = "verbose"
)

// GetRootCommand builds the command tree. Every call returns a fresh tree so
// tests can run commands independently.
func GetRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   ProgramName,
		Short: "Kurento Cluster management tool for AWS",
		Long: `elasticrtc creates, lists, shows and deletes Kurento Media Server
clusters deployed as AWS CloudFormation stacks.`,
		Args:              cobra.ArbitraryArgs,
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: initConfig,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return models.NewUsageError(config.Usage(ProgramName), "Unknown command: %s", args[0])
			}
			fmt.Fprint(cmd.OutOrStdout(), config.Usage(ProgramName))
			return nil
		},
	}
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().String(flagConfig, "",
		"config file (default is $HOME/"+config.ConfigFileName+".yaml)")
	rootCmd.PersistentFlags().Bool(flagVerbose, false, "Enable verbose output")

	rootCmd.SetHelpFunc(func(cmd *cobra.Command, _ []string) {
		fmt.Fprint(cmd.OutOrStdout(), helpText(cmd))
	})
	rootCmd.SetUsageFunc(func(cmd *cobra.Command) error {
		fmt.Fprint(cmd.OutOrStderr(), helpText(cmd))
		return nil
	})
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return models.NewUsageError(helpText(cmd), "%s", err.Error())
	})

	rootCmd.AddCommand(
		GetCreateCommand(),
		GetDeleteCommand(),
		GetListCommand(),
		GetShowCommand(),
	)
	return rootCmd
}

// Execute runs the command line and exits with status 1 on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	rootCmd := GetRootCommand()
	err := rootCmd.ExecuteContext(ctx)
	stop()
	logger.Close()

	if err != nil {
		display.PrintError(rootCmd.ErrOrStderr(), err)
		os.Exit(1)
	}
}

// initConfig reads the config file and environment, binds the flags of the
// command being run and starts the logger.
func initConfig(cmd *cobra.Command, _ []string) error {
	v := viper.GetViper()

	cfgFile, err := cmd.Flags().GetString(flagConfig)
	if err != nil {
		return err
	}
	if err := config.InitViper(v, cfgFile); err != nil {
		return err
	}
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("failed to bind flags: %w", err)
	}

	logger.InitLoggerOutputs()
	logCfg := logger.Config{
		Level:         logger.GlobalLogLevel,
		Format:        "json",
		EnableConsole: logger.GlobalEnableConsoleLogger,
	}
	if logger.GlobalEnableFileLogger {
		logCfg.FilePath = logger.GlobalLogPath
	}
	if err := logger.Initialize(logCfg); err != nil {
		return err
	}

	l := logger.Get()
	if used := v.ConfigFileUsed(); used != "" {
		l.Debugf("Using config file: %s", used)
	}
	l.Debugf("Running %s", cmd.CommandPath())
	return nil
}

// ParseConfig builds the configuration record of the command being run.
func ParseConfig(cmd *cobra.Command) (*models.ClusterConfig, error) {
	return config.Load(viper.GetViper(), models.Command(cmd.Name()))
}

func helpText(cmd *cobra.Command) string {
	command := models.Command(cmd.Name())
	if _, ok := config.CommandOptions[command]; ok && cmd.HasParent() {
		return config.CommandUsage(ProgramName, command)
	}
	return config.Usage(ProgramName)
}

// addOptionFlags registers the flags of every option command accepts.
func addOptionFlags(flags *pflag.FlagSet, command models.Command) {
	for _, name := range config.CommandOptions[command] {
		opt := config.Options[name]
		help := strings.Join(opt.Help, " ")
		switch name {
		case config.OptJSON:
			flags.BoolP(name, opt.Short, false, help)
		case config.OptPollInterval, config.OptWaitTimeout:
			flags.Duration(name, 0, help)
		default:
			flags.String(name, "", help)
		}
		if opt.Hidden {
			_ = flags.MarkHidden(name)
		}
	}
}

func noArgs(command models.Command) cobra.PositionalArgs {
	return func(_ *cobra.Command, args []string) error {
		if len(args) > 0 {
			return models.NewUsageError(config.CommandUsage(ProgramName, command),
				"Unexpected argument: %s", args[0])
		}
		return nil
	}
}
