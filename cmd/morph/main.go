package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

var red = color.New(color.FgRed).SprintFunc()

var cfgFile string

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "morph",
		Short:         "Compile modern JavaScript into code that runs everywhere",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := viper.BindPFlags(cmd.Flags()); err != nil {
				return err
			}
			processGlobalFlags()
			return nil
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default is .morphrc.yaml in the working or home directory)")
	pf.Bool("no-color", false, "disable colored output")
	pf.String("log-level", "warn", "log level (debug, info, warn, error)")
	viper.BindPFlag("no-color", pf.Lookup("no-color"))
	viper.BindPFlag("log-level", pf.Lookup("log-level"))

	cmd.AddCommand(
		newBuildCmd(),
		newWatchCmd(),
		newASTCmd(),
		newHelpersCmd(),
		newServeCmd(),
		newVersionCmd(),
	)
	return cmd
}

func initConfig() {
	if err := godotenv.Load(); err != nil && !stderrors.Is(err, os.ErrNotExist) {
		fmt.Fprintln(os.Stderr, red(fmt.Sprintf("error loading .env: %s", err)))
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		if home, err := homedir.Dir(); err == nil {
			viper.AddConfigPath(home)
		}
		viper.SetConfigType("yaml")
		viper.SetConfigName(".morphrc")
	}

	viper.SetEnvPrefix("morph")
	viper.SetEnvKeyReplacer(envKeyReplacer)
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !stderrors.As(err, &notFound) {
			fatal(err)
		}
	}
}

func main() {
	cobra.OnInitialize(initConfig)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		printError(err)
		stop()
		os.Exit(1)
	}
}
