// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the formfinder CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/formfinder/internal/logger"
	"github.com/pdiddy/formfinder/internal/secrets"
	"github.com/pdiddy/formfinder/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

const (
	defaultTimeout   = 60 * time.Second
	defaultUserAgent = "formfinder/0.1"
	secretsDir       = ".secrets/"
)

// loadedSecrets holds credentials loaded from .secrets/ at startup.
var loadedSecrets = secrets.Store{}

var rootCmd = &cobra.Command{
	Use:   "formfinder",
	Short: "Download finance forms and find the right one for a request",
	Long: `formfinder downloads the PDF forms linked from a finance-forms page into a
local folder, then matches a plain-language description of what you need
against the saved form names.

Run "formfinder fetch" once to populate the folder, then "formfinder match".
The match command asks Claude to rank the forms and falls back to keyword
scoring when the service is unavailable.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := logger.Init(logger.Config{
			Level:  viper.GetString("log_level"),
			Format: viper.GetString("log_format"),
		}, os.Stderr); err != nil {
			return err
		}

		s, err := secrets.Load(secretsDir)
		if err != nil {
			return err
		}
		loadedSecrets = s
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./formfinder.yaml or ~/.config/formfinder/formfinder.yaml)")
	pf.String("forms-dir", types.DefaultFormsDir, "directory holding downloaded forms")
	pf.Duration("timeout", defaultTimeout, "timeout for each HTTP request")
	pf.String("user-agent", defaultUserAgent, "User-Agent header for HTTP requests")
	pf.String("format", "text", "output format: text or yaml")
	pf.String("log-level", "warn", "diagnostic log level: debug, info, warn, error")
	pf.String("log-format", "text", "diagnostic log format: text or json")

	bindFlag("forms_dir", pf.Lookup("forms-dir"))
	bindFlag("timeout", pf.Lookup("timeout"))
	bindFlag("user_agent", pf.Lookup("user-agent"))
	bindFlag("format", pf.Lookup("format"))
	bindFlag("log_level", pf.Lookup("log-level"))
	bindFlag("log_format", pf.Lookup("log-format"))
}

func initConfig() {
	// A .env file is optional; values already in the environment win.
	_ = godotenv.Load()

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("formfinder")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "formfinder"))
		}
	}

	viper.SetEnvPrefix("FORMFINDER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
