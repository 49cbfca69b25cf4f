// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the apa-generator CLI. It generates
// APA 7 formatted Word documents from YAML or JSON input files, serves the
// same generator over HTTP, and manages a local reference library.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/apa-generator/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the apa-generator CLI.
var rootCmd = &cobra.Command{
	Use:   "apa-generator",
	Short: "Generate APA 7 formatted Word documents",
	Long: `apa-generator turns a structured description of an academic paper into a
.docx file laid out per the APA 7th edition: cover page, abstract, body
sections, and a sorted reference list with hanging indents.

Describe a paper in YAML or JSON and run generate, or start the HTTP service
with serve. References can be kept in a local library and cited by ID.`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./apa-generator.yaml or ~/.config/apa-generator/apa-generator.yaml)")
	rootCmd.PersistentFlags().String("log-level", "warn", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("library-path", "", "reference library database (default from config: library.path)")
	viper.BindPFlag("library.path", rootCmd.PersistentFlags().Lookup("library-path"))
}

func initConfig() {
	defaults := types.DefaultAppConfig()
	viper.SetDefault("server.host", defaults.Server.Host)
	viper.SetDefault("server.port", defaults.Server.Port)
	viper.SetDefault("server.read_timeout", defaults.Server.ReadTimeout)
	viper.SetDefault("server.write_timeout", defaults.Server.WriteTimeout)
	viper.SetDefault("server.generate_timeout", defaults.Server.GenerateTimeout)
	viper.SetDefault("server.cors_origins", defaults.Server.CORSOrigins)
	viper.SetDefault("server.mode", defaults.Server.Mode)
	viper.SetDefault("library.path", defaults.Library.Path)
	viper.SetDefault("generation.language", string(defaults.Generation.Language))
	viper.SetDefault("generation.output_dir", defaults.Generation.OutputDir)

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("apa-generator")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "apa-generator"))
		}
	}

	viper.SetEnvPrefix("APA_GENERATOR")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// appConfig decodes the merged configuration.
func appConfig() (types.AppConfig, error) {
	var cfg types.AppConfig
	if err := viper.Unmarshal(&cfg); err != nil {
		return types.AppConfig{}, fmt.Errorf("reading configuration: %w", err)
	}
	return cfg, nil
}

// newLogger returns a text logger on stderr at the --log-level threshold.
func newLogger(cmd *cobra.Command) (*logrus.Logger, error) {
	levelName, _ := cmd.Flags().GetString("log-level")
	level, err := logrus.ParseLevel(levelName)
	if err != nil {
		return nil, fmt.Errorf("parsing log level: %w", err)
	}
	log := logrus.New()
	log.SetOutput(cmd.ErrOrStderr())
	log.SetLevel(level)
	return log, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
