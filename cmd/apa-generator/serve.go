// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/pdiddy/apa-generator/internal/documents"
	"github.com/pdiddy/apa-generator/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the document generation HTTP service",
	Long: `Serve exposes the generator over HTTP:

  POST /documents/generate   JSON document request, returns the .docx
  GET  /documents/test       fixed sample document
  GET  /health               liveness probe

Settings come from the config file and APA_GENERATOR_* environment variables.
A .env file in the working directory is loaded first when present.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("env-file", ".env", "dotenv file loaded before reading configuration")
	serveCmd.Flags().Int("port", 0, "port to listen on (overrides server.port)")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	envFile, _ := cmd.Flags().GetString("env-file")
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading %s: %w", envFile, err)
	}

	cfg, err := appConfig()
	if err != nil {
		return err
	}
	if port, _ := cmd.Flags().GetInt("port"); port != 0 {
		cfg.Server.Port = port
	}

	log, err := newLogger(cmd)
	if err != nil {
		return err
	}
	if log.GetLevel() < logrus.InfoLevel {
		log.SetLevel(logrus.InfoLevel)
	}
	log.SetFormatter(&logrus.JSONFormatter{})

	svc := documents.NewService(log, documents.WithLanguage(cfg.Generation.Language))
	srv, err := server.New(cfg.Server, svc, log, version)
	if err != nil {
		return err
	}
	return srv.Run(cmd.Context())
}
