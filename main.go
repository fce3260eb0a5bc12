// Package main provides the entry point for the sales-report CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"hkim/sales-report/cmd/analyze"
	"hkim/sales-report/cmd/classify"
	"hkim/sales-report/cmd/root"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func init() {
	// Load environment first so the log level is right before any output.
	loadEnvSilently()
	configureLogLevel()

	root.Init()
	root.Cmd.AddCommand(analyze.Cmd)
	root.Cmd.AddCommand(classify.Cmd)
}

// loadEnvSilently loads environment variables without logging anything
func loadEnvSilently() {
	envFile := ".env"
	if _, err := os.Stat(envFile); os.IsNotExist(err) {
		envFile = filepath.Join("..", ".env")
		if _, err := os.Stat(envFile); os.IsNotExist(err) {
			return
		}
	}
	_ = godotenv.Load(envFile)
}

// configureLogLevel sets the global logrus level before any logging happens.
func configureLogLevel() {
	logLevelStr := os.Getenv("LOG_LEVEL")
	if logLevelStr == "" {
		logLevelStr = "info"
	}
	logLevel, err := logrus.ParseLevel(strings.ToLower(logLevelStr))
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
