package main

import (
	"os"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/ramaalshaban/dashboard/internal/app/system/apiclient"
	"github.com/ramaalshaban/dashboard/internal/app/terminal"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	// A missing .env is fine; real environment variables still apply.
	_ = godotenv.Load()

	var cli terminal.CLI
	kctx := kong.Parse(&cli,
		kong.Name("dashboardctl"),
		kong.Description("Terminal client for the project dashboard."),
		kong.UsageOnError(),
	)

	level := zapcore.WarnLevel
	if cli.Verbose {
		level = zapcore.DebugLevel
	}
	logCfg := zap.NewDevelopmentConfig()
	logCfg.Level = zap.NewAtomicLevelAt(level)
	logger, err := logCfg.Build()
	kctx.FatalIfErrorf(err)
	defer func() { _ = logger.Sync() }()

	tokenPath := cli.TokenFile
	if tokenPath == "" {
		tokenPath, err = terminal.DefaultTokenPath()
		kctx.FatalIfErrorf(err)
	}

	app := terminal.New(apiclient.Config{
		UsersURL:    cli.UsersURL,
		ProjectsURL: cli.ProjectsURL,
		Timeout:     cli.Timeout,
	}, terminal.FileTokens{Path: tokenPath}, os.Stdout, logger)

	kctx.FatalIfErrorf(kctx.Run(app))
}
