package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"

	"github.com/ios7jbpro/jellyfin-mass-dl/config"
	"github.com/ios7jbpro/jellyfin-mass-dl/constants"
	"github.com/ios7jbpro/jellyfin-mass-dl/jellyfin"
	"github.com/ios7jbpro/jellyfin-mass-dl/log"
)

func main() {
	logger := log.NewDefault()

	//nolint:exhaustruct
	app := &cli.Command{
		Name:    "jellyfin-mass-dl",
		Version: constants.Version,
		Metadata: map[string]any{
			"compiled_at": constants.CompileTime,
		},
		Suggest:                    true,
		Usage:                      "Jellyfin audio library mass downloader",
		EnableShellCompletion:      true,
		ShellCompletionCommandName: "shell-completion",
		AllowExtFlags:              false,
		Flags: []cli.Flag{
			//nolint:exhaustruct
			&cli.StringFlag{
				Name:     "config",
				Usage:    "Config file path",
				Required: false,
			},
		},
		Commands: []*cli.Command{
			//nolint:exhaustruct
			{
				Name:   "download",
				Usage:  "Download the whole audio library with lyrics, covers, and sidecar files",
				Action: download,
			},
		},
	}

	if err := app.Run(context.Background(), os.Args); nil != err {
		if errors.Is(err, context.Canceled) {
			logger.Trace().Msg("Application was canceled")
			os.Exit(1)
		}

		var exitCode exitCodeError
		if errors.As(err, &exitCode) {
			os.Exit(int(exitCode))
		}

		logger.Error().Err(err).Msg("Application exited with error")
		os.Exit(10)
	}
}

type exitCodeError int

func (e exitCodeError) Error() string {
	return "error with exit code: " + strconv.Itoa(int(e))
}

func download(ctx context.Context, cmd *cli.Command) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := log.NewDefault()

	if err := godotenv.Load(); nil != err {
		if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load .env file: %v", err)
		}
		logger.Debug().Msg(".env file was not found")
	} else {
		logger.Debug().Msg(".env file was loaded")
	}

	conf, err := config.Load(cmd.String("config"))
	if nil != err {
		return fmt.Errorf("load config: %v", err)
	}

	logger = log.FromConfig(conf.Log)

	if err := conf.PromptMissing(); nil != err {
		if errors.Is(err, syscall.ENOTTY) {
			logger.Error().Msg("Server URL, username, password, or target folder is missing and no TTY is available to prompt for it. Provide them via the config file and JELLYFIN_PASSWORD.")
			return exitCodeError(1)
		}

		return fmt.Errorf("prompt for missing config: %w", err)
	}

	if err := conf.Validate(); nil != err {
		return fmt.Errorf("validate config: %v", err)
	}

	logger.Debug().Dict("config", conf.ToDict()).Msg("Config loaded")

	logger.Info().Msg("Logging in")
	session, err := jellyfin.Login(ctx, logger, conf)
	if nil != err {
		if errors.Is(err, jellyfin.ErrInvalidCredentials) {
			logger.Error().Msg("Login failed: invalid username or password")
			return exitCodeError(2)
		}

		return fmt.Errorf("login to jellyfin: %w", err)
	}
	logger.Info().Dict("session", session.ToDict()).Msg("Logged in")

	client := jellyfin.NewClient(logger, *session, conf)

	if err := client.DownloadLibrary(ctx, logger); nil != err {
		return fmt.Errorf("download library: %w", err)
	}

	logger.Info().Str("dir", conf.Library.Dir).Msg("All done. You can now add the downloaded files to your library")

	return nil
}
