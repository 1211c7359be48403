package config

import (
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/AlecAivazis/survey/v2"
	"github.com/mattn/go-isatty"
)

// PromptMissing asks the operator for the interactive fields the config
// file and environment left empty. Core packages never touch stdin;
// whatever front end populates Config is interchangeable.
func (c *Config) PromptMissing() error {
	if c.Server.URL != "" && c.Server.Username != "" && c.Server.Password != "" && c.Library.Dir != "" {
		return nil
	}

	var (
		stdin  = os.Stdin
		stdout = os.Stdout
	)

	if !isatty.IsTerminal(stdin.Fd()) && !isatty.IsCygwinTerminal(stdin.Fd()) {
		return syscall.ENOTTY
	}

	askOpts := []survey.AskOpt{
		survey.WithValidator(survey.Required),
		survey.WithStdio(stdin, stdout, stdout),
		survey.WithShowCursor(true),
	}

	if c.Server.URL == "" {
		var u string
		prompt := &survey.Input{ //nolint:exhaustruct
			Message: "Jellyfin URL (e.g. https://domain.example.com or a local ip):",
		}
		if err := survey.AskOne(prompt, &u, askOpts...); nil != err {
			return fmt.Errorf("failed to ask for server URL: %v", err)
		}
		c.Server.URL = strings.TrimRight(strings.TrimSpace(u), "/")
	}

	if c.Server.Username == "" {
		var u string
		prompt := &survey.Input{ //nolint:exhaustruct
			Message: "Jellyfin username:",
		}
		if err := survey.AskOne(prompt, &u, askOpts...); nil != err {
			return fmt.Errorf("failed to ask for username: %v", err)
		}
		c.Server.Username = strings.TrimSpace(u)
	}

	if c.Server.Password == "" {
		var pwd string
		prompt := &survey.Password{ //nolint:exhaustruct
			Message: "Jellyfin password:",
		}
		if err := survey.AskOne(prompt, &pwd, append(askOpts, survey.WithHideCharacter('*'))...); nil != err {
			return fmt.Errorf("failed to ask for password: %v", err)
		}
		c.Server.Password = pwd
	}

	if c.Library.Dir == "" {
		var dir string
		prompt := &survey.Input{ //nolint:exhaustruct
			Message: "Local target folder to save files (e.g. ./ripped_out_jellyfin):",
		}
		if err := survey.AskOne(prompt, &dir, askOpts...); nil != err {
			return fmt.Errorf("failed to ask for target folder: %v", err)
		}
		c.Library.Dir = strings.TrimSpace(dir)
	}

	return nil
}
