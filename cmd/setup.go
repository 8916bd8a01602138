package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/catalogai/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupConfig writes the embedded example config to the --config path.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	if err := shared.CreateConfigFile(configPath); err != nil {
		return err
	}
	r.logger.Info("config file created", "path", configPath)

	if err := r.writePlain("✓ Config written to %s\n", configPath); err != nil {
		return err
	}
	return r.writePlain("Next: run 'catalogai setup key <api-key>' and then 'catalogai serve'\n")
}

// SetupKey stores the API key given as the first argument.
func (r *Runner) SetupKey(ctx context.Context, cmd *cli.Command) error {
	key := strings.TrimSpace(cmd.Args().First())
	if key == "" {
		return fmt.Errorf("%w: api key argument is required", shared.ErrMissingArgument)
	}

	path := cmd.String("path")
	if path == "" {
		config, err := r.loadConfig(cmd.String("config"))
		if err != nil {
			return err
		}
		path = config.Credentials.APIKeyFile
	}
	if path == "" {
		return fmt.Errorf("%w: no key file path; pass --path or set credentials.api_key_file", shared.ErrMissingArgument)
	}

	if err := shared.WriteAPIKey(path, key); err != nil {
		return err
	}
	r.logger.Info("api key saved", "path", path)

	return r.writePlain("✓ API key saved to %s\n", path)
}

// SetupShow prints the effective configuration with the inline key redacted.
func (r *Runner) SetupShow(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd.String("config"))
	if err != nil {
		return err
	}

	redacted := *config
	if redacted.Credentials.APIKey != "" {
		redacted.Credentials.APIKey = "********"
	}
	return r.writeJSON(redacted, cmd.Bool("pretty"))
}
