package commands

import (
	"context"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/wolfeidau/logview/internal/buildcfg"
	"github.com/wolfeidau/logview/internal/logger"
	"github.com/wolfeidau/logview/internal/project"
)

// ConfigCmd resolves the build configuration from the current environment
// and project manifest and prints it. Useful for checking what a CI run
// will hand the bundler before it happens.
type ConfigCmd struct {
	Dir    string `arg:"" optional:"" help:"Project directory" default:"."`
	Format string `help:"Output format" default:"json" enum:"json,yaml"`
}

func (c *ConfigCmd) Run(ctx context.Context, globals *Globals) error {
	logger.Setup(globals.Debug)

	proj, err := project.Load(c.Dir)
	if err != nil {
		return fmt.Errorf("failed to load project: %w", err)
	}

	cfg := buildcfg.Resolve(buildcfg.Capture(), proj)

	switch c.Format {
	case "yaml":
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("failed to marshal configuration: %w", err)
		}
		fmt.Print(string(data))
	default:
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal configuration: %w", err)
		}
		fmt.Println(string(data))
	}

	return nil
}
