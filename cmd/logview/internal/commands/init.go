package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/wolfeidau/logview/internal/project"
)

// InitCmd writes a project manifest populated with the default settings.
type InitCmd struct {
	Dir   string `arg:"" optional:"" help:"Project directory" default:"."`
	Force bool   `help:"Overwrite an existing manifest" default:"false"`
}

func (c *InitCmd) Run(ctx context.Context, globals *Globals) error {
	absDir, err := filepath.Abs(c.Dir)
	if err != nil {
		return fmt.Errorf("failed to resolve project directory: %w", err)
	}

	manifestPath := filepath.Join(absDir, project.ManifestName)
	if _, err := os.Stat(manifestPath); err == nil && !c.Force {
		return fmt.Errorf("%s already exists\n\nTo replace it:\n  logview init --force %s", project.ManifestName, c.Dir)
	}

	proj := project.Default(absDir)
	if err := proj.Save(); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	// Display result
	fmt.Printf("Wrote %s\n", manifestPath)
	fmt.Println()
	fmt.Println("Next steps:")
	fmt.Printf("  1. Put your entry point at %s\n", proj.Entries[0])
	fmt.Println("  2. Run: logview serve")

	return nil
}
