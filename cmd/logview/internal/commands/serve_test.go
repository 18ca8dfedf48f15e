package commands

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestServeCmd_ShutsDownOnCancel(t *testing.T) {
	tmpDir := t.TempDir()
	writeApp(t, tmpDir)
	clearBuildEnv(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cmd := &ServeCmd{
		Dir:    tmpDir,
		Listen: "127.0.0.1:0",
		Title:  "Log Viewer",
	}

	// A canceled context drives the command straight through startup,
	// initial build, and graceful shutdown.
	err := cmd.Run(ctx, &Globals{})
	require.NoError(t, err)
}
