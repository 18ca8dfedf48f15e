package commands

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wolfeidau/logview/internal/bundler"
)

// writeApp lays down a minimal viewer source tree the bundler can compile.
func writeApp(t *testing.T, root string) {
	t.Helper()

	srcDir := filepath.Join(root, "src")
	require.NoError(t, os.MkdirAll(srcDir, 0755))

	mainTSX := `import "./app.css";

const el = document.createElement("pre");
el.textContent = "log viewer";
document.body.append(el);
`
	require.NoError(t, os.WriteFile(filepath.Join(srcDir, "main.tsx"), []byte(mainTSX), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(srcDir, "app.css"), []byte("body { margin: 0; }\n"), 0600))
}

func TestBuildCmd_Run(t *testing.T) {
	tmpDir := t.TempDir()
	writeApp(t, tmpDir)
	clearBuildEnv(t)

	cmd := &BuildCmd{
		Dir:       tmpDir,
		Minify:    true,
		SourceMap: false,
	}

	err := cmd.Run(context.Background(), &Globals{})
	require.NoError(t, err)

	manifest, err := bundler.ReadManifest(filepath.Join(tmpDir, "dist", "manifest.json"))
	require.NoError(t, err)
	assert.Contains(t, manifest.Entries, "src/main.tsx")
	assert.NotEmpty(t, manifest.BuildID)
}

func TestBuildCmd_Archive(t *testing.T) {
	tmpDir := t.TempDir()
	writeApp(t, tmpDir)
	clearBuildEnv(t)

	cmd := &BuildCmd{
		Dir:        tmpDir,
		Minify:     true,
		Archive:    true,
		ArchiveDir: "archives",
		Clean:      true,
	}

	err := cmd.Run(context.Background(), &Globals{})
	require.NoError(t, err)

	entries, err := os.ReadDir(filepath.Join(tmpDir, "archives"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, strings.HasSuffix(entries[0].Name(), ".tar.zst"))

	// Clean removed the output directory once it was archived
	_, err = os.Stat(filepath.Join(tmpDir, "dist"))
	assert.True(t, os.IsNotExist(err))
}

func TestBuildCmd_MissingEntry(t *testing.T) {
	tmpDir := t.TempDir()
	clearBuildEnv(t)

	cmd := &BuildCmd{
		Dir: tmpDir,
	}

	err := cmd.Run(context.Background(), &Globals{})
	require.Error(t, err)
	assert.ErrorIs(t, err, bundler.ErrBuildFailed)
}
