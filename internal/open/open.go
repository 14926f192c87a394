package open

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/cco-tools/cco/internal/registry"
)

// OpenBlock looks a block up in the registry and opens its materialized file
// in $EDITOR (less when unset).
func OpenBlock(db *registry.DB, outputRoot, relPath string) error {
	block, err := db.BlockByPath(relPath)
	if err != nil {
		return fmt.Errorf("get block: %w", err)
	}
	if block == nil {
		return fmt.Errorf("block not found: %s", relPath)
	}

	filePath := filepath.Join(outputRoot, filepath.FromSlash(block.RelPath))
	if _, err := os.Stat(filePath); err != nil {
		return fmt.Errorf("file not found: %s", filePath)
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "less"
	}

	return openInEditor(editor, filePath)
}

func openInEditor(editor, filePath string) error {
	var cmd *exec.Cmd

	switch {
	case strings.Contains(editor, "code"):
		// VS Code forks by default; --wait keeps the invocation synchronous
		cmd = exec.Command(editor, "--wait", filePath)
	default:
		cmd = exec.Command(editor, filePath)
	}

	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
