package cmd

import (
	"fmt"
	"io"
	"os"
)

// resolveInput returns the source to operate on: the -e/--expression flag
// if set, the named file if one argument is given, or stdin otherwise.
func resolveInput(expr string, args []string) (source, label string, err error) {
	if expr != "" {
		return expr, "<eval>", nil
	}
	if len(args) == 1 {
		content, err := os.ReadFile(args[0])
		if err != nil {
			return "", "", fmt.Errorf("failed to read file %s: %w", args[0], err)
		}
		return string(content), args[0], nil
	}
	content, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return string(content), "<stdin>", nil
}
