package utils

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

func execCommand(ctx context.Context, name string, args ...string) (string, error) {
	// nolint:gosec
	cmd := exec.CommandContext(ctx, name, args...)
	var out bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("command `%s %s` failed: %w (%s)",
			name, strings.Join(args, " "), err, stderr.String())
	}
	return strings.TrimSpace(out.String()), nil
}

var runCmd = execCommand

func GetRunCmd() func(context.Context, string, ...string) (string, error) {
	return runCmd
}

func SetRunCmd(fn func(context.Context, string, ...string) (string, error)) {
	runCmd = fn
}

// RunShell runs a user supplied command line through bash.
func RunShell(ctx context.Context, command string) (string, error) {
	return runCmd(ctx, "bash", "-c", command)
}
