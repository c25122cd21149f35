package testutils

import (
	"bufio"
	"context"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	hyprTestSignature   = "test_signature"
	hyprMonitorsCommand = "j/monitors all"
)

// SetupHyprEnvVars points the hypr socket lookup at a fresh runtime dir.
func SetupHyprEnvVars(t *testing.T) (string, string) {
	runtimeDir := t.TempDir()
	//nolint:gosec
	require.NoError(t, os.MkdirAll(filepath.Join(runtimeDir, "hypr", hyprTestSignature), 0o755),
		"failed to create hypr directory")

	t.Setenv("XDG_RUNTIME_DIR", runtimeDir)
	t.Setenv("HYPRLAND_INSTANCE_SIGNATURE", hyprTestSignature)
	return runtimeDir, hyprTestSignature
}

func SetupHyprSocket(ctx context.Context, t *testing.T, xdgRuntimeDir, signature string,
	socketPath func(string, string) string,
) (net.Listener, func()) {
	path := socketPath(xdgRuntimeDir, signature)
	lc := &net.ListenConfig{}
	listener, err := lc.Listen(ctx, "unix", path)
	require.NoError(t, err, "failed to create a test socket %s", path)
	return listener, func() {
		require.NoError(t, listener.Close(), "cant close hypr socket")
	}
}

// SetupFakeHyprMonitors answers one monitors query per fixture file, in order.
func SetupFakeHyprMonitors(t *testing.T, listener net.Listener, stopOnAcceptError bool, files ...string) chan struct{} {
	responses := make([][]byte, 0, len(files))
	commands := make([]string, 0, len(files))
	for _, file := range files {
		// nolint:gosec
		data, err := os.ReadFile(file)
		require.NoError(t, err, "cant read hypr fixture %s", file)
		responses = append(responses, data)
		commands = append(commands, hyprMonitorsCommand)
	}
	return serveHyprIPC(t, listener, responses, commands, stopOnAcceptError)
}

// serveHyprIPC serves one connection per expected command and
// replies with the matching response.
func serveHyprIPC(t *testing.T, listener net.Listener, responses [][]byte,
	commands []string, stopOnAcceptError bool,
) chan struct{} {
	require.Len(t, responses, len(commands), "every hypr command needs a response")

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := range commands {
			if !serveHyprRequest(t, listener, commands[i], responses[i]) && stopOnAcceptError {
				Logf(t, "hypr ipc stopped after %d requests", i)
				return
			}
		}
		Logf(t, "hypr ipc answered all %d requests", len(commands))
	}()
	return done
}

func serveHyprRequest(t *testing.T, listener net.Listener, command string, response []byte) bool {
	conn, err := listener.Accept()
	if err != nil {
		Logf(t, "hypr ipc accept failed: %v", err)
		return false
	}
	defer func() { _ = conn.Close() }()

	scanner := bufio.NewScanner(conn)
	if !scanner.Scan() {
		t.Errorf("hypr ipc: client sent no command")
		return true
	}
	assert.Equal(t, command, scanner.Text(), "unexpected hypr command")

	_, err = conn.Write(response)
	assert.NoError(t, err, "failed to write hypr response")
	return true
}

// SetupFakeHyprEventsServer writes events to the first client and then
// holds the connection open until ctx is done.
func SetupFakeHyprEventsServer(ctx context.Context, t *testing.T, listener net.Listener, events []string) chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)

		conn, err := listener.Accept()
		if err != nil {
			t.Errorf("hypr events: failed to accept connection: %v", err)
			return
		}
		defer func() { _ = conn.Close() }()

		for i, event := range events {
			if ctx.Err() != nil {
				return
			}
			if _, err := conn.Write([]byte(event + "\n")); err != nil {
				t.Errorf("hypr events: failed to write event %d: %v", i, err)
				return
			}
			Logf(t, "hypr events: sent %s", event)
			time.Sleep(10 * time.Millisecond)
		}

		<-ctx.Done()
		Logf(t, "hypr events: shutting down (%v)", context.Cause(ctx))
	}()
	return done
}
