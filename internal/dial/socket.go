// Package dial provides unix socket helpers.
package dial

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"

	"github.com/fiffeek/hyprautolayout/internal/utils"
	"github.com/sirupsen/logrus"
)

func GetUnixSocketConnection(ctx context.Context, socketPath string) (net.Conn, func(), error) {
	if _, err := os.Stat(socketPath); os.IsNotExist(err) {
		return nil, nil, fmt.Errorf("hyprland socket not found at %s", socketPath)
	}

	d := &net.Dialer{}
	conn, err := d.DialContext(ctx, "unix", socketPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to socket: %w", err)
	}

	return conn, func() {
		if err := conn.Close(); err != nil {
			logrus.WithError(err).Debug("Failed to close connection")
		}
	}, nil
}

type SocketJSONResponse interface {
	Validate() error
}

// SyncQuerySocket sends a single command and decodes the whole reply.
func SyncQuerySocket[T SocketJSONResponse](conn net.Conn, command string) (T, error) {
	var zero T

	if _, err := conn.Write([]byte(command)); err != nil {
		return zero, fmt.Errorf("failed to send command %s: %w", command, err)
	}
	// the request is complete, the peer can stop reading
	if unixConn, ok := conn.(*net.UnixConn); ok {
		if err := unixConn.CloseWrite(); err != nil {
			logrus.WithError(err).Debug("Failed to half close the socket")
		}
	}

	response, err := io.ReadAll(conn)
	if err != nil {
		return zero, fmt.Errorf("failed to read response: %w", err)
	}

	logrus.WithFields(logrus.Fields{"command": command, "response": string(response)}).Debug("ipc response")

	var res T
	if err := utils.UnmarshalResponse(response, &res); err != nil {
		return zero, fmt.Errorf("failed to parse response: %w", err)
	}

	if err := res.Validate(); err != nil {
		return zero, fmt.Errorf("failed to validate response: %w", err)
	}

	return res, nil
}
