// Package errs provides common errors thrown in the app that are expected to be caught upstream
package errs

import "errors"

var ErrDbusMisconfigured = errors.New("D-Bus service misconfigured or not running")
