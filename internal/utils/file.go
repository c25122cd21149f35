package utils

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"strings"
)

const atomicTempInfix = ".tmp."

// WriteAtomic replaces path with data through a rename, readers never see a
// partially written file.
func WriteAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+atomicTempInfix+"*")
	if err != nil {
		return fmt.Errorf("cant create temp file in %s: %w", dir, err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("cant write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("cant sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("cant close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o640); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("cant chmod temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("cant rename %s to %s: %w", tmpPath, path, err)
	}
	return nil
}

// WrittenBy reports whether name is target itself or one of the temp files
// WriteAtomic creates on the way to target.
func WrittenBy(name, target string) bool {
	name, target = filepath.Clean(name), filepath.Clean(target)
	if name == target {
		return true
	}
	return filepath.Dir(name) == filepath.Dir(target) &&
		strings.HasPrefix(filepath.Base(name), "."+filepath.Base(target)+atomicTempInfix)
}

func GetXDGRuntimeDir() (string, error) {
	dir, ok := os.LookupEnv("XDG_RUNTIME_DIR")
	if !ok || dir == "" {
		return "", errors.New("XDG_RUNTIME_DIR environment variable not set")
	}
	return dir, nil
}

func GetFunctionName(fn any) string {
	value := reflect.ValueOf(fn)
	if value.Kind() != reflect.Func {
		return ""
	}
	return runtime.FuncForPC(value.Pointer()).Name()
}
