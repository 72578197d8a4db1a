// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package compress runs an external compression utility over produced
// files. gzip is preferred; pigz is used when gzip is not installed.
package compress

import (
	"bytes"
	"fmt"
	"os/exec"
	"strings"
)

const (
	binGzip = "gzip"
	binPigz = "pigz"

	// extension is appended to the input path by both utilities.
	extension = ".gz"
)

// Compressor compresses a file in place, replacing it with a .gz artifact.
type Compressor interface {
	// Name returns the binary name ("gzip" or "pigz").
	Name() string

	// Available reports whether the binary exists on PATH and responds to
	// a version query.
	Available() bool

	// Compress compresses path, overwriting any existing artifact, and
	// returns the artifact path.
	Compress(path string) (string, error)
}

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	RunSilent(name string, args ...string) error
	RunCombined(name string, args ...string) ([]byte, error)
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) RunSilent(name string, args ...string) error {
	return exec.Command(name, args...).Run()
}

func (o *osExecutor) RunCombined(name string, args ...string) ([]byte, error) {
	var out bytes.Buffer
	cmd := exec.Command(name, args...)
	cmd.Stdout = &out
	cmd.Stderr = &out
	err := cmd.Run()
	return out.Bytes(), err
}

// tool implements Compressor for a gzip-compatible binary. gzip and pigz
// share the "-f <file>" calling convention.
type tool struct {
	bin  string
	exec executor
}

func (t *tool) Name() string { return t.bin }

func (t *tool) Available() bool {
	if _, err := t.exec.LookPath(t.bin); err != nil {
		return false
	}
	return t.exec.RunSilent(t.bin, "--version") == nil
}

func (t *tool) Compress(path string) (string, error) {
	out, err := t.exec.RunCombined(t.bin, "-f", path)
	if err != nil {
		if msg := strings.TrimSpace(string(out)); msg != "" {
			return "", fmt.Errorf("compressing %s with %s: %w: %s", path, t.bin, err, msg)
		}
		return "", fmt.Errorf("compressing %s with %s: %w", path, t.bin, err)
	}
	return path + extension, nil
}

var defaultExec = &osExecutor{}

// Detect returns the compressor named by preferred, or tries gzip then
// pigz when preferred is empty. It returns an error if no candidate is
// available.
func Detect(preferred string) (Compressor, error) {
	return detect(defaultExec, preferred)
}

func detect(exec executor, preferred string) (Compressor, error) {
	candidates := []string{binGzip, binPigz}
	if preferred != "" {
		candidates = []string{preferred}
	}

	for _, bin := range candidates {
		t := &tool{bin: bin, exec: exec}
		if t.Available() {
			return t, nil
		}
	}

	return nil, fmt.Errorf("no compressor available: %s not found or not operational",
		strings.Join(candidates, " nor "))
}
