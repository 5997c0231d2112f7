package main

import (
	"bytes"
	"io"
	"log"
	"os"
	"strings"
	"testing"

	"github.com/docforge/pdf2md/internal/config"
)

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()

	originalStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("Failed to create pipe: %v", err)
	}
	os.Stdout = w
	defer func() { os.Stdout = originalStdout }()

	done := make(chan struct{})
	go func() {
		defer close(done)
		fn()
		w.Close()
	}()

	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	<-done

	return buf.String()
}

func TestPrintVersion(t *testing.T) {
	oldVersion := version
	oldBuildTime := buildTime
	oldGitCommit := gitCommit
	version = "1.2.3"
	buildTime = "2026-01-01_10:30:00"
	gitCommit = "abc123"
	defer func() {
		version = oldVersion
		buildTime = oldBuildTime
		gitCommit = oldGitCommit
	}()

	output := captureStdout(t, printVersion)

	for _, want := range []string{"pdf2md", "1.2.3", "2026-01-01_10:30:00", "abc123"} {
		if !strings.Contains(output, want) {
			t.Errorf("version output missing %q, got: %s", want, output)
		}
	}
}

func TestSetupLoggingStdioMode(t *testing.T) {
	originalOutput := log.Writer()
	originalFlags := log.Flags()
	defer func() {
		log.SetOutput(originalOutput)
		log.SetFlags(originalFlags)
	}()

	cfg := config.DefaultConfig()
	cfg.Mode = config.ModeStdio
	cfg.LogLevel = "info"

	// Non-debug stdio mode must not write to stdout or stderr at all
	setupLogging(cfg)
	if log.Writer() == os.Stdout || log.Writer() == os.Stderr {
		t.Error("stdio mode without debug should discard log output")
	}

	cfg.LogLevel = "debug"
	setupLogging(cfg)
	if log.Writer() != os.Stderr {
		t.Error("stdio mode with debug should log to stderr")
	}
}

func TestSetupLoggingConvertMode(t *testing.T) {
	originalOutput := log.Writer()
	originalFlags := log.Flags()
	defer func() {
		log.SetOutput(originalOutput)
		log.SetFlags(originalFlags)
	}()

	cfg := config.DefaultConfig()
	cfg.Mode = config.ModeConvert

	setupLogging(cfg)
	if log.Flags() != log.LstdFlags|log.Lshortfile {
		t.Errorf("convert mode should use detailed log flags, got %d", log.Flags())
	}
}
