// Package converter turns docx bytes into PDF bytes by driving a
// headless LibreOffice (soffice) process. This is the most fragile step
// of the pipeline; every invocation is fully isolated and every failure
// mode is explicit. Retry is the caller's concern, not this layer's.
package converter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

// wellKnownPaths are checked after PATH lookup fails. The Windows
// entries mirror the default LibreOffice installer locations.
var wellKnownPaths = []string{
	`C:\Program Files\LibreOffice\program\soffice.exe`,
	`C:\Program Files\LibreOffice\program\soffice.com`,
	`C:\Program Files (x86)\LibreOffice\program\soffice.exe`,
	`C:\Program Files (x86)\LibreOffice\program\soffice.com`,
	"/usr/bin/soffice",
	"/usr/local/bin/soffice",
	"/opt/libreoffice/program/soffice",
	"/Applications/LibreOffice.app/Contents/MacOS/soffice",
}

// Converter invokes soffice for one docx→PDF conversion at a time
type Converter struct {
	overridePath string
	timeout      time.Duration
	logger       *zap.Logger
}

// NewConverter creates a converter. overridePath may be empty, in which
// case the binary is discovered on PATH and then in the well-known
// install locations.
func NewConverter(overridePath string, timeout time.Duration, logger *zap.Logger) *Converter {
	return &Converter{
		overridePath: overridePath,
		timeout:      timeout,
		logger:       logger,
	}
}

// FindSoffice resolves the soffice binary: explicit override first (an
// absent override is an error, not a fallthrough), then PATH, then the
// well-known locations.
func FindSoffice(overridePath string) (string, error) {
	if overridePath != "" {
		if _, err := os.Stat(overridePath); err != nil {
			return "", fmt.Errorf("%w: override path %q", ErrSofficeNotFound, overridePath)
		}
		return preferExe(overridePath), nil
	}

	for _, name := range []string{"soffice.exe", "soffice.com", "soffice"} {
		if p, err := exec.LookPath(name); err == nil {
			return preferExe(p), nil
		}
	}

	for _, p := range wellKnownPaths {
		if _, err := os.Stat(p); err == nil {
			return preferExe(p), nil
		}
	}

	return "", fmt.Errorf("%w: set SOFFICE_PATH to the binary location", ErrSofficeNotFound)
}

// preferExe swaps a resolved soffice.com for its sibling .exe when that
// exists; the .com launcher is flakier under redirected output.
func preferExe(path string) string {
	if strings.HasSuffix(strings.ToLower(path), ".com") {
		alt := path[:len(path)-len(".com")] + ".exe"
		if _, err := os.Stat(alt); err == nil {
			return alt
		}
	}
	return path
}

// Convert runs one docx→PDF conversion and returns the PDF bytes.
//
// Each call gets a disposable temp directory holding both the work
// files and a private UserInstallation profile. Profiles are never
// reused, even sequentially: a crashed prior invocation leaves stale
// lock files that would wedge the next one.
func (c *Converter) Convert(ctx context.Context, docxBytes []byte) ([]byte, error) {
	soffice, err := FindSoffice(c.overridePath)
	if err != nil {
		return nil, err
	}

	tmpDir, err := os.MkdirTemp("", "sptjm_lo_")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	profileDir := filepath.Join(tmpDir, "lo_profile")
	if err := os.MkdirAll(profileDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create profile dir: %w", err)
	}

	docxPath := filepath.Join(tmpDir, "input.docx")
	if err := os.WriteFile(docxPath, docxBytes, 0644); err != nil {
		return nil, fmt.Errorf("failed to write input docx: %w", err)
	}

	runCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, soffice,
		"--headless",
		"--nologo",
		"--nofirststartwizard",
		"-env:UserInstallation="+fileURI(profileDir),
		"--convert-to", "pdf:writer_pdf_Export",
		"--outdir", tmpDir,
		docxPath,
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	runErr := cmd.Run()
	elapsed := time.Since(start)

	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		c.logger.Error("soffice timed out",
			zap.Duration("timeout", c.timeout),
			zap.String("binary", soffice))
		return nil, fmt.Errorf("%w after %s", ErrConvertTimeout, c.timeout)
	}
	if runErr != nil {
		c.logger.Error("soffice exited non-zero",
			zap.Error(runErr),
			zap.String("stderr", stderr.String()))
		return nil, fmt.Errorf("%w: %v\nstdout:\n%s\nstderr:\n%s",
			ErrConvertFailed, runErr, stdout.String(), stderr.String())
	}

	pdfs, err := filepath.Glob(filepath.Join(tmpDir, "*.pdf"))
	if err != nil || len(pdfs) == 0 {
		return nil, fmt.Errorf("%w: no PDF produced\nstdout:\n%s\nstderr:\n%s",
			ErrConvertFailed, stdout.String(), stderr.String())
	}

	pdfBytes, err := os.ReadFile(pdfs[0])
	if err != nil {
		return nil, fmt.Errorf("%w: cannot read output: %v", ErrConvertFailed, err)
	}

	c.logger.Debug("Conversion finished",
		zap.Duration("elapsed", elapsed),
		zap.Int("pdf_bytes", len(pdfBytes)))

	return pdfBytes, nil
}

// fileURI renders an absolute path as a file: URI the way soffice
// expects for -env:UserInstallation.
func fileURI(path string) string {
	p := filepath.ToSlash(path)
	if !strings.HasPrefix(p, "/") {
		// Windows drive letters need the extra slash: file:///C:/...
		p = "/" + p
	}
	u := url.URL{Scheme: "file", Path: p}
	return u.String()
}
