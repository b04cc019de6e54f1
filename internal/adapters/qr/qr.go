package qr

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

// FileDisplay пишет QR-код в файл и открывает его системным просмотрщиком
type FileDisplay struct {
	path   string
	open   bool
	logger *slog.Logger

	// opener подменяется в тестах
	opener func(path string) error
}

func NewFileDisplay(path string, open bool, logger *slog.Logger) *FileDisplay {
	return &FileDisplay{
		path:   path,
		open:   open,
		logger: logger,
		opener: openWithSystemViewer,
	}
}

func (d *FileDisplay) Path() string {
	return d.path
}

func (d *FileDisplay) Show(ctx context.Context, image []byte) error {
	if dir := filepath.Dir(d.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir qr dir: %w", err)
		}
	}
	if err := os.WriteFile(d.path, image, 0o600); err != nil {
		return fmt.Errorf("write qr: %w", err)
	}
	d.logger.Info("QR code saved", "path", d.path, "bytes", len(image))

	if !d.open {
		return nil
	}
	if err := d.opener(d.path); err != nil {
		return fmt.Errorf("open qr: %w", err)
	}
	return nil
}

// Close удаляет файл с QR-кодом
func (d *FileDisplay) Close() error {
	err := os.Remove(d.path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func openWithSystemViewer(path string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", path)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", path)
	default:
		cmd = exec.Command("xdg-open", path)
	}
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() { _ = cmd.Wait() }()
	return nil
}
