package scrape

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
)

// propagate copies the produced files into the configured deployment
// locations and triggers the external database-population command.
// Both are opaque post-processing steps; their failures are reported
// but never touch the in-memory results or the primary snapshots.
func (s Service) propagate(ctx context.Context, files []string) error {
	var errlist []error

	for _, dest := range s.cfg.Propagate.Destinations {
		err := os.MkdirAll(dest, 0755)
		if err != nil {
			errlist = append(errlist, err)
			continue
		}
		for _, file := range files {
			err := copyFile(file, filepath.Join(dest, filepath.Base(file)))
			if err != nil {
				errlist = append(errlist, fmt.Errorf("copy %s to %s: %w", file, dest, err))
				continue
			}
			slog.InfoContext(ctx, "propagated file", "file", filepath.Base(file), "dest", dest)
		}
	}

	if cmd := s.cfg.Propagate.PopulateCommand; len(cmd) > 0 {
		slog.InfoContext(ctx, "running populate command", "argv", cmd)
		c := exec.CommandContext(ctx, cmd[0], cmd[1:]...)
		c.Stdout = os.Stdout
		c.Stderr = os.Stderr
		err := c.Run()
		if err != nil {
			errlist = append(errlist, fmt.Errorf("populate command: %w", err))
		}
	}

	return errors.Join(errlist...)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	return err
}
