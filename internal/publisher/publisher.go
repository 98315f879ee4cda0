package publisher

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"nokicli/internal/config"
	apperrors "nokicli/internal/errors"
)

// Publisher copies the report bundle into the publishing directory
// under the project root and triggers the static-site deploy command.
// Deployment is fire-and-forget: the command's outcome is reported but
// the published URL is never verified.
type Publisher struct {
	logger *slog.Logger
	cfg    config.PublishConfig
}

// New creates a publisher
func New(cfg config.PublishConfig, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{logger: logger, cfg: cfg}
}

// Publish copies the bundle files into the publish directory and runs
// the deploy command from the project root. If the project root cannot
// be located nothing is copied and prior published content is left
// untouched.
func (p *Publisher) Publish(ctx context.Context, bundleFiles []string) error {
	root, err := filepath.Abs(p.cfg.ProjectRoot)
	if err != nil {
		return apperrors.ProjectRootMissing(p.cfg.ProjectRoot)
	}
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		return apperrors.ProjectRootMissing(root)
	}

	publishDir := filepath.Join(root, p.cfg.PublishSubdir)
	if err := os.MkdirAll(publishDir, 0755); err != nil {
		return apperrors.PublishFailed(fmt.Errorf("failed to create publish directory: %w", err))
	}

	for _, src := range bundleFiles {
		dest := filepath.Join(publishDir, filepath.Base(src))
		if err := copyFile(src, dest); err != nil {
			return apperrors.PublishFailed(err)
		}
		p.logger.Info("Copied bundle file",
			slog.String("src", src),
			slog.String("dest", dest))
	}

	return p.deploy(ctx, root)
}

// deploy runs the configured deploy command from the project root
// inside a scoped working-directory change.
func (p *Publisher) deploy(ctx context.Context, root string) error {
	parts := strings.Fields(p.cfg.DeployCommand)
	if len(parts) == 0 {
		return apperrors.PublishFailed(fmt.Errorf("deploy command is empty"))
	}

	p.logger.Info("Running deploy command",
		slog.String("command", p.cfg.DeployCommand),
		slog.String("dir", root))

	err := WithWorkingDir(root, func() error {
		cmd := exec.CommandContext(ctx, parts[0], parts[1:]...)
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		return cmd.Run()
	})
	if err != nil {
		return apperrors.PublishFailed(fmt.Errorf("deploy command failed: %w", err))
	}

	p.logger.Info("Deploy triggered; published content may take a moment to refresh")
	return nil
}

// WithWorkingDir runs fn with the working directory set to dir,
// restoring the original directory afterwards regardless of how fn
// completes.
func WithWorkingDir(dir string, fn func() error) (err error) {
	original, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to capture working directory: %w", err)
	}

	if err := os.Chdir(dir); err != nil {
		return fmt.Errorf("failed to change directory to %s: %w", dir, err)
	}

	defer func() {
		if restoreErr := os.Chdir(original); restoreErr != nil && err == nil {
			err = fmt.Errorf("failed to restore working directory: %w", restoreErr)
		}
	}()

	return fn()
}

// copyFile copies src to dest, overwriting dest if present
func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dest, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("failed to copy %s: %w", src, err)
	}

	return out.Close()
}
