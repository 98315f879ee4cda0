package fetcher

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/go-resty/resty/v2"

	"nokicli/internal/config"
	apperrors "nokicli/internal/errors"
)

// Client downloads the survey dataset from the remote service: it
// obtains a bearer token from the authentication endpoint, then
// requests the CSV export for the configured deployment.
type Client struct {
	http   *resty.Client
	logger *slog.Logger
	cfg    config.ServiceConfig
}

// tokenResponse is the authentication endpoint's JSON body
type tokenResponse struct {
	Token string `json:"token"`
}

// New creates a fetcher client with a bounded request timeout
func New(cfg config.ServiceConfig, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}

	httpClient := resty.New().
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json, text/csv")

	return &Client{
		http:   httpClient,
		logger: logger,
		cfg:    cfg,
	}
}

// Token authenticates against the service and returns the access token.
// The token format and expiry are opaque; it is used immediately for
// the download and never stored.
func (c *Client) Token(ctx context.Context) (string, error) {
	c.logger.Info("Authenticating", slog.String("url", c.cfg.AuthURL))

	var result tokenResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]string{
			"username": c.cfg.Username,
			"password": c.cfg.Password,
		}).
		SetResult(&result).
		Post(c.cfg.AuthURL)
	if err != nil {
		return "", apperrors.AuthFailed(err)
	}

	if !resp.IsSuccess() {
		return "", apperrors.AuthFailed(fmt.Errorf("auth endpoint returned %s", resp.Status()))
	}

	if result.Token == "" {
		return "", apperrors.AuthFailed(fmt.Errorf("no token in auth response"))
	}

	return result.Token, nil
}

// Download authenticates, fetches the CSV export for the configured
// deployment and persists the response body verbatim to destPath.
// The response is written to a temporary file and renamed into place,
// so a failed download never overwrites the previous dataset. With
// keepHistory set, the previous dataset is archived with a timestamp
// suffix before being replaced.
func (c *Client) Download(ctx context.Context, destPath string, keepHistory bool) error {
	token, err := c.Token(ctx)
	if err != nil {
		return err
	}

	tmpPath := destPath + ".download"
	defer os.Remove(tmpPath)

	c.logger.Info("Downloading dataset",
		slog.String("url", c.cfg.DownloadURL),
		slog.String("deployment", c.cfg.Deployment),
		slog.String("dest", destPath))

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+token).
		SetQueryParam("deployment_name", c.cfg.Deployment).
		SetOutput(tmpPath).
		Get(c.cfg.DownloadURL)
	if err != nil {
		return apperrors.DownloadFailed(err)
	}

	if !resp.IsSuccess() {
		return apperrors.DownloadFailed(fmt.Errorf("download endpoint returned %s", resp.Status()))
	}

	if keepHistory {
		if err := archivePrevious(destPath); err != nil {
			return apperrors.DownloadFailed(err)
		}
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		return apperrors.DownloadFailed(fmt.Errorf("failed to move download into place: %w", err))
	}

	c.logger.Info("Download complete", slog.String("dest", destPath))
	return nil
}

// archivePrevious renames an existing dataset file aside with a
// timestamp suffix. A missing previous file is not an error.
func archivePrevious(destPath string) error {
	if _, err := os.Stat(destPath); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	archived := fmt.Sprintf("%s.%s", destPath, time.Now().UTC().Format("20060102T150405Z"))
	if err := os.Rename(destPath, archived); err != nil {
		return fmt.Errorf("failed to archive previous dataset: %w", err)
	}
	return nil
}
