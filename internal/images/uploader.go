package images

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/docker/go-units"

	"github.com/JaimeStill/craftsync/internal/sanity"
)

const (
	// DefaultContentType is assumed when the image host omits Content-Type.
	DefaultContentType = "image/jpeg"
	// DefaultMaxPixels bounds the decoded size of images considered for resizing.
	DefaultMaxPixels int64 = 40_000_000
)

// AssetStore is the part of sanity.Store the uploader needs.
type AssetStore interface {
	UploadAsset(ctx context.Context, kind sanity.AssetKind, data []byte, opts sanity.UploadOptions) (*sanity.Asset, error)
}

// Config bounds image downloads.
type Config struct {
	// MaxSize is the largest accepted download in bytes. Zero disables the check.
	MaxSize int64
	// MaxWidth downscales wider raster images. Zero disables resizing.
	MaxWidth int
	// MaxPixels rejects images declaring more pixels when resizing is
	// enabled. Zero uses DefaultMaxPixels.
	MaxPixels int64
	Timeout   time.Duration
}

// Uploader downloads images and re-uploads them as assets.
type Uploader struct {
	store  AssetStore
	cfg    Config
	http   *http.Client
	logger *slog.Logger
}

// New creates an Uploader. A zero timeout defaults to 30s.
func New(store AssetStore, cfg Config, logger *slog.Logger) *Uploader {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if cfg.MaxPixels <= 0 {
		cfg.MaxPixels = DefaultMaxPixels
	}
	return &Uploader{
		store:  store,
		cfg:    cfg,
		http:   &http.Client{Timeout: timeout},
		logger: logger.With("system", "images"),
	}
}

// Upload copies the image at rawURL into the asset store and returns the
// asset id. Failures are logged and reported as ("", false).
func (u *Uploader) Upload(ctx context.Context, rawURL, filename string) (string, bool) {
	data, contentType, err := u.download(ctx, rawURL)
	if err != nil {
		u.logger.Warn("image download failed", "url", rawURL, "error", err)
		return "", false
	}

	if u.cfg.MaxWidth > 0 {
		resized, ok, err := downscale(data, u.cfg.MaxWidth, u.cfg.MaxPixels)
		switch {
		case errors.Is(err, ErrTooManyPixels):
			u.logger.Warn("image rejected", "url", rawURL, "error", err)
			return "", false
		case err != nil:
			u.logger.Debug("image left unresized", "url", rawURL, "error", err)
		case ok:
			data = resized
			contentType = "image/jpeg"
			filename = replaceExt(filename, "jpg")
		}
	}

	asset, err := u.store.UploadAsset(ctx, sanity.AssetImage, data, sanity.UploadOptions{
		Filename:    filename,
		ContentType: contentType,
	})
	if err != nil {
		u.logger.Warn("image upload failed", "url", rawURL, "filename", filename, "error", err)
		return "", false
	}
	if asset == nil || asset.ID == "" {
		u.logger.Warn("image upload returned no asset id", "url", rawURL)
		return "", false
	}

	u.logger.Info("image uploaded",
		"filename", filename,
		"asset", asset.ID,
		"size", units.HumanSize(float64(len(data))))
	return asset.ID, true
}

func (u *Uploader) download(ctx context.Context, rawURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("build request: %w", err)
	}

	resp, err := u.http.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "", &FetchError{URL: rawURL, StatusCode: resp.StatusCode}
	}

	if u.cfg.MaxSize > 0 && resp.ContentLength > u.cfg.MaxSize {
		return nil, "", fmt.Errorf("%w: %s > %s", ErrTooLarge,
			units.HumanSize(float64(resp.ContentLength)),
			units.HumanSize(float64(u.cfg.MaxSize)))
	}

	var body io.Reader = resp.Body
	if u.cfg.MaxSize > 0 {
		body = io.LimitReader(resp.Body, u.cfg.MaxSize+1)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, "", fmt.Errorf("read body: %w", err)
	}
	if u.cfg.MaxSize > 0 && int64(len(data)) > u.cfg.MaxSize {
		return nil, "", fmt.Errorf("%w: more than %s", ErrTooLarge, units.HumanSize(float64(u.cfg.MaxSize)))
	}

	return data, contentType(resp.Header.Get("Content-Type")), nil
}

func contentType(header string) string {
	if header == "" {
		return DefaultContentType
	}
	mediaType, _, err := mime.ParseMediaType(header)
	if err != nil || mediaType == "" {
		return DefaultContentType
	}
	return mediaType
}

// Filename builds the asset filename for the n-th image of a document,
// taking the extension from the URL path. URLs without one get "jpg".
func Filename(rawURL string, n int) string {
	ext := "jpg"
	if u, err := url.Parse(rawURL); err == nil {
		if e := strings.TrimPrefix(strings.ToLower(path.Ext(u.Path)), "."); e != "" {
			ext = e
		}
	}
	return fmt.Sprintf("image-%d.%s", n, ext)
}

func replaceExt(filename, ext string) string {
	return strings.TrimSuffix(filename, path.Ext(filename)) + "." + ext
}
