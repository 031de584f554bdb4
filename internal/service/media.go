package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopvine/shopvine/internal/storage"
	_ "golang.org/x/image/webp"
)

// MediaFetcher downloads a row's media from its source URL and stores it in
// object storage. Every failure mode is recoverable: the import pipeline
// records it as a warning and the post keeps only its source media URL.
type MediaFetcher struct {
	client   *resty.Client
	store    storage.ObjectStorage
	maxBytes int64
}

// MediaFetcherConfig holds configuration for the media fetcher.
type MediaFetcherConfig struct {
	Timeout  time.Duration
	MaxBytes int64
}

// NewMediaFetcher creates a new media fetcher.
// Parameters:
//   - store: object storage for fetched media.
//   - cfg: fetcher configuration; nil uses defaults.
// Returns:
//   - *MediaFetcher: initialized fetcher.
func NewMediaFetcher(store storage.ObjectStorage, cfg *MediaFetcherConfig) *MediaFetcher {
	if cfg == nil {
		cfg = &MediaFetcherConfig{}
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = 20 * 1024 * 1024
	}
	client := resty.New().
		SetTimeout(cfg.Timeout).
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(5))
	return &MediaFetcher{
		client:   client,
		store:    store,
		maxBytes: cfg.MaxBytes,
	}
}

// MediaInfo describes a fetched and stored media object.
type MediaInfo struct {
	StorageKey string
	Width      int
	Height     int
	Size       int64
}

// Fetch downloads media from mediaURL and uploads it to object storage under
// a workspace-scoped key.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - workspaceID: workspace the media belongs to.
//   - postID: post the media belongs to; used in the storage key.
//   - mediaURL: source URL to download.
// Returns:
//   - *MediaInfo: storage key, dimensions, and size of the stored object.
//   - error: non-nil if download or upload fails.
func (f *MediaFetcher) Fetch(ctx context.Context, workspaceID, postID, mediaURL string) (*MediaInfo, error) {
	resp, err := f.client.R().SetContext(ctx).Get(mediaURL)
	if err != nil {
		return nil, fmt.Errorf("failed to download media: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("failed to download media: status %d", resp.StatusCode())
	}

	data := resp.Body()
	if len(data) == 0 {
		return nil, fmt.Errorf("media response was empty")
	}
	if int64(len(data)) > f.maxBytes {
		return nil, fmt.Errorf("media exceeds size limit: %d > %d bytes", len(data), f.maxBytes)
	}

	// Dimensions are best-effort; non-image media keeps zero dimensions
	width, height := 0, 0
	format := "bin"
	if cfg, fmtName, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
		width, height = cfg.Width, cfg.Height
		format = fmtName
	}

	key := fmt.Sprintf("%s/%s.%s", workspaceID, postID, format)
	if err := f.store.Upload(ctx, key, bytes.NewReader(data), int64(len(data)), contentTypeFor(format)); err != nil {
		return nil, fmt.Errorf("failed to upload media to storage: %w", err)
	}

	return &MediaInfo{
		StorageKey: key,
		Width:      width,
		Height:     height,
		Size:       int64(len(data)),
	}, nil
}

func contentTypeFor(format string) string {
	switch format {
	case "jpeg", "jpg":
		return "image/jpeg"
	case "png":
		return "image/png"
	case "gif":
		return "image/gif"
	case "webp":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}
