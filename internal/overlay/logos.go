package overlay

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"os"

	"stillgen/internal/logging"
)

// LogoCache loads logo bitmaps once per worker and keeps them keyed by path;
// the same two logos repeat on every output frame of a run.
type LogoCache struct {
	images map[string]image.Image
	logger *slog.Logger
}

// NewLogoCache returns an empty cache.
func NewLogoCache(logger *slog.Logger) *LogoCache {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &LogoCache{
		images: make(map[string]image.Image),
		logger: logging.NewComponentLogger(logger, "overlay"),
	}
}

// Load returns the decoded logo, or nil when the file is missing or
// undecodable. A missing logo drops the logo slot, never the job.
func (c *LogoCache) Load(path string) image.Image {
	if path == "" {
		return nil
	}
	if img, ok := c.images[path]; ok {
		return img
	}

	img, err := decodeImageFile(path)
	if err != nil {
		c.logger.Warn("logo unavailable", logging.String("path", path), logging.Error(err))
		c.images[path] = nil
		return nil
	}
	c.images[path] = img
	return img
}

func decodeImageFile(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}
