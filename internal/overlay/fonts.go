package overlay

import (
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"

	"stillgen/internal/logging"
)

// fallbackFontPaths are tried in order when the configured font is missing.
var fallbackFontPaths = []string{
	"/System/Library/Fonts/Helvetica.ttc",
	"/usr/share/fonts/truetype/liberation/LiberationSans-Regular.ttf",
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
}

// FontCache parses the overlay font once and hands out one face per point
// size. Each worker owns its own cache, so no locking.
type FontCache struct {
	parsed *opentype.Font
	faces  map[int]font.Face
	logger *slog.Logger
}

// NewFontCache loads the configured font, falling back through common system
// fonts and finally a built-in bitmap face. Overlay rendering never fails
// for want of a font.
func NewFontCache(path string, logger *slog.Logger) *FontCache {
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logging.NewComponentLogger(logger, "overlay")

	cache := &FontCache{faces: make(map[int]font.Face), logger: logger}

	candidates := append([]string{path}, fallbackFontPaths...)
	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}
		parsed, err := parseFontFile(candidate)
		if err != nil {
			logger.Debug("font unavailable", logging.String("path", candidate), logging.Error(err))
			continue
		}
		if candidate != path {
			logger.Warn("using fallback font", logging.String("path", candidate))
		}
		cache.parsed = parsed
		return cache
	}

	logger.Warn("no usable font found, rendering with built-in face")
	return cache
}

func parseFontFile(path string) (*opentype.Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	parsed, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return parsed, nil
}

// Face returns a cached face at the requested point size.
func (c *FontCache) Face(size int) font.Face {
	if face, ok := c.faces[size]; ok {
		return face
	}

	var face font.Face = basicfont.Face7x13
	if c.parsed != nil {
		created, err := opentype.NewFace(c.parsed, &opentype.FaceOptions{
			Size:    float64(size),
			DPI:     72,
			Hinting: font.HintingFull,
		})
		if err == nil {
			face = created
		} else {
			c.logger.Warn("face creation failed", logging.Int("size", size), logging.Error(err))
		}
	}

	c.faces[size] = face
	return face
}
