// Package tiles turns configured items into rendered cell blocks.
package tiles

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/andyrewlee/marquee/internal/config"
	"github.com/andyrewlee/marquee/internal/logging"
	"github.com/andyrewlee/marquee/internal/marquee"
	"github.com/andyrewlee/marquee/internal/ui/common"
	"github.com/andyrewlee/marquee/internal/ui/compositor"
)

// CellSize rounds an item's geometry to whole terminal cells, at least 1×1.
func CellSize(item marquee.Item) (int, int) {
	w := int(math.Round(item.Width()))
	h := int(math.Round(item.Height()))
	return max(1, w), max(1, h)
}

// Build renders one tile per source item. An image that cannot be loaded falls
// back to the item's label when it has one.
func Build(items []config.ItemConfig, item marquee.Item) ([]*compositor.Canvas, error) {
	w, h := CellSize(item)
	out := make([]*compositor.Canvas, 0, len(items))
	for i, it := range items {
		tile, err := buildOne(i, it, w, h)
		if err != nil {
			return nil, fmt.Errorf("items[%d]: %w", i, err)
		}
		out = append(out, tile)
	}
	return out, nil
}

func buildOne(i int, it config.ItemConfig, w, h int) (*compositor.Canvas, error) {
	var bg color.Color = common.TileColor(i)
	if strings.TrimSpace(it.Color) != "" {
		c, err := ParseColor(it.Color)
		if err != nil {
			return nil, err
		}
		bg = c
	}

	if path := strings.TrimSpace(it.Image); path != "" {
		tile, err := LoadImage(path, w, h)
		if err == nil {
			return tile, nil
		}
		if strings.TrimSpace(it.Label) == "" {
			return nil, err
		}
		logging.Warn("tiles: image %s unavailable, using label: %v", path, err)
	}
	return Label(it.Label, bg, w, h), nil
}
