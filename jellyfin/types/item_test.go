package types_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ios7jbpro/jellyfin-mass-dl/jellyfin/types"
)

func TestItemAccessors(t *testing.T) {
	t.Parallel()

	item := types.Item{ //nolint:exhaustruct
		ID:           "1",
		Name:         "Song",
		Artists:      []string{"A", "B"},
		Album:        "Album",
		RunTimeTicks: 600_000_000,
	}

	assert.Exactly(t, "A", item.PrimaryArtist())
	assert.Exactly(t, "Album", item.AlbumName())
	assert.Exactly(t, 60, item.DurationSeconds())

	empty := types.Item{} //nolint:exhaustruct
	assert.Exactly(t, "Unknown Artist", empty.PrimaryArtist())
	assert.Exactly(t, "Unknown Album", empty.AlbumName())
	assert.Exactly(t, 0, empty.DurationSeconds())
}

func TestImageTag(t *testing.T) {
	t.Parallel()

	item := types.Item{ //nolint:exhaustruct
		PrimaryImageTag:  "p",
		BackdropImageTag: "b",
		ScreenshotTag:    "s",
	}

	assert.Exactly(t, "p", item.ImageTag(types.ImageSlotPrimary))
	assert.Exactly(t, "b", item.ImageTag(types.ImageSlotBackdrop))
	assert.Exactly(t, "s", item.ImageTag(types.ImageSlotScreenshot))

	assert.Panics(t, func() { item.ImageTag(types.ImageSlot("Poster")) })
}
