package types

// TicksPerSecond is the resolution of Jellyfin's RunTimeTicks field
// (100-nanosecond ticks).
const TicksPerSecond = 10_000_000

type ItemsResponse struct {
	Items            []Item `json:"Items"`
	TotalRecordCount int    `json:"TotalRecordCount"`
}

// Item is a server-catalogued media entity: a track, a folder, or a
// sidecar file. Identity is the opaque server-assigned Id; everything
// here is read-only from this program's perspective.
type Item struct {
	ID               string        `json:"Id"`
	Name             string        `json:"Name"`
	Artists          []string      `json:"Artists"`
	Album            string        `json:"Album"`
	ParentID         string        `json:"ParentId"`
	RunTimeTicks     int64         `json:"RunTimeTicks"`
	MediaSources     []MediaSource `json:"MediaSources"`
	ExtraFiles       []ExtraFile   `json:"ExtraFiles"`
	PrimaryImageTag  string        `json:"PrimaryImageTag"`
	BackdropImageTag string        `json:"BackdropImageTag"`
	ScreenshotTag    string        `json:"ScreenshotTag"`
}

type MediaSource struct {
	Path string `json:"Path"`
}

type ExtraFile struct {
	ID   string `json:"Id"`
	Name string `json:"Name"`
}

// PrimaryArtist is the first listed artist.
func (i *Item) PrimaryArtist() string {
	if len(i.Artists) == 0 || i.Artists[0] == "" {
		return "Unknown Artist"
	}

	return i.Artists[0]
}

func (i *Item) AlbumName() string {
	if i.Album == "" {
		return "Unknown Album"
	}

	return i.Album
}

func (i *Item) DurationSeconds() int {
	return int(i.RunTimeTicks / TicksPerSecond)
}

type ImageSlot string

const (
	ImageSlotPrimary    ImageSlot = "PrimaryImage"
	ImageSlotBackdrop   ImageSlot = "BackdropImage"
	ImageSlotScreenshot ImageSlot = "Screenshot"
)

var ImageSlots = []ImageSlot{ImageSlotPrimary, ImageSlotBackdrop, ImageSlotScreenshot}

// ImageTag returns the server tag for the given image slot, empty when
// the item carries no image there.
func (i *Item) ImageTag(slot ImageSlot) string {
	switch slot {
	case ImageSlotPrimary:
		return i.PrimaryImageTag
	case ImageSlotBackdrop:
		return i.BackdropImageTag
	case ImageSlotScreenshot:
		return i.ScreenshotTag
	default:
		panic("unexpected image slot: " + string(slot))
	}
}
