package constants

// Set via -ldflags at build time.
var (
	Version     = "dev"
	CompileTime = "unknown"
)

// Client identity advertised to the Jellyfin server in the
// X-Emby-Authorization header. Jellyfin rejects authentication
// requests that carry no client identification at all.
const (
	AuthClientName    = "JellyfinDownloader"
	AuthDeviceName    = "WindowsPC"
	AuthDeviceID      = "12345"
	AuthClientVersion = "10.9.6"
)
