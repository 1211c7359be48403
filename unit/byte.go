package unit

// https://en.wikipedia.org/wiki/Kibibyte
const (
	Byte     = 1
	Kibibyte = 1024 * Byte
	Mebibyte = 1024 * Kibibyte
)
