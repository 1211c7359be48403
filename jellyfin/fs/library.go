package fs

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// invalidChars are the characters illegal in filenames on common
// filesystems. Stripping them also removes any path separators, so a
// sanitized name can never escape its folder.
const invalidChars = `\/:*?"<>|`

// SafeName strips filesystem-illegal characters and surrounding
// whitespace. A name that sanitizes to nothing becomes "Unknown".
func SafeName(s string) string {
	cleaned := strings.Map(func(r rune) rune {
		if strings.ContainsRune(invalidChars, r) {
			return -1
		}

		return r
	}, s)

	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return "Unknown"
	}

	return cleaned
}

type LibraryDir string

func LibraryDirFrom(d string) LibraryDir {
	return LibraryDir(d)
}

// Album derives the destination folder for a track:
// <root>/<sanitized artist>/<sanitized album>.
func (dir LibraryDir) Album(artist, album string) AlbumDir {
	return AlbumDir{
		Path: filepath.Join(string(dir), SafeName(artist), SafeName(album)),
	}
}

type AlbumDir struct {
	Path string
}

// Ensure creates the album folder on demand. Idempotent.
func (a AlbumDir) Ensure() error {
	if err := os.MkdirAll(a.Path, 0o755); nil != err {
		return fmt.Errorf("failed to create album folder: %v", err)
	}

	return nil
}

func (a AlbumDir) File(name string) File {
	return File{Path: filepath.Join(a.Path, name)}
}

type File struct {
	Path string
}

func (f File) Exists() (bool, error) {
	if _, err := os.Stat(f.Path); nil != err {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}

		return false, fmt.Errorf("failed to stat file: %v", err)
	}

	return true, nil
}

func (f File) Write(b []byte) (err error) {
	file, err := os.OpenFile(f.Path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if nil != err {
		return fmt.Errorf("failed to open file for write: %v", err)
	}
	defer func() {
		if nil != err {
			_ = file.Close()
			if removeErr := os.Remove(f.Path); nil != removeErr &&
				!errors.Is(removeErr, os.ErrNotExist) {
				err = errors.Join(
					err,
					fmt.Errorf("failed to remove incomplete file: %v", removeErr),
				)
			}
		} else {
			if closeErr := file.Close(); nil != closeErr {
				err = fmt.Errorf("failed to close file: %v", closeErr)
			}
		}
	}()

	if _, err := file.Write(b); nil != err {
		return fmt.Errorf("failed to write file: %v", err)
	}

	if err := file.Sync(); nil != err {
		return fmt.Errorf("failed to sync file: %v", err)
	}

	return nil
}

func (f File) WriteString(s string) error {
	if err := f.Write([]byte(s)); nil != err {
		return err
	}

	return nil
}

// WriteFrom streams r to disk in chunkSize pieces, reporting each
// written chunk through onChunk. An incomplete file is removed on
// error.
func (f File) WriteFrom(r io.Reader, chunkSize int, onChunk func(n int)) (written int64, err error) {
	file, err := os.OpenFile(f.Path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if nil != err {
		return 0, fmt.Errorf("failed to open file for write: %v", err)
	}
	defer func() {
		if nil != err {
			_ = file.Close()
			if removeErr := os.Remove(f.Path); nil != removeErr &&
				!errors.Is(removeErr, os.ErrNotExist) {
				err = errors.Join(
					err,
					fmt.Errorf("failed to remove incomplete file: %v", removeErr),
				)
			}
		} else {
			if closeErr := file.Close(); nil != closeErr {
				err = fmt.Errorf("failed to close file: %v", closeErr)
			}
		}
	}()

	buf := make([]byte, chunkSize)
	for {
		n, readErr := r.Read(buf)
		if n > 0 {
			if _, writeErr := file.Write(buf[:n]); nil != writeErr {
				return written, fmt.Errorf("failed to write file chunk: %v", writeErr)
			}

			written += int64(n)
			if nil != onChunk {
				onChunk(n)
			}
		}

		if nil != readErr {
			if errors.Is(readErr, io.EOF) {
				break
			}

			return written, fmt.Errorf("failed to read download stream: %v", readErr)
		}
	}

	if err := file.Sync(); nil != err {
		return written, fmt.Errorf("failed to sync file: %v", err)
	}

	return written, nil
}
