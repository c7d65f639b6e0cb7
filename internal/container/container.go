// Package container reads and writes board documents on disk.
//
// Two formats are supported, selected by file extension: the .fim
// container (a deflate-compressed zip archive holding a single
// board.json entry plus a reserved media/ directory) and flat .json for
// interchange. Reads are capped at 100 MB of payload so a corrupt or
// hostile file cannot exhaust memory.
package container

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/starford/fimbra/internal/apperr"
	"github.com/starford/fimbra/internal/models"
)

const (
	// PayloadEntry is the name of the document entry inside a container.
	PayloadEntry = "board.json"
	// MediaDir is the reserved directory entry for embedded binary assets.
	MediaDir = "media/"
	// MaxPayloadBytes caps how much of a payload a read will buffer.
	MaxPayloadBytes = 100 << 20

	// ExtContainer and ExtJSON are the recognized file extensions.
	ExtContainer = ".fim"
	ExtJSON      = ".json"
)

// Format identifies an on-disk document format.
type Format int

const (
	// FormatContainer is the .fim zip archive.
	FormatContainer Format = iota
	// FormatJSON is the flat JSON interchange file.
	FormatJSON
)

// DetectFormat maps a path's extension to a Format. Unknown extensions
// are rejected naming the supported set.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ExtContainer:
		return FormatContainer, nil
	case ExtJSON:
		return FormatJSON, nil
	default:
		return 0, fmt.Errorf("%w: %q (supported: %s, %s)",
			apperr.ErrUnsupportedFormat, filepath.Ext(path), ExtContainer, ExtJSON)
	}
}

// Save serializes doc to path, choosing the format from the extension.
func Save(doc *models.BoardDocument, path string) error {
	format, err := DetectFormat(path)
	if err != nil {
		return err
	}
	switch format {
	case FormatContainer:
		return WriteContainer(doc, path)
	default:
		return WriteFlat(doc, path)
	}
}

// Load reads a document from path, choosing the format from the extension.
func Load(path string) (*models.BoardDocument, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	switch format {
	case FormatContainer:
		return ReadContainer(path)
	default:
		return ReadFlat(path)
	}
}

// WriteContainer writes doc as a .fim archive: one deflate-compressed
// board.json entry and an empty media/ directory entry. The archive is
// assembled in a temp file and renamed into place so readers never see a
// half-written container.
func WriteContainer(doc *models.BoardDocument, path string) error {
	payload, err := encode(doc)
	if err != nil {
		return err
	}
	return atomicWrite(path, func(f *os.File) error {
		zw := zip.NewWriter(f)

		entry, err := zw.CreateHeader(&zip.FileHeader{
			Name:   PayloadEntry,
			Method: zip.Deflate,
		})
		if err != nil {
			return fmt.Errorf("%w: create %s entry: %v", apperr.ErrIO, PayloadEntry, err)
		}
		if _, err := entry.Write(payload); err != nil {
			return fmt.Errorf("%w: write %s: %v", apperr.ErrIO, PayloadEntry, err)
		}

		// Reserved for embedded assets; must exist even while empty so
		// older builds keep accepting newer files.
		if _, err := zw.CreateHeader(&zip.FileHeader{Name: MediaDir}); err != nil {
			return fmt.Errorf("%w: create %s entry: %v", apperr.ErrIO, MediaDir, err)
		}

		if err := zw.Close(); err != nil {
			return fmt.Errorf("%w: finalize archive: %v", apperr.ErrIO, err)
		}
		return nil
	})
}

// ReadContainer opens a .fim archive and decodes its board.json entry.
func ReadContainer(path string) (*models.BoardDocument, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: open %s: %v", apperr.ErrIO, path, err)
		}
		return nil, fmt.Errorf("%w: %s is not a valid archive: %v", apperr.ErrFormat, path, err)
	}
	defer zr.Close()

	var entry *zip.File
	for _, f := range zr.File {
		if f.Name == PayloadEntry {
			entry = f
			break
		}
	}
	if entry == nil {
		return nil, fmt.Errorf("%w: %s entry missing in %s", apperr.ErrFormat, PayloadEntry, path)
	}
	if entry.UncompressedSize64 > MaxPayloadBytes {
		return nil, fmt.Errorf("%w: %s payload is %d bytes (cap %d)",
			apperr.ErrResourceLimit, path, entry.UncompressedSize64, int64(MaxPayloadBytes))
	}

	rc, err := entry.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: open %s in %s: %v", apperr.ErrFormat, PayloadEntry, path, err)
	}
	defer rc.Close()

	// The declared size can lie in a crafted archive, so enforce the cap
	// on the actual stream as well.
	data, err := io.ReadAll(io.LimitReader(rc, MaxPayloadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read %s in %s: %v", apperr.ErrFormat, PayloadEntry, path, err)
	}
	if len(data) > MaxPayloadBytes {
		return nil, fmt.Errorf("%w: %s payload exceeds %d bytes", apperr.ErrResourceLimit, path, int64(MaxPayloadBytes))
	}

	return decode(data, path)
}

// WriteFlat writes doc as a bare JSON file.
func WriteFlat(doc *models.BoardDocument, path string) error {
	payload, err := encode(doc)
	if err != nil {
		return err
	}
	return atomicWrite(path, func(f *os.File) error {
		if _, err := f.Write(payload); err != nil {
			return fmt.Errorf("%w: write %s: %v", apperr.ErrIO, path, err)
		}
		return nil
	})
}

// ReadFlat reads a bare JSON document file.
func ReadFlat(path string) (*models.BoardDocument, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", apperr.ErrIO, path, err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxPayloadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", apperr.ErrIO, path, err)
	}
	if len(data) > MaxPayloadBytes {
		return nil, fmt.Errorf("%w: %s exceeds %d bytes", apperr.ErrResourceLimit, path, int64(MaxPayloadBytes))
	}
	return decode(data, path)
}

func encode(doc *models.BoardDocument) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%w: encode document: %v", apperr.ErrSerialization, err)
	}
	return data, nil
}

func decode(data []byte, path string) (*models.BoardDocument, error) {
	var doc models.BoardDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", apperr.ErrSerialization, path, err)
	}
	return &doc, nil
}

// atomicWrite creates a temp file next to path, hands it to fill, then
// fsyncs and renames it into place. Any failure removes the temp file.
func atomicWrite(path string, fill func(*os.File) error) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".fimbra-tmp-*")
	if err != nil {
		return fmt.Errorf("%w: create temp in %s: %v", apperr.ErrIO, dir, err)
	}
	tmpName := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if err := fill(tmp); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("%w: fsync %s: %v", apperr.ErrIO, path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: close temp for %s: %v", apperr.ErrIO, path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("%w: rename into %s: %v", apperr.ErrIO, path, err)
	}
	success = true
	return nil
}
