// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package romload reads cartridge images for the pwrap driver, directly or
// from inside ZIP, 7z, gzip, tar.gz and RAR archives.
//
// The archive format is detected from magic bytes, then from the file
// extension. Inside an archive the first entry with a cartridge extension
// is used. A copier header is stripped from the image.
package romload

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// MaxSize bounds an extracted image.
const MaxSize = 8 << 20

// copierHeaderSize is the size of the header some copiers prepend.
const copierHeaderSize = 512

// Extensions are the cartridge file extensions searched for in archives.
var Extensions = []string{".sfc", ".smc", ".swc", ".fig", ".bin"}

var (
	// ErrNoImage is returned when an archive holds no cartridge image.
	ErrNoImage = errors.New("romload: no cartridge image in archive")
	// ErrUnsupported is returned for a file that is neither an archive nor
	// a cartridge image.
	ErrUnsupported = errors.New("romload: unsupported file format")
	// ErrTooLarge is returned when an image exceeds MaxSize.
	ErrTooLarge = errors.New("romload: image exceeds maximum size")
)

// Image is a loaded cartridge image.
type Image struct {
	// Name is the base name of the image file, inside the archive if any.
	Name string
	// Data is the image without copier header.
	Data []byte
	// CopierHeader reports whether a copier header was stripped.
	CopierHeader bool
}

// Format is a container format.
type Format uint8

const (
	FormatUnknown Format = iota
	FormatRaw
	FormatZIP
	Format7z
	FormatGzip
	FormatRAR
)

var formatNames = [...]string{"unknown", "raw", "zip", "7z", "gzip", "rar"}

func (f Format) String() string {
	if int(f) < len(formatNames) {
		return formatNames[f]
	}
	return "Format(" + fmt.Sprint(uint8(f)) + ")"
}

var magics = []struct {
	prefix []byte
	format Format
}{
	{[]byte{0x50, 0x4B, 0x03, 0x04}, FormatZIP},
	{[]byte{0x50, 0x4B, 0x05, 0x06}, FormatZIP},
	{[]byte{0x52, 0x61, 0x72, 0x21}, FormatRAR},
	{[]byte{0x37, 0x7A, 0xBC, 0xAF, 0x27, 0x1C}, Format7z},
	{[]byte{0x1F, 0x8B}, FormatGzip},
}

// extractor pulls the first cartridge image out of an archive.
type extractor func(path string) (name string, data []byte, err error)

var extractors = map[Format]extractor{
	FormatZIP:  fromZIP,
	Format7z:   from7z,
	FormatGzip: fromGzip,
	FormatRAR:  fromRAR,
}

// Load reads the cartridge image at path.
func Load(path string) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("romload: %w", err)
	}
	defer f.Close()

	head := make([]byte, 16)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("romload: read header: %w", err)
	}

	var name string
	var data []byte
	switch format := Detect(head[:n], path); format {
	case FormatRaw:
		if _, err = f.Seek(0, io.SeekStart); err != nil {
			return nil, fmt.Errorf("romload: %w", err)
		}
		if data, err = readLimited(f); err != nil {
			return nil, fmt.Errorf("romload: read %s: %w", path, err)
		}
		name = filepath.Base(path)
	case FormatUnknown:
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, path)
	default:
		if name, data, err = extractors[format](path); err != nil {
			return nil, err
		}
	}
	return newImage(name, data), nil
}

// Detect determines the container format from the first bytes of a file
// and its path.
func Detect(head []byte, path string) Format {
	for _, m := range magics {
		if bytes.HasPrefix(head, m.prefix) {
			return m.format
		}
	}
	lower := strings.ToLower(path)
	switch ext := filepath.Ext(lower); ext {
	case ".zip":
		return FormatZIP
	case ".7z":
		return Format7z
	case ".gz", ".tgz":
		return FormatGzip
	case ".rar":
		return FormatRAR
	}
	if isImage(lower) {
		return FormatRaw
	}
	return FormatUnknown
}

func newImage(name string, data []byte) *Image {
	img := &Image{Name: name, Data: data}
	if len(data)%1024 == copierHeaderSize {
		img.Data = data[copierHeaderSize:]
		img.CopierHeader = true
	}
	return img
}

// isImage reports whether name has a cartridge extension.
func isImage(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// readLimited reads r to the end, failing past MaxSize.
func readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > MaxSize {
		return nil, ErrTooLarge
	}
	return data, nil
}
