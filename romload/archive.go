// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package romload

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/sevenzip"
	"github.com/nwaples/rardecode/v2"
)

// entry is one file of a random-access archive.
type entry interface {
	FileInfo() fs.FileInfo
	Open() (io.ReadCloser, error)
}

// firstImage reads the first entry of files with a cartridge extension.
func firstImage[E entry](files []E, nameOf func(E) string) (string, []byte, error) {
	for _, f := range files {
		name := nameOf(f)
		if f.FileInfo().IsDir() || !isImage(name) {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", nil, fmt.Errorf("romload: open %s: %w", name, err)
		}
		data, err := readLimited(rc)
		rc.Close()
		if err != nil {
			return "", nil, fmt.Errorf("romload: read %s: %w", name, err)
		}
		return filepath.Base(name), data, nil
	}
	return "", nil, ErrNoImage
}

func fromZIP(path string) (string, []byte, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return "", nil, fmt.Errorf("romload: open zip: %w", err)
	}
	defer r.Close()
	return firstImage(r.File, func(f *zip.File) string { return f.Name })
}

func from7z(path string) (string, []byte, error) {
	r, err := sevenzip.OpenReader(path)
	if err != nil {
		return "", nil, fmt.Errorf("romload: open 7z: %w", err)
	}
	defer r.Close()
	return firstImage(r.File, func(f *sevenzip.File) string { return f.Name })
}

// next iterates a streaming archive.
type next func() (name string, regular bool, err error)

// streamImage reads the first regular entry of a streaming archive with a
// cartridge extension from r.
func streamImage(r io.Reader, advance next) (string, []byte, error) {
	for {
		name, regular, err := advance()
		if errors.Is(err, io.EOF) {
			return "", nil, ErrNoImage
		}
		if err != nil {
			return "", nil, fmt.Errorf("romload: read entry: %w", err)
		}
		if !regular || !isImage(name) {
			continue
		}
		data, err := readLimited(r)
		if err != nil {
			return "", nil, fmt.Errorf("romload: read %s: %w", name, err)
		}
		return filepath.Base(name), data, nil
	}
}

func fromRAR(path string) (string, []byte, error) {
	r, err := rardecode.OpenReader(path)
	if err != nil {
		return "", nil, fmt.Errorf("romload: open rar: %w", err)
	}
	defer r.Close()
	return streamImage(r, func() (string, bool, error) {
		h, err := r.Next()
		if err != nil {
			return "", false, err
		}
		return h.Name, !h.IsDir, nil
	})
}

// fromGzip reads a tar.gz archive, or a single gzip-compressed image named
// after the file without its .gz suffix.
func fromGzip(path string) (string, []byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", nil, fmt.Errorf("romload: %w", err)
	}
	defer f.Close()
	gr, err := gzip.NewReader(f)
	if err != nil {
		return "", nil, fmt.Errorf("romload: open gzip: %w", err)
	}
	defer gr.Close()

	lower := strings.ToLower(path)
	if strings.HasSuffix(lower, ".tar.gz") || strings.HasSuffix(lower, ".tgz") {
		tr := tar.NewReader(gr)
		return streamImage(tr, func() (string, bool, error) {
			h, err := tr.Next()
			if err != nil {
				return "", false, err
			}
			return h.Name, h.Typeflag == tar.TypeReg, nil
		})
	}

	data, err := readLimited(gr)
	if err != nil {
		return "", nil, fmt.Errorf("romload: decompress gzip: %w", err)
	}
	name := filepath.Base(path)
	if strings.HasSuffix(strings.ToLower(name), ".gz") {
		name = name[:len(name)-len(".gz")]
	}
	return name, data, nil
}
