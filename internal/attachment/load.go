package attachment

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"
)

// imageExts maps file extensions to MIME types for formats that content
// sniffing does not recognise.
var imageExts = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".heic": "image/heic",
	".heif": "image/heif",
	".avif": "image/avif",
}

// Load reads an image from disk. Files over MaxBytes are not read into memory;
// they carry their size and sniffed type so that validation rejects them.
func Load(path string) (*Attachment, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	name := filepath.Base(path)
	mimeType := detectType(name, head[:n])

	if info.Size() > MaxBytes {
		return &Attachment{Name: name, MimeType: mimeType, Size: info.Size()}, nil
	}

	data := make([]byte, 0, info.Size())
	data = append(data, head[:n]...)
	rest, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	data = append(data, rest...)

	return New(name, mimeType, data), nil
}

// LoadAll loads files concurrently and returns them in argument order.
func LoadAll(ctx context.Context, paths []string) ([]*Attachment, error) {
	out := make([]*Attachment, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			a, err := Load(path)
			if err != nil {
				return err
			}
			out[i] = a
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// detectType prefers the sniffed content type and only falls back to the
// file extension when sniffing gives up.
func detectType(name string, head []byte) string {
	ct := http.DetectContentType(head)
	if mediaType, _, err := mime.ParseMediaType(ct); err == nil {
		ct = mediaType
	}
	if ct != "application/octet-stream" {
		return ct
	}
	ext := strings.ToLower(filepath.Ext(name))
	if m, ok := imageExts[ext]; ok {
		return m
	}
	if m := mime.TypeByExtension(ext); m != "" {
		if mediaType, _, err := mime.ParseMediaType(m); err == nil {
			return mediaType
		}
	}
	return ct
}
