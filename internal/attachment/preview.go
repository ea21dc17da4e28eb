package attachment

import (
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
)

// Preview returns the path of a temporary file holding the attachment's
// bytes, creating it on first use. The file lives until Release is called.
func (a *Attachment) Preview(dir string) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.preview != "" {
		return a.preview, nil
	}
	if a.Data == nil {
		return "", fmt.Errorf("preview %s: no image data loaded", a.Name)
	}
	if dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("create preview dir: %w", err)
		}
	}

	f, err := os.CreateTemp(dir, "greenify-*"+a.extension())
	if err != nil {
		return "", fmt.Errorf("create preview file: %w", err)
	}
	if _, err := f.Write(a.Data); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("write preview file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("close preview file: %w", err)
	}

	a.preview = f.Name()
	return a.preview, nil
}

// PreviewPath reports the current preview file, or "" if none is held.
func (a *Attachment) PreviewPath() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.preview
}

// Release removes the preview file if one was created. Calling it more than
// once is harmless.
func (a *Attachment) Release() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.preview == "" {
		return nil
	}
	path := a.preview
	a.preview = ""
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove preview %s: %w", path, err)
	}
	return nil
}

// ReleaseAll releases every attachment and joins the failures.
func ReleaseAll(items []*Attachment) error {
	var errs []error
	for _, a := range items {
		if a == nil {
			continue
		}
		if err := a.Release(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (a *Attachment) extension() string {
	if ext := filepath.Ext(a.Name); ext != "" {
		return ext
	}
	if exts, err := mime.ExtensionsByType(a.MimeType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ""
}
