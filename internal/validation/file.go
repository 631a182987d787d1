package validation

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"slices"
	"strings"
)

// MaxImageSize caps a post image
const MaxImageSize = 5 << 20

// imageTypes maps sniffed content types to the extensions allowed for them
var imageTypes = map[string][]string{
	"image/jpeg": {".jpg", ".jpeg"},
	"image/png":  {".png"},
	"image/gif":  {".gif"},
	"image/webp": {".webp"},
}

// ValidateImage checks a post image upload by size, sniffed content type and
// extension. The extension must belong to the sniffed type, so a PNG named
// photo.jpg is rejected. Error messages are shown to the user as is.
func ValidateImage(header *multipart.FileHeader) error {
	if header == nil {
		return errors.New("No image was uploaded.")
	}
	if header.Size > MaxImageSize {
		return fmt.Errorf("Image is too large, the maximum is %d MB.", MaxImageSize>>20)
	}

	contentType, err := sniff(header)
	if err != nil {
		return err
	}

	exts, ok := imageTypes[contentType]
	if !ok {
		return errors.New("Only JPEG, PNG, GIF and WebP images are allowed.")
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !slices.Contains(exts, ext) {
		return fmt.Errorf("The file extension %q does not match a %s image.", ext, strings.TrimPrefix(contentType, "image/"))
	}
	return nil
}

// sniff reads the first 512 bytes, all http.DetectContentType looks at
func sniff(header *multipart.FileHeader) (string, error) {
	file, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer func() { _ = file.Close() }()

	buf := make([]byte, 512)
	n, err := io.ReadFull(file, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read upload: %w", err)
	}
	return http.DetectContentType(buf[:n]), nil
}
