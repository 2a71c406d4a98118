// Package imaging normalizes uploaded media: images are auto-rotated
// per their EXIF orientation, downscaled to the site's maximum width,
// and stored under the media directory.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/webp" // WebP decoder
)

// MaxWidth is the widest an uploaded image is kept at. Wider images
// are downscaled; narrower ones are never enlarged.
const MaxWidth = 1600

// Result contains the outcome of processing an uploaded image.
type Result struct {
	FileName string
	FilePath string
	Width    int
	Height   int
	MimeType string
	Size     int64
}

// Processor handles image processing using pure Go libraries.
type Processor struct {
	mediaDir string
}

// NewProcessor creates a processor writing into mediaDir.
func NewProcessor(mediaDir string) *Processor {
	return &Processor{mediaDir: mediaDir}
}

var unsafeNameChars = regexp.MustCompile(`[^a-z0-9.-]+`)

// buildFileName prefixes the cleaned original name with a timestamp so
// repeated uploads of the same file never collide.
func buildFileName(originalName string) string {
	clean := unsafeNameChars.ReplaceAllString(strings.ToLower(filepath.Base(originalName)), "-")
	return fmt.Sprintf("%d-%s", time.Now().UnixMilli(), clean)
}

// Process reads an uploaded image, normalizes it, and saves it. The
// returned result carries the post-processing dimensions.
func (p *Processor) Process(reader io.Reader, originalName string) (*Result, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("reading upload: %w", err)
	}

	format := detectFormat(data)
	if format == "" {
		return nil, fmt.Errorf("unsupported image format")
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}

	img = applyOrientation(img, readExifOrientation(bytes.NewReader(data)))

	if img.Bounds().Dx() > MaxWidth {
		img = imaging.Resize(img, MaxWidth, 0, imaging.Lanczos)
	}

	bounds := img.Bounds()
	processed, err := encodeImage(img, format, 90)
	if err != nil {
		return nil, fmt.Errorf("encoding image: %w", err)
	}

	fileName := buildFileName(originalName)
	filePath, err := p.save(fileName, processed)
	if err != nil {
		return nil, err
	}

	return &Result{
		FileName: fileName,
		FilePath: filePath,
		Width:    bounds.Dx(),
		Height:   bounds.Dy(),
		MimeType: formatToMimeType(format),
		Size:     int64(len(processed)),
	}, nil
}

// Dimensions returns the pixel size of an image file without decoding
// the full image.
func (p *Processor) Dimensions(path string) (width, height int, err error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, 0, fmt.Errorf("opening image: %w", err)
	}
	defer func() { _ = file.Close() }()

	config, _, err := image.DecodeConfig(file)
	if err != nil {
		return 0, 0, fmt.Errorf("reading image config: %w", err)
	}
	return config.Width, config.Height, nil
}

// Delete removes a stored media file by name.
func (p *Processor) Delete(fileName string) error {
	safe := filepath.Base(fileName)
	if safe == "." || safe == ".." || safe == "" {
		return fmt.Errorf("invalid file name")
	}
	err := os.Remove(filepath.Join(p.mediaDir, safe))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("deleting media file: %w", err)
	}
	return nil
}

// readExifOrientation reads the EXIF orientation tag from image data.
// Returns 1 (normal) if orientation cannot be determined.
func readExifOrientation(r io.Reader) int {
	x, err := exif.Decode(r)
	if err != nil {
		return 1
	}

	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}

	orientation, err := tag.Int(0)
	if err != nil {
		return 1
	}
	return orientation
}

// applyOrientation applies the EXIF orientation transform to an image.
func applyOrientation(img image.Image, orientation int) image.Image {
	switch orientation {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.FlipH(imaging.Rotate270(img))
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.FlipH(imaging.Rotate90(img))
	case 8:
		return imaging.Rotate90(img)
	default:
		return img
	}
}

// encodeImage encodes an image with the given format and quality.
// WebP input is re-encoded as JPEG since pure Go cannot encode WebP.
func encodeImage(img image.Image, format string, quality int) ([]byte, error) {
	var buf bytes.Buffer

	switch format {
	case "png":
		if err := png.Encode(&buf, img); err != nil {
			return nil, err
		}
	case "gif":
		if err := gif.Encode(&buf, img, nil); err != nil {
			return nil, err
		}
	default:
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
			return nil, err
		}
	}

	return buf.Bytes(), nil
}

// detectFormat detects the image format from raw bytes.
func detectFormat(data []byte) string {
	contentType := http.DetectContentType(data)
	// Explicitly reject TIFF (CVE-2023-36308 in disintegration/imaging)
	if strings.Contains(contentType, "tiff") {
		return ""
	}
	switch {
	case strings.Contains(contentType, "jpeg"):
		return "jpeg"
	case strings.Contains(contentType, "png"):
		return "png"
	case strings.Contains(contentType, "gif"):
		return "gif"
	case strings.Contains(contentType, "webp"):
		return "webp"
	default:
		return ""
	}
}

// formatToMimeType converts a format string to a MIME type.
func formatToMimeType(format string) string {
	switch format {
	case "jpeg":
		return "image/jpeg"
	case "png":
		return "image/png"
	case "gif":
		return "image/gif"
	case "webp":
		// WebP uploads are re-encoded as JPEG.
		return "image/jpeg"
	default:
		return "application/octet-stream"
	}
}

// save writes image data under the media directory, guarding against
// path traversal in the file name.
func (p *Processor) save(fileName string, data []byte) (string, error) {
	safe := filepath.Base(fileName)
	if safe == "." || safe == ".." || safe == "" {
		return "", fmt.Errorf("invalid file name")
	}

	if err := os.MkdirAll(p.mediaDir, 0o755); err != nil {
		return "", fmt.Errorf("creating media dir: %w", err)
	}

	filePath := filepath.Join(p.mediaDir, safe)
	if err := os.WriteFile(filePath, data, 0o644); err != nil {
		return "", fmt.Errorf("saving media file: %w", err)
	}
	return filePath, nil
}
