package domain

import (
	"net/http"
	"path/filepath"
	"strings"
)

type ImageFormat string

const (
	JpegImageFormat ImageFormat = "image/jpeg"
	PngImageFormat  ImageFormat = "image/png"
	WebpImageFormat ImageFormat = "image/webp"
)

var supportedImageFormats = map[ImageFormat]struct{}{
	JpegImageFormat: {},
	PngImageFormat:  {},
	WebpImageFormat: {},
}

type ImageAsset struct {
	Name   string
	Format ImageFormat
	Data   []byte
}

// NewImageAsset sniffs the encoding of data and rejects anything that is not a
// supported still image. Nothing else about the image is validated.
func NewImageAsset(name string, data []byte) (ImageAsset, error) {
	if len(data) == 0 {
		return ImageAsset{}, InvalidInput("image is empty")
	}

	format := ImageFormat(http.DetectContentType(data))
	if _, ok := supportedImageFormats[format]; !ok {
		return ImageAsset{}, InvalidInput("unsupported image format " + string(format))
	}

	return ImageAsset{
		Name:   name,
		Format: format,
		Data:   data,
	}, nil
}

// BaseName returns a filesystem-safe version of the original file name.
func (i ImageAsset) BaseName() string {
	name := filepath.Base(strings.ReplaceAll(i.Name, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		return "image" + i.extension()
	}
	return name
}

func (i ImageAsset) extension() string {
	switch i.Format {
	case PngImageFormat:
		return ".png"
	case WebpImageFormat:
		return ".webp"
	default:
		return ".jpg"
	}
}
