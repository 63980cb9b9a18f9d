package services

import (
	"github.com/enw/img2audio/application/ports/outbound"
	"github.com/enw/img2audio/domain"
	"github.com/enw/img2audio/infrastructure/adapters"
	"github.com/rs/zerolog"
)

func nopLogger() outbound.LoggerPort {
	return adapters.NewZerologWrapperFrom(zerolog.Nop())
}

func beachImage() domain.ImageAsset {
	return domain.ImageAsset{
		Name:   "beach.jpg",
		Format: domain.JpegImageFormat,
		Data:   []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F'},
	}
}
