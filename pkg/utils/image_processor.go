package utils

import (
	"bytes"
	"image"
	_ "image/gif" // Register GIF decoder
	"image/jpeg"
	_ "image/png" // Register PNG decoder
	"mime/multipart"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"

	"lushlocks-backend/pkg/logger"
)

// ProcessImage Resize and Convert to WebP
func ProcessImage(file multipart.File, filename string) ([]byte, string, error) {
	img, format, err := image.Decode(file)
	if err != nil {
		return nil, "", err
	}
	logger.Debug().Str("filename", filename).Str("format", format).Msg("processing image")

	// Max width 2000px keeps hero shots sharp without bloating the bucket.
	bounds := img.Bounds()
	if bounds.Dx() > 2000 {
		img = imaging.Resize(img, 2000, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	err = webp.Encode(&buf, img, &webp.Options{
		Lossless: false,
		Quality:  85,
	})
	if err != nil {
		// If WebP fails, fallback to JPEG
		logger.Warn().Err(err).Msg("webp encoding failed, falling back to jpeg")
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85}); err != nil {
			return nil, "", err
		}
		return buf.Bytes(), "image/jpeg", nil
	}

	return buf.Bytes(), "image/webp", nil
}

// IsImage verifies simple content type
func IsImage(contentType string) bool {
	return contentType == "image/jpeg" || contentType == "image/png" || contentType == "image/webp" || contentType == "image/jpg"
}
