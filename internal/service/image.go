package service

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
)

var allowedFormats = map[string]bool{"jpeg": true, "png": true}

// ImageValidator checks uploaded payloads against a size ceiling and
// the set of accepted image formats before any classification happens.
type ImageValidator struct {
	maxSizeBytes int64
}

func NewImageValidator(maxSizeBytes int64) *ImageValidator {
	return &ImageValidator{maxSizeBytes: maxSizeBytes}
}

func (v *ImageValidator) Validate(data []byte) error {
	if int64(len(data)) > v.maxSizeBytes {
		return &PayloadError{Reason: fmt.Sprintf("image size exceeds %d byte limit", v.maxSizeBytes)}
	}
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return &PayloadError{Reason: "unrecognized image file"}
	}
	if !allowedFormats[format] {
		return &PayloadError{Reason: fmt.Sprintf("invalid image format %q, allowed: JPEG, PNG", format)}
	}
	return nil
}
