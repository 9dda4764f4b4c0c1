package storage

import (
	"fmt"
	"strings"
)

// AllowedContentTypes defines the MIME types accepted for inbound WhatsApp
// media. Voice notes arrive as ogg/opus, photos of cars and trade-in
// vehicles as jpeg or webp, registration papers usually as PDF.
var AllowedContentTypes = map[string]bool{
	// Images
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,

	// Audio (voice notes)
	"audio/ogg":  true,
	"audio/mpeg": true,
	"audio/mp4":  true,
	"audio/aac":  true,
	"audio/amr":  true,
	"audio/wav":  true,

	// Video
	"video/mp4":       true,
	"video/3gpp":      true,
	"video/quicktime": true,
	"video/webm":      true,

	// Documents
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"text/plain": true,
}

// ValidateContentType checks if the content type is allowed. Parameters such
// as "codecs=opus" on voice notes are stripped before the lookup.
func (s *MinIOService) ValidateContentType(contentType string) error {
	normalized := strings.Split(contentType, ";")[0]
	normalized = strings.TrimSpace(strings.ToLower(normalized))

	if !AllowedContentTypes[normalized] {
		return fmt.Errorf("content type %q is not allowed", contentType)
	}
	return nil
}

// ValidateFileSize checks if the file size is within the configured limit.
func (s *MinIOService) ValidateFileSize(sizeBytes int64) error {
	if sizeBytes <= 0 {
		return fmt.Errorf("file size must be greater than 0")
	}
	if sizeBytes > s.maxFileSize {
		return fmt.Errorf("file size %d bytes exceeds maximum allowed size of %d bytes", sizeBytes, s.maxFileSize)
	}
	return nil
}
