package storage

import (
	"errors"
	"fmt"
	"mime"
	"strings"

	"github.com/google/uuid"
)

var ErrUnsupportedContentType = errors.New("unsupported content type")

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/jpg":  ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

func normalizeContentType(contentType string) string {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return mediaType
}

// ImageExtension maps an image content type (parameters ignored) to a file extension.
func ImageExtension(contentType string) (string, error) {
	ext, ok := imageExtensions[normalizeContentType(contentType)]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedContentType, contentType)
	}
	return ext, nil
}

func PDFExtension(contentType string) (string, error) {
	if normalizeContentType(contentType) != "application/pdf" {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedContentType, contentType)
	}
	return ".pdf", nil
}

func EventPosterKey(eventID int, ext string) string {
	return fmt.Sprintf("events/%d/poster-%s%s", eventID, uuid.NewString(), ext)
}

func EventPhotoKey(eventID int, ext string) string {
	return fmt.Sprintf("events/%d/photos/%s%s", eventID, uuid.NewString(), ext)
}

func ProposalKey(teamID int, ext string) string {
	return fmt.Sprintf("proposals/%d/%s%s", teamID, uuid.NewString(), ext)
}
