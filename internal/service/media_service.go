package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/ahmadqo/campus-console/internal/apiclient"
	"github.com/ahmadqo/campus-console/internal/resource"
)

var (
	ErrUnsupportedMedia = errors.New("file type is not allowed here")
	ErrFileTooLarge     = errors.New("file is too large")
	ErrUnknownSlot      = errors.New("unknown media slot")
)

// MediaSlot is one single-file attachment of a record, served by the
// backend at <resource path>/{id}/<Suffix>.
type MediaSlot struct {
	Resource string
	Suffix   string
	Field    string
	Allowed  []string
	MaxSize  int
}

var imageTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

// Slots lists the attachments the console manages.
var Slots = map[string]MediaSlot{
	"user-photo":       {Resource: resource.Users, Suffix: "photo", Field: "photo", Allowed: imageTypes, MaxSize: 5 << 20},
	"student-photo":    {Resource: resource.Students, Suffix: "photo", Field: "photo", Allowed: imageTypes, MaxSize: 5 << 20},
	"teacher-sign":     {Resource: resource.Teachers, Suffix: "signature", Field: "signature", Allowed: imageTypes, MaxSize: 2 << 20},
	"whiteboard-theme": {Resource: resource.WhiteboardThemes, Suffix: "header", Field: "header_image", Allowed: imageTypes, MaxSize: 5 << 20},
}

type MediaService interface {
	Upload(ctx context.Context, slot, id string, filename string, data []byte) error
	Fetch(ctx context.Context, slot, id string) (*apiclient.Blob, error)
}

type mediaService struct {
	catalog *resource.Catalog
	client  *apiclient.Client
}

func NewMediaService(catalog *resource.Catalog, client *apiclient.Client) MediaService {
	return &mediaService{catalog: catalog, client: client}
}

func (s *mediaService) path(slot, id string) (MediaSlot, string, error) {
	ms, ok := Slots[slot]
	if !ok {
		return MediaSlot{}, "", fmt.Errorf("%w: %s", ErrUnknownSlot, slot)
	}
	def, err := s.catalog.Get(ms.Resource)
	if err != nil {
		return MediaSlot{}, "", err
	}
	return ms, apiclient.WithID(strings.TrimRight(def.Path, "/")+"/{id}/"+ms.Suffix, id), nil
}

// Upload checks the sniffed type and size before anything is sent.
func (s *mediaService) Upload(ctx context.Context, slot, id, filename string, data []byte) error {
	ms, path, err := s.path(slot, id)
	if err != nil {
		return err
	}
	if err := CheckUpload(data, ms.Allowed, ms.MaxSize); err != nil {
		return err
	}
	files := []apiclient.FilePart{{Field: ms.Field, Filename: filename, Data: data}}
	return s.client.Upload(ctx, ms.Resource, http.MethodPost, path, nil, files, nil)
}

func (s *mediaService) Fetch(ctx context.Context, slot, id string) (*apiclient.Blob, error) {
	ms, path, err := s.path(slot, id)
	if err != nil {
		return nil, err
	}
	return s.client.FetchBlob(ctx, ms.Resource, path)
}

// CheckUpload rejects empty, oversized or disallowed files. The type is
// read from the bytes, not from what the browser claimed.
func CheckUpload(data []byte, allowed []string, maxSize int) error {
	if len(data) == 0 {
		return fmt.Errorf("%w: empty file", ErrUnsupportedMedia)
	}
	if maxSize > 0 && len(data) > maxSize {
		return fmt.Errorf("%w: %d bytes, limit %d", ErrFileTooLarge, len(data), maxSize)
	}
	if len(allowed) == 0 {
		return nil
	}
	detected := apiclient.DetectContentType("", data)
	for _, t := range allowed {
		if detected == t {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrUnsupportedMedia, detected)
}
