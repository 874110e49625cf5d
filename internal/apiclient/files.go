package apiclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// MaxBlobSize caps downloads pulled through the console.
const MaxBlobSize = 20 * 1024 * 1024

// FilePart is one file attached to a multipart upload.
type FilePart struct {
	Field    string
	Filename string
	Data     []byte
}

// Blob is a downloaded binary (document, photo, signature, header image).
type Blob struct {
	Data        []byte
	ContentType string
	Filename    string
}

// Upload sends fields and files as multipart/form-data and decodes the JSON
// reply into out when out is non-nil.
func (c *Client) Upload(ctx context.Context, resource, method, path string, fields map[string]string, files []FilePart, out any) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return fmt.Errorf("failed to write field %s: %w", k, err)
		}
	}
	for _, f := range files {
		part, err := mw.CreateFormFile(f.Field, f.Filename)
		if err != nil {
			return fmt.Errorf("failed to create form file %s: %w", f.Field, err)
		}
		if _, err := part.Write(f.Data); err != nil {
			return fmt.Errorf("failed to write form file %s: %w", f.Field, err)
		}
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("failed to close multipart body: %w", err)
	}

	req, err := c.newRequest(ctx, method, path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	resp, err := c.send(req, resource, "upload")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: reading upload response: %v", ErrTransport, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{StatusCode: resp.StatusCode, Message: extractMessage(data), Body: data}
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	return decodeJSON(data, out)
}

// FetchBlob downloads a binary. When the server omits the content type or
// sends a generic one, the type is detected from the magic bytes.
func (c *Client) FetchBlob(ctx context.Context, resource, path string) (*Blob, error) {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.send(req, resource, "blob")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxBlobSize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: reading blob: %v", ErrTransport, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: extractMessage(data), Body: data}
	}
	if len(data) > MaxBlobSize {
		return nil, fmt.Errorf("blob exceeds %d bytes", MaxBlobSize)
	}
	if len(data) == 0 {
		return nil, &APIError{StatusCode: http.StatusNotFound, Message: "file is empty"}
	}

	return &Blob{
		Data:        data,
		ContentType: DetectContentType(resp.Header.Get("Content-Type"), data),
		Filename:    filenameFrom(resp.Header.Get("Content-Disposition")),
	}, nil
}

// DetectContentType trusts the declared type unless it is missing or
// generic, in which case the bytes decide.
func DetectContentType(declared string, data []byte) string {
	mediaType, _, err := mime.ParseMediaType(declared)
	if err == nil && mediaType != "" && !isGeneric(mediaType) {
		return mediaType
	}
	detected := mimetype.Detect(data).String()
	if i := strings.Index(detected, ";"); i >= 0 {
		detected = detected[:i]
	}
	return detected
}

// Extension returns the canonical file extension for a blob's bytes.
func (b *Blob) Extension() string {
	return mimetype.Detect(b.Data).Extension()
}

func isGeneric(mediaType string) bool {
	switch mediaType {
	case "application/octet-stream", "binary/octet-stream", "application/binary", "text/plain":
		return true
	}
	return false
}

func filenameFrom(disposition string) string {
	if disposition == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(disposition)
	if err != nil {
		return ""
	}
	return params["filename"]
}
