package service

import (
	"context"

	"github.com/ahmadqo/campus-console/internal/logger"
)

// Archiver stores exported documents and returns where they went.
type Archiver interface {
	Archive(ctx context.Context, folder, name string, data []byte, contentType string) (string, error)
}

// ExportArchive copies exported PDFs to object storage when one is
// configured. Archiving never fails an export.
type ExportArchive struct {
	store Archiver
}

// NewExportArchive accepts a nil store, which disables archiving.
func NewExportArchive(store Archiver) *ExportArchive {
	return &ExportArchive{store: store}
}

func (a *ExportArchive) Enabled() bool {
	return a != nil && a.store != nil
}

// Keep archives data in the background and logs the outcome.
func (a *ExportArchive) Keep(folder, name string, data []byte) {
	if !a.Enabled() {
		return
	}
	go func() {
		url, err := a.store.Archive(context.Background(), folder, name, data, "application/pdf")
		if err != nil {
			logger.Warn().Err(err).Str("folder", folder).Str("name", name).Msg("export not archived")
			return
		}
		logger.Info().Str("url", url).Msg("export archived")
	}()
}

