package apiclient

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// smallest valid PNG header plus IHDR start; enough for magic-byte sniffing
var pngBytes = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 13, 'I', 'H', 'D', 'R', 0, 0, 0, 1, 0, 0, 0, 1, 8, 6, 0, 0, 0}

func TestFetchBlob_DetectsType(t *testing.T) {
	tests := []struct {
		name     string
		declared string
		data     []byte
		want     string
	}{
		{"missing type", "", pngBytes, "image/png"},
		{"octet-stream", "application/octet-stream", []byte("%PDF-1.4\n%..."), "application/pdf"},
		{"trusted declared", "image/jpeg", pngBytes, "image/jpeg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := setup(t, func(w http.ResponseWriter, r *http.Request) {
				if tt.declared != "" {
					w.Header().Set("Content-Type", tt.declared)
				} else {
					// keep net/http from sniffing on our behalf
					w.Header()["Content-Type"] = nil
				}
				w.Header().Set("Content-Disposition", `attachment; filename="sig.bin"`)
				_, _ = w.Write(tt.data)
			})

			blob, err := client.FetchBlob(context.Background(), "teachers", "/teacher/TCH_001/signature")
			require.NoError(t, err)
			assert.Equal(t, tt.want, blob.ContentType)
			assert.Equal(t, "sig.bin", blob.Filename)
		})
	}
}

func TestFetchBlob_NotFound(t *testing.T) {
	client, _ := setup(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "no signature"})
	})
	_, err := client.FetchBlob(context.Background(), "teachers", "/teacher/x/signature")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.Equal(t, "no signature", ErrorMessage(err, "fallback"))
}

func TestUpload_Multipart(t *testing.T) {
	client, _ := setup(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "Aadhaar card", r.FormValue("doctype"))

		f, hdr, err := r.FormFile("document")
		require.NoError(t, err)
		defer f.Close()
		data, _ := io.ReadAll(f)
		assert.Equal(t, "aadhaar.png", hdr.Filename)
		assert.Equal(t, pngBytes, data)

		writeJSON(w, http.StatusCreated, map[string]any{"docid": "DOC_1"})
	})

	var out map[string]any
	err := client.Upload(context.Background(), "teachers", http.MethodPost, "/teacher/TCH_001/documents",
		map[string]string{"doctype": "Aadhaar card"},
		[]FilePart{{Field: "document", Filename: "aadhaar.png", Data: pngBytes}},
		&out,
	)
	require.NoError(t, err)
	assert.Equal(t, "DOC_1", out["docid"])
}
