package service

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahmadqo/campus-console/internal/apiclient"
	"github.com/ahmadqo/campus-console/internal/resource"
	"github.com/ahmadqo/campus-console/internal/store"
)

var (
	pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")
	pdfHeader = []byte("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n1 0 obj\n<<>>\nendobj\n")
)

type archived struct {
	folder, name string
	size         int
}

type fakeArchiver struct {
	got chan archived
}

func (f *fakeArchiver) Archive(_ context.Context, folder, name string, data []byte, _ string) (string, error) {
	f.got <- archived{folder: folder, name: name, size: len(data)}
	return "http://minio/" + folder + "/" + name, nil
}

func blob(contentType string, data []byte) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", contentType)
		_, _ = w.Write(data)
	}
}

func clientFor(t *testing.T, routes map[string]http.HandlerFunc) (*apiclient.Client, *backend) {
	t.Helper()
	svc, b := setup(t, routes)
	return svc.client, b
}

func TestCheckUpload(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		allowed []string
		max     int
		wantErr error
	}{
		{"png allowed", pngHeader, imageTypes, 1 << 20, nil},
		{"pdf as image", pdfHeader, imageTypes, 1 << 20, ErrUnsupportedMedia},
		{"empty", nil, imageTypes, 1 << 20, ErrUnsupportedMedia},
		{"too large", bytes.Repeat([]byte("a"), 11), nil, 10, ErrFileTooLarge},
		{"anything goes", []byte("plain"), nil, 0, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckUpload(tt.data, tt.allowed, tt.max)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestMedia_UploadAndFetch(t *testing.T) {
	var uploaded []byte
	client, b := clientFor(t, map[string]http.HandlerFunc{
		"POST /api/students/STU_001/photo": func(w http.ResponseWriter, r *http.Request) {
			f, _, err := r.FormFile("photo")
			if err == nil {
				uploaded, _ = io.ReadAll(f)
			}
			w.WriteHeader(http.StatusCreated)
		},
		"GET /api/students/STU_001/photo": blob("application/octet-stream", pngHeader),
	})
	media := NewMediaService(resource.Default(), client)
	ctx := context.Background()

	require.NoError(t, media.Upload(ctx, "student-photo", "STU_001", "me.png", pngHeader))
	assert.Equal(t, pngHeader, uploaded)

	got, err := media.Fetch(ctx, "student-photo", "STU_001")
	require.NoError(t, err)
	assert.Equal(t, "image/png", got.ContentType)

	err = media.Upload(ctx, "student-photo", "STU_001", "cv.pdf", pdfHeader)
	assert.ErrorIs(t, err, ErrUnsupportedMedia)
	assert.Equal(t, 1, b.count(http.MethodPost, "/api/students/STU_001/photo"))

	_, err = media.Fetch(ctx, "locker-photo", "X")
	assert.ErrorIs(t, err, ErrUnknownSlot)
}

func TestTeacher_SignatureFetchedOnce(t *testing.T) {
	client, b := clientFor(t, map[string]http.HandlerFunc{
		"GET /api/teachers/TCH_001/signature":  blob("image/png", pngHeader),
		"POST /api/teachers/TCH_001/signature": reply(http.StatusOK, map[string]string{"message": "ok"}),
	})
	catalog := resource.Default()
	svc := NewTeacherService(catalog, client, NewMediaService(catalog, client), store.NewSignatureStore(), NewExportArchive(nil), "Campus College")
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		sig, err := svc.Signature(ctx, "TCH_001")
		require.NoError(t, err)
		assert.Equal(t, "image/png", sig.ContentType)
	}
	assert.Equal(t, 1, b.count(http.MethodGet, "/api/teachers/TCH_001/signature"))

	require.NoError(t, svc.UploadSignature(ctx, "TCH_001", "sig.png", pngHeader))
	_, err := svc.Signature(ctx, "TCH_001")
	require.NoError(t, err)
	assert.Equal(t, 2, b.count(http.MethodGet, "/api/teachers/TCH_001/signature"), "upload invalidates the cache")
}

func TestTeacher_Documents(t *testing.T) {
	var docType string
	client, b := clientFor(t, map[string]http.HandlerFunc{
		"GET /api/teachers/TCH_001/documents": reply(http.StatusOK, map[string]any{"data": []map[string]string{
			{"docid": "DOC_1", "doc_type": "resume", "filename": "cv.pdf"},
		}}),
		"POST /api/teachers/TCH_001/documents": func(w http.ResponseWriter, r *http.Request) {
			docType = r.FormValue("doc_type")
			w.WriteHeader(http.StatusCreated)
		},
		"GET /api/teachers/TCH_001/documents/DOC_1": func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Disposition", `attachment; filename="cv.pdf"`)
			_, _ = w.Write(pdfHeader)
		},
		"DELETE /api/teachers/TCH_001/documents/DOC_1": reply(http.StatusOK, map[string]string{"message": "deleted"}),
	})
	catalog := resource.Default()
	svc := NewTeacherService(catalog, client, NewMediaService(catalog, client), store.NewSignatureStore(), NewExportArchive(nil), "")
	ctx := context.Background()

	docs, err := svc.Documents(ctx, "TCH_001")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "resume", docs[0].String("doc_type"))

	require.NoError(t, svc.UploadDocument(ctx, "TCH_001", "degree", "deg.pdf", pdfHeader))
	assert.Equal(t, "degree", docType)

	got, err := svc.DownloadDocument(ctx, "TCH_001", "DOC_1")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", got.ContentType)
	assert.Equal(t, "cv.pdf", got.Filename)

	require.NoError(t, svc.DeleteDocument(ctx, "TCH_001", "DOC_1"))
	assert.Equal(t, 1, b.count(http.MethodDelete, "/api/teachers/TCH_001/documents/DOC_1"))
}

func TestTeacher_ProfilePDFWithoutSignature(t *testing.T) {
	client, _ := clientFor(t, map[string]http.HandlerFunc{
		"GET /api/teachers/TCH_001": reply(http.StatusOK, map[string]string{
			"teacherid": "TCH_001", "teachername": "R. Sen", "teachercollegedept": "DEPT_001", "teachermob": "9876543210",
		}),
		"GET /api/depts/DEPT_001": reply(http.StatusOK, map[string]string{"collegedept": "DEPT_001", "collegedeptdesc": "Physics"}),
	})
	catalog := resource.Default()
	arch := &fakeArchiver{got: make(chan archived, 1)}
	svc := NewTeacherService(catalog, client, NewMediaService(catalog, client), store.NewSignatureStore(), NewExportArchive(arch), "Campus College")

	pdf, name, err := svc.ProfilePDF(context.Background(), "TCH_001")
	require.NoError(t, err)
	assert.Equal(t, "teacher-TCH_001.pdf", name)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))

	select {
	case a := <-arch.got:
		assert.Equal(t, "teachers", a.folder)
		assert.Equal(t, "TCH_001", a.name)
		assert.Equal(t, len(pdf), a.size)
	case <-time.After(2 * time.Second):
		t.Fatal("profile was not archived")
	}
}

func TestResult_PDFSurvivesBrokenPhoto(t *testing.T) {
	client, _ := clientFor(t, map[string]http.HandlerFunc{
		"GET /api/exam-results/RES_001": reply(http.StatusOK, map[string]any{
			"resultid": "RES_001", "stuid": "STU_001", "routineid": "EXR_001", "marks_obtained": 78, "grade": "A",
		}),
		"GET /api/students/STU_001":       reply(http.StatusOK, map[string]string{"stuid": "STU_001", "stuname": "Asha Roy"}),
		"GET /api/students/STU_001/photo": blob("image/png", pngHeader),
	})
	catalog := resource.Default()
	svc := NewExamResultService(catalog, client, NewMediaService(catalog, client), NewExportArchive(nil), "Campus College", "https://console.example.org")

	pdf, name, err := svc.ResultPDF(context.Background(), "RES_001")
	require.NoError(t, err)
	assert.Equal(t, "result-RES_001.pdf", name)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))
}

func TestResult_Verify(t *testing.T) {
	client, _ := clientFor(t, map[string]http.HandlerFunc{
		"GET /api/exam-results/RES_001": reply(http.StatusOK, map[string]string{"resultid": "RES_001", "stuid": "STU_001", "grade": "A"}),
		"GET /api/students/STU_001":     reply(http.StatusOK, map[string]string{"stuid": "STU_001", "stuname": "Asha Roy"}),
		"GET /api/exam-results/RES_404": reply(http.StatusNotFound, map[string]string{"message": "not found"}),
		"GET /api/exam-results/RES_500": reply(http.StatusInternalServerError, nil),
	})
	catalog := resource.Default()
	svc := NewExamResultService(catalog, client, NewMediaService(catalog, client), NewExportArchive(nil), "", "")
	ctx := context.Background()

	ok, err := svc.Verify(ctx, "RES_001")
	require.NoError(t, err)
	assert.True(t, ok.IsValid)
	assert.Equal(t, "Asha Roy", ok.Student)
	assert.Equal(t, "A", ok.Grade)

	missing, err := svc.Verify(ctx, "RES_404")
	require.NoError(t, err)
	assert.False(t, missing.IsValid)

	_, err = svc.Verify(ctx, "RES_500")
	assert.Error(t, err)
}
