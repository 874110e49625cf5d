package service

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ahmadqo/campus-console/internal/apiclient"
	"github.com/ahmadqo/campus-console/internal/logger"
	"github.com/ahmadqo/campus-console/internal/model"
	"github.com/ahmadqo/campus-console/internal/resource"
	"github.com/ahmadqo/campus-console/internal/store"
	"github.com/ahmadqo/campus-console/internal/utils"
)

// DocumentTypes are the teacher document categories the backend accepts.
var DocumentTypes = []string{"resume", "degree", "id-proof", "appointment-letter", "other"}

var documentMIME = []string{"application/pdf", "image/jpeg", "image/png"}

const maxDocumentSize = 10 << 20

type TeacherService interface {
	Documents(ctx context.Context, teacherID string) ([]model.Record, error)
	UploadDocument(ctx context.Context, teacherID, docType, filename string, data []byte) error
	DownloadDocument(ctx context.Context, teacherID, docID string) (*apiclient.Blob, error)
	DeleteDocument(ctx context.Context, teacherID, docID string) error
	Signature(ctx context.Context, teacherID string) (*apiclient.Blob, error)
	UploadSignature(ctx context.Context, teacherID, filename string, data []byte) error
	ProfilePDF(ctx context.Context, teacherID string) ([]byte, string, error)
}

type teacherService struct {
	catalog     *resource.Catalog
	client      *apiclient.Client
	media       MediaService
	signatures  *store.SignatureStore
	archive     *ExportArchive
	institution string
}

func NewTeacherService(
	catalog *resource.Catalog,
	client *apiclient.Client,
	media MediaService,
	signatures *store.SignatureStore,
	archive *ExportArchive,
	institution string,
) TeacherService {
	return &teacherService{
		catalog:     catalog,
		client:      client,
		media:       media,
		signatures:  signatures,
		archive:     archive,
		institution: institution,
	}
}

func (s *teacherService) documentsPath(teacherID string) string {
	def, _ := s.catalog.Get(resource.Teachers)
	return apiclient.WithID(strings.TrimRight(def.Path, "/")+"/{id}/documents", teacherID)
}

func (s *teacherService) Documents(ctx context.Context, teacherID string) ([]model.Record, error) {
	var body any
	if err := s.client.GetJSON(ctx, resource.Teachers, s.documentsPath(teacherID), &body); err != nil {
		return nil, err
	}
	return apiclient.PickArray(body), nil
}

func (s *teacherService) UploadDocument(ctx context.Context, teacherID, docType, filename string, data []byte) error {
	if err := CheckUpload(data, documentMIME, maxDocumentSize); err != nil {
		return err
	}
	fields := map[string]string{"doc_type": docType, "teacherid": teacherID}
	files := []apiclient.FilePart{{Field: "document", Filename: filename, Data: data}}
	return s.client.Upload(ctx, resource.Teachers, http.MethodPost, s.documentsPath(teacherID), fields, files, nil)
}

func (s *teacherService) DownloadDocument(ctx context.Context, teacherID, docID string) (*apiclient.Blob, error) {
	path := s.documentsPath(teacherID) + "/" + apiclient.WithID("{id}", docID)
	return s.client.FetchBlob(ctx, resource.Teachers, path)
}

func (s *teacherService) DeleteDocument(ctx context.Context, teacherID, docID string) error {
	path := s.documentsPath(teacherID) + "/" + apiclient.WithID("{id}", docID)
	res := s.client.Resource(resource.Teachers, apiclient.Endpoints{Delete: path})
	return res.Remove(ctx, docID)
}

// Signature returns the cached signature, fetching it once per teacher.
func (s *teacherService) Signature(ctx context.Context, teacherID string) (*apiclient.Blob, error) {
	if sig, ok := s.signatures.Get(teacherID); ok {
		return sig, nil
	}
	sig, err := s.media.Fetch(ctx, "teacher-sign", teacherID)
	if err != nil {
		return nil, err
	}
	s.signatures.Set(teacherID, sig)
	return sig, nil
}

func (s *teacherService) UploadSignature(ctx context.Context, teacherID, filename string, data []byte) error {
	if err := s.media.Upload(ctx, "teacher-sign", teacherID, filename, data); err != nil {
		return err
	}
	s.signatures.Clear(teacherID)
	return nil
}

// ProfilePDF renders the teacher record. Department name and signature are
// best effort; a missing one only leaves its spot empty.
func (s *teacherService) ProfilePDF(ctx context.Context, teacherID string) ([]byte, string, error) {
	teachers, _ := s.catalog.Get(resource.Teachers)
	rec, err := s.client.Resource(teachers.Name, teachers.Endpoints()).Get(ctx, teacherID)
	if err != nil {
		return nil, "", err
	}

	department := rec.String("teachercollegedept")
	if depts, err := s.catalog.Get(resource.Departments); err == nil && department != "" {
		if dept, err := s.client.Resource(depts.Name, depts.Endpoints()).Get(ctx, department); err == nil && dept.Has("collegedeptdesc") {
			department = dept.String("collegedeptdesc")
		}
	}

	data := utils.TeacherPDFData{
		InstitutionName: s.institution,
		TeacherID:       teacherID,
		Name:            rec.String("teachername"),
		Department:      department,
		Designation:     rec.String("teacherdesig"),
		Sections: []utils.PDFSection{
			{Title: "Personal", Rows: nonEmptyRows(rec, teachers, "teachergender", "teacherdob", "teacherdoj")},
			{Title: "Contact", Rows: nonEmptyRows(rec, teachers, "teachermob", "teacheremailid", "teacheraddress", "teacherpincode")},
			{Title: "Identity", Rows: nonEmptyRows(rec, teachers, "teacherpan", "teacheraadhaar")},
		},
		GeneratedAt: time.Now(),
	}

	if sig, err := s.Signature(ctx, teacherID); err == nil {
		if t := utils.ImageTypeFor(sig.ContentType); t != "" {
			data.Signature = &utils.PDFImage{Data: sig.Data, ImageType: t}
		}
	} else if !apiclient.IsNotFound(err) {
		logger.Warn().Err(err).Str("teacher", teacherID).Msg("signature unavailable for profile")
	}

	pdf, err := utils.GenerateTeacherPDF(data)
	if err != nil && data.Signature != nil {
		// a corrupt signature image must not block the export
		data.Signature = nil
		pdf, err = utils.GenerateTeacherPDF(data)
	}
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("teacher-%s.pdf", teacherID)
	s.archive.Keep("teachers", teacherID, pdf)
	return pdf, filename, nil
}

func nonEmptyRows(rec model.Record, def *resource.Definition, fields ...string) []utils.PDFRow {
	rows := make([]utils.PDFRow, 0, len(fields))
	for _, name := range fields {
		v := rec.String(name)
		if v == "" {
			continue
		}
		label := name
		if f, ok := def.Field(name); ok {
			label = f.Label
		}
		rows = append(rows, utils.PDFRow{Label: label, Value: v})
	}
	return rows
}
