package service

import (
	"context"
	"fmt"
	"time"

	"github.com/ahmadqo/campus-console/internal/apiclient"
	"github.com/ahmadqo/campus-console/internal/logger"
	"github.com/ahmadqo/campus-console/internal/model"
	"github.com/ahmadqo/campus-console/internal/resource"
	"github.com/ahmadqo/campus-console/internal/utils"
)

type VerifyResult struct {
	IsValid  bool   `json:"is_valid"`
	Message  string `json:"message"`
	ResultID string `json:"result_id,omitempty"`
	Student  string `json:"student,omitempty"`
	Grade    string `json:"grade,omitempty"`
}

type ExamResultService interface {
	ResultPDF(ctx context.Context, resultID string) ([]byte, string, error)
	Verify(ctx context.Context, resultID string) (*VerifyResult, error)
}

type examResultService struct {
	catalog     *resource.Catalog
	client      *apiclient.Client
	media       MediaService
	archive     *ExportArchive
	institution string
	publicURL   string
}

func NewExamResultService(
	catalog *resource.Catalog,
	client *apiclient.Client,
	media MediaService,
	archive *ExportArchive,
	institution, publicURL string,
) ExamResultService {
	return &examResultService{
		catalog:     catalog,
		client:      client,
		media:       media,
		archive:     archive,
		institution: institution,
		publicURL:   publicURL,
	}
}

func (s *examResultService) get(ctx context.Context, name, id string) (model.Record, error) {
	def, err := s.catalog.Get(name)
	if err != nil {
		return nil, err
	}
	return s.client.Resource(def.Name, def.Endpoints()).Get(ctx, id)
}

// ResultPDF renders one result with the student's photo and a QR code
// pointing at the public verification page. Only the result itself is
// required; student, exam and photo are best effort.
func (s *examResultService) ResultPDF(ctx context.Context, resultID string) ([]byte, string, error) {
	result, err := s.get(ctx, resource.ExamResults, resultID)
	if err != nil {
		return nil, "", err
	}

	stuID := result.ID("stuid")
	student, err := s.get(ctx, resource.Students, stuID)
	if err != nil {
		logger.Warn().Err(err).Str("student", stuID).Msg("result exported without student details")
		student = model.Record{"stuid": stuID}
	}
	routineID := result.ID("routineid")
	routine, err := s.get(ctx, resource.ExamRoutines, routineID)
	if err != nil {
		logger.Warn().Err(err).Str("routine", routineID).Msg("result exported without exam details")
		routine = model.Record{"routineid": routineID}
	}

	verifyURL := utils.VerificationURL(s.publicURL, resultID)
	qr, err := utils.GenerateQRCodePNG(verifyURL, 150)
	if err != nil {
		logger.Warn().Err(err).Msg("result exported without QR code")
	}

	maxMarks := result.String("max_marks")
	if maxMarks == "" {
		maxMarks = "100"
	}

	data := utils.ResultPDFData{
		InstitutionName: s.institution,
		ResultID:        resultID,
		Student: []utils.PDFRow{
			{Label: "Student ID", Value: stuID},
			{Label: "Name", Value: student.String("stuname")},
			{Label: "Course", Value: student.String("stucourseid")},
			{Label: "Academic Year", Value: student.String("stu_acad_year")},
			{Label: "Section", Value: student.String("stusection")},
		},
		Exam: []utils.PDFRow{
			{Label: "Exam", Value: routineID},
			{Label: "Date", Value: routine.String("exam_date")},
			{Label: "Semester", Value: routine.String("semester")},
			{Label: "Term", Value: routine.String("term")},
		},
		Marks:       result.String("marks_obtained"),
		MaxMarks:    maxMarks,
		Grade:       result.String("grade"),
		Remarks:     result.String("remarks"),
		QRCodePNG:   qr,
		VerifyURL:   verifyURL,
		GeneratedAt: time.Now(),
	}

	if photo, err := s.media.Fetch(ctx, "student-photo", stuID); err == nil {
		if t := utils.ImageTypeFor(photo.ContentType); t != "" {
			data.Photo = &utils.PDFImage{Data: photo.Data, ImageType: t}
		}
	}

	pdf, err := utils.GenerateResultPDF(data)
	if err != nil && data.Photo != nil {
		data.Photo = nil
		pdf, err = utils.GenerateResultPDF(data)
	}
	if err != nil {
		return nil, "", err
	}

	s.archive.Keep("results", resultID, pdf)
	return pdf, fmt.Sprintf("result-%s.pdf", resultID), nil
}

func (s *examResultService) Verify(ctx context.Context, resultID string) (*VerifyResult, error) {
	result, err := s.get(ctx, resource.ExamResults, resultID)
	if err != nil {
		if apiclient.IsNotFound(err) {
			return &VerifyResult{IsValid: false, Message: "Result not found. This document may not be genuine."}, nil
		}
		return nil, err
	}

	name := result.ID("stuid")
	if student, err := s.get(ctx, resource.Students, name); err == nil && student.Has("stuname") {
		name = student.String("stuname")
	}
	return &VerifyResult{
		IsValid:  true,
		Message:  "Result is genuine.",
		ResultID: resultID,
		Student:  name,
		Grade:    result.String("grade"),
	}, nil
}
