package utils

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahmadqo/campus-console/internal/model"
)

func TestSessionToken_RoundTrip(t *testing.T) {
	claims := model.JWTClaims{UserID: "u1", Email: "admin@campus.local", Role: "admin", Name: "Admin"}
	tok, err := IssueSessionToken(claims, "secret", time.Hour)
	require.NoError(t, err)

	got, err := ValidateToken(tok.AccessToken, "secret")
	require.NoError(t, err)
	assert.Equal(t, claims, *got)

	_, err = ValidateToken(tok.AccessToken, "other")
	assert.Error(t, err)

	expired, err := IssueSessionToken(claims, "secret", -time.Minute)
	require.NoError(t, err)
	_, err = ValidateToken(expired.AccessToken, "secret")
	assert.Error(t, err)
}

func TestQRCodeAndResultPDF(t *testing.T) {
	url := VerificationURL("https://console.example.edu/", "RES_001")
	assert.Equal(t, "https://console.example.edu/verify/results/RES_001", url)

	png, err := GenerateQRCodePNG(url, 128)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))

	pdf, err := GenerateResultPDF(ResultPDFData{
		InstitutionName: "Campus College",
		ResultID:        "RES_001",
		Student:         []PDFRow{{"Name", "A. Roy"}},
		Exam:            []PDFRow{{"Exam", "EXR_001"}},
		Marks:           "78",
		MaxMarks:        "100",
		Grade:           "A",
		Photo:           &PDFImage{Data: png, ImageType: "PNG"},
		QRCodePNG:       png,
		VerifyURL:       url,
		GeneratedAt:     time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))
}

func TestTeacherPDF_WithoutSignature(t *testing.T) {
	pdf, err := GenerateTeacherPDF(TeacherPDFData{
		InstitutionName: "Campus College",
		TeacherID:       "TCH_001",
		Name:            "R. Sen",
		Sections:        []PDFSection{{Title: "Contact", Rows: []PDFRow{{"Mobile", "9876543210"}}}},
		GeneratedAt:     time.Now(),
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))
}

func TestArchiveName(t *testing.T) {
	name := ArchiveName("/results/", "RES 001/A", "pdf", time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
	assert.True(t, strings.HasPrefix(name, "results/20240601/RES-001-A-"), name)
	assert.True(t, strings.HasSuffix(name, ".pdf"))
}

func TestImageTypeFor(t *testing.T) {
	assert.Equal(t, "PNG", ImageTypeFor("image/png"))
	assert.Equal(t, "JPG", ImageTypeFor("image/jpeg"))
	assert.Equal(t, "", ImageTypeFor("application/pdf"))
}

func TestSafeRedirect(t *testing.T) {
	assert.Equal(t, "/pages/courses", SafeRedirect("/pages/courses", "/"))
	assert.Equal(t, "/", SafeRedirect("https://evil.example", "/"))
	assert.Equal(t, "/", SafeRedirect("//evil.example", "/"))
	assert.Equal(t, "/", SafeRedirect("", "/"))
}

func TestIsValidPassword(t *testing.T) {
	assert.True(t, IsValidPassword("Campus123"))
	assert.False(t, IsValidPassword("short1"))
	assert.False(t, IsValidPassword("lettersonly"))
}
