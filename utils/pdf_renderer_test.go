package utils

import (
	"certify/models"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderWritesPDF(t *testing.T) {
	dir := t.TempDir()
	renderer := NewCertificateRenderer(dir)

	cert := &models.Certificate{
		ID:                "cert-1",
		RecipientName:     "Asha Rao",
		CertificateNumber: "CN-1001",
		AwardReraNumber:   "RERA-42",
		IssueYear:         2026,
	}

	path, err := renderer.Render(cert)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "cert-1.pdf"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Greater(t, len(data), 4)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestRenderUsesDefaultDescription(t *testing.T) {
	dir := t.TempDir()
	renderer := NewCertificateRenderer(dir)

	cert := &models.Certificate{
		ID:                "cert-2",
		RecipientName:     "Asha Rao",
		CertificateNumber: "CN-1002",
		IssueYear:         2026,
	}

	_, err := renderer.Render(cert)
	require.NoError(t, err)
}

func TestRenderOverwritesPreviousFile(t *testing.T) {
	dir := t.TempDir()
	renderer := NewCertificateRenderer(dir)

	cert := &models.Certificate{
		ID:                "cert-3",
		RecipientName:     "Asha Rao",
		CertificateNumber: "CN-1003",
		IssueYear:         2026,
	}

	first, err := renderer.Render(cert)
	require.NoError(t, err)

	cert.RecipientName = "Asha R. Rao"
	second, err := renderer.Render(cert)
	require.NoError(t, err)

	assert.Equal(t, first, second)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestRenderRequiresRecipientAndNumber(t *testing.T) {
	renderer := NewCertificateRenderer(t.TempDir())

	_, err := renderer.Render(&models.Certificate{ID: "x", CertificateNumber: "CN-1"})
	assert.Error(t, err)

	_, err = renderer.Render(&models.Certificate{ID: "x", RecipientName: "Asha"})
	assert.Error(t, err)

	_, err = renderer.Render(&models.Certificate{RecipientName: "Asha", CertificateNumber: "CN-1"})
	assert.Error(t, err)
}

func TestPublicURL(t *testing.T) {
	renderer := NewCertificateRenderer(t.TempDir())
	cert := &models.Certificate{ID: "abc"}

	url := renderer.PublicURL("https://certs.example.com", cert)
	assert.Equal(t, "https://certs.example.com/certificates/abc.pdf", url)
}
