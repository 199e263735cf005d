package utils

import (
	"certify/models"
	"encoding/base64"
	"fmt"
	"os"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// EmailConfig carries SendGrid credentials and sender identity
type EmailConfig struct {
	ApiKey   string
	Sender   string
	FromName string
	BaseURL  string // overridable for tests; defaults to the SendGrid API
}

// EmailService delivers certificates as PDF attachments with an HTML body
// over SendGrid. One API call per Send, no retries.
type EmailService struct {
	cfg EmailConfig
}

func NewEmailService(cfg EmailConfig) *EmailService {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.sendgrid.com"
	}
	if cfg.FromName == "" {
		cfg.FromName = "Certificate Desk"
	}
	return &EmailService{cfg: cfg}
}

// IsConfigured reports whether provider credentials are present. It never
// touches the network.
func (s *EmailService) IsConfigured() bool {
	return s.cfg.ApiKey != "" && s.cfg.Sender != ""
}

// SendCertificate emails the certificate PDF to the given address and
// returns the provider receipt.
func (s *EmailService) SendCertificate(email string, cert *models.Certificate, pdfPath string) (*DeliveryReceipt, error) {
	if !s.IsConfigured() {
		return nil, ErrNotConfigured
	}

	pdfBytes, err := os.ReadFile(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read certificate PDF: %w", err)
	}

	from := mail.NewEmail(s.cfg.FromName, s.cfg.Sender)
	to := mail.NewEmail(cert.RecipientName, email)
	subject := "Your Certificate " + cert.CertificateNumber

	plain := fmt.Sprintf(
		"Dear %s, congratulations! Your certificate %s is attached.",
		cert.RecipientName, cert.CertificateNumber,
	)
	message := mail.NewSingleEmail(from, subject, to, plain, certificateEmailBody(cert))

	attachment := mail.NewAttachment()
	attachment.SetContent(base64.StdEncoding.EncodeToString(pdfBytes))
	attachment.SetType("application/pdf")
	attachment.SetFilename("certificate-" + cert.CertificateNumber + ".pdf")
	attachment.SetDisposition("attachment")
	message.AddAttachment(attachment)

	request := sendgrid.GetRequest(s.cfg.ApiKey, "/v3/mail/send", s.cfg.BaseURL)
	request.Method = "POST"
	request.Body = mail.GetRequestBody(message)

	response, err := sendgrid.API(request)
	if err != nil {
		return nil, fmt.Errorf("email request failed: %w", err)
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return nil, fmt.Errorf("email API error %d: %s", response.StatusCode, response.Body)
	}

	receipt := &DeliveryReceipt{
		Success:     true,
		Status:      "accepted",
		Destination: email,
	}
	if ids := response.Headers["X-Message-Id"]; len(ids) > 0 {
		receipt.MessageID = ids[0]
	}
	return receipt, nil
}

// certificateEmailBody renders the HTML notification body
func certificateEmailBody(cert *models.Certificate) string {
	awardLine := ""
	if cert.AwardReraNumber != "" {
		awardLine = fmt.Sprintf(`<p style="font-size: 14px; color: #666666;">Award RERA No: <strong>%s</strong></p>`, cert.AwardReraNumber)
	}

	return fmt.Sprintf(`
	<html>
		<body style="font-family: Arial, sans-serif; background-color: #f4f4f4; padding: 20px;">
			<div style="max-width: 600px; margin: auto; background-color: #ffffff; border-radius: 8px; padding: 30px; box-shadow: 0 2px 8px rgba(0, 0, 0, 0.1);">
				<h2 style="color: #333333; text-align: center;">&#127942; Your Certificate is Ready</h2>
				<p style="font-size: 16px; color: #555555;">Dear %s,</p>
				<p style="font-size: 16px; color: #555555;">Congratulations! Your certificate has been issued and is attached to this email.</p>
				<div style="background-color: #f8f9fa; border-radius: 8px; padding: 20px; margin: 20px 0; text-align: center;">
					<p style="font-size: 14px; color: #666666; margin-bottom: 10px;">Your Certificate Number:</p>
					<h2 style="color: #2196F3; margin: 0;">%s</h2>
				</div>
				%s
				<p style="font-size: 14px; color: #666666;">You can use this certificate number for verification purposes.</p>
				<p style="font-size: 14px; color: #999999; text-align: center; margin-top: 30px;">Congratulations on this achievement!</p>
			</div>
		</body>
	</html>
	`, cert.RecipientName, cert.CertificateNumber, awardLine)
}
