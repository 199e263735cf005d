package utils

import (
	"certify/models"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
)

// WhatsAppConfig carries WhatsApp Business Cloud API credentials
type WhatsAppConfig struct {
	Token         string
	PhoneNumberID string
	ApiVersion    string
	CountryCode   string // prefix applied to bare 10-digit local numbers
	BaseURL       string // overridable for tests; defaults to the Graph API
}

// WhatsAppService delivers certificates as document messages over the
// WhatsApp Business Cloud API. One API call per Send, no retries.
type WhatsAppService struct {
	cfg    WhatsAppConfig
	client *resty.Client
}

func NewWhatsAppService(cfg WhatsAppConfig) *WhatsAppService {
	if cfg.ApiVersion == "" {
		cfg.ApiVersion = "v21.0"
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://graph.facebook.com"
	}
	return &WhatsAppService{
		cfg:    cfg,
		client: resty.New(),
	}
}

// IsConfigured reports whether provider credentials are present. It never
// touches the network.
func (s *WhatsAppService) IsConfigured() bool {
	return s.cfg.Token != "" && s.cfg.PhoneNumberID != ""
}

// NormalizePhone strips separators and ensures an international prefix.
// Bare 10-digit numbers get the configured country code.
func (s *WhatsAppService) NormalizePhone(phone string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '(', ')':
			return -1
		}
		return r
	}, strings.TrimSpace(phone))

	if cleaned == "" || strings.HasPrefix(cleaned, "+") {
		return cleaned
	}
	if len(cleaned) == 10 && s.cfg.CountryCode != "" {
		return "+" + s.cfg.CountryCode + cleaned
	}
	return "+" + cleaned
}

type waDocument struct {
	Link     string `json:"link"`
	Caption  string `json:"caption,omitempty"`
	Filename string `json:"filename,omitempty"`
}

type waMessageRequest struct {
	MessagingProduct string     `json:"messaging_product"`
	To               string     `json:"to"`
	Type             string     `json:"type"`
	Document         waDocument `json:"document"`
}

type waMessageResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    int    `json:"code"`
	} `json:"error"`
}

// SendCertificate sends the certificate document link with a templated
// caption to the given phone number and returns the provider receipt.
func (s *WhatsAppService) SendCertificate(phone string, cert *models.Certificate, documentURL string) (*DeliveryReceipt, error) {
	if !s.IsConfigured() {
		return nil, ErrNotConfigured
	}

	to := s.NormalizePhone(phone)
	caption := fmt.Sprintf(
		"Congratulations %s! Your certificate %s is ready.",
		cert.RecipientName, cert.CertificateNumber,
	)
	if cert.AwardReraNumber != "" {
		caption += fmt.Sprintf(" Award RERA No: %s.", cert.AwardReraNumber)
	}

	body := waMessageRequest{
		MessagingProduct: "whatsapp",
		To:               to,
		Type:             "document",
		Document: waDocument{
			Link:     documentURL,
			Caption:  caption,
			Filename: "certificate-" + cert.CertificateNumber + ".pdf",
		},
	}

	url := fmt.Sprintf("%s/%s/%s/messages", s.cfg.BaseURL, s.cfg.ApiVersion, s.cfg.PhoneNumberID)

	var result waMessageResponse
	resp, err := s.client.R().
		SetAuthToken(s.cfg.Token).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		SetResult(&result).
		SetError(&result).
		Post(url)
	if err != nil {
		return nil, fmt.Errorf("whatsapp request failed: %w", err)
	}

	if resp.IsError() {
		if result.Error != nil {
			return nil, fmt.Errorf("whatsapp API error %d: %s", result.Error.Code, result.Error.Message)
		}
		return nil, fmt.Errorf("whatsapp API error: %s", resp.String())
	}

	receipt := &DeliveryReceipt{
		Success:     true,
		Status:      "sent",
		Destination: to,
	}
	if len(result.Messages) > 0 {
		receipt.MessageID = result.Messages[0].ID
	}
	return receipt, nil
}
