package models

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Delivery channels
const (
	ChannelWhatsApp = "whatsapp"
	ChannelEmail    = "email"
)

var (
	// ErrNotFound signals absence; callers treat it as a value, not a failure
	ErrNotFound = errors.New("certificate not found")
	// ErrDuplicateNumber signals a certificate_number collision
	ErrDuplicateNumber = errors.New("certificate number already exists")
)

// CertificateStore owns persistence for certificates. Every operation is a
// single statement; the unique index on certificate_number is the only
// cross-request consistency mechanism.
type CertificateStore struct {
	DB *gorm.DB
}

func NewCertificateStore(db *gorm.DB) *CertificateStore {
	return &CertificateStore{DB: db}
}

// Insert persists a new certificate. Returns ErrDuplicateNumber when the
// certificate_number is taken, whether caught by the pre-check or by the
// unique index if a concurrent insert wins the race in between.
func (s *CertificateStore) Insert(cert *Certificate) error {
	var count int64
	if err := s.DB.Model(&Certificate{}).
		Where("certificate_number = ?", cert.CertificateNumber).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrDuplicateNumber
	}

	if err := s.DB.Create(cert).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateNumber
		}
		return err
	}
	return nil
}

func (s *CertificateStore) GetByID(id string) (*Certificate, error) {
	var cert Certificate
	err := s.DB.Where("id = ?", id).First(&cert).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &cert, nil
}

func (s *CertificateStore) GetByNumber(number string) (*Certificate, error) {
	var cert Certificate
	err := s.DB.Where("certificate_number = ?", number).First(&cert).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &cert, nil
}

// ListPage returns certificates newest-first with a stable id tie-break,
// plus the total row count for pagination.
func (s *CertificateStore) ListPage(limit, offset int) ([]Certificate, int64, error) {
	var total int64
	if err := s.DB.Model(&Certificate{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var certs []Certificate
	err := s.DB.Order("created_at desc, id desc").
		Limit(limit).Offset(offset).
		Find(&certs).Error
	if err != nil {
		return nil, 0, err
	}
	return certs, total, nil
}

// Patch applies only the supplied fields and bumps updated_at. The primary
// key, pdf path and delivery flags are never patchable through here.
func (s *CertificateStore) Patch(id string, fields map[string]interface{}) (*Certificate, error) {
	for _, reserved := range []string{
		"id", "pdf_path", "issue_year", "created_at",
		"whatsapp_sent", "whatsapp_sent_at", "email_sent", "email_sent_at",
	} {
		delete(fields, reserved)
	}

	res := s.DB.Model(&Certificate{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		if isUniqueViolation(res.Error) {
			return nil, ErrDuplicateNumber
		}
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.GetByID(id)
}

// SetPDFPath records the rendered document handle for a certificate.
func (s *CertificateStore) SetPDFPath(id, path string) error {
	return s.DB.Model(&Certificate{}).Where("id = ?", id).
		Update("pdf_path", path).Error
}

// MarkDelivered sets a channel's sent flag and timestamp together in a single
// UPDATE, so the pair can never disagree.
func (s *CertificateStore) MarkDelivered(id, channel string, sent bool) error {
	var sentAt *time.Time
	if sent {
		t := time.Now()
		sentAt = &t
	}

	var fields map[string]interface{}
	switch channel {
	case ChannelWhatsApp:
		fields = map[string]interface{}{"whatsapp_sent": sent, "whatsapp_sent_at": sentAt}
	case ChannelEmail:
		fields = map[string]interface{}{"email_sent": sent, "email_sent_at": sentAt}
	default:
		return errors.New("unknown delivery channel: " + channel)
	}

	res := s.DB.Model(&Certificate{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Remove deletes the row and reports whether one was actually removed.
func (s *CertificateStore) Remove(id string) (bool, error) {
	res := s.DB.Where("id = ?", id).Delete(&Certificate{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (s *CertificateStore) CountAll() (int64, error) {
	var count int64
	err := s.DB.Model(&Certificate{}).Count(&count).Error
	return count, err
}

// CountDelivered counts certificates sent over at least one channel.
func (s *CertificateStore) CountDelivered() (int64, error) {
	var count int64
	err := s.DB.Model(&Certificate{}).
		Where("whatsapp_sent = ? OR email_sent = ?", true, true).
		Count(&count).Error
	return count, err
}

// isUniqueViolation matches both the postgres and sqlite error texts so the
// store behaves the same under tests.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
