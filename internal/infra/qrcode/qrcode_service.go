// Package qrcode renders registration links as QR codes.
package qrcode

import (
	"net/url"

	"hearth/config"
	"hearth/internal/domain/service"

	"github.com/pkg/errors"
	"github.com/skip2/go-qrcode"
)

const defaultSize = 256

type qrcodeService struct {
	size                 int
	errorCorrectionLevel qrcode.RecoveryLevel
	baseURL              string
}

// NewQRCodeService creates a new QR code service instance
func NewQRCodeService(cfg *config.Config) service.QRCodeService {
	size := defaultSize
	level := "M"
	baseURL := ""

	if cfg != nil && cfg.QRCode != nil {
		if cfg.QRCode.Size > 0 {
			size = cfg.QRCode.Size
		}
		if cfg.QRCode.ErrorCorrectionLevel != "" {
			level = cfg.QRCode.ErrorCorrectionLevel
		}
		baseURL = cfg.QRCode.BaseURL
	}

	return &qrcodeService{
		size:                 size,
		errorCorrectionLevel: recoveryLevel(level),
		baseURL:              baseURL,
	}
}

func recoveryLevel(level string) qrcode.RecoveryLevel {
	switch level {
	case "L":
		return qrcode.Low
	case "M":
		return qrcode.Medium
	case "Q":
		return qrcode.High
	case "H":
		return qrcode.Highest
	default:
		return qrcode.Medium
	}
}

// GenerateRegistrationQR renders the registration link for an encoded
// invite token as a PNG QR code.
func (s *qrcodeService) GenerateRegistrationQR(encodedToken string) ([]byte, error) {
	link, err := s.registrationLink(encodedToken)
	if err != nil {
		return nil, err
	}

	qrCode, err := qrcode.New(link, s.errorCorrectionLevel)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create QR code")
	}

	pngBytes, err := qrCode.PNG(s.size)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate PNG")
	}

	return pngBytes, nil
}

// registrationLink builds the link the QR code encodes. Without a
// configured base URL the raw token is encoded, which still scans into
// the registration form.
func (s *qrcodeService) registrationLink(encodedToken string) (string, error) {
	if s.baseURL == "" {
		return encodedToken, nil
	}

	base, err := url.Parse(s.baseURL)
	if err != nil {
		return "", errors.Wrap(err, "invalid QR code base URL")
	}

	base = base.JoinPath("auth", "register")
	query := base.Query()
	query.Set("token", encodedToken)
	base.RawQuery = query.Encode()

	return base.String(), nil
}
