package qrcode

import (
	"bytes"
	"testing"

	"hearth/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// PNG magic bytes.
var pngHeader = []byte{0x89, 0x50, 0x4E, 0x47}

func TestQRCodeService_GenerateRegistrationQR(t *testing.T) {
	cfg := &config.Config{QRCode: &config.QRCodeConfig{
		Size:                 128,
		ErrorCorrectionLevel: "M",
		BaseURL:              "https://hearth.example.com",
	}}
	srv := NewQRCodeService(cfg)

	png, err := srv.GenerateRegistrationQR("c2VjcmV0.1767268800")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, pngHeader))
}

func TestQRCodeService_RegistrationLink(t *testing.T) {
	cfg := &config.Config{QRCode: &config.QRCodeConfig{
		BaseURL: "https://hearth.example.com",
	}}
	srv := NewQRCodeService(cfg).(*qrcodeService)

	link, err := srv.registrationLink("c2VjcmV0.1767268800")
	require.NoError(t, err)
	assert.Equal(t, "https://hearth.example.com/auth/register?token=c2VjcmV0.1767268800", link)
}

func TestQRCodeService_DefaultsWithoutConfig(t *testing.T) {
	srv := NewQRCodeService(nil)

	png, err := srv.GenerateRegistrationQR("c2VjcmV0.1767268800")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, pngHeader))
}
