package service

// QRCodeService defines the interface for QR code generation services.
type QRCodeService interface {
	// GenerateRegistrationQR renders the registration link for an
	// encoded invite token as a PNG QR code.
	GenerateRegistrationQR(encodedToken string) ([]byte, error)
}
