package service

// QRCodeService defines the interface for QR code generation services
type QRCodeService interface {
	// GenerateChannelQR generates a PNG QR code pointing at the channel page of username
	GenerateChannelQR(username string) ([]byte, error)
}
