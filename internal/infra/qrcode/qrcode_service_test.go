package qrcode

import (
	"bytes"
	"image/png"
	"testing"

	"vidhub/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewQRCodeService(t *testing.T) {
	tests := []struct {
		name                 string
		size                 int
		errorCorrectionLevel string
	}{
		{"Low error correction", 256, "L"},
		{"Medium error correction", 256, "M"},
		{"High error correction", 256, "Q"},
		{"Highest error correction", 256, "H"},
		{"Default error correction", 256, "invalid"},
		{"Default size", 0, "M"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := NewQRCodeService(tt.size, tt.errorCorrectionLevel, "https://vidhub.example.com")
			assert.NotNil(t, service)
		})
	}
}

func TestGenerateChannelQR(t *testing.T) {
	service := NewQRCodeService(128, "M", "https://vidhub.example.com/")

	pngBytes, err := service.GenerateChannelQR("alice")
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(pngBytes))
	require.NoError(t, err)
	assert.Equal(t, 128, img.Bounds().Dx())
	assert.Equal(t, 128, img.Bounds().Dy())
}

func TestGenerateChannelQR_EmptyUsername(t *testing.T) {
	service := NewQRCodeService(128, "M", "")

	_, err := service.GenerateChannelQR("")
	assert.Error(t, err)
}

func TestChannelURL(t *testing.T) {
	service := NewQRCodeService(128, "M", "https://vidhub.example.com/").(*qrcodeService)

	assert.Equal(t, "https://vidhub.example.com/c/alice", service.ChannelURL("alice"))
	assert.Equal(t, "https://vidhub.example.com/c/a%2Fb", service.ChannelURL("a/b"))
}

func TestNewQRCodeServiceFromConfig(t *testing.T) {
	service := NewQRCodeServiceFromConfig(&config.Config{}).(*qrcodeService)
	assert.Equal(t, defaultSize, service.size)
	assert.Equal(t, defaultBaseURL, service.baseURL)

	service = NewQRCodeServiceFromConfig(&config.Config{
		QRCode: &config.QRCodeConfig{Size: 300, ErrorCorrectionLevel: "H", BaseURL: "http://x"},
	}).(*qrcodeService)
	assert.Equal(t, 300, service.size)
	assert.Equal(t, "http://x", service.baseURL)
}
