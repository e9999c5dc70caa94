package lifecycle_test

import (
	"testing"

	"github.com/certlane/certlane/pkg/cert_service/lifecycle"
	"github.com/stretchr/testify/assert"
)

func TestFormatDisposition(t *testing.T) {
	tests := []struct {
		format       string
		wantFilename string
		wantType     string
	}{
		{"pembundle", "app01.example.com.pem", "application/x-pkcs12"},
		{"pem", "app01.example.com", "application/x-pem-file"},
		{"der", "app01.example.com", "application/pkix-cert"},
		{"pkcs12pem", "app01.example.com.pfx", "application/x-pkcs12"},
		{"default", "app01.example.com.pfx", "application/x-pkcs12"},
		{"", "app01.example.com.pfx", "application/x-pkcs12"},
		{"jks", "app01.example.com.pfx", "application/x-pkcs12"},
	}

	for _, tt := range tests {
		t.Run("format "+tt.format, func(t *testing.T) {
			filename, contentType := lifecycle.FormatDisposition("app01.example.com", tt.format)
			assert.Equal(t, tt.wantFilename, filename)
			assert.Equal(t, tt.wantType, contentType)
		})
	}
}
