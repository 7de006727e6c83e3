package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePlatform(t *testing.T) {
	tests := []struct {
		input   string
		want    Platform
		wantErr bool
	}{
		{"telegram", PlatformTelegram, false},
		{"whatsapp", PlatformWhatsApp, false},
		{"signal", "", true},
		{"", "", true},
		{"Telegram", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParsePlatform(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEffectivePlatform(t *testing.T) {
	assert.Equal(t, PlatformTelegram, RecipientProfile{}.EffectivePlatform())
	assert.Equal(t, PlatformWhatsApp, RecipientProfile{PreferredPlatform: PlatformWhatsApp}.EffectivePlatform())
	assert.Equal(t, PlatformTelegram, RecipientProfile{PreferredPlatform: PlatformTelegram}.EffectivePlatform())
}
