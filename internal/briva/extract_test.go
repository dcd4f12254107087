package briva

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDigits(t *testing.T) {
	assert.Equal(t, "123456", Digits("TRF 12-34 ab56"))
	assert.Equal(t, "", Digits("no digits"))
}

func TestExtract(t *testing.T) {
	r := FromPrefixes("12345", "77777")

	tests := []struct {
		name   string
		remark string
		want   string
		found  bool
	}{
		{"Plain", "BRIVA 123450000000001 TRF", "123450000000001", true},
		{"Separators", "VA 12345-00000-00001", "123450000000001", true},
		{"Embedded", "TRX9912345000000000188", "", false},
		{"EleventhDigit", "1234500000000019", "", false},
		{"ElevenThenText", "12345000000000199 X", "", false},
		{"SecondPrefix", "pay 777771234567890", "777771234567890", true},
		{"TooShort", "12345000000", "", false},
		{"NoDigits", "SETORAN TUNAI", "", false},
		{"Empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := r.Extract(tt.remark)
			assert.Equal(t, tt.found, found)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtract_TrailingReferenceOnly(t *testing.T) {
	// Separators are removed before matching, so a reference followed by
	// more digits anywhere in the remark is not accepted.
	r := FromPrefixes("77777", "12345")

	got, ok := r.Extract("777771111111111 / 123452222222222")
	assert.True(t, ok)
	assert.Equal(t, "123452222222222", got)

	_, ok = r.Extract("777771111111111 / 99")
	assert.False(t, ok)
}

func TestExtract_RegistryOrderWins(t *testing.T) {
	remark := "REF 1111111111111111"

	r := FromPrefixes("11111", "1111")
	got, ok := r.Extract(remark)
	assert.True(t, ok)
	assert.Equal(t, "111111111111111", got)

	r = FromPrefixes("1111", "11111")
	got, ok = r.Extract(remark)
	assert.True(t, ok)
	assert.Equal(t, "11111111111111", got)
}

func TestExtract_EmptyRegistry(t *testing.T) {
	r := FromPrefixes()
	_, ok := r.Extract("123450000000001")
	assert.False(t, ok)
}
