package charset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want string
	}{
		{"upper", []byte{0xca, 0xbb, 0xc6, 0xc6, 0xbf, 0xce, 0x00, 0xce, 0xc9, 0xd1, 0xc8, Terminator}, "PALLET TOWN"},
		{"lower", []byte{0xd5, 0xee}, "az"},
		{"digits", []byte{0xcc, 0xc9, 0xcf, 0xce, 0xbf, 0x00, 0xa2, 0xa1}, "ROUTE 10"},
		{"stops at terminator", []byte{0xbb, Terminator, 0xbc}, "A"},
		{"unmapped", []byte{0x80}, "\ufffd"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEncode(t *testing.T) {
	b, err := Encoding.NewEncoder().Bytes([]byte("VIRIDIAN CITY"))
	require.NoError(t, err)

	s, err := Decode(b)
	require.NoError(t, err)
	assert.Equal(t, "VIRIDIAN CITY", s)

	_, err = Encoding.NewEncoder().String("~")
	assert.Error(t, err)
}
