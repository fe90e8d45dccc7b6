package rom

import (
	"bytes"
	"fmt"
	"hash/crc32"
)

const (
	titleOffset = 0xa0
	titleLength = 12
	codeOffset  = 0xac
	codeLength  = 4
)

// Header is the identifying part of the cartridge header
type Header struct {
	Title string
	Code  string
	CRC   string
}

// ReadHeader returns the title and game code from the cartridge header along
// with the CRC-32 of the whole image
func (im *Image) ReadHeader() (*Header, error) {
	title, err := im.Slice(titleOffset, titleLength)
	if err != nil {
		return nil, err
	}
	code, err := im.Slice(codeOffset, codeLength)
	if err != nil {
		return nil, err
	}

	h := crc32.NewIEEE()
	h.Write(im.b)

	return &Header{
		Title: string(bytes.TrimRight(title, "\x00")),
		Code:  string(code),
		CRC:   fmt.Sprintf("%.*X", crc32.Size<<1, h.Sum(nil)),
	}, nil
}
