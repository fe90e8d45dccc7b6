/*
Package charset implements the single-byte character encoding used for text
stored in the cartridge.

Strings are terminated with Terminator and are not ASCII compatible, for
example 'A' is 0xBB and the digits start at 0xA1. Bytes without a mapping
decode to utf8.RuneError.
*/
package charset

import (
	"errors"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

// Terminator ends every string
const Terminator = 0xff

const newline = 0xfe

var errUnmappable = errors.New("charset: rune has no mapping")

var decode [256]rune

var encode map[rune]byte

func init() {
	for i := range decode {
		decode[i] = utf8.RuneError
	}

	decode[0x00] = ' '
	decode[0x1b] = 'é'
	decode[0x2d] = '&'
	for i := 0; i < 10; i++ {
		decode[0xa1+i] = '0' + rune(i)
	}
	for i, r := range "!?.-" {
		decode[0xab+i] = r
	}
	decode[0xb0] = '…'
	decode[0xb1] = '“'
	decode[0xb2] = '”'
	decode[0xb3] = '‘'
	decode[0xb4] = '’'
	decode[0xb5] = '♂'
	decode[0xb6] = '♀'
	decode[0xb8] = ','
	decode[0xba] = '/'
	for i := 0; i < 26; i++ {
		decode[0xbb+i] = 'A' + rune(i)
		decode[0xd5+i] = 'a' + rune(i)
	}
	decode[0xf0] = ':'
	decode[newline] = '\n'

	encode = make(map[rune]byte)
	for i, r := range decode {
		if r != utf8.RuneError {
			encode[r] = byte(i)
		}
	}
}

type gen3 struct{}

// Encoding is the cartridge text encoding
var Encoding encoding.Encoding = gen3{}

func (gen3) NewDecoder() *encoding.Decoder {
	return &encoding.Decoder{Transformer: decoder{}}
}

func (gen3) NewEncoder() *encoding.Encoder {
	return &encoding.Encoder{Transformer: encoder{}}
}

func (gen3) String() string {
	return "gen3"
}

type decoder struct{ transform.NopResetter }

func (decoder) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	for _, b := range src {
		r := decode[b]
		if nDst+utf8.RuneLen(r) > len(dst) {
			return nDst, nSrc, transform.ErrShortDst
		}
		nDst += utf8.EncodeRune(dst[nDst:], r)
		nSrc++
	}
	return nDst, nSrc, nil
}

type encoder struct{ transform.NopResetter }

func (encoder) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	for nSrc < len(src) {
		if !atEOF && !utf8.FullRune(src[nSrc:]) {
			return nDst, nSrc, transform.ErrShortSrc
		}
		r, size := utf8.DecodeRune(src[nSrc:])
		b, ok := encode[r]
		if !ok {
			return nDst, nSrc, errUnmappable
		}
		if nDst >= len(dst) {
			return nDst, nSrc, transform.ErrShortDst
		}
		dst[nDst] = b
		nDst++
		nSrc += size
	}
	return nDst, nSrc, nil
}

// Decode returns the text of b up to the first Terminator
func Decode(b []byte) (string, error) {
	for i, c := range b {
		if c == Terminator {
			b = b[:i]
			break
		}
	}
	return Encoding.NewDecoder().String(string(b))
}
