package mapdata

import (
	"fmt"

	"github.com/bodgit/pokemap/charset"
	"github.com/bodgit/pokemap/rom"
)

// LabelError is returned for a label that sorts before the first name in
// the string table
type LabelError struct {
	Label uint8
	Bias  int
}

func (e *LabelError) Error() string {
	return fmt.Sprintf("mapdata: label %#x is below the first name %#x", e.Label, e.Bias)
}

// Name looks up the display name for label. The table at table is a run of
// terminated strings, the first of which belongs to label bias.
func Name(im *rom.Image, table, bias int, label uint8) (string, error) {
	if int(label) < bias {
		return "", &LabelError{Label: label, Bias: bias}
	}

	off := table
	for skip := int(label) - bias; skip > 0; off++ {
		c, err := im.Uint8(off)
		if err != nil {
			return "", err
		}
		if c == charset.Terminator {
			skip--
		}
	}

	start := off
	for {
		c, err := im.Uint8(off)
		if err != nil {
			return "", err
		}
		if c == charset.Terminator {
			break
		}
		off++
	}

	b, err := im.Slice(start, off-start)
	if err != nil {
		return "", err
	}
	return charset.Decode(b)
}
