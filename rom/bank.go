package rom

// Banks holds the map header offsets of each bank in table order
type Banks [][]int

// Maps returns the total number of maps across all banks
func (b Banks) Maps() int {
	var n int
	for _, maps := range b {
		n += len(maps)
	}
	return n
}

// ScanPointerTable reads consecutive pointers starting at start until a word
// that isn't a pointer is found
func (im *Image) ScanPointerTable(start int) ([]int, error) {
	return im.scan(start, -1)
}

// scan stops at the first non-pointer or when the next read would be at
// stop, whichever comes first
func (im *Image) scan(start, stop int) ([]int, error) {
	var pointers []int
	for off := start; off != stop; off += 4 {
		p, err := im.Pointer(off)
		if err != nil {
			return nil, err
		}
		if p <= 0 {
			break
		}
		pointers = append(pointers, p)
	}
	return pointers, nil
}

// LoadBanks walks the bank table at table. Each bank's own map table is
// assumed to run until either a non-pointer or the start of the following
// bank's table as the tables are packed together without any count.
func (im *Image) LoadBanks(table int) (Banks, error) {
	bankPointers, err := im.ScanPointerTable(table)
	if err != nil {
		return nil, err
	}

	banks := make(Banks, 0, len(bankPointers))
	for i, p := range bankPointers {
		next := -1
		if i+1 < len(bankPointers) {
			next = bankPointers[i+1]
		}

		maps, err := im.scan(p, next)
		if err != nil {
			return nil, err
		}
		banks = append(banks, maps)
	}

	return banks, nil
}
