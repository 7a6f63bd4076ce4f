package platform

import (
	"encoding/binary"
	"fmt"
	"unicode/utf16"
)

// dropFilesHeaderSize is sizeof(DROPFILES): pFiles, pt.x, pt.y, fNC, fWide.
const dropFilesHeaderSize = 20

// dropFilesPayload encodes paths as a CF_HDROP block: a DROPFILES header
// with fWide set, then each path as NUL-terminated UTF-16, then a final NUL.
func dropFilesPayload(paths []string) ([]byte, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no paths to copy")
	}

	var units []uint16
	for _, p := range paths {
		if p == "" {
			return nil, fmt.Errorf("empty path in file list")
		}
		units = append(units, utf16.Encode([]rune(p))...)
		units = append(units, 0)
	}
	units = append(units, 0)

	buf := make([]byte, dropFilesHeaderSize+2*len(units))
	binary.LittleEndian.PutUint32(buf[0:], dropFilesHeaderSize)
	binary.LittleEndian.PutUint32(buf[16:], 1)
	for i, u := range units {
		binary.LittleEndian.PutUint16(buf[dropFilesHeaderSize+2*i:], u)
	}
	return buf, nil
}
