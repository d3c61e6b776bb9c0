package util

import (
	"fmt"
	"hash/crc32"
	"io"
	"os"
)

// HeadFingerprintSize is how many leading bytes of a recording the
// fingerprint covers. The header record and the first events fit well
// inside it, which is enough to tell a replaced file from a grown one.
const HeadFingerprintSize = 2048

// CalculateHeadFingerprint calculates the CRC32 fingerprint of the
// first n bytes of a file. Callers that re-check a growing file must
// pass the same n they fingerprinted at open time.
func CalculateHeadFingerprint(filepath string, n int64) (string, error) {
	file, err := os.Open(filepath)
	if err != nil {
		return "", err
	}
	defer file.Close()

	if n > HeadFingerprintSize {
		n = HeadFingerprintSize
	}

	data := make([]byte, n)
	if _, err := io.ReadFull(file, data); err != nil {
		return "", err
	}

	crc := crc32.ChecksumIEEE(data)
	return fmt.Sprintf("%08x", crc), nil
}
