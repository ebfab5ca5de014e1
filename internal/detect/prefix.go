package detect

import (
	"errors"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"github.com/custodia-labs/bmeconv/internal/core/domain"
)

// readPrefix reads at most n bytes from the start of path. The file is
// closed before returning. atEOF reports whether the whole file was read.
func readPrefix(path string, n int) (b []byte, atEOF bool, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %w", domain.ErrIO, err)
	}
	defer f.Close()

	buf := make([]byte, n)
	k, err := io.ReadFull(f, buf)
	switch {
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return buf[:k], true, nil
	case err != nil:
		return nil, false, fmt.Errorf("%w: %w", domain.ErrIO, err)
	}
	return buf, false, nil
}

// firstRunes returns the first n characters of s.
func firstRunes(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

// maxBytesPerRune bounds the bytes needed for one character in any candidate.
const maxBytesPerRune = utf8.UTFMax
