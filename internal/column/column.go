// Package column converts between spreadsheet-style column letters and
// 0-based positional indices: "A" is 0, "Z" is 25, "AA" is 26.
package column

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidLetter reports a column letter that is empty or contains
	// non-alphabetic characters.
	ErrInvalidLetter = errors.New("invalid column letter")

	// ErrInvalidIndex reports a negative column index.
	ErrInvalidIndex = errors.New("invalid column index")
)

// LetterToIndex converts a column letter to its 0-based index. Letters are
// read as base-26 numerals with digits A=1..Z=26, accepted case-insensitively.
func LetterToIndex(letter string) (int, error) {
	if letter == "" {
		return 0, fmt.Errorf("%w: empty string", ErrInvalidLetter)
	}

	result := 0
	for _, char := range strings.ToUpper(letter) {
		if char < 'A' || char > 'Z' {
			return 0, fmt.Errorf("%w: %q", ErrInvalidLetter, letter)
		}
		result = result*26 + int(char-'A'+1)
	}
	return result - 1, nil
}

// IndexToLetter converts a 0-based index to its column letter.
func IndexToLetter(index int) (string, error) {
	if index < 0 {
		return "", fmt.Errorf("%w: %d", ErrInvalidIndex, index)
	}

	result := ""
	for index >= 0 {
		result = string(rune('A'+index%26)) + result
		index = index/26 - 1
	}
	return result, nil
}

// MustLetter is IndexToLetter for indices already known to be non-negative;
// it panics otherwise.
func MustLetter(index int) string {
	letter, err := IndexToLetter(index)
	if err != nil {
		panic(err)
	}
	return letter
}
