package dictionary

import (
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/scbrown/tmcheck/internal/model"
)

// MockRegistrationLength is the number of digits in a mock registration number.
const MockRegistrationLength = 7

// MockRegistration returns a stable 7-digit pseudo registration number for
// term. It is not a real registry number; results carrying one must set
// RegistrationMock.
//
// The value is a 32-bit rolling hash (h = h*31 + c, wrapping) over the
// UTF-16 code units of the normalized term, taken as an absolute value and
// zero-padded or truncated to 7 digits.
func MockRegistration(term string) string {
	var h int32
	for _, c := range utf16.Encode([]rune(model.Normalize(term))) {
		h = (h << 5) - h + int32(c)
	}
	abs := int64(h)
	if abs < 0 {
		abs = -abs
	}
	s := strconv.FormatInt(abs, 10)
	if len(s) < MockRegistrationLength {
		s = strings.Repeat("0", MockRegistrationLength-len(s)) + s
	}
	return s[:MockRegistrationLength]
}
