package screen

import (
	"strings"

	"edgelogin/internal/output"
	"edgelogin/internal/validation"
)

// PinBuffer collects PIN digits from a keypad.
type PinBuffer struct {
	digits []rune
}

// Press appends r if it is a digit and the buffer is not full. It reports
// whether this press filled the buffer.
func (b *PinBuffer) Press(r rune) bool {
	if r < '0' || r > '9' || b.Full() {
		return false
	}
	b.digits = append(b.digits, r)
	return b.Full()
}

// Back removes the last digit.
func (b *PinBuffer) Back() {
	if len(b.digits) > 0 {
		b.digits = b.digits[:len(b.digits)-1]
	}
}

// Reset empties the buffer.
func (b *PinBuffer) Reset() {
	b.digits = b.digits[:0]
}

func (b *PinBuffer) Len() int { return len(b.digits) }

func (b *PinBuffer) Full() bool { return len(b.digits) >= validation.PINLength }

// Value returns the digits entered so far.
func (b *PinBuffer) Value() string {
	return string(b.digits)
}

// View draws one dot per position, filled for entered digits.
func (b *PinBuffer) View() string {
	dots := make([]string, validation.PINLength)
	for i := range dots {
		if i < len(b.digits) {
			dots[i] = output.FocusedStyle.Render("●")
		} else {
			dots[i] = output.HintStyle.Render("○")
		}
	}
	return strings.Join(dots, " ")
}
