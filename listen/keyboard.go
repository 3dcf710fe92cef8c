package listen

import "unicode/utf8"

// KeyboardBuffer collects text typed while keyboard listening is on. It
// never grows past its limit in bytes.
type KeyboardBuffer struct {
	buf   []byte
	limit int
}

// NewKeyboardBuffer returns a buffer holding at most limit bytes. A
// non-positive limit makes a buffer that drops everything.
func NewKeyboardBuffer(limit int) *KeyboardBuffer {
	if limit < 0 {
		limit = 0
	}
	return &KeyboardBuffer{buf: make([]byte, 0, limit), limit: limit}
}

// Append adds as many whole runes of text as fit and returns the number of
// bytes stored.
func (b *KeyboardBuffer) Append(text string) int {
	n := 0
	for len(text) > 0 {
		_, size := utf8.DecodeRuneInString(text)
		if len(b.buf)+size > b.limit {
			break
		}
		b.buf = append(b.buf, text[:size]...)
		text = text[size:]
		n += size
	}
	return n
}

// Backspace removes the last rune.
func (b *KeyboardBuffer) Backspace() {
	if len(b.buf) == 0 {
		return
	}
	_, size := utf8.DecodeLastRune(b.buf)
	b.buf = b.buf[:len(b.buf)-size]
}

func (b *KeyboardBuffer) String() string { return string(b.buf) }
func (b *KeyboardBuffer) Len() int       { return len(b.buf) }
func (b *KeyboardBuffer) Limit() int     { return b.limit }
func (b *KeyboardBuffer) Reset()         { b.buf = b.buf[:0] }

// AttachKeyboardBuffer makes buf the target of captured text. nil detaches.
func (r *Registry) AttachKeyboardBuffer(buf *KeyboardBuffer) { r.keyboard = buf }

// KeyboardBuffer returns the attached buffer, or nil.
func (r *Registry) KeyboardBuffer() *KeyboardBuffer { return r.keyboard }

// StartKeyboard turns text capture on and puts the host in text-input mode.
func (r *Registry) StartKeyboard() {
	r.listening = true
	if r.text != nil {
		r.text.StartTextInput()
	}
}

// StopKeyboard turns text capture off and leaves text-input mode.
func (r *Registry) StopKeyboard() {
	r.listening = false
	if r.text != nil {
		r.text.StopTextInput()
	}
}

func (r *Registry) KeyboardListening() bool { return r.listening }

func (r *Registry) captureText(text string) {
	if !r.listening || r.keyboard == nil {
		return
	}
	if n := r.keyboard.Append(text); n < len(text) {
		r.logger().Debug("keyboard buffer full", "dropped", len(text)-n, "limit", r.keyboard.limit)
	}
}
