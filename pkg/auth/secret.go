package auth

import (
	"errors"
	"log/slog"
	"unicode/utf16"
	"unicode/utf8"
)

// Secret is a plaintext credential held in a mutable buffer so it can be scrubbed.
// Never convert it to a string.
type Secret []byte

// UnmarshalJSON copies a JSON string into the buffer. Escapes are decoded
// straight into the buffer so no immutable copy of the plaintext is made.
func (s *Secret) UnmarshalJSON(data []byte) error {
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return errors.New("secret must be a JSON string")
	}
	buf, err := unescapeJSONString(data[1 : len(data)-1])
	if err != nil {
		return err
	}
	*s = buf
	return nil
}

var errMalformedSecret = errors.New("secret is not a valid JSON string")

// unescapeJSONString decodes the body of a JSON string literal. The output
// buffer is scrubbed before an error is returned.
func unescapeJSONString(raw []byte) (out []byte, err error) {
	out = make([]byte, 0, len(raw))
	defer func() {
		if err != nil {
			Scrub(out[:cap(out)])
			out = nil
		}
	}()

	for i := 0; i < len(raw); i++ {
		c := raw[i]
		switch {
		case c < 0x20 || c == '"':
			return out, errMalformedSecret
		case c != '\\':
			out = append(out, c)
			continue
		}

		i++
		if i >= len(raw) {
			return out, errMalformedSecret
		}
		switch raw[i] {
		case '"', '\\', '/':
			out = append(out, raw[i])
		case 'b':
			out = append(out, '\b')
		case 'f':
			out = append(out, '\f')
		case 'n':
			out = append(out, '\n')
		case 'r':
			out = append(out, '\r')
		case 't':
			out = append(out, '\t')
		case 'u':
			r, ok := hex4(raw[i+1:])
			if !ok {
				return out, errMalformedSecret
			}
			i += 4
			if utf16.IsSurrogate(r) {
				r2, ok := rune(-1), false
				if i+2 < len(raw) && raw[i+1] == '\\' && raw[i+2] == 'u' {
					r2, ok = hex4(raw[i+3:])
				}
				if dec := utf16.DecodeRune(r, r2); ok && dec != utf8.RuneError {
					r = dec
					i += 6
				} else {
					r = utf8.RuneError
				}
			}
			out = utf8.AppendRune(out, r)
		default:
			return out, errMalformedSecret
		}
	}
	return out, nil
}

func hex4(b []byte) (rune, bool) {
	if len(b) < 4 {
		return 0, false
	}
	var r rune
	for _, c := range b[:4] {
		switch {
		case '0' <= c && c <= '9':
			c -= '0'
		case 'a' <= c && c <= 'f':
			c = c - 'a' + 10
		case 'A' <= c && c <= 'F':
			c = c - 'A' + 10
		default:
			return 0, false
		}
		r = r<<4 | rune(c)
	}
	return r, true
}

// LogValue keeps secrets out of structured logs
func (s Secret) LogValue() slog.Value {
	return slog.StringValue("[REDACTED]")
}

// String keeps secrets out of fmt output
func (s Secret) String() string {
	return "[REDACTED]"
}

// Scrub overwrites the buffer with zero bytes
func Scrub(b []byte) {
	clear(b)
}

// WithSecret hands the secret to fn and scrubs it on every exit path, panics included
func WithSecret[T any](secret []byte, fn func([]byte) (T, error)) (T, error) {
	defer Scrub(secret)
	return fn(secret)
}
