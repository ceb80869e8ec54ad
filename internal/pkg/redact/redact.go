package redact

// Identifier маскирует естественный идентификатор, оставляя последние
// два символа. Короткие значения (до 4 рун) скрываются полностью.
func Identifier(s string) string {
	r := []rune(s)
	if len(r) <= 4 {
		return "***"
	}

	return "***" + string(r[len(r)-2:])
}

func Token() string    { return "[REDACTED_TOKEN]" }
func Password() string { return "[REDACTED_PASSWORD]" }
