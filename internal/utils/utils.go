package utils

import (
	"strconv"
	"strings"
)

// FormatPrice форматирует сумму с разделителями тысяч: 120000 -> "120,000"
func FormatPrice(n int64) string {
	s := strconv.FormatInt(n, 10)

	negative := strings.HasPrefix(s, "-")
	if negative {
		s = s[1:]
	}

	var result strings.Builder
	for i, digit := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			result.WriteByte(',')
		}
		result.WriteRune(digit)
	}

	if negative {
		return "-" + result.String()
	}
	return result.String()
}

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
)

// EscapeHTML экранирует пользовательский текст перед вставкой в
// HTML-сообщения Telegram
func EscapeHTML(text string) string {
	return htmlEscaper.Replace(text)
}
