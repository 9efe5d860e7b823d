package utils

import "testing"

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{5000, "5,000"},
		{120000, "120,000"},
		{1234567, "1,234,567"},
		{-5000, "-5,000"},
	}

	for _, tt := range tests {
		if got := FormatPrice(tt.in); got != tt.want {
			t.Errorf("FormatPrice(%d) = %q, ожидалось %q", tt.in, got, tt.want)
		}
	}
}

func TestEscapeHTML(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"oddiy matn", "oddiy matn"},
		{"<b>qalin</b>", "&lt;b&gt;qalin&lt;/b&gt;"},
		{"A & B", "A &amp; B"},
	}

	for _, tt := range tests {
		if got := EscapeHTML(tt.in); got != tt.want {
			t.Errorf("EscapeHTML(%q) = %q, ожидалось %q", tt.in, got, tt.want)
		}
	}
}
