package mathjax

import "testing"

func TestNormalizeTeX(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"plain", "x^2 + y^2", "x^2 + y^2"},
		{"escaped underscore", `a\_1`, `a_1`},
		{"escaped star", `a\*b`, `a*b`},
		{"escaped brace", `\{x\}`, `{x}`},
		{"control sequence kept", `\frac{a}{b}`, `\frac{a}{b}`},
		{"escaped space kept", `a\ b`, `a\ b`},
		{"escaped percent kept", `50\%`, `50\%`},
		{"line break kept", `a \\ b`, `a \\ b`},
		{"entities", "a &lt; b &gt; c", "a < b > c"},
		{"over-escaped line break", `a \\\\ b`, `a \\ b`},
		{"eight backslashes", `\\\\\\\\`, `\\\\`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeTeX(tt.input); got != tt.want {
				t.Errorf("NormalizeTeX(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeTeX_Idempotent(t *testing.T) {
	inputs := []string{
		"x^2",
		`\sum_{i=1}^{n} i`,
		`\alpha + \beta`,
		`a \\ b`,
		"E=mc^2",
	}
	for _, in := range inputs {
		once := NormalizeTeX(in)
		if twice := NormalizeTeX(once); twice != once {
			t.Errorf("NormalizeTeX not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestDecodeEntities(t *testing.T) {
	if got := DecodeEntities(`x &lt; \{y\}`); got != `x < \{y\}` {
		t.Errorf("DecodeEntities() = %q", got)
	}
}
