package index

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTokenize(t *testing.T) {
	for text, expected := range map[string][]string{
		"The quick, brown fox!": {"the", "quick", "brown", "fox"},
		"  spaces   only  ":     {"spaces", "only"},
		"it's 3.14 o'clock":     {"it's", "3.14", "o'clock"},
		"ﬁne Ｆｕｌｌ":              {"fine", "full"},
		"Äpfel und Birnen":      {"äpfel", "und", "birnen"},
		"...":                   nil,
		"":                      nil,
	} {
		require.Equal(t, expected, Tokenize(text), text)
	}
}
