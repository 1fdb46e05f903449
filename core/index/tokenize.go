package index

import (
	"strings"
	"unicode"

	"github.com/clipperhouse/uax29/v2/words"
	"golang.org/x/text/unicode/norm"
)

/*
Tokenize splits text into lower-cased words following UAX#29 word
boundaries. Segments without any letter or digit (spaces, punctuation)
are dropped. Each kept word takes the next position.
*/
func Tokenize(text string) []string {
	toks := words.FromString(norm.NFKC.String(text))
	var ans []string
	for toks.Next() {
		tok := toks.Value()
		if !isWord(tok) {
			continue
		}
		ans = append(ans, strings.ToLower(tok))
	}
	return ans
}

func isWord(tok string) bool {
	for _, r := range tok {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
