package crossref

import "strings"

// stripper removes the punctuation set . , / # ! $ % ^ & * ; : { } = - _ ` ~ ( )
var stripper = strings.NewReplacer(
	".", "", ",", "", "/", "", "#", "", "!", "", "$", "", "%", "",
	"^", "", "&", "", "*", "", ";", "", ":", "", "{", "", "}", "",
	"=", "", "-", "", "_", "", "`", "", "~", "", "(", "", ")", "",
)

// Normalize lower-cases text, strips punctuation and trims surrounding whitespace
func Normalize(text string) string {
	return strings.TrimSpace(stripper.Replace(strings.ToLower(text)))
}

// Tokenize splits normalized text on runs of whitespace
func Tokenize(text string) []string {
	return strings.Fields(Normalize(text))
}

// ExtractPhrases returns every two-word span of the text followed by every
// three-word span, each in left-to-right order. Duplicates are kept.
func ExtractPhrases(text string) []string {
	return phrasesOf(Tokenize(text))
}

func phrasesOf(words []string) []string {
	n := len(words)
	if n < 2 {
		return nil
	}

	count := n - 1
	if n >= 3 {
		count += n - 2
	}
	phrases := make([]string, 0, count)

	for i := 0; i+2 <= n; i++ {
		phrases = append(phrases, strings.Join(words[i:i+2], " "))
	}
	for i := 0; i+3 <= n; i++ {
		phrases = append(phrases, strings.Join(words[i:i+3], " "))
	}

	return phrases
}
