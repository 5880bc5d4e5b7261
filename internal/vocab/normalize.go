package vocab

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// NormConfig controls corpus text normalization.
type NormConfig struct {
	Lowercase     bool
	RemoveAccents bool
	NFKC          bool

	// ReplacePunct substitutes punctuation with symbolic tokens
	// (e.g. "." -> "<PERIOD>") so punctuation participates in training as
	// ordinary vocabulary entries instead of gluing words together.
	ReplacePunct bool
}

// DefaultNormConfig matches the preprocessing used for the bundled corpora.
func DefaultNormConfig() NormConfig {
	return NormConfig{Lowercase: true, NFKC: true, ReplacePunct: true}
}

// punctTokens maps punctuation to its symbolic vocabulary token.
var punctTokens = map[string]string{
	".":  " <PERIOD> ",
	",":  " <COMMA> ",
	"\"": " <QUOTATION_MARK> ",
	";":  " <SEMICOLON> ",
	"!":  " <EXCLAMATION_MARK> ",
	"?":  " <QUESTION_MARK> ",
	"(":  " <LEFT_PAREN> ",
	")":  " <RIGHT_PAREN> ",
	"--": " <HYPHENS> ",
	":":  " <COLON> ",
}

// Normalizer handles corpus text normalization.
type Normalizer struct {
	cfg NormConfig
}

// NewNormalizer creates a normalizer for the given configuration.
func NewNormalizer(cfg NormConfig) Normalizer {
	return Normalizer{cfg: cfg}
}

// Normalize normalizes raw text.
func (n Normalizer) Normalize(text string) string {
	if n.cfg.NFKC {
		text = norm.NFKC.String(text)
	}
	if n.cfg.RemoveAccents {
		text = removeAccents(text)
	}
	if n.cfg.Lowercase {
		text = strings.ToLower(text)
	}
	if n.cfg.ReplacePunct {
		// Longest markers first so "--" is not consumed as two hyphens.
		text = strings.ReplaceAll(text, "--", punctTokens["--"])
		for p, tok := range punctTokens {
			if p == "--" {
				continue
			}
			text = strings.ReplaceAll(text, p, tok)
		}
	}
	return text
}

// Tokenize normalizes text and splits it into whitespace-delimited tokens.
func (n Normalizer) Tokenize(text string) []string {
	return strings.Fields(n.Normalize(text))
}

// removeAccents strips diacritical marks via NFD decomposition.
func removeAccents(s string) string {
	t := norm.NFD.String(s)

	var result strings.Builder
	result.Grow(len(t))
	for _, r := range t {
		if !unicode.Is(unicode.Mn, r) {
			result.WriteRune(r)
		}
	}
	return result.String()
}
