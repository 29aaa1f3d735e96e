package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookupIdentifier(t *testing.T) {
	tests := []struct {
		word     string
		expected Kind
	}{
		{"return", RETURN},
		{"if", IF},
		{"else", ELSE},
		{"while", WHILE},
		{"for", FOR},
		{"break", BREAK},
		{"returning", IDENT},
		{"iffy", IDENT},
		{"x", IDENT},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, LookupIdentifier(tt.word), "word %q", tt.word)
	}
}

func TestTokenIs(t *testing.T) {
	tok := Token{Kind: PUNCT, Lit: "+"}
	assert.True(t, tok.Is("+"))
	assert.False(t, tok.Is("-"))

	ident := Token{Kind: IDENT, Lit: "if"}
	assert.False(t, ident.Is("if"), "an identifier literally spelled 'if' would never occur, but Is must not confuse it with the keyword")
}
