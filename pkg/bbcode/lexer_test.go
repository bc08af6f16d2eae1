package bbcode

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tok(typ TokenType, line, col, off int, text string) Token {
	return Token{Type: typ, Pos: Position{Line: line, Column: col, Offset: off}, Text: text}
}

func TestLex_PlainText(t *testing.T) {
	tokens := Lex("test")
	assert.Equal(t, []Token{
		tok(TokenLiteral, 0, 0, 0, "test"),
		tok(TokenEnd, 0, 4, 4, ""),
	}, tokens)
}

func TestLex_Constant(t *testing.T) {
	tokens := Lex(":)")
	assert.Equal(t, []Token{
		tok(TokenConstant, 0, 0, 0, ":)"),
		tok(TokenEnd, 0, 2, 2, ""),
	}, tokens)
}

func TestLex_ParametricTag(t *testing.T) {
	tokens := Lex("[size=1]hello :)[/size]\n")
	assert.Equal(t, []Token{
		tok(TokenOpenTagLeft, 0, 0, 0, ""),
		tok(TokenLiteral, 0, 1, 1, "size"),
		tok(TokenEqual, 0, 5, 5, ""),
		tok(TokenLiteral, 0, 6, 6, "1"),
		tok(TokenTagRight, 0, 7, 7, ""),
		tok(TokenLiteral, 0, 8, 8, "hello "),
		tok(TokenConstant, 0, 14, 14, ":)"),
		tok(TokenCloseTagLeft, 0, 16, 16, ""),
		tok(TokenLiteral, 0, 18, 18, "size"),
		tok(TokenTagRight, 0, 22, 22, ""),
		tok(TokenNewline, 0, 23, 23, ""),
		tok(TokenEnd, 1, 0, 24, ""),
	}, tokens)
}

func TestLex_Positions(t *testing.T) {
	t.Run("lines", func(t *testing.T) {
		tokens := Lex("ab\ncd")
		assert.Equal(t, []Token{
			tok(TokenLiteral, 0, 0, 0, "ab"),
			tok(TokenNewline, 0, 2, 2, ""),
			tok(TokenLiteral, 1, 0, 3, "cd"),
			tok(TokenEnd, 1, 2, 5, ""),
		}, tokens)
	})

	t.Run("columns count runes", func(t *testing.T) {
		tokens := Lex("你好[b]")
		require.Len(t, tokens, 5)
		assert.Equal(t, tok(TokenLiteral, 0, 0, 0, "你好"), tokens[0])
		assert.Equal(t, tok(TokenOpenTagLeft, 0, 2, 6, ""), tokens[1])
		assert.Equal(t, tok(TokenLiteral, 0, 3, 7, "b"), tokens[2])
	})
}

func TestLex_ConstantSplitting(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Token
	}{
		{
			"prefix text",
			"hi:)",
			[]Token{tok(TokenLiteral, 0, 0, 0, "hi"), tok(TokenConstant, 0, 2, 2, ":)"), tok(TokenEnd, 0, 4, 4, "")},
		},
		{
			"failed match is not rescanned",
			"::)",
			[]Token{tok(TokenLiteral, 0, 0, 0, "::)"), tok(TokenEnd, 0, 3, 3, "")},
		},
		{
			"abandoned match stays text",
			"a:-(",
			[]Token{tok(TokenLiteral, 0, 0, 0, "a:-("), tok(TokenEnd, 0, 4, 4, "")},
		},
		{
			"adjacent constants",
			":):(",
			[]Token{tok(TokenConstant, 0, 0, 0, ":)"), tok(TokenConstant, 0, 2, 2, ":("), tok(TokenEnd, 0, 4, 4, "")},
		},
		{
			"match broken by structural byte",
			":]",
			[]Token{tok(TokenLiteral, 0, 0, 0, ":"), tok(TokenTagRight, 0, 1, 1, ""), tok(TokenEnd, 0, 2, 2, "")},
		},
		{
			"long constant",
			"x{:1_03:}y",
			[]Token{
				tok(TokenLiteral, 0, 0, 0, "x"),
				tok(TokenConstant, 0, 1, 1, "{:1_03:}"),
				tok(TokenLiteral, 0, 9, 9, "y"),
				tok(TokenEnd, 0, 10, 10, ""),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Lex(tt.input))
		})
	}
}

func TestLex_TagLeft(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []TokenType
	}{
		{"open", "[b]", []TokenType{TokenOpenTagLeft, TokenLiteral, TokenTagRight, TokenEnd}},
		{"close", "[/b]", []TokenType{TokenCloseTagLeft, TokenLiteral, TokenTagRight, TokenEnd}},
		{"trailing bracket", "a[", []TokenType{TokenLiteral, TokenOpenTagLeft, TokenEnd}},
		{"double bracket", "[[", []TokenType{TokenOpenTagLeft, TokenOpenTagLeft, TokenEnd}},
		{"bracket before newline", "[\n", []TokenType{TokenOpenTagLeft, TokenNewline, TokenEnd}},
		{"equal", "a=b", []TokenType{TokenLiteral, TokenEqual, TokenLiteral, TokenEnd}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []TokenType
			for _, tk := range Lex(tt.input) {
				got = append(got, tk.Type)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLex_SourceRoundTrip(t *testing.T) {
	inputs := []string{
		"",
		"plain",
		"[b]bold[/b]",
		"[size=1]hello :)[/size]\n",
		"[[/]]==\n\n[/",
		"[url=http://x.y/?a=b]link[/url]",
		"::):-(:-){:1_0{:1_06:}",
		"中文 [i]斜体[/i] :(\r\n",
		"[code][b]x[/code]",
		"[",
	}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			var sb strings.Builder
			tokens := Lex(in)
			for _, tk := range tokens {
				sb.WriteString(tk.Source())
			}
			assert.Equal(t, in, sb.String())
			assert.Equal(t, TokenEnd, tokens[len(tokens)-1].Type)
		})
	}
}

func TestLexer_StreamingMatchesWhole(t *testing.T) {
	input := "[color=Red]hi :) there[/color]\n[*]x"

	var streamed []Token
	lx := NewLexer(nil, func(tk Token) { streamed = append(streamed, tk) })
	for i := 0; i < len(input); i++ {
		require.NoError(t, lx.Put(input[i]))
	}
	require.NoError(t, lx.Finish())

	assert.Equal(t, Lex(input), streamed)
}

func TestLexer_WriteAfterFinish(t *testing.T) {
	lx := NewLexer(nil, nil)
	n, err := lx.Write([]byte("abc"))
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	require.NoError(t, lx.Finish())

	assert.ErrorIs(t, lx.Put('x'), ErrLexerFinished)
	_, err = lx.WriteString("x")
	assert.ErrorIs(t, err, ErrLexerFinished)
	assert.ErrorIs(t, lx.Finish(), ErrLexerFinished)
}

func TestLex_CustomTrie(t *testing.T) {
	tr, err := BuildTrie([]string{"<3"})
	require.NoError(t, err)

	tokens := Lex("<3 :)", WithTrie(tr))
	assert.Equal(t, []Token{
		tok(TokenConstant, 0, 0, 0, "<3"),
		tok(TokenLiteral, 0, 2, 2, " :)"),
		tok(TokenEnd, 0, 5, 5, ""),
	}, tokens)
}

func TestPosition_Advance(t *testing.T) {
	p := Position{}.Advance("ab\n你x")
	assert.Equal(t, Position{Line: 1, Column: 2, Offset: 7}, p)
	assert.Equal(t, "2:3", p.String())
}
