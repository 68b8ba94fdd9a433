package lexer

import (
	"testing"

	"github.com/klauskaan/cal-language-core/token"
)

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func TestNextTokenStructuralBraces(t *testing.T) {
	src := `OBJECT Table 18 Customer
{
  PROPERTIES
  {
    CaptionML=ENU=Customer;
  }
}`
	toks := Tokenize(src)
	want := []token.Kind{
		token.OBJECT, token.TABLE, token.INT, token.IDENT,
		token.LBRACE,
		token.PROPERTIES,
		token.LBRACE,
		token.IDENT, token.EQ, token.IDENT, token.EQ, token.IDENT, token.SEMICOLON,
		token.RBRACE,
		token.RBRACE,
		token.EOF,
	}
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("token count = %d, want %d\ngot kinds: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestLegacyCommentBrace(t *testing.T) {
	// A '{' following an identifier (not a section keyword or another
	// brace) opens a legacy Pascal-style comment, not a structural brace.
	src := `X := 1 {this is a comment} + 2;`
	toks := TokenizeFiltered(src, true)
	var sawComment bool
	for _, tok := range toks {
		if tok.Kind == token.COMMENT {
			sawComment = true
			if tok.Literal != "{this is a comment}" {
				t.Errorf("comment literal = %q", tok.Literal)
			}
		}
		if tok.Kind == token.LBRACE || tok.Kind == token.RBRACE {
			t.Errorf("expected no structural braces, got %v", tok.Kind)
		}
	}
	if !sawComment {
		t.Error("expected a COMMENT token")
	}
}

func TestAtSuffixFoldedIntoIdentifier(t *testing.T) {
	toks := Tokenize("CustSetup@1000 : Record 79;")
	if toks[0].Kind != token.IDENT || toks[0].Literal != "CustSetup" {
		t.Errorf("first token = %+v, want IDENT CustSetup", toks[0])
	}
	if toks[1].Kind != token.COLON {
		t.Errorf("second token kind = %v, want COLON", toks[1].Kind)
	}
}

func TestDateTimeLiterals(t *testing.T) {
	toks := Tokenize(`D'01-01-20' T'10:00:00' DT'01-01-20 10:00:00'`)
	wantKinds := []token.Kind{token.DATE_LIT, token.TIME_LIT, token.DATETIME_LIT, token.EOF}
	got := kinds(toks)
	for i, w := range wantKinds {
		if got[i] != w {
			t.Errorf("token %d kind = %v, want %v", i, got[i], w)
		}
	}
	if toks[0].Literal != "01-01-20" {
		t.Errorf("date literal = %q", toks[0].Literal)
	}
}

func TestQuotedIdentifierStripsQuotes(t *testing.T) {
	toks := Tokenize(`"No."`)
	if toks[0].Kind != token.QUOTED_IDENT {
		t.Fatalf("kind = %v, want QUOTED_IDENT", toks[0].Kind)
	}
	if toks[0].Literal != "No." {
		t.Errorf("literal = %q, want No.", toks[0].Literal)
	}
}

func TestStringEscapedQuote(t *testing.T) {
	toks := Tokenize(`'You cannot rename a %1.'`)
	if toks[0].Kind != token.STRING {
		t.Fatalf("kind = %v, want STRING", toks[0].Kind)
	}
	toks2 := Tokenize(`'it''s fine'`)
	if toks2[0].Literal != "it's fine" {
		t.Errorf("literal = %q, want it's fine", toks2[0].Literal)
	}
}

func TestTokenizeWithTriviaReconstructsSource(t *testing.T) {
	src := "OBJECT Table 18 Customer\n{\n  PROPERTIES\n  {\n  }\n}\n"
	toks := TokenizeWithTrivia(src)
	var rebuilt string
	for _, tok := range toks {
		rebuilt += src[tok.Start:tok.End]
	}
	if rebuilt != src {
		t.Errorf("reconstructed source mismatch:\ngot:  %q\nwant: %q", rebuilt, src)
	}
}

func TestDecimalVsIntAndRange(t *testing.T) {
	toks := Tokenize("1..5 3.14")
	if toks[0].Kind != token.INT || toks[0].Literal != "1" {
		t.Errorf("token 0 = %+v", toks[0])
	}
	if toks[1].Kind != token.RANGE {
		t.Errorf("token 1 kind = %v, want RANGE", toks[1].Kind)
	}
	if toks[2].Kind != token.INT || toks[2].Literal != "5" {
		t.Errorf("token 2 = %+v", toks[2])
	}
	if toks[3].Kind != token.DECIMAL || toks[3].Literal != "3.14" {
		t.Errorf("token 3 = %+v, want DECIMAL 3.14", toks[3])
	}
}

func TestFromTokensReplaysSlice(t *testing.T) {
	original := Tokenize("Sum(Amount)")
	l := FromTokens(original)
	for i := 0; i < len(original); i++ {
		got := l.NextToken()
		if got.Kind != original[i].Kind {
			t.Errorf("replay %d: kind = %v, want %v", i, got.Kind, original[i].Kind)
		}
	}
	// Past the end, FromTokens keeps returning the final (EOF) token.
	if l.NextToken().Kind != token.EOF {
		t.Error("expected EOF after replaying past the end")
	}
}

func TestTokenPositionsAreMonotonicNonOverlapping(t *testing.T) {
	src := `OBJECT Table 18 Customer
{
  PROPERTIES
  {
    CaptionML=ENU=Customer;
  }
  CODE
  {
    BEGIN
    END.
  }
}`
	toks := Tokenize(src)
	for i := 1; i < len(toks); i++ {
		prev, cur := toks[i-1], toks[i]
		if cur.Start < prev.End {
			t.Fatalf("token %d (%+v) starts before token %d (%+v) ends", i, cur, i-1, prev)
		}
		if cur.End < cur.Start {
			t.Errorf("token %d has End < Start: %+v", i, cur)
		}
	}
}

func TestKeywordsAreCaseInsensitive(t *testing.T) {
	variants := []string{"OBJECT", "object", "Object", "ObJeCt"}
	for _, v := range variants {
		toks := Tokenize(v + " Table 1 X {}")
		if toks[0].Kind != token.OBJECT {
			t.Errorf("Tokenize(%q)[0].Kind = %v, want OBJECT", v, toks[0].Kind)
		}
	}
	mixedCase := Tokenize("local procedure Foo(); begin end;")
	wantKinds := []token.Kind{token.LOCAL, token.PROCEDURE}
	for i, w := range wantKinds {
		if mixedCase[i].Kind != w {
			t.Errorf("token %d kind = %v, want %v", i, mixedCase[i].Kind, w)
		}
	}
}
