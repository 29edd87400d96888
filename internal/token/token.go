// Package token defines the lexical tokens internal/lexer produces and
// internal/parser consumes — the thin frontend contract spec §1 treats as
// "an external collaborator" (SPEC_FULL §C), grounded in the teacher's own
// token.Token shape (Type/Lexeme/Literal/Line/Column).
package token

// TokenType discriminates a lexed token.
type TokenType int

const (
	ILLEGAL TokenType = iota
	EOF
	NEWLINE

	IDENT  // lowercase-leading identifier
	UIDENT // uppercase-leading identifier (class/type name)
	INT
	FLOAT
	STRING

	// Keywords.
	CLASS
	DEF
	ATTR
	PRIVATE
	IF
	THEN
	ELSE
	FOR
	DO
	END
	RETURN
	IMPORT
	SELF
	SUPER
	TRUE
	FALSE
	NULL
	AND
	OR
	NOT

	// Punctuation/operators.
	ASSIGN    // =
	PLUS      // +
	MINUS     // -
	ASTERISK  // *
	SLASH     // /
	PERCENT   // %
	EQ        // ==
	NEQ       // !=
	LT        // <
	LTE       // <=
	GT        // >
	GTE       // >=
	AMP       // &
	PIPE      // |
	CARET     // ^
	TILDE     // ~
	COLONCOLON // ::
	LANGLECOLON // <:
	DOT       // .
	COMMA     // ,
	SEMI      // ;
	LPAREN
	RPAREN
	LBRACE
	RBRACE
	LBRACKET
	RBRACKET
)

var names = map[TokenType]string{
	ILLEGAL: "ILLEGAL", EOF: "EOF", NEWLINE: "NEWLINE",
	IDENT: "IDENT", UIDENT: "UIDENT", INT: "INT", FLOAT: "FLOAT", STRING: "STRING",
	CLASS: "class", DEF: "def", ATTR: "attr", PRIVATE: "private", IF: "if",
	THEN: "then", ELSE: "else", FOR: "for", DO: "do", END: "end",
	RETURN: "return", IMPORT: "import", SELF: "self", SUPER: "super",
	TRUE: "true", FALSE: "false", NULL: "null", AND: "and", OR: "or", NOT: "not",
	ASSIGN: "=", PLUS: "+", MINUS: "-", ASTERISK: "*", SLASH: "/", PERCENT: "%",
	EQ: "==", NEQ: "!=", LT: "<", LTE: "<=", GT: ">", GTE: ">=",
	AMP: "&", PIPE: "|", CARET: "^", TILDE: "~",
	COLONCOLON: "::", LANGLECOLON: "<:", DOT: ".", COMMA: ",", SEMI: ";",
	LPAREN: "(", RPAREN: ")", LBRACE: "{", RBRACE: "}", LBRACKET: "[", RBRACKET: "]",
}

func (t TokenType) String() string {
	if s, ok := names[t]; ok {
		return s
	}
	return "UNKNOWN"
}

var keywords = map[string]TokenType{
	"class": CLASS, "def": DEF, "attr": ATTR, "private": PRIVATE,
	"if": IF, "then": THEN, "else": ELSE, "for": FOR, "do": DO, "end": END,
	"return": RETURN, "import": IMPORT, "self": SELF, "super": SUPER,
	"true": TRUE, "false": FALSE, "null": NULL,
	"and": AND, "or": OR, "not": NOT,
}

// LookupIdent classifies a scanned lowercase-leading word as a keyword or
// a plain identifier.
func LookupIdent(ident string) TokenType {
	if t, ok := keywords[ident]; ok {
		return t
	}
	return IDENT
}

// Token is one lexical unit: its type, the exact source text (Lexeme), a
// decoded Literal for INT/FLOAT/STRING, and its source position.
type Token struct {
	Type   TokenType
	Lexeme string
	Literal any
	Line   int
	Column int
}
