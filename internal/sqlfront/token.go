package sqlfront

import "fmt"

// TokenKind identifies the lexical category of a Token.
type TokenKind uint8

const (
	EOF TokenKind = iota
	Select
	From
	Where
	NullKw
	Not
	Like
	ILike
	Ident
	QIdent
	Num
	Comma
	SemiColon
	LParen
	RParen
	Star
	Plus
	Minus
	Div
	Equal
	NotEq
	LT
	LTEQ
	GT
	GTEQ
	Illegal
)

func (k TokenKind) String() string {
	switch k {
	case EOF:
		return "EOF"
	case Select:
		return "SELECT"
	case From:
		return "FROM"
	case Where:
		return "WHERE"
	case NullKw:
		return "NULL"
	case Not:
		return "NOT"
	case Like:
		return "LIKE"
	case ILike:
		return "ILIKE"
	case Ident:
		return "Ident"
	case QIdent:
		return "QIdent"
	case Num:
		return "Num"
	case Comma:
		return ","
	case SemiColon:
		return ";"
	case LParen:
		return "("
	case RParen:
		return ")"
	case Star:
		return "*"
	case Plus:
		return "+"
	case Minus:
		return "-"
	case Div:
		return "/"
	case Equal:
		return "="
	case NotEq:
		return "!="
	case LT:
		return "<"
	case LTEQ:
		return "<="
	case GT:
		return ">"
	case GTEQ:
		return ">="
	case Illegal:
		return "Illegal"
	default:
		return "Unknown"
	}
}

// Token is one lexical unit produced by the Lexer. Str carries the literal
// text for Ident/QIdent/Illegal; Num carries the parsed integer value.
type Token struct {
	Kind TokenKind
	Str string
	Num int64
}

func (t Token) String() string {
	switch t.Kind {
	case Ident, QIdent, Illegal:
		return fmt.Sprintf("%s(%q)", t.Kind, t.Str)
	case Num:
		return fmt.Sprintf("Num(%d)", t.Num)
	default:
		return t.Kind.String()
	}
}

var keywords = map[string]TokenKind{
	"select": Select,
	"from": From,
	"where": Where,
	"null": NullKw,
	"not": Not,
	"like": Like,
	"ilike": ILike,
}
