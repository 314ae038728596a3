// Package lexer implements exprlang's tokenizer: a character cursor with a
// LIFO save/restore stack for speculative reads, and a token stream built on
// top of it that the parser consumes.
//
// The save/restore mechanism generalizes the teacher's single-slot
// LexerState (CWBudde-go-dws's internal/lexer/lexer.go) into an
// arbitrary-depth stack, since speculative reads nest: the parser's
// callback lookahead stays open while the tokenizer saves and restores
// around each token reader it tries.
package lexer

import (
	"strconv"
	"strings"

	"github.com/cortesi/exprlang/exprerr"
	"github.com/cortesi/exprlang/token"
)

func isASCIIDigit(ch rune) bool { return ch >= '0' && ch <= '9' }

func isASCIIAlpha(ch rune) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

// State is a complete snapshot of the character cursor, sufficient to
// rewind a speculative read exactly, including the column lost when
// undoNextChar crosses a newline backward.
type State struct {
	charIndex int
	row       int
	col       int
	colStack  []int
}

func (s State) clone() State {
	cp := make([]int, len(s.colStack))
	copy(cp, s.colStack)
	s.colStack = cp
	return s
}

// Lexer is the tokenizer. It is single-threaded, stateful, and must not be
// shared across goroutines or parse sessions (see spec.md §5).
type Lexer struct {
	input []rune

	charIndex int
	row, col  int
	colStack  []int

	saved          []State
	stateCurTokens []*token.Token

	curToken  *token.Token
	lastToken token.Token
}

// New creates a Lexer over source.
func New(source string) *Lexer {
	return &Lexer{
		input: []rune(source),
		row:   1,
		col:   0,
	}
}

// --- character cursor ----------------------------------------------------

func (l *Lexer) hasNextChar() bool {
	return l.charIndex < len(l.input)
}

// nextChar consumes and returns the next character, advancing row/col.
func (l *Lexer) nextChar() rune {
	ch := l.input[l.charIndex]
	l.charIndex++
	if ch == '\n' {
		l.colStack = append(l.colStack, l.col)
		l.row++
		l.col = 0
	} else {
		l.col++
	}
	return ch
}

func (l *Lexer) peekNextChar() (rune, bool) {
	return l.peekCharAt(0)
}

func (l *Lexer) peekCharAt(n int) (rune, bool) {
	idx := l.charIndex + n
	if idx < 0 || idx >= len(l.input) {
		return 0, false
	}
	return l.input[idx], true
}

// previousChar returns the character just consumed, without moving the
// cursor, or false if nothing has been consumed yet.
func (l *Lexer) previousChar() (rune, bool) {
	if l.charIndex == 0 {
		return 0, false
	}
	return l.input[l.charIndex-1], true
}

// undoNextChar rewinds the cursor by one character, restoring row/col
// exactly, including across a newline.
func (l *Lexer) undoNextChar() {
	if l.charIndex == 0 {
		return
	}
	l.charIndex--
	ch := l.input[l.charIndex]
	if ch == '\n' {
		l.row--
		l.col = l.colStack[len(l.colStack)-1]
		l.colStack = l.colStack[:len(l.colStack)-1]
	} else {
		l.col--
	}
}

func isConsideredWhitespace(ch rune) bool {
	return ch == ' ' || ch == '\t' || ch == '\r'
}

// --- save/restore stack ---------------------------------------------------

// saveState pushes a snapshot of the character cursor onto the LIFO stack.
func (l *Lexer) saveState() {
	l.saved = append(l.saved, State{
		charIndex: l.charIndex,
		row:       l.row,
		col:       l.col,
		colStack:  l.colStack,
	}.clone())
}

// restoreState pops the top snapshot and rewinds the cursor to it (the
// speculative read failed).
func (l *Lexer) restoreState() {
	n := len(l.saved)
	s := l.saved[n-1]
	l.saved = l.saved[:n-1]
	l.charIndex = s.charIndex
	l.row = s.row
	l.col = s.col
	l.colStack = s.colStack
}

// discardState pops the top snapshot without rewinding (the speculative
// read succeeded and its effects are kept).
func (l *Lexer) discardState() {
	l.saved = l.saved[:len(l.saved)-1]
}

// --- token readers, trial order -------------------------------------------

type tokenReader struct {
	typ  token.Type
	read func(l *Lexer) (lexeme string, ok bool, err error)
}

// readers lists every candidate token form in the fixed trial order spec.md
// §4.1 requires: multi-character operators before their single-character
// prefixes, keywords/literals before bare IDENTIFIER, DOUBLE before LONG,
// STRING before any prefix character. DOUBLE is also tried before DOT, so a
// shorthand ".5" is read as a number rather than a member-access dot.
var readers = []tokenReader{
	{token.OPTIONAL_DOT, readLiteralOp("?.")},
	{token.OPTIONAL_BRACK, readLiteralOp("?[")},
	{token.OPTIONAL_PAREN, readLiteralOp("?(")},
	{token.NULL_COALESCE, readLiteralOp("??")},
	{token.ARROW, readLiteralOp("->")},
	{token.EQ_EXACT, readLiteralOp("===")},
	{token.NE_EXACT, readLiteralOp("!==")},
	{token.EQ, readLiteralOp("==")},
	{token.NE, readLiteralOp("!=")},
	{token.LE, readLiteralOp("<=")},
	{token.GE, readLiteralOp(">=")},
	{token.AND, readLiteralOp("&&")},
	{token.OR, readLiteralOp("||")},
	{token.ADD, readLiteralOp("+")},
	{token.SUB, readLiteralOp("-")},
	{token.MUL, readLiteralOp("*")},
	{token.DIV, readLiteralOp("/")},
	{token.MOD, readLiteralOp("%")},
	{token.POW, readLiteralOp("^")},
	{token.CONCAT, readLiteralOp("&")},
	{token.LT, readLiteralOp("<")},
	{token.GT, readLiteralOp(">")},
	{token.NOT, readLiteralOp("!")},
	{token.ASSIGN, readLiteralOp("=")},
	{token.LPAREN, readLiteralOp("(")},
	{token.RPAREN, readLiteralOp(")")},
	{token.LBRACKET, readLiteralOp("[")},
	{token.RBRACKET, readLiteralOp("]")},
	{token.COMMA, readLiteralOp(",")},
	{token.DOUBLE, readDouble},
	{token.DOT, readLiteralOp(".")},
	{token.LONG, readLong},
	{token.STRING, readString},
	{token.IDENTIFIER, readIdentifierOrKeyword},
}

func readLiteralOp(op string) func(l *Lexer) (string, bool, error) {
	runes := []rune(op)
	return func(l *Lexer) (string, bool, error) {
		for _, want := range runes {
			if !l.hasNextChar() {
				return "", false, nil
			}
			got, _ := l.peekNextChar()
			if got != want {
				return "", false, nil
			}
			l.nextChar()
		}
		return op, true, nil
	}
}

// readDouble and readLong never see a leading '-': the SUB reader sits
// earlier in the trial order and always claims a lone minus sign first, so
// negative numeric literals are produced by FlipSignExpression at parse
// time rather than by the lexeme itself.
func readDouble(l *Lexer) (string, bool, error) {
	var sb strings.Builder
	digitsBefore := 0
	for l.hasNextChar() {
		ch, _ := l.peekNextChar()
		if !isASCIIDigit(ch) {
			break
		}
		sb.WriteRune(l.nextChar())
		digitsBefore++
	}
	if !l.hasNextChar() {
		return "", false, nil
	}
	if ch, _ := l.peekNextChar(); ch != '.' {
		return "", false, nil
	}
	sb.WriteRune(l.nextChar())

	digitsAfter := 0
	for l.hasNextChar() {
		ch, _ := l.peekNextChar()
		if !isASCIIDigit(ch) {
			break
		}
		sb.WriteRune(l.nextChar())
		digitsAfter++
	}
	if digitsAfter == 0 {
		return "", false, nil
	}
	lexeme := sb.String()
	if digitsBefore == 0 {
		// shorthand ".5" normalizes to "0.5"
		lexeme = "0" + lexeme
	}
	return lexeme, true, nil
}

func readLong(l *Lexer) (string, bool, error) {
	var sb strings.Builder
	digits := 0
	for l.hasNextChar() {
		ch, _ := l.peekNextChar()
		if !isASCIIDigit(ch) {
			break
		}
		sb.WriteRune(l.nextChar())
		digits++
	}
	if digits == 0 {
		return "", false, nil
	}

	if l.hasNextChar() {
		if ch, _ := l.peekNextChar(); ch == 'e' {
			mark := sb.String()
			l.nextChar() // consume 'e'
			expDigits := 0
			var exp strings.Builder
			for l.hasNextChar() {
				ch, _ := l.peekNextChar()
				if !isASCIIDigit(ch) {
					break
				}
				exp.WriteRune(l.nextChar())
				expDigits++
			}
			if expDigits == 0 {
				l.undoNextChar() // not a valid exponent, put back 'e'
				return mark, true, nil
			}
			sb.WriteString("e")
			sb.WriteString(exp.String())
		}
	}
	return sb.String(), true, nil
}

func readString(l *Lexer) (string, bool, error) {
	if !l.hasNextChar() {
		return "", false, nil
	}
	startRow, startCol := l.row, l.col+1
	if ch, _ := l.peekNextChar(); ch != '"' {
		return "", false, nil
	}
	l.nextChar() // opening quote

	var sb strings.Builder
	for {
		if !l.hasNextChar() {
			return "", false, exprerr.NewUnterminatedStringError(startRow, startCol)
		}
		ch := l.nextChar()
		if ch == '\\' {
			if !l.hasNextChar() {
				return "", false, exprerr.NewUnterminatedStringError(startRow, startCol)
			}
			next := l.nextChar()
			if next == '"' {
				sb.WriteRune('"')
			} else {
				sb.WriteRune('\\')
				sb.WriteRune(next)
			}
			continue
		}
		if ch == '"' {
			return sb.String(), true, nil
		}
		sb.WriteRune(ch)
	}
}

func readIdentifierOrKeyword(l *Lexer) (string, bool, error) {
	if !l.hasNextChar() {
		return "", false, nil
	}
	first, _ := l.peekNextChar()
	if !isASCIIAlpha(first) {
		return "", false, nil
	}
	var sb strings.Builder
	sb.WriteRune(l.nextChar())
	for l.hasNextChar() {
		ch, _ := l.peekNextChar()
		if ch == '_' || isASCIIAlpha(ch) || isASCIIDigit(ch) {
			sb.WriteRune(l.nextChar())
			continue
		}
		break
	}
	return sb.String(), true, nil
}

// skipInvisible advances past whitespace, newlines, and '#'
// line comments — everything readNextToken never surfaces as a token.
func (l *Lexer) skipInvisible() {
	for {
		if l.hasNextChar() {
			if ch, _ := l.peekNextChar(); isConsideredWhitespace(ch) || ch == '\n' {
				l.nextChar()
				continue
			}
			if ch, _ := l.peekNextChar(); ch == '#' {
				for l.hasNextChar() {
					c, _ := l.peekNextChar()
					if c == '\n' {
						break
					}
					l.nextChar()
				}
				continue
			}
		}
		return
	}
}

// readNextToken implements spec.md §4.1's algorithm: skip whitespace, then
// try each reader in readers' fixed trial order, saving/restoring the
// cursor around each attempt.
func (l *Lexer) readNextToken() (token.Token, error) {
	l.skipInvisible()

	if !l.hasNextChar() {
		return token.Token{Type: token.EOF, Row: l.row, Col: l.col + 1}, nil
	}

	startRow, startCol := l.row, l.col+1

	for _, r := range readers {
		l.saveState()
		lexeme, ok, err := r.read(l)
		if err != nil {
			l.restoreState()
			return token.Token{}, err
		}
		if !ok {
			l.restoreState()
			continue
		}
		l.discardState()

		typ := r.typ
		if typ == token.IDENTIFIER {
			if kw, isKw := token.LookupKeyword(strings.ToLower(lexeme)); isKw {
				typ = kw
			}
		}
		return token.Token{Type: typ, Lexeme: lexeme, Row: startRow, Col: startCol}, nil
	}

	return token.Token{}, exprerr.NewUnknownTokenError(startRow, startCol)
}

// --- public token-stream API ----------------------------------------------

// PeekToken returns, without consuming, the next non-invisible token.
func (l *Lexer) PeekToken() (token.Token, error) {
	if l.curToken == nil {
		tok, err := l.readNextToken()
		if err != nil {
			return token.Token{}, err
		}
		l.curToken = &tok
	}
	return *l.curToken, nil
}

// ConsumeToken advances past and returns the next non-invisible token.
func (l *Lexer) ConsumeToken() (token.Token, error) {
	tok, err := l.PeekToken()
	if err != nil {
		return token.Token{}, err
	}
	l.curToken = nil
	l.lastToken = tok
	return tok, nil
}

// PreviousToken returns the most recently consumed token.
func (l *Lexer) PreviousToken() token.Token {
	return l.lastToken
}

// --- parser-facing speculative save/restore -------------------------------

// SaveState snapshots the full tokenizer state (cursor plus any buffered
// peeked token) for the parser's speculative lookahead.
func (l *Lexer) SaveState() {
	var cur *token.Token
	if l.curToken != nil {
		t := *l.curToken
		cur = &t
	}
	l.saved = append(l.saved, State{
		charIndex: l.charIndex,
		row:       l.row,
		col:       l.col,
		colStack:  l.colStack,
	}.clone())
	l.stateCurTokens = append(l.stateCurTokens, cur)
}

// RestoreState rewinds to the matching SaveState checkpoint.
func (l *Lexer) RestoreState() {
	n := len(l.saved)
	s := l.saved[n-1]
	l.saved = l.saved[:n-1]
	l.charIndex = s.charIndex
	l.row = s.row
	l.col = s.col
	l.colStack = s.colStack

	m := len(l.stateCurTokens)
	l.curToken = l.stateCurTokens[m-1]
	l.stateCurTokens = l.stateCurTokens[:m-1]
}

// DiscardState commits the matching SaveState checkpoint.
func (l *Lexer) DiscardState() {
	l.saved = l.saved[:len(l.saved)-1]
	l.stateCurTokens = l.stateCurTokens[:len(l.stateCurTokens)-1]
}

// SaveDepth reports the current nesting depth of the save/restore stack.
// Used by tests asserting spec.md §8's save-state balance property.
func (l *Lexer) SaveDepth() int {
	return len(l.saved)
}

// ParseLong converts a LONG token's lexeme (with its optional integer
// exponent, per spec.md §3) into an int64, truncating on overflow the same
// way a fixed-width accumulator would.
func ParseLong(lexeme string) int64 {
	mantissaPart := lexeme
	exp := 0
	if idx := strings.IndexByte(lexeme, 'e'); idx >= 0 {
		mantissaPart = lexeme[:idx]
		e, _ := strconv.Atoi(lexeme[idx+1:])
		exp = e
	}
	mantissa, _ := strconv.ParseInt(mantissaPart, 10, 64)
	for i := 0; i < exp; i++ {
		mantissa *= 10
	}
	return mantissa
}

// ParseDouble converts a DOUBLE token's (already shorthand-normalized)
// lexeme into a float64.
func ParseDouble(lexeme string) float64 {
	f, _ := strconv.ParseFloat(lexeme, 64)
	return f
}
