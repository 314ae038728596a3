// Package parser implements exprlang's precedence-climbing recursive-descent
// parser: an ordered ladder of parsing functions, from lowest precedence
// (assignment) to highest (primary), each either parsing its own form or
// delegating to the next level up.
package parser

import (
	"github.com/cortesi/exprlang/ast"
	"github.com/cortesi/exprlang/exprerr"
	"github.com/cortesi/exprlang/lexer"
	"github.com/cortesi/exprlang/token"
)

// Parser turns a token stream into a Program. It is single-use: create one
// per source string via New or NewFromLexer.
type Parser struct {
	lex *lexer.Lexer
	cur token.Token
}

// New creates a Parser over source.
func New(source string) (*Parser, error) {
	return NewFromLexer(lexer.New(source))
}

// NewFromLexer creates a Parser over an already-constructed Lexer, priming
// the first token.
func NewFromLexer(l *lexer.Lexer) (*Parser, error) {
	p := &Parser{lex: l}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Parser) advance() error {
	tok, err := p.lex.ConsumeToken()
	if err != nil {
		return err
	}
	p.cur = tok
	return nil
}

func (p *Parser) is(types ...token.Type) bool {
	for _, t := range types {
		if p.cur.Type == t {
			return true
		}
	}
	return false
}

// expect consumes the current token if it matches one of types, otherwise
// raises UnexpectedTokenError.
func (p *Parser) expect(types ...token.Type) (token.Token, error) {
	if !p.is(types...) {
		return token.Token{}, exprerr.NewUnexpectedTokenError(p.cur, types...)
	}
	tok := p.cur
	if err := p.advance(); err != nil {
		return token.Token{}, err
	}
	return tok, nil
}

// peek returns the token after cur without consuming it.
func (p *Parser) peek() (token.Token, error) {
	return p.lex.PeekToken()
}

// Parse parses the full token stream into a Program. Per the grammar,
// program := expression+: each top-level expression is parsed greedily and
// terminates naturally when the next token can't extend it, since line
// separation is whitespace-only (no statement terminator token).
func Parse(source string) (*ast.Program, error) {
	p, err := New(source)
	if err != nil {
		return nil, err
	}
	return p.ParseProgram()
}

// ParseProgram parses every line until EOF.
func (p *Parser) ParseProgram() (*ast.Program, error) {
	head := p.cur
	var lines []ast.Expression
	for !p.is(token.EOF) {
		line, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	tail := p.cur
	if len(lines) == 0 {
		return nil, exprerr.NewUnexpectedTokenError(p.cur, token.LONG, token.DOUBLE, token.STRING, token.IDENTIFIER)
	}
	return ast.NewProgram(head, tail, lines), nil
}

// parseExpression is the ladder's entry point: level 1, assignment.
func (p *Parser) parseExpression() (ast.Expression, error) {
	return p.parseAssignment()
}

// --- level 1: assignment (right-associative, identifier LHS only) ---------

func (p *Parser) parseAssignment() (ast.Expression, error) {
	if p.is(token.IDENTIFIER) {
		peeked, err := p.peek()
		if err != nil {
			return nil, err
		}
		if peeked.Type == token.ASSIGN {
			head := p.cur
			lhs := ast.NewIdentifier(p.cur)
			if err := p.advance(); err != nil { // consume identifier
				return nil, err
			}
			if _, err := p.expect(token.ASSIGN); err != nil {
				return nil, err
			}
			rhs, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			return ast.NewAssignment(head, rhs.Tail(), lhs, rhs), nil
		}
	}
	return p.parseNullCoalesce()
}

// --- level 2: null-coalesce -------------------------------------------------

func (p *Parser) parseNullCoalesce() (ast.Expression, error) {
	lhs, err := p.parseConcatenation()
	if err != nil {
		return nil, err
	}
	for p.is(token.NULL_COALESCE) {
		head := lhs.Head()
		if err := p.advance(); err != nil {
			return nil, err
		}
		rhs, err := p.parseConcatenation()
		if err != nil {
			return nil, err
		}
		lhs = ast.NewNullCoalesce(head, rhs.Tail(), lhs, rhs)
	}
	return lhs, nil
}

// --- level 3: concatenation --------------------------------------------------

func (p *Parser) parseConcatenation() (ast.Expression, error) {
	lhs, err := p.parseDisjunction()
	if err != nil {
		return nil, err
	}
	for p.is(token.CONCAT) {
		head := lhs.Head()
		if err := p.advance(); err != nil {
			return nil, err
		}
		rhs, err := p.parseDisjunction()
		if err != nil {
			return nil, err
		}
		lhs = ast.NewConcatenation(head, rhs.Tail(), lhs, rhs)
	}
	return lhs, nil
}

// --- level 4: disjunction (non-short-circuit) -------------------------------

func (p *Parser) parseDisjunction() (ast.Expression, error) {
	lhs, err := p.parseConjunction()
	if err != nil {
		return nil, err
	}
	for p.is(token.OR) {
		head := lhs.Head()
		if err := p.advance(); err != nil {
			return nil, err
		}
		rhs, err := p.parseConjunction()
		if err != nil {
			return nil, err
		}
		lhs = ast.NewDisjunction(head, rhs.Tail(), lhs, rhs)
	}
	return lhs, nil
}

// --- level 5: conjunction (non-short-circuit) -------------------------------

func (p *Parser) parseConjunction() (ast.Expression, error) {
	lhs, err := p.parseEquality()
	if err != nil {
		return nil, err
	}
	for p.is(token.AND) {
		head := lhs.Head()
		if err := p.advance(); err != nil {
			return nil, err
		}
		rhs, err := p.parseEquality()
		if err != nil {
			return nil, err
		}
		lhs = ast.NewConjunction(head, rhs.Tail(), lhs, rhs)
	}
	return lhs, nil
}

// --- level 6: equality ------------------------------------------------------

var equalityOps = map[token.Type]ast.EqualityOp{
	token.EQ:       ast.EQ,
	token.NE:       ast.NE,
	token.EQ_EXACT: ast.EQExact,
	token.NE_EXACT: ast.NEExact,
}

func (p *Parser) parseEquality() (ast.Expression, error) {
	lhs, err := p.parseComparison()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := equalityOps[p.cur.Type]
		if !ok {
			return lhs, nil
		}
		head := lhs.Head()
		if err := p.advance(); err != nil {
			return nil, err
		}
		rhs, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		lhs = ast.NewEquality(head, rhs.Tail(), lhs, rhs, op)
	}
}

// --- level 7: comparison -----------------------------------------------------

var comparisonOps = map[token.Type]ast.ComparisonOp{
	token.LT: ast.LT,
	token.LE: ast.LE,
	token.GT: ast.GT,
	token.GE: ast.GE,
}

func (p *Parser) parseComparison() (ast.Expression, error) {
	lhs, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := comparisonOps[p.cur.Type]
		if !ok {
			return lhs, nil
		}
		head := lhs.Head()
		if err := p.advance(); err != nil {
			return nil, err
		}
		rhs, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		lhs = ast.NewComparison(head, rhs.Tail(), lhs, rhs, op)
	}
}

// --- level 8: additive --------------------------------------------------------

var additiveOps = map[token.Type]ast.MathOp{
	token.ADD: ast.Add,
	token.SUB: ast.Sub,
}

func (p *Parser) parseAdditive() (ast.Expression, error) {
	lhs, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := additiveOps[p.cur.Type]
		if !ok {
			return lhs, nil
		}
		head := lhs.Head()
		if err := p.advance(); err != nil {
			return nil, err
		}
		rhs, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		lhs = ast.NewMath(head, rhs.Tail(), lhs, rhs, op)
	}
}

// --- level 9: multiplicative ---------------------------------------------------

var multiplicativeOps = map[token.Type]ast.MathOp{
	token.MUL: ast.Mul,
	token.DIV: ast.Div,
	token.MOD: ast.Mod,
}

func (p *Parser) parseMultiplicative() (ast.Expression, error) {
	lhs, err := p.parseExponent()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := multiplicativeOps[p.cur.Type]
		if !ok {
			return lhs, nil
		}
		head := lhs.Head()
		if err := p.advance(); err != nil {
			return nil, err
		}
		rhs, err := p.parseExponent()
		if err != nil {
			return nil, err
		}
		lhs = ast.NewMath(head, rhs.Tail(), lhs, rhs, op)
	}
}

// --- level 10: exponentiation (left-associative) -----------------------------

func (p *Parser) parseExponent() (ast.Expression, error) {
	lhs, err := p.parseInvert()
	if err != nil {
		return nil, err
	}
	for p.is(token.POW) {
		head := lhs.Head()
		if err := p.advance(); err != nil {
			return nil, err
		}
		rhs, err := p.parseInvert()
		if err != nil {
			return nil, err
		}
		lhs = ast.NewMath(head, rhs.Tail(), lhs, rhs, ast.Pow)
	}
	return lhs, nil
}

// --- level 11: logical negation ------------------------------------------------

func (p *Parser) parseInvert() (ast.Expression, error) {
	if p.is(token.NOT) {
		head := p.cur
		if err := p.advance(); err != nil {
			return nil, err
		}
		operand, err := p.parseInvert()
		if err != nil {
			return nil, err
		}
		return ast.NewInvert(head, operand.Tail(), operand), nil
	}
	return p.parseFlipSign()
}

// --- level 12: unary minus ------------------------------------------------------

func (p *Parser) parseFlipSign() (ast.Expression, error) {
	if p.is(token.SUB) {
		head := p.cur
		if err := p.advance(); err != nil {
			return nil, err
		}
		operand, err := p.parseFlipSign()
		if err != nil {
			return nil, err
		}
		return ast.NewFlipSign(head, operand.Tail(), operand), nil
	}
	return p.parsePostfix()
}

// --- levels 13-15: postfix (index, member access, invocation) -------------------
//
// These three levels share a single combined loop rather than three nested
// calls: `[`, `.`, and `(` (and their `?`-prefixed optional-chaining forms)
// may interleave in any order on the same chain (obj.method(1)[0].field),
// so each must hand control back to the same loop instead of returning to a
// caller that only recognizes one of the three.

func (p *Parser) parsePostfix() (ast.Expression, error) {
	lhs, err := p.parseIfThenElse()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.is(token.LBRACKET, token.OPTIONAL_BRACK):
			lhs, err = p.parseIndexSuffix(lhs)
		case p.is(token.DOT, token.OPTIONAL_DOT):
			lhs, err = p.parseMemberAccessSuffix(lhs)
		case p.is(token.LPAREN, token.OPTIONAL_PAREN):
			lhs, err = p.parseInvocationSuffix(lhs)
		default:
			return lhs, nil
		}
		if err != nil {
			return nil, err
		}
	}
}

func (p *Parser) parseIndexSuffix(lhs ast.Expression) (ast.Expression, error) {
	head := lhs.Head()
	optional := p.cur.Type == token.OPTIONAL_BRACK
	if err := p.advance(); err != nil {
		return nil, err
	}
	rhs, err := p.parseExpression() // RESET: brackets reopen the full ladder
	if err != nil {
		return nil, err
	}
	tail, err := p.expect(token.RBRACKET)
	if err != nil {
		return nil, err
	}
	return ast.NewIndex(head, tail, lhs, rhs, optional), nil
}

func (p *Parser) parseMemberAccessSuffix(lhs ast.Expression) (ast.Expression, error) {
	head := lhs.Head()
	optional := p.cur.Type == token.OPTIONAL_DOT
	if err := p.advance(); err != nil {
		return nil, err
	}
	memberTok, err := p.expect(token.IDENTIFIER)
	if err != nil {
		return nil, err
	}
	member := ast.NewIdentifier(memberTok)
	return ast.NewMemberAccess(head, memberTok, lhs, member, optional), nil
}

func (p *Parser) parseInvocationSuffix(base ast.Expression) (ast.Expression, error) {
	optional := p.cur.Type == token.OPTIONAL_PAREN
	if err := p.advance(); err != nil {
		return nil, err
	}
	var args []ast.Argument
	sawNamed := false
	if !p.is(token.RPAREN) {
		for {
			arg, err := p.parseArgument()
			if err != nil {
				return nil, err
			}
			if arg.Name != nil {
				sawNamed = true
			} else if sawNamed {
				return nil, exprerr.NewNonNamedFunctionArgumentError(arg.Value.Head())
			}
			args = append(args, arg)
			if !p.is(token.COMMA) {
				break
			}
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
	}
	tail, err := p.expect(token.RPAREN)
	if err != nil {
		return nil, err
	}
	return ast.NewFunctionInvocation(base.Head(), tail, base, args, optional), nil
}

// parseArgument parses `(IDENT '=')? expression`, distinguishing a named
// argument from a plain expression before delegating to parseExpression —
// otherwise parseExpression's own assignment level would consume "name = value"
// as a generic Assignment node instead of a named Argument.
func (p *Parser) parseArgument() (ast.Argument, error) {
	if p.is(token.IDENTIFIER) {
		peeked, err := p.peek()
		if err != nil {
			return ast.Argument{}, err
		}
		if peeked.Type == token.ASSIGN {
			nameTok := p.cur
			if err := p.advance(); err != nil { // consume identifier
				return ast.Argument{}, err
			}
			if _, err := p.expect(token.ASSIGN); err != nil {
				return ast.Argument{}, err
			}
			value, err := p.parseExpression()
			if err != nil {
				return ast.Argument{}, err
			}
			return ast.Argument{Value: value, Name: ast.NewIdentifier(nameTok)}, nil
		}
	}
	value, err := p.parseExpression()
	if err != nil {
		return ast.Argument{}, err
	}
	return ast.Argument{Value: value}, nil
}

// --- level 16: if-then-else -------------------------------------------------

func (p *Parser) parseIfThenElse() (ast.Expression, error) {
	if !p.is(token.IF) {
		return p.parseCallback()
	}
	head := p.cur
	if err := p.advance(); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.THEN); err != nil {
		return nil, err
	}
	pos, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.ELSE); err != nil {
		return nil, err
	}
	neg, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return ast.NewIfThenElse(head, neg.Tail(), cond, pos, neg), nil
}

// --- level 17: callback (lambda) ------------------------------------------------

// parseCallback speculatively tries `'(' IDENT (',' IDENT)* ')' '->'`; on any
// mismatch it restores the tokenizer and falls through to a parenthesized
// expression instead. Every branch either discards or restores its save
// frame, leaving none open on return.
func (p *Parser) parseCallback() (ast.Expression, error) {
	if !p.is(token.LPAREN) {
		return p.parseParenthesized()
	}

	head := p.cur
	savedCur := p.cur
	p.lex.SaveState()
	params, ok, err := p.tryParseCallbackParams()
	if err != nil {
		p.lex.RestoreState()
		p.cur = savedCur
		return nil, err
	}
	if !ok {
		p.lex.RestoreState()
		p.cur = savedCur
		return p.parseParenthesized()
	}
	p.lex.DiscardState()

	body, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return ast.NewCallback(head, body.Tail(), params, body), nil
}

// tryParseCallbackParams consumes '(' IDENT (',' IDENT)* ')' '->' if present,
// leaving the cursor just past '->' on success. ok=false means the input
// didn't match (not an error, just not a callback); the caller restores.
func (p *Parser) tryParseCallbackParams() ([]*ast.Identifier, bool, error) {
	if err := p.advance(); err != nil { // consume '('
		return nil, false, err
	}
	var params []*ast.Identifier
	if !p.is(token.IDENTIFIER) {
		return nil, false, nil
	}
	params = append(params, ast.NewIdentifier(p.cur))
	if err := p.advance(); err != nil {
		return nil, false, err
	}
	for p.is(token.COMMA) {
		if err := p.advance(); err != nil {
			return nil, false, err
		}
		if !p.is(token.IDENTIFIER) {
			return nil, false, nil
		}
		params = append(params, ast.NewIdentifier(p.cur))
		if err := p.advance(); err != nil {
			return nil, false, err
		}
	}
	if !p.is(token.RPAREN) {
		return nil, false, nil
	}
	if err := p.advance(); err != nil {
		return nil, false, err
	}
	if !p.is(token.ARROW) {
		return nil, false, nil
	}
	if err := p.advance(); err != nil { // consume '->'
		return nil, false, err
	}
	return params, true, nil
}

// --- level 18: parenthesized expression ------------------------------------------

func (p *Parser) parseParenthesized() (ast.Expression, error) {
	if !p.is(token.LPAREN) {
		return p.parsePrimary()
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	inner, err := p.parseExpression() // RESET: parens reopen the full ladder
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	return inner, nil
}

// --- level 19: primary --------------------------------------------------------

func (p *Parser) parsePrimary() (ast.Expression, error) {
	switch p.cur.Type {
	case token.LONG:
		tok := p.cur
		if err := p.advance(); err != nil {
			return nil, err
		}
		return ast.NewLong(tok, lexer.ParseLong(tok.Lexeme)), nil
	case token.DOUBLE:
		tok := p.cur
		if err := p.advance(); err != nil {
			return nil, err
		}
		return ast.NewDouble(tok, lexer.ParseDouble(tok.Lexeme)), nil
	case token.STRING:
		tok := p.cur
		if err := p.advance(); err != nil {
			return nil, err
		}
		return ast.NewString(tok, tok.Lexeme), nil
	case token.TRUE:
		tok := p.cur
		if err := p.advance(); err != nil {
			return nil, err
		}
		return ast.NewLiteral(tok, ast.LiteralTrue), nil
	case token.FALSE:
		tok := p.cur
		if err := p.advance(); err != nil {
			return nil, err
		}
		return ast.NewLiteral(tok, ast.LiteralFalse), nil
	case token.NULL:
		tok := p.cur
		if err := p.advance(); err != nil {
			return nil, err
		}
		return ast.NewLiteral(tok, ast.LiteralNull), nil
	case token.IDENTIFIER:
		tok := p.cur
		if err := p.advance(); err != nil {
			return nil, err
		}
		return ast.NewIdentifier(tok), nil
	default:
		return nil, exprerr.NewUnexpectedTokenError(p.cur,
			token.LONG, token.DOUBLE, token.STRING, token.TRUE, token.FALSE, token.NULL, token.IDENTIFIER, token.LPAREN, token.IF, token.SUB, token.NOT)
	}
}
