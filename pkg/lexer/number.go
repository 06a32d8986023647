package lexer

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/leapstack-labs/haiku/pkg/token"
)

var radixNames = map[int]string{
	2:  "binary",
	8:  "octal",
	10: "decimal",
	16: "hexadecimal",
}

// readNumber reads an integer or float literal, including its radix prefix,
// digit separators and width suffix.
func (l *Lexer) readNumber(start int) (token.Token, error) {
	radix := 10
	if l.ch == '0' {
		switch l.peekChar() {
		case 'b', 'B':
			radix = 2
		case 'o', 'O':
			radix = 8
		case 'x', 'X':
			radix = 16
		}
	}

	if radix != 10 {
		l.readChar() // skip '0'
		l.readChar() // skip radix marker
		digits := l.readDigits(radix)
		suffix := l.readSuffix()
		if digits == "" {
			return l.numberError(start, fmt.Sprintf(ReasonMissingDigits, radixNames[radix]))
		}
		return l.intToken(start, digits, radix, suffix)
	}

	digits := l.readDigits(10)
	isFloat := false
	mantissaEnd := l.pos

	if l.ch == '.' {
		l.readChar() // skip '.'
		if !isDigit(l.ch) {
			l.readSuffix()
			return l.numberError(start, ReasonMissingFraction)
		}
		isFloat = true
		l.readDigits(10)
		mantissaEnd = l.pos
	}

	if l.ch == 'e' || l.ch == 'E' {
		isFloat = true
		l.readChar() // skip 'e'
		if l.ch == '+' || l.ch == '-' {
			l.readChar()
		}
		if l.readDigits(10) == "" {
			l.readSuffix()
			return l.numberError(start, ReasonMissingExponent)
		}
		mantissaEnd = l.pos
	}

	suffix := l.readSuffix()
	if _, ok := token.FloatSuffixes[suffix]; ok || isFloat {
		return l.floatToken(start, stripSeparators(l.input[start:mantissaEnd]), suffix)
	}
	return l.intToken(start, digits, 10, suffix)
}

// readDigits consumes digits of the given radix together with `_`
// separators and returns the digits with separators removed. Decimal digits
// beyond the radix are left for readSuffix to report.
func (l *Lexer) readDigits(radix int) string {
	begin := l.pos
	for l.ch == '_' || isDigitOf(l.ch, radix) {
		l.readChar()
	}
	return stripSeparators(l.input[begin:l.pos])
}

// readSuffix consumes any identifier characters directly following a literal.
func (l *Lexer) readSuffix() string {
	begin := l.pos
	for isIdentChar(l.ch) {
		l.readChar()
	}
	return l.input[begin:l.pos]
}

func (l *Lexer) intToken(start int, digits string, radix int, suffix string) (token.Token, error) {
	kind := token.IntUntyped
	if suffix != "" {
		if _, ok := token.FloatSuffixes[suffix]; ok {
			return l.numberError(start, fmt.Sprintf(ReasonFloatSuffix, suffix, radixNames[radix]))
		}
		k, ok := token.IntSuffixes[suffix]
		if !ok {
			return l.numberError(start, suffixReason(suffix, radix))
		}
		kind = k
	}

	var (
		bits uint64
		err  error
	)
	if kind.Signed() {
		var v int64
		v, err = strconv.ParseInt(digits, radix, kind.Bits())
		bits = uint64(v)
	} else {
		bits, err = strconv.ParseUint(digits, radix, kind.Bits())
	}
	if err != nil {
		return l.numberError(start, parseReason(err, intKindName(kind)))
	}

	return token.Token{
		Type:    token.INT,
		Literal: l.input[start:l.pos],
		Span:    token.NewSpan(start, l.pos),
		Int:     token.IntValue{Kind: kind, Bits: bits},
	}, nil
}

func (l *Lexer) floatToken(start int, text, suffix string) (token.Token, error) {
	kind := token.FloatUntyped
	if suffix != "" {
		if _, ok := token.IntSuffixes[suffix]; ok {
			return l.numberError(start, fmt.Sprintf(ReasonIntSuffix, suffix))
		}
		k, ok := token.FloatSuffixes[suffix]
		if !ok {
			return l.numberError(start, fmt.Sprintf(ReasonInvalidSuffix, suffix))
		}
		kind = k
	}

	v, err := strconv.ParseFloat(text, kind.Bits())
	if err != nil {
		name := kind.String()
		if name == "" {
			name = "f64"
		}
		return l.numberError(start, parseReason(err, name))
	}

	return token.Token{
		Type:    token.FLOAT,
		Literal: l.input[start:l.pos],
		Span:    token.NewSpan(start, l.pos),
		Float:   token.FloatValue{Kind: kind, Value: v},
	}, nil
}

func (l *Lexer) numberError(start int, reason string) (token.Token, error) {
	return token.Token{}, &Error{
		Kind:   MalformedNumber,
		Span:   token.NewSpan(start, l.pos),
		Text:   l.input[start:l.pos],
		Reason: reason,
	}
}

func suffixReason(suffix string, radix int) string {
	if isDigit(suffix[0]) {
		return fmt.Sprintf(ReasonInvalidDigit, suffix[0], radixNames[radix])
	}
	return fmt.Sprintf(ReasonInvalidSuffix, suffix)
}

func parseReason(err error, kind string) string {
	if errors.Is(err, strconv.ErrRange) {
		return fmt.Sprintf(ReasonOutOfRange, kind)
	}
	var numErr *strconv.NumError
	if errors.As(err, &numErr) {
		return numErr.Err.Error()
	}
	return err.Error()
}

func intKindName(k token.IntKind) string {
	if k == token.IntUntyped {
		return "64-bit integer"
	}
	return k.String()
}

func isDigitOf(ch byte, radix int) bool {
	switch radix {
	case 2:
		return ch == '0' || ch == '1'
	case 8:
		return ch >= '0' && ch <= '7'
	case 16:
		return isDigit(ch) || ('a' <= ch && ch <= 'f') || ('A' <= ch && ch <= 'F')
	}
	return isDigit(ch)
}

func stripSeparators(s string) string {
	if !strings.Contains(s, "_") {
		return s
	}
	return strings.ReplaceAll(s, "_", "")
}
