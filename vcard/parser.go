package vcard

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"

	"braces.dev/errtrace"
	"github.com/qmuntal/stateless"

	"github.com/ghettovoice/govcard/internal/constraints"
	"github.com/ghettovoice/govcard/internal/errorutil"
	"github.com/ghettovoice/govcard/internal/log"
	"github.com/ghettovoice/govcard/internal/utils"
	"github.com/ghettovoice/govcard/vcard/internal/grammar"
)

// Parser is an interface for parsing vCard streams.
//
// It provides methods for parsing a complete input from a byte slice or
// for parsing cards one by one from a byte stream.
// The [Parser] type is typically used as a factory for creating [StreamParser].
type Parser interface {
	// Parse parses all cards from the given buffer b.
	//
	// Any implementations must satisfy the following contract:
	// - it assumes that b contains the full input;
	// - in success case, it returns a [Document] and nil error;
	// - on the first error it stops and returns the cards assembled so far
	//   and a non-nil error.
	Parse(b []byte) (*Document, error)
	// ParseStream creates a new [StreamParser] for parsing cards from the given [io.Reader].
	ParseStream(r io.Reader) StreamParser
}

// StreamParser is an interface for parsing cards from a byte stream.
//
// It provides an iterator that yields each assembled [Card] and an error, if any.
// The iterator is closed when the consumer breaks the loop.
type StreamParser interface {
	// Cards returns an iterator that yields each assembled [Card] and an error, if any.
	//
	// Any implementations must satisfy the following contract:
	// - in success case, it yields a [Card] and nil error;
	// - if an error occurs during parsing, it yields a nil card and non-nil error
	//   and stops.
	Cards() iter.Seq2[*Card, error]
}

var defParser = &DefaultParser{}

// Parse parses all cards from the given input using the default parser.
// See [DefaultParser.Parse] for details.
func Parse[T constraints.Byteseq](s T) (*Document, error) {
	return errtrace.Wrap2(defParser.Parse([]byte(s)))
}

// ParseStream creates a new [StreamParser] for parsing cards from the given [io.Reader]
// using the default parser.
// See [DefaultParser.ParseStream] for details.
func ParseStream(r io.Reader) StreamParser { return defParser.ParseStream(r) }

// DefaultParser implements the [Parser] interface.
type DefaultParser struct {
	// Logger receives debug records of the parsing progress.
	// Logging is disabled when nil.
	Logger *slog.Logger
	// MaxLineLen bounds the length of a single unfolded logical line.
	// Zero means no bound.
	MaxLineLen int
}

func (p *DefaultParser) logger() *slog.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return log.Noop
}

// Parse parses all cards from the given buffer b.
//
// It assumes that b contains the full input.
// In success case, it returns a [Document] and nil error.
// On the first error it stops and returns the cards assembled so far and
// a non-nil error, usually a [*ParseError].
func (p *DefaultParser) Parse(b []byte) (*Document, error) {
	doc := &Document{}
	asm := newCardAssembler(p.logger())
	asm.maxLineLen = p.MaxLineLen
	num := 0
	for n, line := range grammar.Lines(grammar.Unfold(b)) {
		num = n
		card, err := asm.feedLine(n, line)
		if err != nil {
			return doc, errtrace.Wrap(err)
		}
		if card != nil {
			doc.Cards = append(doc.Cards, card)
		}
	}
	if err := asm.finish(num); err != nil {
		return doc, errtrace.Wrap(err)
	}
	return doc, nil
}

// ParseStream creates a new [DefaultStreamParser] for parsing cards from the
// given [io.Reader].
//
// It is suitable for consuming cards one by one from a continuous byte stream.
func (p *DefaultParser) ParseStream(rdr io.Reader) StreamParser {
	sp := newStreamParser(rdr)
	sp.Logger = p.Logger
	sp.MaxLineLen = p.MaxLineLen
	return sp
}

// DefaultStreamParser parses a stream of cards.
//
// It can be initialized using [DefaultParser.ParseStream] method.
type DefaultStreamParser struct {
	Logger     *slog.Logger
	MaxLineLen int

	rdr io.Reader
}

func newStreamParser(rdr io.Reader) *DefaultStreamParser {
	return &DefaultStreamParser{rdr: rdr}
}

// Cards returns an iterator that yields each assembled [Card] and an error, if any.
//
// In success case, it yields a [Card] and nil error.
// If an error occurs during parsing, it yields a nil card and a non-nil error,
// usually a [*ParseError], and stops.
//
// The iterator is closed when the consumer breaks the loop.
//
// Example:
//
//	for card, err := range p.Cards() {
//		if err != nil {
//			var perr *vcard.ParseError
//			if errors.As(err, &perr) {
//				// perr.Line points at the offending logical line
//			}
//			break
//		}
//		// everything ok, card is valid
//	}
func (p *DefaultStreamParser) Cards() iter.Seq2[*Card, error] {
	logger := p.Logger
	if logger == nil {
		logger = log.Noop
	}
	return func(yield func(*Card, error) bool) {
		br := getBufRdr(p.rdr)
		defer freeBufRdr(br)
		lr := logicalLineReader{rdr: br}
		asm := newCardAssembler(logger)
		asm.maxLineLen = p.MaxLineLen
		for {
			num, line, err := lr.next()
			if err != nil {
				if errors.Is(err, io.EOF) {
					if err := asm.finish(num); err != nil {
						yield(nil, err)
					}
					return
				}
				yield(nil, asm.newParseError(err, num, nil))
				return
			}
			card, err := asm.feedLine(num, line)
			if err != nil {
				yield(nil, err)
				return
			}
			if card != nil && !yield(card, nil) {
				return
			}
		}
	}
}

// ParseError represents an error that occurred during parsing.
//
// It contains the error that occurred, the current parsing state, the
// 1-based logical line number and a bounded excerpt of the offending line.
type ParseError struct {
	Err   error
	State ParseState
	Line  int
	Buf   []byte
}

func (err *ParseError) Error() string {
	return fmt.Sprintf("parse error at line %d: %v", err.Line, err.Err)
}

func (err *ParseError) Unwrap() error { return err.Err }

func (err *ParseError) Grammar() bool { return utils.IsGrammarErr(err.Err) }

type ParseState int

const (
	ParseStateBegin   ParseState = iota // awaiting BEGIN:VCARD
	ParseStateVersion                   // awaiting the VERSION property
	ParseStateProps                     // accumulating card properties
)

// region card assembler

const (
	asmStateExpectBegin   = "expect-begin"
	asmStateExpectVersion = "expect-version"
	asmStateAccumulating  = "accumulating"
)

const (
	asmTriggerBegin    = "begin"
	asmTriggerVersion  = "version"
	asmTriggerProperty = "property"
	asmTriggerEnd      = "end"
)

// cardAssembler drives the BEGIN / VERSION / properties / END structure
// of the stream and accumulates the current card.
type cardAssembler struct {
	sm         *stateless.StateMachine
	card       *Card
	logger     *slog.Logger
	maxLineLen int
}

func newCardAssembler(logger *slog.Logger) *cardAssembler {
	sm := stateless.NewStateMachine(asmStateExpectBegin)
	sm.Configure(asmStateExpectBegin).
		Permit(asmTriggerBegin, asmStateExpectVersion)
	sm.Configure(asmStateExpectVersion).
		Permit(asmTriggerVersion, asmStateAccumulating)
	sm.Configure(asmStateAccumulating).
		PermitReentry(asmTriggerProperty).
		Permit(asmTriggerEnd, asmStateExpectBegin)
	return &cardAssembler{sm: sm, logger: logger}
}

func (a *cardAssembler) state() ParseState {
	switch a.sm.MustState() {
	case asmStateExpectVersion:
		return ParseStateVersion
	case asmStateAccumulating:
		return ParseStateProps
	default:
		return ParseStateBegin
	}
}

func (a *cardAssembler) pending() bool {
	return a.sm.MustState() != asmStateExpectBegin
}

func (a *cardAssembler) newParseError(err error, num int, buf []byte) error {
	return &ParseError{err, a.state(), num, buf} //errtrace:skip
}

// feedLine consumes one unfolded logical line.
// It returns a completed card after its END line, or nil while the card
// is still accumulating. Empty lines are allowed between cards only.
func (a *cardAssembler) feedLine(num int, line []byte) (*Card, error) {
	if a.maxLineLen > 0 && len(line) > a.maxLineLen {
		return nil, errtrace.Wrap(a.newParseError(
			newMalformedPropertyErr("line exceeds %d bytes", a.maxLineLen), num, excerpt(line)))
	}
	if len(line) == 0 {
		if a.pending() {
			return nil, errtrace.Wrap(a.newParseError(newMalformedPropertyErr("empty content line"), num, nil))
		}
		return nil, nil
	}
	prop, err := parseProperty(line)
	if err != nil {
		return nil, errtrace.Wrap(a.newParseError(err, num, excerpt(line)))
	}
	card, err := a.feed(prop)
	if err != nil {
		return nil, errtrace.Wrap(a.newParseError(err, num, excerpt(line)))
	}
	if card != nil {
		a.logger.Debug("card assembled",
			"line", num,
			"properties", len(card.Properties),
		)
	}
	return card, nil
}

func (a *cardAssembler) feed(prop *Property) (*Card, error) {
	trigger := asmTriggerProperty
	switch prop.Name {
	case "begin":
		trigger = asmTriggerBegin
	case "end":
		trigger = asmTriggerEnd
	case "version":
		// VERSION inside the card body falls through to the property
		// trigger and is rejected by the cardinality check at END
		if a.sm.MustState() == asmStateExpectVersion {
			trigger = asmTriggerVersion
		}
	}
	if err := a.sm.Fire(trigger); err != nil {
		return nil, errtrace.Wrap(a.transitionErr(prop))
	}
	switch trigger {
	case asmTriggerBegin:
		a.card = &Card{}
		return nil, nil
	case asmTriggerVersion:
		if v := prop.Value.String(); !versionSupported(v) {
			return nil, errorutil.NewWrapperError(ErrBadVersion, "%q", v) //errtrace:skip
		}
		a.card.Properties = append(a.card.Properties, prop)
		return nil, nil
	case asmTriggerEnd:
		card := a.card
		a.card = nil
		if err := checkCardinality(card.Properties); err != nil {
			return nil, errtrace.Wrap(err)
		}
		return card, nil
	default:
		a.card.Properties = append(a.card.Properties, prop)
		return nil, nil
	}
}

// transitionErr maps a rejected transition to the structural error of the
// state the assembler was in.
func (a *cardAssembler) transitionErr(prop *Property) error {
	switch a.sm.MustState() {
	case asmStateExpectVersion:
		return errorutil.NewWrapperError(ErrBadVersion,
			"VERSION must be the first property of a card, got %q", prop.Name) //errtrace:skip
	case asmStateAccumulating:
		return newMalformedPropertyErr("nested BEGIN:VCARD") //errtrace:skip
	default:
		return newMalformedPropertyErr("property %q outside of a card", prop.Name) //errtrace:skip
	}
}

// finish reports whether the input ended with an open card.
func (a *cardAssembler) finish(num int) error {
	if a.pending() {
		return errtrace.Wrap(a.newParseError(
			errorutil.NewWrapperError(ErrUnterminatedCard, "input ended before END:VCARD"), num, nil))
	}
	return nil
}

// endregion

// logicalLineReader reads unfolded logical lines from a stream.
// A physical line whose successor starts with a space or horizontal tab
// continues the current logical line with the fold bytes removed.
type logicalLineReader struct {
	rdr *bufio.Reader
	num int
	eof bool
}

func (lr *logicalLineReader) next() (int, []byte, error) {
	if lr.eof {
		return lr.num, nil, io.EOF
	}
	var line []byte
	for {
		chunk, err := lr.rdr.ReadBytes('\n')
		if err != nil {
			if !errors.Is(err, io.EOF) {
				return lr.num, nil, errtrace.Wrap(err)
			}
			lr.eof = true
			if len(chunk) == 0 && len(line) == 0 {
				return lr.num, nil, io.EOF
			}
		}
		line = append(line, trimLineEnd(chunk)...)
		if lr.eof {
			break
		}
		if c, err := lr.rdr.Peek(1); err == nil && (c[0] == ' ' || c[0] == '\t') {
			// folded continuation
			if _, err := lr.rdr.Discard(1); err != nil {
				return lr.num, nil, errtrace.Wrap(err)
			}
			continue
		}
		break
	}
	lr.num++
	return lr.num, line, nil
}

func trimLineEnd(b []byte) []byte {
	if n := len(b); n > 0 && b[n-1] == '\n' {
		if n > 1 && b[n-2] == '\r' {
			return b[:n-2]
		}
		return b[:n-1]
	}
	return b
}
