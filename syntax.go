package dte

import (
	"regexp"
	"strings"
)

// ConditionKind identifies how a Condition matches against the scanner's
// current position.
type ConditionKind uint8

const (
	CondChar1 ConditionKind = iota
	CondChar
	CondCharBuffer
	CondStr2
	CondStr
	CondStrIcase
	CondBufis
	CondBufisIcase
	CondInlist
	CondHeredocEnd
	CondRecolorBuffer
	CondRecolor
)

// byteSet is a 256-bit membership bitmap, used by CondChar/CondCharBuffer.
type byteSet [256]bool

func newByteSet(bytes string) byteSet {
	var s byteSet
	for i := 0; i < len(bytes); i++ {
		s[bytes[i]] = true
	}
	return s
}

// Condition is one test in a State's ordered conditions list.
// Str/StrIcase literals are matched through a compiled, anchored regexp
// (re.FindIndex on the slice starting at the scanner's position) rather than a
// hand-rolled comparator: RE2 gives linear-time, ASCII-case-insensitive,
// anchored matching for free, which is exactly the contract's "Regex
// engine dependency" note asks a reimplementation to provide. See
// DESIGN.md's syntax.go entry for this choice.
type Condition struct {
	Kind ConditionKind

	Byte    byte           // CondChar1
	Set     byteSet        // CondChar, CondCharBuffer
	Literal string         // CondStr2, CondStr, CondStrIcase, CondBufis, CondBufisIcase
	re      *regexp.Regexp // compiled anchored matcher for CondStr/CondStrIcase

	ListName   string // CondInlist: references Syntax.StringSets
	RecolorLen int    // CondRecolor: 1..2500

	Dest string // destination state name ("END" inside a subsyntax)
	Emit string
}

// compile prepares any regex-backed condition kinds. Called once when the
// owning Syntax is loaded.
func (c *Condition) compile(file string, line int) error {
	switch c.Kind {
	case CondStr, CondStrIcase:
		pattern := regexp.QuoteMeta(c.Literal)
		if c.Kind == CondStrIcase {
			pattern = "(?i)" + pattern
		}
		re, err := regexp.Compile("\\A(?:" + pattern + ")")
		if err != nil {
			return &SyntaxCompileError{File: file, Line: line, Err: err}
		}
		c.re = re
	}
	return nil
}

// match reports whether c matches at the scanner's current position, given
// the remaining bytes of the line (from the cursor to EOL) and the active
// match buffer (the bytes accumulated since the enclosing CondCharBuffer
// fired). It returns the number of bytes the match consumes.
func (c *Condition) match(rest []byte, matchBuf []byte, sets map[string][]string) (bool, int) {
	switch c.Kind {
	case CondChar1:
		if len(rest) > 0 && rest[0] == c.Byte {
			return true, 1
		}
	case CondChar, CondCharBuffer:
		if len(rest) > 0 && c.Set[rest[0]] {
			return true, 1
		}
	case CondStr2:
		if len(rest) >= 2 && rest[0] == c.Literal[0] && rest[1] == c.Literal[1] {
			return true, 2
		}
	case CondStr, CondStrIcase:
		if loc := c.re.FindIndex(rest); loc != nil && loc[0] == 0 {
			return true, loc[1]
		}
	case CondBufis:
		if string(matchBuf) == c.Literal {
			return true, 0
		}
	case CondBufisIcase:
		if strings.EqualFold(string(matchBuf), c.Literal) {
			return true, 0
		}
	case CondInlist:
		for _, s := range sets[c.ListName] {
			if string(matchBuf) == s {
				return true, 0
			}
		}
	case CondHeredocEnd:
		// The scanner compares matchBuf with the active heredoc delimiter.
		return true, 0
	case CondRecolorBuffer:
		return true, 0
	case CondRecolor:
		return true, 0
	}
	return false, 0
}

// ActionKind identifies a State's default transition policy.
type ActionKind uint8

const (
	ActionEat ActionKind = iota
	ActionNoeat
	ActionNoeatBuffer
	ActionHeredocBegin
)

// Action is a state's default transition, taken when no Condition matches.
type Action struct {
	Kind ActionKind
	Dest string
	Emit string
}

// State is one node of a Syntax's state machine.
type State struct {
	Name       string
	EmitName   string
	Conditions []Condition
	Default    Action
}

// startStateSentinel is the placeholder entry used before a buffer has any
// syntax attached, or for line 0 of a buffer whose syntax hasn't computed
// a real start state yet.
var startStateSentinel = State{Name: "__none__"}

// Syntax is a named, loaded state machine. Buffers hold a
// non-owning reference to one.
type Syntax struct {
	Name       string
	States     map[string]*State
	Start      *State
	StringSets map[string][]string
	// subsyntaxes referenced by name for HeredocBegin/standalone use
	Subsyntaxes map[string]*Syntax
}

// NewSyntax creates an empty, named syntax definition ready to have states
// added and then Compile()d.
func NewSyntax(name string) *Syntax {
	return &Syntax{
		Name:        name,
		States:      make(map[string]*State),
		StringSets:  make(map[string][]string),
		Subsyntaxes: make(map[string]*Syntax),
	}
}

// AddState registers a state, returning it for condition population.
func (s *Syntax) AddState(name, emitName string, def Action) *State {
	st := &State{Name: name, EmitName: emitName, Default: def}
	s.States[name] = st
	if s.Start == nil {
		s.Start = st
	}
	return st
}

// Compile compiles every regex-backed condition across every state,
// rejecting the whole syntax on the first failure: the buffer continues
// without syntax highlighting, so callers should fall back to Syn = nil
// on error.
func (s *Syntax) Compile(file string) error {
	for _, st := range s.States {
		for i := range st.Conditions {
			if err := st.Conditions[i].compile(file, i+1); err != nil {
				logf(LogWarn, "syntax %q rejected: %v", s.Name, err)
				return err
			}
		}
	}
	return nil
}
