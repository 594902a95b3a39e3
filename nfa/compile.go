package nfa

import "fmt"

// Compiler compiles regex patterns into fragments of a shared builder arena.
// A single Compiler may compile many patterns; the multi-pattern token DFA
// construction relies on all fragments sharing one id space.
type Compiler struct {
	b *Builder
}

// NewCompiler creates a compiler targeting the given builder.
func NewCompiler(b *Builder) *Compiler {
	return &Compiler{b: b}
}

// Compile converts a pattern to postfix and runs Thompson's construction.
// It returns the resulting fragment; the fragment's end state is final.
func (c *Compiler) Compile(pattern string) (Fragment, error) {
	postfix, err := toPostfix(pattern)
	if err != nil {
		return Fragment{}, &PatternError{Pattern: pattern, Err: err}
	}

	frag, err := c.thompson(postfix)
	if err != nil {
		return Fragment{}, &PatternError{Pattern: pattern, Err: err}
	}
	return frag, nil
}

// thompson consumes a postfix pattern left to right, maintaining a stack of
// fragments. Each operator pops its operands and pushes one combined
// fragment; at the end exactly one fragment must remain.
func (c *Compiler) thompson(postfix []rune) (Fragment, error) {
	b := c.b
	var stack []Fragment

	pop := func() (Fragment, bool) {
		if len(stack) == 0 {
			return Fragment{}, false
		}
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		return f, true
	}

	for _, r := range postfix {
		switch r {
		case Concat:
			right, ok1 := pop()
			left, ok2 := pop()
			if !ok1 || !ok2 {
				return Fragment{}, fmt.Errorf("%w: '·' needs two operands", ErrMalformedPattern)
			}
			b.AddEpsilon(left.End, right.Start)
			b.SetFinal(left.End, false)
			stack = append(stack, Fragment{Start: left.Start, End: right.End})

		case '|':
			bFrag, ok1 := pop()
			aFrag, ok2 := pop()
			if !ok1 || !ok2 {
				return Fragment{}, fmt.Errorf("%w: '|' needs two operands", ErrMalformedPattern)
			}
			start := b.AddState(false)
			end := b.AddState(true)
			b.AddEpsilon(start, aFrag.Start)
			b.AddEpsilon(start, bFrag.Start)
			b.AddEpsilon(aFrag.End, end)
			b.AddEpsilon(bFrag.End, end)
			b.SetFinal(aFrag.End, false)
			b.SetFinal(bFrag.End, false)
			stack = append(stack, Fragment{Start: start, End: end})

		case '*':
			x, ok := pop()
			if !ok {
				return Fragment{}, fmt.Errorf("%w: '*' needs an operand", ErrMalformedPattern)
			}
			start := b.AddState(false)
			end := b.AddState(true)
			b.AddEpsilon(start, end)
			b.AddEpsilon(start, x.Start)
			b.AddEpsilon(x.End, end)
			b.AddEpsilon(x.End, x.Start)
			b.SetFinal(x.End, false)
			stack = append(stack, Fragment{Start: start, End: end})

		case '+':
			x, ok := pop()
			if !ok {
				return Fragment{}, fmt.Errorf("%w: '+' needs an operand", ErrMalformedPattern)
			}
			start := b.AddState(false)
			end := b.AddState(true)
			b.AddEpsilon(x.End, x.Start)
			b.AddEpsilon(x.End, end)
			b.AddEpsilon(start, x.Start)
			b.SetFinal(x.End, false)
			stack = append(stack, Fragment{Start: start, End: end})

		case '?':
			x, ok := pop()
			if !ok {
				return Fragment{}, fmt.Errorf("%w: '?' needs an operand", ErrMalformedPattern)
			}
			start := b.AddState(false)
			end := b.AddState(true)
			b.AddEpsilon(start, end)
			b.AddEpsilon(start, x.Start)
			b.AddEpsilon(x.End, end)
			b.SetFinal(x.End, false)
			stack = append(stack, Fragment{Start: start, End: end})

		default:
			start := b.AddState(false)
			end := b.AddState(true)
			b.AddSymbol(start, r, end)
			stack = append(stack, Fragment{Start: start, End: end})
		}
	}

	if len(stack) != 1 {
		return Fragment{}, fmt.Errorf("%w: expected one fragment, have %d", ErrMalformedPattern, len(stack))
	}
	return stack[0], nil
}

// CompileLiteral builds a fragment matching text verbatim. Regex operators
// have no special meaning here; this is the only way to tokenize the
// operator characters themselves, since the pattern syntax has no escapes.
func (c *Compiler) CompileLiteral(text string) (Fragment, error) {
	if text == "" {
		return Fragment{}, &PatternError{Pattern: text, Err: fmt.Errorf("%w: empty literal", ErrMalformedPattern)}
	}

	b := c.b
	var frag Fragment
	prevEnd := InvalidState
	for _, r := range text {
		start := b.AddState(false)
		end := b.AddState(true)
		b.AddSymbol(start, r, end)
		if prevEnd == InvalidState {
			frag.Start = start
		} else {
			b.AddEpsilon(prevEnd, start)
			b.SetFinal(prevEnd, false)
		}
		prevEnd = end
	}
	frag.End = prevEnd
	return frag, nil
}

// Compile builds a standalone NFA for a single pattern.
func Compile(pattern string) (*NFA, error) {
	b := NewBuilder()
	frag, err := NewCompiler(b).Compile(pattern)
	if err != nil {
		return nil, err
	}
	return b.Build(frag.Start, frag.End)
}
