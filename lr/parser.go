package lr

// Parser is the shift-reduce driver. It holds only the shared table;
// per-parse state lives on the stack Parse allocates, so one Parser may be
// used concurrently.
type Parser struct {
	table *Table
}

// NewParser creates a driver over a filled table.
func NewParser(t *Table) *Parser {
	return &Parser{table: t}
}

// Parse consumes a sequence of terminal names and reports acceptance. A
// trailing $ is appended unless already present. A missing ACTION or GOTO
// entry rejects with a SyntaxError describing the live configuration.
func (p *Parser) Parse(terminals []string) (bool, error) {
	input := make([]string, 0, len(terminals)+1)
	input = append(input, terminals...)
	if len(input) == 0 || input[len(input)-1] != "$" {
		input = append(input, "$")
	}

	stack := []int{p.table.Start()}
	pos := 0

	for {
		s := stack[len(stack)-1]
		a := input[pos]

		act, ok := p.table.Action(s, a)
		if !ok {
			return false, &SyntaxError{State: s, Terminal: a, Pos: pos}
		}

		switch act.Type {
		case ActionShift:
			stack = append(stack, act.State)
			pos++

		case ActionReduce:
			prod := p.table.Production(act.Production)
			k := len(prod.Right)
			if prod.IsEpsilon() {
				k = 0
			}
			stack = stack[:len(stack)-k]

			top := stack[len(stack)-1]
			g, ok := p.table.Goto(top, prod.Left.Name)
			if !ok {
				return false, &SyntaxError{State: top, Terminal: a, Pos: pos}
			}
			stack = append(stack, g)

		case ActionAccept:
			return true, nil
		}
	}
}
