package program

// Operator is the arithmetic operation carried out by a task.
type Operator string

// The operators understood by the calculation units.
const (
	Add Operator = "+"
	Sub Operator = "-"
	Mul Operator = "*"
	Div Operator = "/"
)

var isa = []Operator{Add, Sub, Mul, Div}

// Operators lists the supported operators in canonical order.
func Operators() []Operator {
	return append([]Operator(nil), isa...)
}

// ParseOperator converts a tree node value into an operator.
func ParseOperator(s string) (Operator, bool) {
	for _, op := range isa {
		if string(op) == s {
			return op, true
		}
	}

	return "", false
}

// Name returns the mnemonic of the operator.
func (o Operator) Name() string {
	switch o {
	case Add:
		return "ADD"
	case Sub:
		return "SUB"
	case Mul:
		return "MUL"
	case Div:
		return "DIV"
	default:
		return "UNKNOWN"
	}
}
