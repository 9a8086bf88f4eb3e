// internal/routines/types.go
package routines

import "time"

// Kind identifies a routine as a stored procedure or function.
type Kind string

const (
	KindProcedure Kind = "PROCEDURE"
	KindFunction  Kind = "FUNCTION"
)

// ParseKind normalizes a wire value into a Kind.
func ParseKind(s string) (Kind, bool) {
	switch Kind(s) {
	case KindProcedure:
		return KindProcedure, true
	case KindFunction:
		return KindFunction, true
	}
	return "", false
}

// Valid reports whether k is one of the two routine kinds.
func (k Kind) Valid() bool {
	return k == KindProcedure || k == KindFunction
}

// Opposite returns the other routine kind.
func (k Kind) Opposite() Kind {
	if k == KindFunction {
		return KindProcedure
	}
	return KindFunction
}

// Parameter is one positional routine argument. Parameters live in a
// single ordered slice on Routine; order is the binding order.
type Parameter struct {
	Direction string // IN, OUT, INOUT for procedures; empty for functions
	Name      string
	Type      string
	Length    string
	Options   string // e.g. UNSIGNED, CHARSET utf8mb4
}

// Routine is a stored routine's identity, parameters and body.
type Routine struct {
	ID              string
	Name            string
	Kind            Kind
	Params          []Parameter
	ReturnType      string // functions only
	Body            string
	Source          string // full CREATE statement, served back on export
	SQLDataAccess   string
	Definer         string
	IsDeterministic bool
	Comment         string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ResultMessage carries a workflow outcome to either output channel.
type ResultMessage struct {
	Success bool
	Text    string
}

// SuccessMessage builds a successful ResultMessage.
func SuccessMessage(text string) ResultMessage {
	return ResultMessage{Success: true, Text: text}
}

// ErrorMessage builds a failed ResultMessage.
func ErrorMessage(text string) ResultMessage {
	return ResultMessage{Success: false, Text: text}
}
