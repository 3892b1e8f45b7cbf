package diag

import (
	"fmt"

	"github.com/risqcapital/hcl2go/ast"
)

// ParseError reports ill-formed source text. The parser is all-or-
// nothing: the first ParseError aborts parsing (spec.md §4.1, §7).
type ParseError struct {
	base
	Message string
}

func NewParseError(rng ast.Range, message string) *ParseError {
	return &ParseError{base: base{Rng: rng}, Message: message}
}

func (e *ParseError) Code() string    { return "parse_error" }
func (e *ParseError) Summary() string { return "Invalid HCL2 syntax" }
func (e *ParseError) Detail() string  { return e.Message }
func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Rng, e.Message)
}

// TypeError reports an operator, function, or index applied to an
// operand of the wrong kind.
type TypeError struct {
	base
	Message string
}

func NewTypeError(rng ast.Range, message string) *TypeError {
	return &TypeError{base: base{Rng: rng}, Message: message}
}

func (e *TypeError) Code() string    { return "type_error" }
func (e *TypeError) Summary() string { return "Invalid operand type" }
func (e *TypeError) Detail() string  { return e.Message }
func (e *TypeError) Error() string {
	return fmt.Sprintf("%s: %s", e.Rng, e.Message)
}

// NameError reports an identifier that is not bound in scope.
type NameError struct {
	base
	Name    string
	Suggest string
}

func NewNameError(rng ast.Range, name string, knownNames []string) *NameError {
	return &NameError{base: base{Rng: rng}, Name: name, Suggest: SuggestName(name, knownNames)}
}

func (e *NameError) Code() string    { return "name_error" }
func (e *NameError) Summary() string { return "Reference to undeclared variable" }

func (e *NameError) Detail() string {
	if e.Suggest != "" {
		return fmt.Sprintf("There is no variable named %q. Did you mean %q?", e.Name, e.Suggest)
	}
	return fmt.Sprintf("There is no variable named %q.", e.Name)
}

func (e *NameError) Error() string {
	return fmt.Sprintf("%s: %s", e.Rng, e.Detail())
}

// KeyError reports a missing object key or an out-of-range array index.
type KeyError struct {
	base
	Message string
}

func NewKeyError(rng ast.Range, message string) *KeyError {
	return &KeyError{base: base{Rng: rng}, Message: message}
}

func (e *KeyError) Code() string    { return "key_error" }
func (e *KeyError) Summary() string { return "Invalid index" }
func (e *KeyError) Detail() string  { return e.Message }
func (e *KeyError) Error() string {
	return fmt.Sprintf("%s: %s", e.Rng, e.Message)
}

// ArityError reports a function called with the wrong number of
// arguments.
type ArityError struct {
	base
	FuncName string
	Want     string // human-readable arity description, e.g. "2" or "at least 1"
	Got      int
}

func NewArityError(rng ast.Range, funcName, want string, got int) *ArityError {
	return &ArityError{base: base{Rng: rng}, FuncName: funcName, Want: want, Got: got}
}

func (e *ArityError) Code() string    { return "arity_error" }
func (e *ArityError) Summary() string { return "Wrong number of arguments" }

func (e *ArityError) Detail() string {
	return fmt.Sprintf("Function %q expects %s argument(s), but got %d.", e.FuncName, e.Want, e.Got)
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("%s: %s", e.Rng, e.Detail())
}

// DuplicateKeyError reports a body attribute/block key collision or an
// object literal key collision.
type DuplicateKeyError struct {
	base
	Key string
}

func NewDuplicateKeyError(rng ast.Range, key string) *DuplicateKeyError {
	return &DuplicateKeyError{base: base{Rng: rng}, Key: key}
}

func (e *DuplicateKeyError) Code() string    { return "duplicate_key_error" }
func (e *DuplicateKeyError) Summary() string { return "Duplicate key" }

func (e *DuplicateKeyError) Detail() string {
	return fmt.Sprintf("The key %q is already defined.", e.Key)
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("%s: %s", e.Rng, e.Detail())
}

// UserError wraps an error returned by a caller-supplied function
// implementation (funcs.Func.Impl), attributing it to the call site.
type UserError struct {
	base
	FuncName string
}

func NewUserError(rng ast.Range, funcName string, cause error) *UserError {
	return &UserError{base: base{Rng: rng, Cause: cause}, FuncName: funcName}
}

func (e *UserError) Code() string    { return "user_error" }
func (e *UserError) Summary() string { return "Error from function call" }

func (e *UserError) Detail() string {
	return fmt.Sprintf("Call to function %q failed: %s", e.FuncName, e.Cause)
}

func (e *UserError) Error() string {
	return fmt.Sprintf("%s: %s", e.Rng, e.Detail())
}
