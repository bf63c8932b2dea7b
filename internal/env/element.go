package env

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/zclconf/go-cty/cty"
)

// ElementKind classifies registered elements.
type ElementKind int

const (
	KindModule ElementKind = iota
	KindComponent
	KindFunction
	KindSignal
	KindEnum
)

func (k ElementKind) String() string {
	switch k {
	case KindModule:
		return "module"
	case KindComponent:
		return "component"
	case KindFunction:
		return "function"
	case KindSignal:
		return "signal"
	case KindEnum:
		return "enum"
	}
	return "unknown"
}

// Element is anything that can be registered under a scope.
type Element interface {
	GUID() uuid.UUID
	Name() string
	Kind() ElementKind
}

// Module groups elements under a name in the script editor.
type Module struct {
	ID         uuid.UUID
	ModuleName string
}

func (m *Module) GUID() uuid.UUID   { return m.ID }
func (m *Module) Name() string      { return m.ModuleName }
func (m *Module) Kind() ElementKind { return KindModule }

// Param is a typed function parameter or return value.
type Param struct {
	Name string
	Type cty.Type
	// Optional inputs may be left out by callers and arrive as nulls. They
	// follow every required input.
	Optional bool
}

// Invoker executes a function node with arguments matching its Inputs.
type Invoker func(ctx context.Context, args []cty.Value) ([]cty.Value, error)

// Function is a script-callable node.
type Function struct {
	ID          uuid.UUID
	FuncName    string
	Description string
	Inputs      []Param
	Outputs     []Param
	Invoke      Invoker
}

func (f *Function) GUID() uuid.UUID   { return f.ID }
func (f *Function) Name() string      { return f.FuncName }
func (f *Function) Kind() ElementKind { return KindFunction }

// Call checks the argument count and runs the function's invoker. Omitted
// optional inputs are passed as nulls of their declared type.
func (f *Function) Call(ctx context.Context, args ...cty.Value) ([]cty.Value, error) {
	if f.Invoke == nil {
		return nil, fmt.Errorf("function %q has no implementation", f.FuncName)
	}
	required := 0
	for _, p := range f.Inputs {
		if !p.Optional {
			required++
		}
	}
	if len(args) < required || len(args) > len(f.Inputs) {
		if required == len(f.Inputs) {
			return nil, fmt.Errorf("function %q expects %d arguments, got %d", f.FuncName, len(f.Inputs), len(args))
		}
		return nil, fmt.Errorf("function %q expects %d to %d arguments, got %d", f.FuncName, required, len(f.Inputs), len(args))
	}
	full := make([]cty.Value, len(f.Inputs))
	copy(full, args)
	for i := len(args); i < len(f.Inputs); i++ {
		full[i] = cty.NullVal(f.Inputs[i].Type)
	}
	return f.Invoke(ctx, full)
}

// Member is a field of a signal with its default value.
type Member struct {
	Name        string
	Label       string
	Description string
	Default     cty.Value
}

// Signal is an event that scripts can react to.
type Signal struct {
	ID         uuid.UUID
	SignalName string
	Label      string
	Members    []Member
}

func (s *Signal) GUID() uuid.UUID   { return s.ID }
func (s *Signal) Name() string      { return s.SignalName }
func (s *Signal) Kind() ElementKind { return KindSignal }

// EnumConstant is one value of an enumeration type.
type EnumConstant struct {
	Value uint64
	Name  string
	Label string
}

// EnumType exposes a Go enumeration to scripts.
type EnumType struct {
	ID          uuid.UUID
	TypeName    string
	Label       string
	Description string
	Constants   []EnumConstant
}

func (e *EnumType) GUID() uuid.UUID   { return e.ID }
func (e *EnumType) Name() string      { return e.TypeName }
func (e *EnumType) Kind() ElementKind { return KindEnum }
