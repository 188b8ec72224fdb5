// Package instrinfo compiles a target's instruction descriptions into the
// deduplicated, enum-indexed tables used to describe machine instructions
// at run time.
package instrinfo

import (
	"fmt"
)

// Target is the whole input to a compilation run.
type Target struct {
	Name      string
	Namespace string

	// Instructions are in enumeration order.
	Instructions []*Instruction

	// OperandClasses are in declaration order. The operand type
	// enumeration is built from the ClassOperand entries.
	OperandClasses []*OperandClass

	// Features are the subtarget features an instruction can be
	// deprecated on, indexed by feature id.
	Features []string
}

type ClassKind uint8

const (
	ClassOperand ClassKind = iota
	ClassRegisterOperand
	ClassRegisterClass
	ClassPointerLikeRegClass
)

func (k ClassKind) String() string {
	switch k {
	case ClassOperand:
		return "operand"
	case ClassRegisterOperand:
		return "register operand"
	case ClassRegisterClass:
		return "register class"
	case ClassPointerLikeRegClass:
		return "pointer-like register class"
	default:
		return fmt.Sprintf("ClassKind(%d)", uint8(k))
	}
}

// OperandClass is anything an operand or an operand sub-field can refer
// to: a plain operand definition, a register operand wrapping a register
// class, a register class, or a pointer-like register class.
type OperandClass struct {
	Name string
	Kind ClassKind

	// RegClass is the wrapped register class of a ClassRegisterOperand.
	RegClass *OperandClass

	// ID is the register class identifier of a ClassRegisterClass.
	ID int

	// PointerKind is the numeric kind of a ClassPointerLikeRegClass.
	PointerKind int

	Predicate   bool
	OptionalDef bool

	// Type is the operand type given to operands of this class.
	Type string
}

// Anonymous reports whether the definition has no symbolic name.
func (c *OperandClass) Anonymous() bool {
	return c.Name == ""
}

// QualifiedName returns the class name within the target namespace.
func (c *OperandClass) QualifiedName(ns string) string {
	return ns + "::" + c.Name
}

type ConstraintKind uint8

const (
	ConstraintNone ConstraintKind = iota
	ConstraintEarlyClobber
	ConstraintTied
)

// Constraint applies to a single flattened operand field.
type Constraint struct {
	Kind   ConstraintKind
	TiedTo int
}

// Operand is one named operand slot of an instruction. An aggregate
// operand expands to one flattened field per entry in Fields.
type Operand struct {
	Name  string
	Class *OperandClass

	// Fields holds the sub-field classes of an aggregate operand, and
	// is empty otherwise.
	Fields []*OperandClass

	// Constraints has one entry per flattened field.
	Constraints []Constraint

	// Position is the flattened index of the operand's first field.
	Position int

	Type string
}

// NumFields returns the number of flattened fields the operand expands
// to.
func (op *Operand) NumFields() int {
	if len(op.Fields) == 0 {
		return 1
	}
	return len(op.Fields)
}

// Constraint returns the constraint on the given field, defaulting to
// ConstraintNone when the loader left it out.
func (op *Operand) Constraint(field int) Constraint {
	if field < len(op.Constraints) {
		return op.Constraints[field]
	}
	return Constraint{}
}

type Instruction struct {
	Name     string
	Operands []*Operand
	NumDefs  int

	Traits

	ImplicitUses []string
	ImplicitDefs []string

	TSFlags BitVector

	// Size is the encoding size in bytes, or negative if the
	// description never set it.
	Size int

	Deprecation Deprecation

	UseNamedOperandTable bool
}

// MinOperands returns the number of flattened operands the instruction
// has without any variadic tail.
func (inst *Instruction) MinOperands() int {
	if len(inst.Operands) == 0 {
		return 0
	}
	last := inst.Operands[len(inst.Operands)-1]
	return last.Position + last.NumFields()
}

type SchedClass struct {
	Name string
}

// SchedModel assigns scheduling classes to instructions.
type SchedModel interface {
	SchedClassIndex(inst *Instruction) int

	// ExplicitClasses are the classes declared by the description, in
	// declaration order.
	ExplicitClasses() []SchedClass

	// NumClasses counts both explicit and implicit classes.
	NumClasses() int
}

// StringPool lays out a set of strings so that common suffixes are
// stored once.
type StringPool interface {
	Add(s string)
	Layout()
	Offset(s string) (int, bool)
	Data() string
}
