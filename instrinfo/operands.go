package instrinfo

import (
	"fmt"
	"strconv"
	"strings"
)

// Unconstrained is the register class of an operand field that has no
// fixed register class.
const Unconstrained = -1

// OperandFlags is a bit set of the OperandFlag values.
type OperandFlags uint8

const (
	FlagLookupPtrRegClass OperandFlags = 1 << iota
	FlagPredicate
	FlagOptionalDef
)

func (f OperandFlags) String() string {
	if f == 0 {
		return "0"
	}
	var parts []string
	if f&FlagLookupPtrRegClass != 0 {
		parts = append(parts, "LookupPtrRegClass")
	}
	if f&FlagPredicate != 0 {
		parts = append(parts, "Predicate")
	}
	if f&FlagOptionalDef != 0 {
		parts = append(parts, "OptionalDef")
	}
	return strings.Join(parts, "|")
}

// Bit positions used in the constraint encoding.
const (
	ConstraintTiedToBit       = 0
	ConstraintEarlyClobberBit = 1

	// A tied operand's index is stored above this shift.
	ConstraintTiedShift = 16
)

// Encode packs the constraint into its table encoding.
func (c Constraint) Encode() uint32 {
	switch c.Kind {
	case ConstraintEarlyClobber:
		return 1 << ConstraintEarlyClobberBit
	case ConstraintTied:
		return uint32(c.TiedTo)<<ConstraintTiedShift | 1<<ConstraintTiedToBit
	default:
		return 0
	}
}

// OperandInfo describes one flattened operand field.
type OperandInfo struct {
	// RegClass is a register class id, the kind of a pointer-like
	// register class, or Unconstrained.
	RegClass int

	// RegClassSym is the qualified register class identifier, set only
	// when the field resolved to a register class.
	RegClassSym string

	Flags      OperandFlags
	Type       string
	Constraint uint32
}

// Key is the canonical encoding of the descriptor. Two descriptors are
// interchangeable exactly when their keys are equal.
func (oi OperandInfo) Key() string {
	return fmt.Sprintf("%d %q %d %q %d", oi.RegClass, oi.RegClassSym, oi.Flags, oi.Type, oi.Constraint)
}

func (oi OperandInfo) String() string {
	rc := strconv.Itoa(oi.RegClass)
	if oi.RegClassSym != "" {
		rc = oi.RegClassSym
	}
	return fmt.Sprintf("{%s, %s, %s, %#x}", rc, oi.Flags, oi.Type, oi.Constraint)
}

// Flatten expands a logical operand into its fields.
func Flatten(ns string, op *Operand) ([]OperandInfo, error) {
	if op.Type == "" {
		return nil, fmt.Errorf("operand %s has no operand type", op.Name)
	}

	classes := op.Fields
	if len(classes) == 0 {
		classes = []*OperandClass{op.Class}
	}

	// Predicate and optional-def markers describe the operand as a
	// whole, so they come from the unexpanded class.
	var flags OperandFlags
	if op.Class != nil && op.Class.Predicate {
		flags |= FlagPredicate
	}
	if op.Class != nil && op.Class.OptionalDef {
		flags |= FlagOptionalDef
	}

	ret := make([]OperandInfo, len(classes))
	for i, class := range classes {
		info := OperandInfo{
			RegClass:   Unconstrained,
			Flags:      flags,
			Type:       op.Type,
			Constraint: op.Constraint(i).Encode(),
		}

		if class != nil && class.Kind == ClassRegisterOperand {
			class = class.RegClass
		}
		if class != nil {
			switch class.Kind {
			case ClassRegisterClass:
				info.RegClass = class.ID
				info.RegClassSym = class.QualifiedName(ns) + "RegClassID"
			case ClassPointerLikeRegClass:
				info.RegClass = class.PointerKind
				info.Flags |= FlagLookupPtrRegClass
			}
		}

		ret[i] = info
	}

	return ret, nil
}

// FlattenInstruction flattens every operand of inst, in order.
func FlattenInstruction(ns string, inst *Instruction) ([]OperandInfo, error) {
	var ret []OperandInfo
	for _, op := range inst.Operands {
		infos, err := Flatten(ns, op)
		if err != nil {
			return nil, &SchemaError{Instruction: inst.Name, Err: err}
		}
		ret = append(ret, infos...)
	}
	return ret, nil
}

func operandInfoKey(infos []OperandInfo) string {
	var b strings.Builder
	for i, oi := range infos {
		if i > 0 {
			b.WriteByte(';')
		}
		b.WriteString(oi.Key())
	}
	return b.String()
}
