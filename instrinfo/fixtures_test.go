package instrinfo

var (
	gr32 = &OperandClass{Name: "GR32", Kind: ClassRegisterClass, ID: 3, Type: "OPERAND_REGISTER"}
	gr8  = &OperandClass{Name: "GR8", Kind: ClassRegisterClass, ID: 1, Type: "OPERAND_REGISTER"}

	gr32orSP = &OperandClass{Name: "GR32orSP", Kind: ClassRegisterOperand, RegClass: gr32, Type: "OPERAND_REGISTER"}
	ptrRC    = &OperandClass{Name: "ptr_rc", Kind: ClassPointerLikeRegClass, PointerKind: 1}

	i32imm  = &OperandClass{Name: "i32imm", Kind: ClassOperand, Type: "OPERAND_IMMEDIATE"}
	predOp  = &OperandClass{Name: "pred", Kind: ClassOperand, Predicate: true, Type: "OPERAND_UNKNOWN"}
	ccOut   = &OperandClass{Name: "cc_out", Kind: ClassOperand, OptionalDef: true, Type: "OPERAND_REGISTER"}
	anonImm = &OperandClass{Kind: ClassOperand, Type: "OPERAND_IMMEDIATE"}
)

type fakeSched struct {
	explicit []SchedClass
	total    int
	classOf  map[string]int
}

func (s *fakeSched) SchedClassIndex(inst *Instruction) int {
	return s.classOf[inst.Name]
}

func (s *fakeSched) ExplicitClasses() []SchedClass {
	return s.explicit
}

func (s *fakeSched) NumClasses() int {
	return s.total
}

func noSched() *fakeSched {
	return &fakeSched{
		explicit: []SchedClass{{Name: "NoInstrModel"}},
		total:    1,
	}
}

// op builds a single-field operand of the given class.
func op(name string, class *OperandClass, pos int) *Operand {
	return &Operand{
		Name:        name,
		Class:       class,
		Constraints: []Constraint{{}},
		Position:    pos,
		Type:        class.Type,
	}
}

// inst builds an instruction whose operands are laid out one after the
// other, with the first numDefs operands being definitions.
func inst(name string, numDefs int, ops ...*Operand) *Instruction {
	pos := 0
	for _, o := range ops {
		o.Position = pos
		pos += o.NumFields()
	}
	return &Instruction{
		Name:     name,
		Operands: ops,
		NumDefs:  numDefs,
		TSFlags:  BitVector{},
		Size:     4,
	}
}

func target(insts ...*Instruction) *Target {
	return &Target{
		Name:           "Toy",
		Namespace:      "Toy",
		Instructions:   insts,
		OperandClasses: []*OperandClass{i32imm, predOp, anonImm, ccOut, gr32orSP},
	}
}
