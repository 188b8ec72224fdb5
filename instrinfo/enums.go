package instrinfo

// EnumEntry is one named value of an enumeration.
type EnumEntry struct {
	Name  string
	Value int
}

// Enum is an enumeration followed by its terminal sentinel. Entries can
// skip values that have no symbolic name.
type Enum struct {
	Name    string
	Entries []EnumEntry
	End     EnumEntry
}

// Value returns the value of the named entry.
func (e Enum) Value(name string) (int, bool) {
	for _, ent := range e.Entries {
		if ent.Name == name {
			return ent.Value, true
		}
	}
	return 0, false
}

func instructionEnum(insts []*Instruction) Enum {
	e := Enum{Name: "Opcode"}
	for i, inst := range insts {
		e.Entries = append(e.Entries, EnumEntry{Name: inst.Name, Value: i})
	}
	e.End = EnumEntry{Name: "INSTRUCTION_LIST_END", Value: len(insts)}
	return e
}

// schedEnum numbers the explicit classes on from the instruction enum,
// but its sentinel is the total number of scheduling classes.
func schedEnum(sched SchedModel, numInsts int) Enum {
	e := Enum{Name: "Sched"}
	num := numInsts
	for _, class := range sched.ExplicitClasses() {
		e.Entries = append(e.Entries, EnumEntry{Name: class.Name, Value: num})
		num++
	}
	e.End = EnumEntry{Name: "SCHED_LIST_END", Value: sched.NumClasses()}
	return e
}

func operandTypeEnum(classes []*OperandClass) Enum {
	e := Enum{Name: "OperandType"}
	num := 0
	for _, class := range classes {
		if class.Kind != ClassOperand {
			continue
		}
		if !class.Anonymous() {
			e.Entries = append(e.Entries, EnumEntry{Name: class.Name, Value: num})
		}
		num++
	}
	e.End = EnumEntry{Name: "OPERAND_TYPE_LIST_END", Value: num}
	return e
}
