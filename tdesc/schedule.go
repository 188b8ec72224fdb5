package tdesc

import (
	"github.com/apparentlymart/instrinfo/instrinfo"
)

// NoInstrModel is the scheduling class of instructions that name none.
const NoInstrModel = "NoInstrModel"

// Schedule is the scheduling model of a loaded target. Class 0 is
// NoInstrModel and the declared classes follow it. Classes that
// instructions name without declaring are implicit and come last.
type Schedule struct {
	classes     []instrinfo.SchedClass
	numExplicit int
	index       map[string]int
	classOf     map[*instrinfo.Instruction]int
}

func newSchedule(declared []string) *Schedule {
	s := &Schedule{
		index:   make(map[string]int),
		classOf: make(map[*instrinfo.Instruction]int),
	}
	s.add(NoInstrModel)
	for _, name := range declared {
		s.add(name)
	}
	s.numExplicit = len(s.classes)
	return s
}

func (s *Schedule) add(name string) int {
	if idx, ok := s.index[name]; ok {
		return idx
	}
	idx := len(s.classes)
	s.index[name] = idx
	s.classes = append(s.classes, instrinfo.SchedClass{Name: name})
	return idx
}

func (s *Schedule) assign(inst *instrinfo.Instruction, name string) {
	if name == "" {
		name = NoInstrModel
	}
	s.classOf[inst] = s.add(name)
}

func (s *Schedule) SchedClassIndex(inst *instrinfo.Instruction) int {
	return s.classOf[inst]
}

func (s *Schedule) ExplicitClasses() []instrinfo.SchedClass {
	return s.classes[:s.numExplicit]
}

func (s *Schedule) NumClasses() int {
	return len(s.classes)
}

// Classes returns every class, explicit and implicit, indexed by class
// id.
func (s *Schedule) Classes() []instrinfo.SchedClass {
	return s.classes
}
