package instrinfo

import (
	"io"
	"log"
	"sort"
	"strings"
)

// Tables is the compiled description of a target's instructions.
type Tables struct {
	TargetName string
	Namespace  string

	Instructions Enum
	SchedClasses Enum
	OperandTypes Enum
	OperandNames Enum

	// Descriptors are indexed by opcode.
	Descriptors []Descriptor

	// ImplicitLists and OperandInfos are indexed by the ids stored in
	// the descriptors. Entry 0 of each is empty.
	ImplicitLists [][]string
	OperandInfos  [][]OperandInfo

	// NameData holds every instruction name, NUL terminated, with
	// shared suffixes stored once. NameOffsets is indexed by opcode.
	NameData    string
	NameOffsets []int

	NameTable *NameTable
}

// Flags returns the names of the traits set on an instruction.
func (t *Tables) Flags(opcode int) []string {
	return DecodeTraits(t.Descriptors[opcode].Flags)
}

// InstrName returns the name of an instruction as stored in NameData.
func (t *Tables) InstrName(opcode int) string {
	data := t.NameData[t.NameOffsets[opcode]:]
	if end := strings.IndexByte(data, 0); end >= 0 {
		data = data[:end]
	}
	return data
}

// OperandInfo returns the flattened operand descriptors of an
// instruction.
func (t *Tables) OperandInfo(opcode int) []OperandInfo {
	return t.OperandInfos[t.Descriptors[opcode].OperandInfo]
}

type Option func(*compiler)

// WithLogger reports progress to l.
func WithLogger(l *log.Logger) Option {
	return func(c *compiler) {
		c.log = l
	}
}

// WithStringPool lays out instruction names with pool instead of the
// default sorted, unshared layout.
func WithStringPool(pool StringPool) Option {
	return func(c *compiler) {
		c.pool = pool
	}
}

type compiler struct {
	log  *log.Logger
	pool StringPool
}

// Compile builds the tables for t. Nothing is returned unless every
// instruction compiled.
func Compile(t *Target, sched SchedModel, opts ...Option) (*Tables, error) {
	c := &compiler{
		log: log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.pool == nil {
		c.pool = newPlainPool()
	}

	if t.Namespace == "" {
		return nil, ErrNoNamespace
	}
	if len(t.Instructions) == 0 {
		return nil, ErrNoInstructions
	}

	insts := t.Instructions
	ret := &Tables{
		TargetName:   t.Name,
		Namespace:    t.Namespace,
		Instructions: instructionEnum(insts),
		SchedClasses: schedEnum(sched, len(insts)),
	}

	implicit := newRegisterListInterner()
	for _, inst := range insts {
		if len(inst.ImplicitUses) > 0 {
			implicit.Intern(inst.ImplicitUses)
		}
		if len(inst.ImplicitDefs) > 0 {
			implicit.Intern(inst.ImplicitDefs)
		}
	}
	c.log.Printf("%d distinct implicit register lists", implicit.Len())

	operandInfos := newOperandInfoInterner()
	for _, inst := range insts {
		infos, err := FlattenInstruction(t.Namespace, inst)
		if err != nil {
			return nil, err
		}
		operandInfos.Intern(infos)
	}
	c.log.Printf("%d distinct operand info lists for %d instructions", operandInfos.Len(), len(insts))

	features := make(map[string]int, len(t.Features))
	for i, f := range t.Features {
		features[f] = i
	}

	b := &descriptorBuilder{
		ns:           t.Namespace,
		sched:        sched,
		features:     features,
		implicit:     implicit,
		operandInfos: operandInfos,
	}

	ret.Descriptors = make([]Descriptor, len(insts))
	for num, inst := range insts {
		d, err := b.build(num, inst)
		if err != nil {
			return nil, err
		}
		ret.Descriptors[num] = d
		c.pool.Add(inst.Name)
	}

	c.pool.Layout()
	ret.NameData = c.pool.Data()
	ret.NameOffsets = make([]int, len(insts))
	for num, inst := range insts {
		off, ok := c.pool.Offset(inst.Name)
		if !ok {
			return nil, internalErrorf("instruction name %s missing from the string pool", inst.Name)
		}
		ret.NameOffsets[num] = off
		ret.Descriptors[num].NameOffset = off
	}
	c.log.Printf("%d bytes of instruction names", len(ret.NameData))

	ret.ImplicitLists = implicit.Lists()
	ret.OperandInfos = operandInfos.Lists()

	ret.NameTable = BuildNameTable(insts)
	ret.OperandNames = ret.NameTable.Enum()
	c.log.Printf("%d operand names in %d distinct rows", len(ret.NameTable.Names()), len(ret.NameTable.Groups()))

	ret.OperandTypes = operandTypeEnum(t.OperandClasses)

	return ret, nil
}

// plainPool stores each distinct name once, in sorted order, without
// sharing suffixes.
type plainPool struct {
	names   map[string]bool
	offsets map[string]int
	data    strings.Builder
}

func newPlainPool() *plainPool {
	return &plainPool{names: make(map[string]bool)}
}

func (p *plainPool) Add(s string) {
	p.names[s] = true
}

func (p *plainPool) Layout() {
	sorted := make([]string, 0, len(p.names))
	for s := range p.names {
		sorted = append(sorted, s)
	}
	sort.Strings(sorted)

	p.offsets = make(map[string]int, len(sorted))
	p.data.Reset()
	for _, s := range sorted {
		p.offsets[s] = p.data.Len()
		p.data.WriteString(s)
		p.data.WriteByte(0)
	}
}

func (p *plainPool) Offset(s string) (int, bool) {
	off, ok := p.offsets[s]
	return off, ok
}

func (p *plainPool) Data() string {
	return p.data.String()
}
