package instrinfo

import (
	"fmt"
)

type DeprecationKind uint8

const (
	NoDeprecation DeprecationKind = iota
	FeatureDeprecation
	PredicateDeprecation
)

// Deprecation says whether, and how, an instruction is deprecated. The
// zero value is not deprecated.
type Deprecation struct {
	kind DeprecationKind
	name string
}

func NotDeprecated() Deprecation {
	return Deprecation{}
}

// DeprecatedByFeature marks an instruction deprecated on subtargets with
// the named feature.
func DeprecatedByFeature(feature string) Deprecation {
	return Deprecation{kind: FeatureDeprecation, name: feature}
}

// DeprecatedByPredicate marks an instruction whose deprecation is
// decided by a named predicate function.
func DeprecatedByPredicate(reason string) Deprecation {
	return Deprecation{kind: PredicateDeprecation, name: reason}
}

func (d Deprecation) Kind() DeprecationKind {
	return d.kind
}

// Name returns the feature or predicate reason name.
func (d Deprecation) Name() string {
	return d.name
}

func (d Deprecation) String() string {
	switch d.kind {
	case FeatureDeprecation:
		return "feature " + d.name
	case PredicateDeprecation:
		return "predicate " + d.name
	default:
		return "none"
	}
}

// Descriptor is the table record for one instruction. List references
// are ids into the matching Tables lists, where 0 means no list.
type Descriptor struct {
	Opcode      int
	Name        string
	NameOffset  int
	NumOperands int
	NumDefs     int
	Size        int
	SchedClass  int
	Flags       uint64
	TSFlags     uint64

	ImplicitUses int
	ImplicitDefs int
	OperandInfo  int

	// DeprecatedFeature is the feature id, or -1.
	DeprecatedFeature     int
	DeprecatedFeatureName string

	// DeprecationCallback names the predicate function, if any.
	DeprecationCallback string
}

// descriptorBuilder holds the registries a descriptor refers to.
type descriptorBuilder struct {
	ns           string
	sched        SchedModel
	features     map[string]int
	implicit     *ListInterner[string]
	operandInfos *ListInterner[OperandInfo]
}

func (b *descriptorBuilder) build(num int, inst *Instruction) (Descriptor, error) {
	if inst.Size < 0 {
		return Descriptor{}, schemaErrorf(inst.Name, "no encoding size")
	}
	if inst.TSFlags == nil {
		return Descriptor{}, schemaErrorf(inst.Name, "no target-specific flags")
	}
	tsFlags, err := inst.TSFlags.Value()
	if err != nil {
		return Descriptor{}, schemaErrorf(inst.Name, "invalid target-specific flags %s: %v", inst.TSFlags, err)
	}

	d := Descriptor{
		Opcode:            num,
		Name:              inst.Name,
		NumOperands:       inst.MinOperands(),
		NumDefs:           inst.NumDefs,
		Size:              inst.Size,
		SchedClass:        b.sched.SchedClassIndex(inst),
		Flags:             inst.Traits.Mask(),
		TSFlags:           tsFlags,
		DeprecatedFeature: -1,
	}

	d.ImplicitUses, err = b.lookupRegisters(inst.Name, inst.ImplicitUses)
	if err != nil {
		return Descriptor{}, err
	}
	d.ImplicitDefs, err = b.lookupRegisters(inst.Name, inst.ImplicitDefs)
	if err != nil {
		return Descriptor{}, err
	}

	infos, err := FlattenInstruction(b.ns, inst)
	if err != nil {
		return Descriptor{}, err
	}
	id, ok := b.operandInfos.Lookup(infos)
	if !ok {
		return Descriptor{}, internalErrorf("operand info for %s was never interned", inst.Name)
	}
	d.OperandInfo = id

	switch inst.Deprecation.Kind() {
	case FeatureDeprecation:
		feature := inst.Deprecation.Name()
		fid, ok := b.features[feature]
		if !ok {
			return Descriptor{}, schemaErrorf(inst.Name, "deprecated on unknown feature %q", feature)
		}
		d.DeprecatedFeature = fid
		d.DeprecatedFeatureName = b.ns + "::" + feature
	case PredicateDeprecation:
		d.DeprecationCallback = fmt.Sprintf("get%sDeprecationInfo", inst.Deprecation.Name())
	}

	return d, nil
}

func (b *descriptorBuilder) lookupRegisters(inst string, regs []string) (int, error) {
	if len(regs) == 0 {
		return 0, nil
	}
	id, ok := b.implicit.Lookup(regs)
	if !ok {
		return 0, internalErrorf("implicit register list %v of %s was never interned", regs, inst)
	}
	return id, nil
}
