package instrinfo

import (
	"fmt"
)

// Traits are the target-independent boolean properties of an
// instruction.
type Traits struct {
	Variadic             bool
	HasOptionalDef       bool
	Pseudo               bool
	Return               bool
	Call                 bool
	Barrier              bool
	Terminator           bool
	Branch               bool
	IndirectBranch       bool
	Compare              bool
	MoveImm              bool
	Bitcast              bool
	Select               bool
	DelaySlot            bool
	FoldableAsLoad       bool
	MayLoad              bool
	MayStore             bool
	Predicable           bool
	NotDuplicable        bool
	UnmodeledSideEffects bool
	Commutable           bool
	ConvertibleTo3Addr   bool
	UsesCustomInserter   bool
	HasPostISelHook      bool
	Rematerializable     bool
	CheapAsAMove         bool
	ExtraSrcRegAllocReq  bool
	ExtraDefRegAllocReq  bool
	RegSequence          bool
	ExtractSubreg        bool
	InsertSubreg         bool
	Convergent           bool
}

// Trait describes one entry of the trait registry.
type Trait struct {
	// Name is the flag name used in emitted tables.
	Name string

	// Key is the name used for the trait in target descriptions.
	Key string

	Bit uint

	field func(*Traits) *bool
}

// Mask returns the trait's bit in a flag mask.
func (t Trait) Mask() uint64 {
	return 1 << t.Bit
}

// Get reports whether the trait is set in ts.
func (t Trait) Get(ts *Traits) bool {
	return *t.field(ts)
}

// The position in this table is the trait's bit.
var traitTable = []Trait{
	{Name: "VARIADIC", Key: "variadic", field: func(t *Traits) *bool { return &t.Variadic }},
	{Name: "HAS_OPTIONAL_DEF", Key: "hasOptionalDef", field: func(t *Traits) *bool { return &t.HasOptionalDef }},
	{Name: "PSEUDO", Key: "isPseudo", field: func(t *Traits) *bool { return &t.Pseudo }},
	{Name: "RETURN", Key: "isReturn", field: func(t *Traits) *bool { return &t.Return }},
	{Name: "CALL", Key: "isCall", field: func(t *Traits) *bool { return &t.Call }},
	{Name: "BARRIER", Key: "isBarrier", field: func(t *Traits) *bool { return &t.Barrier }},
	{Name: "TERMINATOR", Key: "isTerminator", field: func(t *Traits) *bool { return &t.Terminator }},
	{Name: "BRANCH", Key: "isBranch", field: func(t *Traits) *bool { return &t.Branch }},
	{Name: "INDIRECT_BRANCH", Key: "isIndirectBranch", field: func(t *Traits) *bool { return &t.IndirectBranch }},
	{Name: "COMPARE", Key: "isCompare", field: func(t *Traits) *bool { return &t.Compare }},
	{Name: "MOVE_IMM", Key: "isMoveImm", field: func(t *Traits) *bool { return &t.MoveImm }},
	{Name: "BITCAST", Key: "isBitcast", field: func(t *Traits) *bool { return &t.Bitcast }},
	{Name: "SELECT", Key: "isSelect", field: func(t *Traits) *bool { return &t.Select }},
	{Name: "DELAY_SLOT", Key: "hasDelaySlot", field: func(t *Traits) *bool { return &t.DelaySlot }},
	{Name: "FOLDABLE_AS_LOAD", Key: "canFoldAsLoad", field: func(t *Traits) *bool { return &t.FoldableAsLoad }},
	{Name: "MAY_LOAD", Key: "mayLoad", field: func(t *Traits) *bool { return &t.MayLoad }},
	{Name: "MAY_STORE", Key: "mayStore", field: func(t *Traits) *bool { return &t.MayStore }},
	{Name: "PREDICABLE", Key: "isPredicable", field: func(t *Traits) *bool { return &t.Predicable }},
	{Name: "NOT_DUPLICABLE", Key: "isNotDuplicable", field: func(t *Traits) *bool { return &t.NotDuplicable }},
	{Name: "UNMODELED_SIDE_EFFECTS", Key: "hasSideEffects", field: func(t *Traits) *bool { return &t.UnmodeledSideEffects }},
	{Name: "COMMUTABLE", Key: "isCommutable", field: func(t *Traits) *bool { return &t.Commutable }},
	{Name: "CONVERTIBLE_TO_3ADDR", Key: "isConvertibleToThreeAddress", field: func(t *Traits) *bool { return &t.ConvertibleTo3Addr }},
	{Name: "USES_CUSTOM_INSERTER", Key: "usesCustomInserter", field: func(t *Traits) *bool { return &t.UsesCustomInserter }},
	{Name: "HAS_POST_ISEL_HOOK", Key: "hasPostISelHook", field: func(t *Traits) *bool { return &t.HasPostISelHook }},
	{Name: "REMATERIALIZABLE", Key: "isReMaterializable", field: func(t *Traits) *bool { return &t.Rematerializable }},
	{Name: "CHEAP_AS_A_MOVE", Key: "isAsCheapAsAMove", field: func(t *Traits) *bool { return &t.CheapAsAMove }},
	{Name: "EXTRA_SRC_REG_ALLOC_REQ", Key: "hasExtraSrcRegAllocReq", field: func(t *Traits) *bool { return &t.ExtraSrcRegAllocReq }},
	{Name: "EXTRA_DEF_REG_ALLOC_REQ", Key: "hasExtraDefRegAllocReq", field: func(t *Traits) *bool { return &t.ExtraDefRegAllocReq }},
	{Name: "REG_SEQUENCE", Key: "isRegSequence", field: func(t *Traits) *bool { return &t.RegSequence }},
	{Name: "EXTRACT_SUBREG", Key: "isExtractSubreg", field: func(t *Traits) *bool { return &t.ExtractSubreg }},
	{Name: "INSERT_SUBREG", Key: "isInsertSubreg", field: func(t *Traits) *bool { return &t.InsertSubreg }},
	{Name: "CONVERGENT", Key: "isConvergent", field: func(t *Traits) *bool { return &t.Convergent }},
}

var traitsByKey = make(map[string]int)

func init() {
	for i := range traitTable {
		traitTable[i].Bit = uint(i)
		traitsByKey[traitTable[i].Key] = i
	}
}

// TraitTable returns the trait registry in bit order.
func TraitTable() []Trait {
	ret := make([]Trait, len(traitTable))
	copy(ret, traitTable)
	return ret
}

// Mask packs the set traits into a flag mask.
func (ts *Traits) Mask() uint64 {
	var ret uint64
	for _, t := range traitTable {
		if t.Get(ts) {
			ret |= t.Mask()
		}
	}
	return ret
}

// Set turns on the trait with the given description key.
func (ts *Traits) Set(key string) error {
	i, ok := traitsByKey[key]
	if !ok {
		return fmt.Errorf("unknown trait %q", key)
	}
	*traitTable[i].field(ts) = true
	return nil
}

// DecodeTraits lists the names of the traits set in mask, in bit order.
func DecodeTraits(mask uint64) []string {
	var ret []string
	for _, t := range traitTable {
		if mask&t.Mask() != 0 {
			ret = append(ret, t.Name)
		}
	}
	return ret
}
