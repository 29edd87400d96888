package runtime

import "github.com/funvibe/venom/internal/config"

// BoxIntClass/BoxFloatClass/BoxBoolClass back the OP_BOX_{INT,FLOAT,BOOL}
// opcodes (codegen.boxOp): wrapping a primitive so it can flow through an
// Any-typed slot (spec §4.3(e)). Each holds its primitive directly in
// Cells[0], so CellIsRef is left false — there is nothing underneath to
// release.
var (
	BoxIntClass   = &ClassObject{Name: config.BoxedIntName, NumFields: 1, CellIsRef: []bool{false}, FieldNames: []string{"value"}}
	BoxFloatClass = &ClassObject{Name: config.BoxedFloatName, NumFields: 1, CellIsRef: []bool{false}, FieldNames: []string{"value"}}
	BoxBoolClass  = &ClassObject{Name: config.BoxedBoolName, NumFields: 1, CellIsRef: []bool{false}, FieldNames: []string{"value"}}
)

// StringClass tags a string Object, whose content lives in Object.Native
// as a plain Go string (spec's runtime contract); it carries no Cells of
// its own.
var StringClass = &ClassObject{
	Name:   config.StringTypeName,
	Native: NativeString,
}

// NewBoxedInt/Float/Bool allocate a fresh strong reference to a boxed
// primitive (spec §4.6 "Object lifecycle": refcount starts at 1 on the
// constructed reference).
func NewBoxedInt(v int64) *Object {
	o := NewObject(BoxIntClass)
	o.Cells[0] = IntCell(v)
	o.RefCount = 1
	return o
}

func NewBoxedFloat(v float64) *Object {
	o := NewObject(BoxFloatClass)
	o.Cells[0] = FloatCell(v)
	o.RefCount = 1
	return o
}

func NewBoxedBool(v bool) *Object {
	o := NewObject(BoxBoolClass)
	o.Cells[0] = BoolCell(v)
	o.RefCount = 1
	return o
}

// NewString allocates a fresh strong reference to a string Object.
func NewString(s string) *Object {
	o := NewObject(StringClass)
	o.Native = s
	o.RefCount = 1
	return o
}

// StringValue reads the Go string backing a string Object.
func StringValue(o *Object) string {
	return o.Native.(string)
}
