package link

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/funvibe/venom/internal/opcode"
	"github.com/funvibe/venom/internal/runtime"
)

// execDoc is Executable's on-disk shape for the SaveYAML/LoadYAML round
// trip (SPEC_FULL §B); --print-bytecode dumps the unlinked ObjectCode
// through traceio.DumpBytecode instead. Pointer
// graphs (FunctionDescriptor.OwnerClass, ClassObject.Parent/VTable/Ctor)
// are flattened to indices into Functions/Classes, the same way
// codegen.ObjectCode already represents cross-references symbolically
// before linking resolves them to pointers.
type execDoc struct {
	Code       []byte       `yaml:"code"`
	Constants  []constDoc   `yaml:"constants"`
	Functions  []funcDoc    `yaml:"functions"`
	Classes    []classDoc   `yaml:"classes"`
	MainOffset int          `yaml:"main_offset"`
	HasMain    bool         `yaml:"has_main"`
}

type constDoc struct {
	Kind  runtime.ConstantKind `yaml:"kind"`
	Int   int64                `yaml:"int,omitempty"`
	Float float64              `yaml:"float,omitempty"`
	Bool  bool                 `yaml:"bool,omitempty"`
	Str   string               `yaml:"str,omitempty"`
}

type funcDoc struct {
	Name       string `yaml:"name"`
	CodeOffset int    `yaml:"code_offset"`
	NumParams  int    `yaml:"num_params"`
	ParamIsRef []bool `yaml:"param_is_ref,omitempty"`
	Native     bool   `yaml:"native"`
	NumLocals  int    `yaml:"num_locals"`
	LocalIsRef []bool `yaml:"local_is_ref,omitempty"`
	OwnerClass int    `yaml:"owner_class"` // index into Classes, -1 if none
}

type classDoc struct {
	Name       string   `yaml:"name"`
	Parent     int      `yaml:"parent"` // index into Classes, -1 if none
	NumFields  int      `yaml:"num_fields"`
	CellIsRef  []bool   `yaml:"cell_is_ref,omitempty"`
	FieldNames []string `yaml:"field_names,omitempty"`
	VTable     []int    `yaml:"vtable,omitempty"` // indices into Functions
	Ctor       int      `yaml:"ctor"`             // index into Functions, -1 if none
	Native     runtime.NativeKind `yaml:"native"`
}

// SaveYAML renders a linked Executable to spec §8's round-trip format
// (serialize, reload, re-execute, same observable behavior). Built-in
// classes/functions (List, Map, Ref, string.*, print, ...) serialize like
// any other entry; LoadYAML re-resolves their native functions by name
// through runtime.LookupNative exactly as the linker itself does at step 2.
func SaveYAML(exe *Executable) ([]byte, error) {
	classIdx := make(map[*runtime.ClassObject]int, len(exe.Classes))
	for i, c := range exe.Classes {
		classIdx[c] = i
	}
	funcIdx := make(map[*runtime.FunctionDescriptor]int, len(exe.Functions))
	for i, f := range exe.Functions {
		funcIdx[f] = i
	}

	doc := execDoc{
		Code:       append([]byte(nil), exe.Code...),
		MainOffset: exe.MainOffset,
		HasMain:    exe.HasMain,
	}
	for _, c := range exe.Constants {
		doc.Constants = append(doc.Constants, constDoc{Kind: c.Kind, Int: c.Int, Float: c.Float, Bool: c.Bool, Str: c.Str})
	}
	for _, f := range exe.Functions {
		owner := -1
		if f.OwnerClass != nil {
			owner = classIdx[f.OwnerClass]
		}
		doc.Functions = append(doc.Functions, funcDoc{
			Name: f.Name, CodeOffset: f.CodeOffset, NumParams: f.NumParams,
			ParamIsRef: f.ParamIsRef, Native: f.Native, NumLocals: f.NumLocals,
			LocalIsRef: f.LocalIsRef, OwnerClass: owner,
		})
	}
	for _, c := range exe.Classes {
		parent := -1
		if c.Parent != nil {
			parent = classIdx[c.Parent]
		}
		ctor := -1
		if c.Ctor != nil {
			ctor = funcIdx[c.Ctor]
		}
		var vtable []int
		for _, m := range c.VTable {
			vtable = append(vtable, funcIdx[m])
		}
		doc.Classes = append(doc.Classes, classDoc{
			Name: c.Name, Parent: parent, NumFields: c.NumFields, CellIsRef: c.CellIsRef,
			FieldNames: c.FieldNames, VTable: vtable, Ctor: ctor, Native: c.Native,
		})
	}
	return yaml.Marshal(&doc)
}

// LoadYAML reconstructs an Executable from SaveYAML's output. A function
// marked Native is re-bound to its runtime.LookupNative implementation by
// name; a miss is a LinkerException, same as an unresolved extern at
// ordinary link time.
func LoadYAML(data []byte) (*Executable, error) {
	var doc execDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("link: LoadYAML: %w", err)
	}

	exe := &Executable{
		Code:       opcode.Instructions(doc.Code),
		MainOffset: doc.MainOffset,
		HasMain:    doc.HasMain,
	}
	for _, c := range doc.Constants {
		exe.Constants = append(exe.Constants, runtime.ExecConstant{Kind: c.Kind, Int: c.Int, Float: c.Float, Bool: c.Bool, Str: c.Str})
	}

	exe.Functions = make([]*runtime.FunctionDescriptor, len(doc.Functions))
	for i, f := range doc.Functions {
		fd := &runtime.FunctionDescriptor{
			Name: f.Name, CodeOffset: f.CodeOffset, NumParams: f.NumParams,
			ParamIsRef: f.ParamIsRef, Native: f.Native, NumLocals: f.NumLocals,
			LocalIsRef: f.LocalIsRef,
		}
		if f.Native {
			fd.NativeFunc = runtime.LookupNative(f.Name)
			if fd.NativeFunc == nil {
				return nil, &LinkerException{Kind: "function", Name: f.Name}
			}
		}
		exe.Functions[i] = fd
	}

	exe.Classes = make([]*runtime.ClassObject, len(doc.Classes))
	for i, c := range doc.Classes {
		exe.Classes[i] = &runtime.ClassObject{
			Name: c.Name, NumFields: c.NumFields, CellIsRef: c.CellIsRef,
			FieldNames: c.FieldNames, Native: c.Native,
		}
	}
	// Second pass: cross-references need every ClassObject/FunctionDescriptor
	// to already exist.
	for i, c := range doc.Classes {
		co := exe.Classes[i]
		if c.Parent >= 0 {
			co.Parent = exe.Classes[c.Parent]
		}
		for _, fi := range c.VTable {
			co.VTable = append(co.VTable, exe.Functions[fi])
		}
		if c.Ctor >= 0 {
			co.Ctor = exe.Functions[c.Ctor]
			co.HasCtor = true
		}
	}
	for i, f := range doc.Functions {
		if f.OwnerClass >= 0 {
			exe.Functions[i].OwnerClass = exe.Classes[f.OwnerClass]
		}
	}

	return exe, nil
}
