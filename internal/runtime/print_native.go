package runtime

import (
	"fmt"
	"os"

	"github.com/funvibe/venom/internal/config"
)

// printFuncs registers the one free function every Venom module sees
// without a declaration or import (spec §8's stdout scenarios). Its single
// parameter is typed Any, so rewrite.BoxPrimitives boxes a bare Int/Float/
// Bool argument before the call reaches here (spec §4.3(e)); cellText below
// unwraps whichever representation arrives.
func printFuncs() map[string]*FunctionDescriptor {
	return map[string]*FunctionDescriptor{
		config.PrintFuncName: {
			Name:       config.PrintFuncName,
			Native:     true,
			NativeFunc: printNative,
			NumParams:  1,
			ParamIsRef: []bool{true},
		},
	}
}

func printNative(args []Cell) (Cell, error) {
	fmt.Fprintln(os.Stdout, cellText(args[0]))
	return NullCell(), nil
}

// cellText renders a Cell for print/trace output, unwrapping the built-in
// boxed-primitive and string representations.
func cellText(c Cell) string {
	switch c.Tag {
	case CellInt:
		return fmt.Sprintf("%d", c.Int)
	case CellFloat:
		return fmt.Sprintf("%g", c.Float)
	case CellBool:
		return fmt.Sprintf("%t", c.Bool)
	}
	if c.Obj == nil {
		return "null"
	}
	switch c.Obj.Class {
	case BoxIntClass:
		return fmt.Sprintf("%d", c.Obj.Cells[0].Int)
	case BoxFloatClass:
		return fmt.Sprintf("%g", c.Obj.Cells[0].Float)
	case BoxBoolClass:
		return fmt.Sprintf("%t", c.Obj.Cells[0].Bool)
	case StringClass:
		return StringValue(c.Obj)
	}
	return fmt.Sprintf("<%s>", c.Obj.Class.Name)
}
