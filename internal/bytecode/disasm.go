package bytecode

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// Disassemble renders a Function's bytecode as human-readable text, one
// instruction per line, for the --show-bytecode diagnostic and debug
// tooling. The format is offset, opcode name, and any resolved operand.
func Disassemble(fn *Function) string {
	var b strings.Builder
	fmt.Fprintf(&b, "== %s ==\n", fn.Name)
	for offset := 0; offset < len(fn.Code); {
		offset = disassembleInstruction(&b, fn, offset)
	}
	return b.String()
}

func disassembleInstruction(b *strings.Builder, fn *Function, offset int) int {
	op := OpCode(fn.Code[offset])
	fmt.Fprintf(b, "%04d %-14s", offset, op)

	switch op {
	case Closure:
		idx := fn.Code[offset+1]
		fmt.Fprintf(b, " %d %s\n", idx, constantString(fn, idx))
		offset += 2
		if f, ok := fn.Constants[idx].Data.(*Function); ok {
			for i := 0; i < f.NumUpvalues; i++ {
				isLocal := fn.Code[offset]
				index := fn.Code[offset+1]
				kind := "upvalue"
				if isLocal != 0 {
					kind = "local"
				}
				fmt.Fprintf(b, "%04d      | %s %d\n", offset, kind, index)
				offset += 2
			}
		}
		return offset

	case Jump, JumpIfFalse, JumpIfTrue:
		// Decoded the same way vm.readOffset does: a signed two's-complement
		// distance, so backward (loop) jumps display their real target
		// instead of overflowing past the end of the function.
		jump := int16(binary.BigEndian.Uint16(fn.Code[offset+1 : offset+3]))
		fmt.Fprintf(b, " -> %04d\n", offset+3+int(jump))
		return offset + 3

	default:
		width := operandWidth(op)
		switch width {
		case 0:
			b.WriteString("\n")
			return offset + 1
		case 1:
			operand := fn.Code[offset+1]
			if op == Constant || op == GetGlobal || op == SetGlobal || op == GetField || op == SetField || op == CreateClass || op == GetSuper || op == Method {
				fmt.Fprintf(b, " %d %s\n", operand, constantString(fn, operand))
			} else {
				fmt.Fprintf(b, " %d\n", operand)
			}
			return offset + 2
		default:
			b.WriteString("\n")
			return offset + 1 + width
		}
	}
}

func constantString(fn *Function, idx uint8) string {
	if int(idx) >= len(fn.Constants) {
		return "?"
	}
	return "'" + fn.Constants[idx].String() + "'"
}
