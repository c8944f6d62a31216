package bytecode

import (
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
)

// TestDisassemble_Snapshot exercises Disassemble against a function whose
// bytecode touches every operand shape the disassembler special-cases:
// a one-byte constant operand, a 16-bit jump, and a Closure's trailing
// (is_local, index) pairs. Grounded on go-dws's own use of go-snaps for
// structural renders (CWBudde-go-dws/internal/interp/fixture_test.go).
func TestDisassemble_Snapshot(t *testing.T) {
	inner := &Function{
		Name:        "inc",
		Code:        []byte{byte(GetUpvalue), 0, byte(Return)},
		Constants:   nil,
		NumLocals:   1,
		NumUpvalues: 1,
	}

	outer := &Function{
		Name: "makeCounter",
		Code: []byte{
			byte(Constant), 0,
			byte(JumpIfFalse), 0, 4,
			byte(Constant), 1,
			byte(Closure), 2, 1, 0,
			byte(Return),
		},
		Constants: []Value{
			Number(0),
			String("unused"),
			Object(inner),
		},
		NumLocals: 2,
	}

	snaps.MatchSnapshot(t, Disassemble(outer))
}
