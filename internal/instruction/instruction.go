// Package instruction models the ordered execution steps a sequencer derives
// from pulse templates. The compiler consumes blocks read-only; only the
// exec-waveform variant is executable on the target hardware.
package instruction

import "github.com/qdlab/pulsec/internal/waveform"

// Instruction is one step in a block. Implementations are the closed set of
// variants below; consumers dispatch with a type switch.
type Instruction interface {
	isInstruction()
}

// Exec plays one waveform exactly once.
type Exec struct {
	Waveform waveform.Waveform
}

func (*Exec) isInstruction() {}

// Branch selects between two sub-blocks on a condition parameter. It is
// structurally representable so sequencers can express branching templates,
// but the pulse-group compiler rejects any block containing it.
type Branch struct {
	Condition string
	Then      *Block
	Else      *Block
}

func (*Branch) isInstruction() {}
