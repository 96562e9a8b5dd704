package pulsecontrol

import "fmt"

// BranchingError reports that a block cannot compile because the hardware
// does not support branching. Positions lists every offending instruction
// index; the whole block is inspected before the compilation is rejected.
type BranchingError struct {
	Positions []int
}

func (e *BranchingError) Error() string {
	return fmt.Sprintf("hardware-based branching is not supported: non-executable instructions at positions %v", e.Positions)
}
