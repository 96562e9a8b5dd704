package instruction

// Block is an ordered, append-only sequence of instructions. Once handed to
// the compiler it is treated as read-only.
type Block struct {
	instructions []Instruction
}

// NewBlock returns an empty block.
func NewBlock() *Block {
	return &Block{}
}

// Append adds an instruction at the end of the block.
func (b *Block) Append(in Instruction) {
	b.instructions = append(b.instructions, in)
}

// Instructions returns the instructions in order. The returned slice is a
// copy; appending to the block later does not affect it.
func (b *Block) Instructions() []Instruction {
	out := make([]Instruction, len(b.instructions))
	copy(out, b.instructions)
	return out
}

// Len returns the number of instructions in the block.
func (b *Block) Len() int {
	return len(b.instructions)
}
