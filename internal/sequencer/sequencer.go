// Package sequencer translates pulse templates plus bindings into ordered
// instruction blocks. It expands composites depth-first in structural order:
// sequences concatenate, bounded repeats unroll, branches become branch
// instructions for the compiler to judge, and atomic templates upload their
// waveform and emit one exec instruction.
package sequencer

import (
	"context"
	"fmt"

	"github.com/qdlab/pulsec/internal/ctxlog"
	"github.com/qdlab/pulsec/internal/instruction"
	"github.com/qdlab/pulsec/internal/param"
	"github.com/qdlab/pulsec/internal/pulse"
)

type item struct {
	tmpl   pulse.Template
	values param.Values
}

// Sequencer builds one instruction block from a queue of templates. The
// block is built fresh for every Build call; the sequencer itself keeps no
// hardware state.
type Sequencer struct {
	hw    pulse.Hardware
	queue []item
}

// New creates a sequencer that uploads waveforms through the given hardware
// interface.
func New(hw pulse.Hardware) *Sequencer {
	return &Sequencer{hw: hw}
}

// Push enqueues a template with its binding. Templates are sequenced in push
// order.
func (s *Sequencer) Push(tmpl pulse.Template, values param.Values) {
	s.queue = append(s.queue, item{tmpl: tmpl, values: values})
}

// Build sequences every pushed template into a single instruction block and
// clears the queue.
func (s *Sequencer) Build(ctx context.Context) (*instruction.Block, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Sequencer building block.", "queued", len(s.queue))

	block := instruction.NewBlock()
	for _, it := range s.queue {
		if err := pulse.CheckBinding(it.tmpl, it.values); err != nil {
			return nil, err
		}
		if err := s.expand(ctx, it.tmpl, it.values, block); err != nil {
			return nil, err
		}
	}
	s.queue = nil

	logger.Debug("Sequencer block complete.", "instructions", block.Len())
	return block, nil
}

func (s *Sequencer) expand(ctx context.Context, tmpl pulse.Template, values param.Values, block *instruction.Block) error {
	switch t := tmpl.(type) {
	case *pulse.Table:
		w, err := t.UploadWaveform(ctx, s.hw, values)
		if err != nil {
			return err
		}
		block.Append(&instruction.Exec{Waveform: w})
		return nil

	case *pulse.Sequence:
		for _, child := range t.Children() {
			if err := s.expand(ctx, child, values.Subset(child.ParameterNames()), block); err != nil {
				return err
			}
		}
		return nil

	case *pulse.Repeat:
		count, err := t.Count(values.Subset(t.ParameterNames()))
		if err != nil {
			return err
		}
		child := t.Child()
		sub := values.Subset(child.ParameterNames())
		for i := 0; i < count; i++ {
			if err := s.expand(ctx, child, sub, block); err != nil {
				return err
			}
		}
		return nil

	case *pulse.Branch:
		thenBlock := instruction.NewBlock()
		if err := s.expand(ctx, t.Then(), values.Subset(t.Then().ParameterNames()), thenBlock); err != nil {
			return err
		}
		elseBlock := instruction.NewBlock()
		if err := s.expand(ctx, t.Else(), values.Subset(t.Else().ParameterNames()), elseBlock); err != nil {
			return err
		}
		block.Append(&instruction.Branch{Condition: t.Condition(), Then: thenBlock, Else: elseBlock})
		return nil

	default:
		return fmt.Errorf("unknown template kind %q", tmpl.Kind())
	}
}
