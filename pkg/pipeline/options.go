package pipeline

import (
	"github.com/SaidZahrai/go-parallel-operators/log"
)

// StageOption configures a stage at construction time.
type StageOption func(s *stage)

// StageLogger attaches a logger to the stage and to the buffers it lazily
// creates, enabling the per-event diagnostic output.
func StageLogger(l log.Logger) StageOption {
	return func(s *stage) {
		if l != nil {
			s.log = l
		}
	}
}

// StageMode presets the execution mode before the stage starts. The default
// is ModeStep.
func StageMode(mode Mode) StageOption {
	return func(s *stage) {
		s.mode = mode
	}
}
