package constants

// Stage is one step of the header extraction pipeline, in strict order.
type Stage string

const (
	StageTemplate Stage = "template"
	StageRegex    Stage = "regex"
	StageML       Stage = "ml"
	StageLLM      Stage = "llm"
)

var stageOrder = []Stage{StageTemplate, StageRegex, StageML, StageLLM}

// StageOrder returns the pipeline stages in execution order.
func StageOrder() []Stage {
	out := make([]Stage, len(stageOrder))
	copy(out, stageOrder)
	return out
}

// Rank returns the position of the stage in the pipeline, or -1 for an
// unknown stage.
func (s Stage) Rank() int {
	for i, st := range stageOrder {
		if st == s {
			return i
		}
	}
	return -1
}

// Later reports whether s runs after other.
func (s Stage) Later(other Stage) bool {
	return s.Rank() > other.Rank()
}

// Source records which extractor produced a value.
type Source string

const (
	SourceTemplate Source = "template"
	SourceRegex    Source = "regex"
	SourceML       Source = "ml"
	SourceLLM      Source = "llm"
	SourceManual   Source = "manual"
)
