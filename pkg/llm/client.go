package llm

import "finbrief/internal/model"

type NarrativeInput struct {
	Symbol   string
	Snapshot model.Snapshot
	Regime   model.Regime
}

type NarrativeResult struct {
	Headline      string
	Narrative     string
	Takeaways     []string
	ModelUsed     string
	PromptVersion string
}

type Narrator interface {
	Narrate(input NarrativeInput) (*NarrativeResult, error)
}
