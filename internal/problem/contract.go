package problem

// ContractVersion tags records parsed under the enumeration-rich key set.
const ContractVersion = "v2"

// Generation keys.
const (
	keyTitle       = "title"
	keyTopic       = "topic"
	keyDifficulty  = "difficulty"
	keyDisplay     = "display_md"
	keySolution    = "solution_md"
	keyFinalAnswer = "final_answer_tex"
	keyRubric      = "rubric_md"
)

// Short-form keys, accepted only as coalescing fallbacks.
const (
	keyDisplayShort     = "prompt"
	keySolutionShort    = "solution"
	keyFinalAnswerShort = "final_answer"
	keyRubricShort      = "rubric"
)

// Grading keys.
const (
	keyCorrect  = "correct"
	keyFeedback = "feedback"
	keyHint     = "hint"
)
