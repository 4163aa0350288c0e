package problem

import (
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"regexp"
	"strings"

	"github.com/sumrise/sumrise/internal/llm"
)

var (
	demoGenerateRe = regexp.MustCompile(`Create one (\S+) (.+?) problem\.`)
	demoAnswerRe   = regexp.MustCompile(`(?m)^- answer: (.*)$`)
	demoFinalRe    = regexp.MustCompile(`(?m)^- final_answer: (.*)$`)
)

// DemoResponder answers generation and grading requests offline. It is
// installed as the mock provider's fallback so the CLI and UI work without
// an API key.
func DemoResponder(req llm.Request) llm.MockResponse {
	user := ""
	if len(req.Messages) > 0 {
		user = req.Messages[len(req.Messages)-1].Content
	}

	var payload map[string]any
	switch req.System {
	case generatorSystemPrompt:
		difficulty, problemType := "easy", "arithmetic"
		if m := demoGenerateRe.FindStringSubmatch(user); m != nil {
			difficulty, problemType = m[1], m[2]
		}
		payload = demoProblem(problemType, difficulty)
	case graderSystemPrompt:
		payload = demoGrade(user)
	default:
		return llm.MockResponse{Err: fmt.Errorf("demo responder: unexpected system prompt")}
	}

	content, err := json.Marshal(payload)
	if err != nil {
		return llm.MockResponse{Err: err}
	}
	return llm.MockResponse{Content: content}
}

func demoScale(difficulty string) int {
	switch strings.ToLower(difficulty) {
	case "hard":
		return 100
	case "medium":
		return 30
	default:
		return 10
	}
}

func demoProblem(problemType, difficulty string) map[string]any {
	n := demoScale(difficulty)
	a, b := rand.IntN(n)+2, rand.IntN(n)+2

	var title, equation, solution string
	var answer int
	switch strings.ToLower(problemType) {
	case "algebra":
		title = "Linear Equation"
		answer = b
		equation = fmt.Sprintf("x + %d = %d", a, a+b)
		solution = fmt.Sprintf("Subtract %d from both sides: $x = %d - %d = %d$.", a, a+b, a, b)
	case "geometry":
		title = "Rectangle Area"
		answer = a * b
		equation = fmt.Sprintf("A = %d \\times %d", a, b)
		solution = fmt.Sprintf("Area is width times height: $%d \\times %d = %d$.", a, b, answer)
	default:
		title = "Addition"
		answer = a + b
		equation = fmt.Sprintf("%d + %d", a, b)
		solution = fmt.Sprintf("$%d + %d = %d$.", a, b, answer)
	}

	display := fmt.Sprintf(
		"Evaluate the %s problem below.\n\n**Equation**\n$$\n%s\n$$\n\n**Instructions**\n- Show your work clearly.\n- Provide the final answer in simplest form.",
		strings.ToLower(problemType), equation)

	return map[string]any{
		keyTitle:       title,
		keyTopic:       problemType,
		keyDifficulty:  difficulty,
		keyDisplay:     display,
		keySolution:    solution,
		keyFinalAnswer: fmt.Sprintf("%d", answer),
		keyRubric:      "- Correct final value\n- Work shows each step",
	}
}

func demoGrade(user string) map[string]any {
	var want, got string
	if m := demoFinalRe.FindStringSubmatch(user); m != nil {
		want = demoCanonical(m[1])
	}
	if m := demoAnswerRe.FindStringSubmatch(user); m != nil {
		got = demoCanonical(m[1])
	}

	if want != "" && got == want {
		return map[string]any{keyCorrect: true, keyFeedback: "Correct, nicely done."}
	}
	return map[string]any{
		keyCorrect:  false,
		keyFeedback: "That is not the expected answer.",
		keyHint:     "Recheck each step of your arithmetic.",
	}
}

// demoCanonical strips LaTeX dollars, spaces and a leading "x=".
func demoCanonical(s string) string {
	s = strings.NewReplacer("$", "", " ", "").Replace(strings.TrimSpace(s))
	s = strings.TrimPrefix(strings.ToLower(s), "x=")
	return s
}
