package problem

import (
	"bytes"
	"text/template"
)

const generatorSystemPrompt = `You are a math problem generator.
You must always return STRICT JSON ONLY with the following keys:

- title: short problem title (e.g., "Linear Equation")
- topic: topic name (e.g., "Algebra")
- difficulty: one of: easy, medium, hard
- display_md: a single Markdown block that presents the problem in a uniform textbook style
- solution_md: concise Markdown+LaTeX solution steps
- final_answer_tex: a single LaTeX expression of the final answer (e.g., "$x=5$")
- rubric_md: a short rubric in Markdown (bulleted list of points and common mistakes)

Formatting rules for display_md:
- Always use this exact structure (copy and fill in):
  <one or two sentences introducing the task in plain English.>

  **Equation**
  $$
  <main equation or expression, if applicable>
  $$

  **Instructions**
  - Show your work clearly.
  - Provide the final answer in simplest form.

Other rules:
- Use LaTeX for all math: $...$ for inline, $$...$$ for display.
- Keep wording concise and professional, like a textbook.
- Do not include code fences or extra commentary.`

const graderSystemPrompt = `You are a math grader.
You must always return STRICT JSON ONLY with these keys:
- correct: true/false
- feedback: short explanation for the student (concise, encouraging)
- hint: (optional) one targeted hint to guide them toward the solution if incorrect

Grading rules:
- Use the provided final answer as the primary basis of correctness.
- Use the solution and rubric to evaluate the student's work and give meaningful feedback.
- If the student is incorrect, give only a hint, not the full solution.
- Be constructive and professional, like a teacher writing in a textbook margin.`

var generatorUserTemplate = template.Must(template.New("generate").Parse(
	`Create one {{.Difficulty}} {{.ProblemType}} problem.
Return JSON ONLY with the exact keys specified by the system message. Do not include explanations outside the JSON.`))

var graderUserTemplate = template.Must(template.New("grade").Parse(
	`Reference (not shown to student):
- solution: {{.Solution}}
- final_answer: {{.FinalAnswer}}
- rubric: {{.Rubric}}

Student submission:
- work: {{.Work}}
- answer: {{.Answer}}

Decide correctness, give feedback, and a hint if needed.
Return JSON ONLY with keys: correct, feedback, hint.`))

// noAnswer stands in for an empty student answer.
const noAnswer = "(no answer)"

type generatePromptData struct {
	ProblemType string
	Difficulty  string
}

type gradePromptData struct {
	Solution    string
	FinalAnswer string
	Rubric      string
	Work        string
	Answer      string
}

func buildGeneratePrompt(problemType, difficulty string) (string, error) {
	var buf bytes.Buffer
	err := generatorUserTemplate.Execute(&buf, generatePromptData{
		ProblemType: problemType,
		Difficulty:  difficulty,
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

func buildGradePrompt(data gradePromptData) (string, error) {
	if data.Answer == "" {
		data.Answer = noAnswer
	}
	var buf bytes.Buffer
	if err := graderUserTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
