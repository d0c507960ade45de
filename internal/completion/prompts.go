package completion

import (
	"fmt"
	"strings"

	"github.com/xiaot623/gogo/coach/internal/domain"
)

// contextTurns is how many of the most recent answers are quoted back to the model.
const contextTurns = 2

// WelcomeQuestion is the fixed opening question for role.
func WelcomeQuestion(role string) string {
	return fmt.Sprintf("Welcome! I'm excited to interview you for the %s position. Let's get started! "+
		"To begin, could you tell me a little about yourself and why you're interested in this %s role?", role, role)
}

// QuestionPrompt builds the prompt that asks the provider for the next question.
func QuestionPrompt(req NextQuestionRequest, totalQuestions int) string {
	prompt := `You are a %[1]s interviewer for a '%[2]s' position, holding a natural conversation with a candidate.

This is question #%[3]d of %[4]d.

Previous conversation:
%[5]s

Candidate's last answer: "%[6]s"

TASK:
Write the NEXT interview question. It must:
1. Briefly acknowledge the answer in a natural way ("I see", "Interesting", "That's great", ...)
2. Follow on from the answer or move to a new area relevant to the role
3. Keep a %[1]s tone
4. Be specific to the %[2]s role
5. Invite a detailed response

OUTPUT FORMAT:
Return ONLY a raw JSON object:
{
  "next_question": "the full question including the acknowledgement"
}`

	return fmt.Sprintf(prompt, req.Tone, req.Role, req.Step, totalQuestions, recentContext(req.Context), req.PriorAnswer)
}

// recentContext renders the last contextTurns answers as Q/A pairs.
func recentContext(answers []domain.Answer) string {
	if len(answers) > contextTurns {
		answers = answers[len(answers)-contextTurns:]
	}
	lines := make([]string, 0, len(answers))
	for _, a := range answers {
		lines = append(lines, fmt.Sprintf("Q%d: %s\nA%d: %s", a.QuestionNumber, a.Question, a.QuestionNumber, a.Answer))
	}
	return strings.Join(lines, "\n")
}

// Transcript renders every answer in question-number order.
func Transcript(answers []domain.Answer) string {
	var builder strings.Builder
	for i, a := range answers {
		if i > 0 {
			builder.WriteString("\n\n")
		}
		builder.WriteString(fmt.Sprintf("Question %d: %s\nAnswer: %s", a.QuestionNumber, a.Question, a.Answer))
	}
	return builder.String()
}

// FeedbackPrompt builds the prompt that asks the provider for a structured evaluation.
func FeedbackPrompt(role string, answers []domain.Answer) string {
	prompt := `You are an expert interview coach. A candidate has just finished a %s interview.

Complete Interview Transcript:
%s

TASK:
Give comprehensive, actionable feedback on the candidate's performance.

Consider:
1. Clarity and confidence of communication
2. Technical depth and accuracy, where relevant
3. Concrete strengths shown
4. Areas to improve, each with a concrete suggestion
5. The overall impression: POSITIVE, NEUTRAL or NEGATIVE

OUTPUT FORMAT (JSON only):
{
  "overall_score": 0.0 to 10.0,
  "sentiment": "POSITIVE" or "NEUTRAL" or "NEGATIVE",
  "strengths": ["strength 1", "strength 2", "strength 3"],
  "improvements": ["improvement 1", "improvement 2"],
  "detailed_feedback": "2-3 paragraphs of analysis",
  "final_verdict": "one sentence overall assessment"
}`

	return fmt.Sprintf(prompt, role, Transcript(answers))
}
