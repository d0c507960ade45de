package completion

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/xiaot623/gogo/coach/internal/domain"
)

// StripCodeFences removes markdown code fences around a JSON reply and any
// chatter outside the outermost object.
func StripCodeFences(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```JSON", "")
	s = strings.ReplaceAll(s, "```", "")
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "{") {
		return s
	}
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start >= 0 && end > start {
		return s[start : end+1]
	}
	return s
}

type questionReply struct {
	NextQuestion *string `json:"next_question"`
	QuestionText *string `json:"questionText"`
}

// DecodeQuestion extracts the question text from a provider reply.
func DecodeQuestion(raw string) (string, error) {
	var reply questionReply
	if err := json.Unmarshal([]byte(StripCodeFences(raw)), &reply); err != nil {
		return "", fmt.Errorf("%w: malformed question reply: %v", ErrExternalService, err)
	}

	for _, candidate := range []*string{reply.NextQuestion, reply.QuestionText} {
		if candidate == nil {
			continue
		}
		if text := strings.TrimSpace(*candidate); text != "" {
			return text, nil
		}
	}
	return "", fmt.Errorf("%w: reply has no question text", ErrExternalService)
}

type feedbackReply struct {
	OverallScore     *float64 `json:"overall_score"`
	Sentiment        *string  `json:"sentiment"`
	Strengths        []string `json:"strengths"`
	Improvements     []string `json:"improvements"`
	DetailedFeedback *string  `json:"detailed_feedback"`
	FinalVerdict     *string  `json:"final_verdict"`
}

// DecodeFeedback validates a provider reply against the feedback schema.
// The score is clamped into [0, 10].
func DecodeFeedback(raw string) (domain.Feedback, error) {
	var reply feedbackReply
	if err := json.Unmarshal([]byte(StripCodeFences(raw)), &reply); err != nil {
		return domain.Feedback{}, fmt.Errorf("%w: malformed feedback reply: %v", ErrExternalService, err)
	}

	var missing []string
	if reply.OverallScore == nil {
		missing = append(missing, "overall_score")
	}
	if reply.Sentiment == nil {
		missing = append(missing, "sentiment")
	}
	if reply.Strengths == nil {
		missing = append(missing, "strengths")
	}
	if reply.Improvements == nil {
		missing = append(missing, "improvements")
	}
	if reply.DetailedFeedback == nil {
		missing = append(missing, "detailed_feedback")
	}
	if reply.FinalVerdict == nil {
		missing = append(missing, "final_verdict")
	}
	if len(missing) > 0 {
		return domain.Feedback{}, fmt.Errorf("%w: feedback reply missing %s", ErrExternalService, strings.Join(missing, ", "))
	}

	sentiment, ok := domain.ParseSentiment(*reply.Sentiment)
	if !ok {
		return domain.Feedback{}, fmt.Errorf("%w: unknown sentiment %q", ErrExternalService, *reply.Sentiment)
	}

	return domain.Feedback{
		OverallScore:     clampScore(*reply.OverallScore),
		Sentiment:        sentiment,
		Strengths:        reply.Strengths,
		Improvements:     reply.Improvements,
		DetailedFeedback: *reply.DetailedFeedback,
		FinalVerdict:     *reply.FinalVerdict,
	}, nil
}

func clampScore(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 10:
		return 10
	default:
		return v
	}
}

// IsExternalServiceFailure reports whether err came from the provider path.
func IsExternalServiceFailure(err error) bool {
	return errors.Is(err, ErrExternalService)
}
