package domain

import "time"

// Session represents one interview attempt.
// Role and Tone are fixed at creation; Completed only ever moves from false to true.
type Session struct {
	SessionID string    `json:"session_id"`
	Role      string    `json:"role"`
	Tone      string    `json:"tone"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"created_at"`
}

// Answer is a single recorded turn. (SessionID, QuestionNumber) is unique.
type Answer struct {
	SessionID      string    `json:"-"`
	QuestionNumber int       `json:"question_number"`
	Question       string    `json:"question"`
	Answer         string    `json:"answer"`
	CreatedAt      time.Time `json:"-"`
}

// Feedback is the structured end-of-session evaluation.
type Feedback struct {
	OverallScore     float64   `json:"overall_score"`
	Sentiment        Sentiment `json:"sentiment"`
	Strengths        []string  `json:"strengths"`
	Improvements     []string  `json:"improvements"`
	DetailedFeedback string    `json:"detailed_feedback"`
	FinalVerdict     string    `json:"final_verdict"`
}

// FeedbackReport is returned once a session has been evaluated.
type FeedbackReport struct {
	SessionID string   `json:"session_id"`
	Role      string   `json:"role"`
	Feedback  Feedback `json:"feedback"`
	Answers   []Answer `json:"answers"`
}

// QuestionResult is what the completion client hands back for a turn.
type QuestionResult struct {
	QuestionText   string
	IsComplete     bool
	TotalQuestions int
}
