package domain

// StartInterviewRequest is the body of POST /api/start_interview.
type StartInterviewRequest struct {
	Role string `json:"role"`
	Tone string `json:"tone"`
}

// SubmitAnswerRequest is the body of POST /api/process_answer.
// Step and PreviousQuestion are supplied by the caller and are not
// cross-checked against the persisted answers.
type SubmitAnswerRequest struct {
	SessionID        string `json:"session_id"`
	Answer           string `json:"answer"`
	Step             int    `json:"step"`
	Role             string `json:"role,omitempty"`
	Tone             string `json:"tone,omitempty"`
	PreviousQuestion string `json:"previous_question,omitempty"`
}

// TurnResponse is returned by both start_interview and process_answer.
type TurnResponse struct {
	NextQuestion    string `json:"next_question"`
	IsComplete      bool   `json:"is_complete"`
	TotalQuestions  int    `json:"total_questions"`
	SessionID       string `json:"session_id"`
	CurrentQuestion int    `json:"current_question"`
}

// SessionView describes a session together with its derived protocol state.
type SessionView struct {
	Session
	AnswerCount    int          `json:"answer_count"`
	TotalQuestions int          `json:"total_questions"`
	State          SessionState `json:"state"`
}
