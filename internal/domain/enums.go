// Package domain defines the core domain models for the interview coach.
package domain

import "strings"

// Sentiment is the overall impression carried by a feedback report.
type Sentiment string

const (
	SentimentPositive Sentiment = "POSITIVE"
	SentimentNeutral  Sentiment = "NEUTRAL"
	SentimentNegative Sentiment = "NEGATIVE"
)

// ParseSentiment normalises s and reports whether it names a known sentiment.
func ParseSentiment(s string) (Sentiment, bool) {
	switch v := Sentiment(strings.ToUpper(strings.TrimSpace(s))); v {
	case SentimentPositive, SentimentNeutral, SentimentNegative:
		return v, true
	default:
		return "", false
	}
}

// SessionState is the derived position of a session in the turn-taking protocol.
// Only Completed is ever persisted (as the completed flag); the rest are computed
// from the persisted answer count.
type SessionState string

const (
	SessionStateNotStarted       SessionState = "NOT_STARTED"
	SessionStateInProgress       SessionState = "IN_PROGRESS"
	SessionStateReadyForFeedback SessionState = "READY_FOR_FEEDBACK"
	SessionStateCompleted        SessionState = "COMPLETED"
)
