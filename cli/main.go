// Package main provides coachctl, a command-line client for the interview coach API.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/xiaot623/gogo/coach/internal/domain"
)

var (
	serverURL string
	timeout   time.Duration

	role string
	tone string

	step             int
	previousQuestion string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "coachctl",
	Short: "Practice interviews against the interview coach API",
	Long: `coachctl drives the interview coach HTTP API.

Examples:
  # Run a whole interview in the terminal
  coachctl interview --role "Backend Engineer" --tone casual

  # Drive the API one call at a time
  coachctl start --role SRE
  coachctl answer <session-id> "I like pagers" --step 0 --question "Tell me about yourself"
  coachctl feedback <session-id>`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8000", "interview coach server URL")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 60*time.Second, "per-request timeout")

	for _, cmd := range []*cobra.Command{startCmd, interviewCmd} {
		cmd.Flags().StringVar(&role, "role", "", "job role to interview for")
		cmd.Flags().StringVar(&tone, "tone", "", "interviewer tone")
	}
	answerCmd.Flags().IntVar(&step, "step", 0, "index of the question being answered")
	answerCmd.Flags().StringVar(&previousQuestion, "question", "", "text of the question being answered")

	rootCmd.AddCommand(startCmd, answerCmd, feedbackCmd, sessionCmd, interviewCmd)
}

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start a new interview",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := NewClient(serverURL, timeout).Start(cmd.Context(), role, tone)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), resp)
	},
}

var answerCmd = &cobra.Command{
	Use:   "answer <session-id> <answer>",
	Short: "Submit an answer and print the next question",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := NewClient(serverURL, timeout).Answer(cmd.Context(), domain.SubmitAnswerRequest{
			SessionID:        args[0],
			Answer:           args[1],
			Step:             step,
			PreviousQuestion: previousQuestion,
		})
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), resp)
	},
}

var feedbackCmd = &cobra.Command{
	Use:   "feedback <session-id>",
	Short: "Fetch the final feedback report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		report, err := NewClient(serverURL, timeout).Feedback(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), report)
	},
}

var sessionCmd = &cobra.Command{
	Use:   "session <session-id>",
	Short: "Show the progress of a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		view, err := NewClient(serverURL, timeout).Session(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), view)
	},
}

var interviewCmd = &cobra.Command{
	Use:   "interview",
	Short: "Run a full interview interactively",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		return runInterview(ctx, NewClient(serverURL, timeout), cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

// runInterview asks every question on out, reads answers line by line from
// in and prints the feedback report once the interview is complete.
func runInterview(ctx context.Context, client *Client, in io.Reader, out io.Writer) error {
	turn, err := client.Start(ctx, role, tone)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Session %s (%d questions). Type /quit to stop.\n", turn.SessionID, turn.TotalQuestions)

	scanner := bufio.NewScanner(in)
	for !turn.IsComplete {
		fmt.Fprintf(out, "\n[%d/%d] %s\n> ", turn.CurrentQuestion+1, turn.TotalQuestions, turn.NextQuestion)
		if !scanner.Scan() {
			return scanner.Err()
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if input == "/quit" {
			fmt.Fprintf(out, "Bye! Resume feedback later with: coachctl feedback %s\n", turn.SessionID)
			return nil
		}

		turn, err = client.Answer(ctx, domain.SubmitAnswerRequest{
			SessionID:        turn.SessionID,
			Answer:           input,
			Step:             turn.CurrentQuestion,
			Role:             role,
			Tone:             tone,
			PreviousQuestion: turn.NextQuestion,
		})
		if err != nil {
			return err
		}
	}

	fmt.Fprintln(out, "\nInterview complete, generating feedback...")
	report, err := client.Feedback(ctx, turn.SessionID)
	if err != nil {
		return err
	}
	printReport(out, report)
	return nil
}

func printReport(out io.Writer, report *domain.FeedbackReport) {
	fb := report.Feedback
	fmt.Fprintf(out, "\nScore: %.1f/10 (%s)\n", fb.OverallScore, fb.Sentiment)
	fmt.Fprintln(out, "Strengths:")
	for _, s := range fb.Strengths {
		fmt.Fprintf(out, "  - %s\n", s)
	}
	fmt.Fprintln(out, "Improvements:")
	for _, s := range fb.Improvements {
		fmt.Fprintf(out, "  - %s\n", s)
	}
	fmt.Fprintf(out, "\n%s\n\nVerdict: %s\n", fb.DetailedFeedback, fb.FinalVerdict)
}

func printJSON(out io.Writer, v interface{}) error {
	formatted, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(out, string(formatted))
	return nil
}
