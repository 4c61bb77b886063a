package agent

import (
	"context"
	"fmt"
)

// noScreenReply is returned when no frame has been received yet.
const noScreenReply = "No screen-share frame available yet. Please start sharing your screen."

// AnswerAboutScreen answers a question using the most recent accepted screen
// frame as visual context. The buffer hands back whatever it holds; a stale
// frame is used the same as a fresh one. Without any frame the user is asked
// to start sharing, and plain chat handles the question instead.
func (s *DefaultAgentService) AnswerAboutScreen(ctx context.Context, question string) (string, error) {
	frame, _, ok := s.Frames.Read()
	if !ok {
		if s.Gemini == nil {
			return noScreenReply, nil
		}
		answer, err := s.Gemini.GenerateContent(ctx, fmt.Sprintf("Answer concisely: %s", question))
		if err != nil {
			return "", err
		}
		return answer + "\n(I can also look at your screen if you start sharing it.)", nil
	}

	if s.Gemini == nil {
		return "I can see your screen, but no vision model is configured.", nil
	}
	format := frame.Format
	if format == "" {
		format = "jpeg"
	}
	return s.Gemini.GenerateWithImage(ctx, fmt.Sprintf("Answer concisely: %s", question), format, frame.Data)
}
