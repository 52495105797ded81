package ai

import (
	"context"
	"errors"
	"strings"
)

// StaticTranscriber returns a canned transcript for any video. It stands
// in for a speech-to-text provider until one is wired behind the
// Transcriber interface.
type StaticTranscriber struct {
	Transcript string
}

const defaultTranscript = "Hi, I'm a builder working on an AI startup. Today I spent 5 hours debugging our payment integration. Finally got it working after realizing it was a timezone issue. Small win but feels huge!"

// NewStaticTranscriber constructs the stand-in transcriber.
func NewStaticTranscriber() *StaticTranscriber {
	return &StaticTranscriber{Transcript: defaultTranscript}
}

// Transcribe implements Transcriber.
func (t *StaticTranscriber) Transcribe(_ context.Context, videoURL string) (string, error) {
	if strings.TrimSpace(videoURL) == "" {
		return "", errors.New("video url is required")
	}
	return t.Transcript, nil
}

var _ Transcriber = (*StaticTranscriber)(nil)
