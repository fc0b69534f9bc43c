package jobboard

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/toaster/internal/core/toast"
	"github.com/colonyops/toaster/internal/core/toast/toasttest"
)

func TestScenario(t *testing.T) {
	clock := toasttest.NewClock()
	s := toast.New(toast.WithClock(clock), toast.WithLogger(zerolog.Nop()))
	t.Cleanup(s.Close)

	var titles []string
	s.Subscribe(func(ts []toast.Toast) {
		if len(ts) > 0 {
			titles = append(titles, ts[0].Title)
		}
	})

	var steps []string
	Scenario(s, func(step string) { steps = append(steps, step) })

	assert.Equal(t, []string{StepUploadResume, StepResumeReady, StepApply, StepPayment, StepDismissAll}, steps)
	assert.Equal(t, []string{
		uploadingTitle,
		ResumeUploaded.Title,
		ApplicationSent.Title,
		PaymentFailed.Title,
		PaymentFailed.Title,
	}, titles)

	got := s.Snapshot()
	require.Len(t, got, 1, "default limit keeps only the newest")
	assert.Equal(t, toast.VariantDestructive, got[0].Variant)
	assert.False(t, got[0].Open)

	clock.Advance(toast.DefaultRemoveDelay)
	assert.Empty(t, s.Snapshot())
}

func TestScenario_WiderLimit(t *testing.T) {
	clock := toasttest.NewClock()
	s := toast.New(toast.WithLimit(5), toast.WithClock(clock), toast.WithLogger(zerolog.Nop()))
	t.Cleanup(s.Close)

	Scenario(s, func(string) {})

	got := s.Snapshot()
	require.Len(t, got, 3)
	assert.Equal(t, ResumeUploaded.Title, got[2].Title)
	assert.Equal(t, uploadingFileLabel, got[2].Extra["file"], "update keeps extra fields")
	assert.Equal(t, 3, s.PendingExpiries())
}
