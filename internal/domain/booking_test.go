package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSourcesFor(t *testing.T) {
	assert.Equal(t, []BookingStatus{BookingPendingConfirmation}, SourcesFor(BookingConfirmed))
	assert.Equal(t, []BookingStatus{BookingConfirmed}, SourcesFor(BookingInProgress))
	assert.ElementsMatch(t, []BookingStatus{BookingConfirmed, BookingInProgress}, SourcesFor(BookingCompleted))
	assert.ElementsMatch(t,
		[]BookingStatus{BookingPendingConfirmation, BookingConfirmed, BookingInProgress},
		SourcesFor(BookingCancelled))
	assert.Empty(t, SourcesFor(BookingPendingConfirmation))

	for _, target := range []BookingStatus{BookingConfirmed, BookingInProgress, BookingCompleted, BookingCancelled} {
		for _, from := range SourcesFor(target) {
			assert.False(t, from.IsTerminal(), "%s -> %s", from, target)
		}
	}
}

func TestSourcesFor_ReturnsCopy(t *testing.T) {
	got := SourcesFor(BookingCancelled)
	got[0] = BookingCompleted

	assert.Equal(t, BookingPendingConfirmation, SourcesFor(BookingCancelled)[0])
}
