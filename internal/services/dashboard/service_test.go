package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCardsInDisplayOrder(t *testing.T) {
	cards := New().Cards()
	require.Len(t, cards, 5)

	titles := make([]string, 0, len(cards))
	for _, c := range cards {
		titles = append(titles, c.Title)
		assert.NotEmpty(t, c.Value, c.Title)
	}
	assert.Equal(t, []string{
		"Total Bookings",
		"Active Members",
		"Courts Available",
		"Monthly Revenue",
		"Upcoming Events",
	}, titles)
}

func TestCardsReturnsCopy(t *testing.T) {
	svc := New()
	cards := svc.Cards()
	cards[0].Value = "0"

	assert.NotEqual(t, "0", svc.Cards()[0].Value)
}
