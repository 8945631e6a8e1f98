package scraper

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkQueueDrainsInDeterministicOrder(t *testing.T) {
	items := []WorkItem{
		{SiteName: "monster", Keyword: "go", Location: "toronto"},
		{SiteName: "eluta", Keyword: "python", Location: "remote"},
		{SiteName: "eluta", Keyword: "go", Location: "remote"},
	}
	q := NewWorkQueue(items)

	var drained []WorkItem
	for i := 0; i < len(items); i++ {
		item, err := q.Pop(context.Background())
		require.NoError(t, err)
		require.NotNil(t, item)
		drained = append(drained, *item)
	}

	assert.Equal(t, []WorkItem{
		{SiteName: "eluta", Keyword: "go", Location: "remote"},
		{SiteName: "eluta", Keyword: "python", Location: "remote"},
		{SiteName: "monster", Keyword: "go", Location: "toronto"},
	}, drained)
}

func TestWorkQueuePopReturnsNilAfterClose(t *testing.T) {
	q := NewWorkQueue(nil)
	q.Close()

	item, err := q.Pop(context.Background())
	require.NoError(t, err)
	assert.Nil(t, item)
}

func TestWorkQueuePopRespectsContextCancellation(t *testing.T) {
	q := NewWorkQueue(nil)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := q.Pop(ctx)
	assert.Error(t, err)
}
