package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/Ruchi0214/Regexia/internal/cache"
	"github.com/Ruchi0214/Regexia/internal/config"
	"github.com/Ruchi0214/Regexia/internal/domain"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport() *domain.BatchReport {
	return &domain.BatchReport{
		TotalRows:   1,
		Results:     []domain.ScoreResult{{DocumentID: 0, Score: 3, TextPreview: "crisis...", Matches: map[string]int{"Emotional Trigger": 3}}},
		Annotated:   []domain.AnnotatedResult{{DocumentID: 0, Score: 3, AnnotatedText: "x"}},
		RuleCounts:  map[string]int{"Emotional Trigger": 3},
		ActiveRules: []string{"Emotional Trigger"},
	}
}

func TestKey(t *testing.T) {
	in := cache.KeyInput{Rules: []string{"A"}, Documents: []string{"x", "y"}, TopK: 50, MaxReturnedRows: 200}

	assert.Equal(t, cache.Key(in), cache.Key(in))
	assert.Contains(t, cache.Key(in), "regexia:report:")

	swapped := in
	swapped.Documents = []string{"y", "x"}
	assert.NotEqual(t, cache.Key(in), cache.Key(swapped))

	otherK := in
	otherK.TopK = 3
	assert.NotEqual(t, cache.Key(in), cache.Key(otherK))

	otherPreview := in
	otherPreview.PreviewLength = 40
	assert.NotEqual(t, cache.Key(in), cache.Key(otherPreview))

	otherMarkers := in
	otherMarkers.HighlightOpen = "<mark>"
	otherMarkers.HighlightClose = "</mark>"
	assert.NotEqual(t, cache.Key(in), cache.Key(otherMarkers))
}

func TestReportCache_RoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	client, err := cache.NewClient(ctx, config.RedisConfig{URL: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	c := cache.NewReportCache(client, time.Minute, nil)
	require.True(t, c.Enabled())
	require.NoError(t, c.Ping(ctx))

	key := cache.Key(cache.KeyInput{Documents: []string{"crisis"}})
	_, ok := c.Get(ctx, key)
	assert.False(t, ok)

	c.Set(ctx, key, sampleReport())
	got, ok := c.Get(ctx, key)
	require.True(t, ok)
	assert.Equal(t, sampleReport(), got)
	assert.Equal(t, time.Minute, mr.TTL(key))

	mr.FastForward(2 * time.Minute)
	_, ok = c.Get(ctx, key)
	assert.False(t, ok)
}

func TestReportCache_CorruptEntryMisses(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	client, err := cache.NewClient(ctx, config.RedisConfig{URL: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	require.NoError(t, mr.Set("regexia:report:bad", "not json"))
	_, ok := cache.NewReportCache(client, time.Minute, nil).Get(ctx, "regexia:report:bad")
	assert.False(t, ok)
}

func TestReportCache_Disabled(t *testing.T) {
	c := cache.NewReportCache(nil, time.Minute, nil)
	ctx := context.Background()

	assert.False(t, c.Enabled())
	c.Set(ctx, "k", sampleReport())
	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)
	assert.NoError(t, c.Ping(ctx))
}

func TestNewClient_EmptyAddress(t *testing.T) {
	client, err := cache.NewClient(context.Background(), config.RedisConfig{})
	require.ErrorIs(t, err, cache.ErrEmptyAddress)
	assert.Nil(t, client)
}
