package mem

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const seedDoc = `{
	"songs": [{"id": "0f8fad5b-d9cb-469f-a165-70867728950e", "title": "Song A", "artist": "Artist B", "file_path": "songs/xyz.mp3"}],
	"tokens": [{"token": "tok_abc", "song_id": "0f8fad5b-d9cb-469f-a165-70867728950e", "expires_at": "2999-01-01T00:00:00Z", "downloads_remaining": 1}],
	"payments": [{"id": "7c9e6679-7425-40de-944b-e07fc1f90ae7", "song_id": "0f8fad5b-d9cb-469f-a165-70867728950e", "download_token": "tok_abc", "customer_email": "buyer@example.com"}]
}`

func TestLoadSeed(t *testing.T) {
	l := NewLedger()

	counts, err := l.LoadSeed(strings.NewReader(seedDoc))
	require.NoError(t, err)
	assert.Equal(t, SeedCounts{Songs: 1, Tokens: 1, Payments: 1}, counts)

	res, err := l.VerifyDownloadToken(context.Background(), "tok_abc")
	require.NoError(t, err)
	assert.True(t, res.Valid)
	assert.Equal(t, "Song A", res.SongTitle)
	assert.Equal(t, 0, res.DownloadsRemaining)
}

func TestLoadSeedRejectsBadDocuments(t *testing.T) {
	cases := map[string]string{
		"not json":         `{"songs": [`,
		"unknown field":    `{"albums": []}`,
		"dangling token":   `{"tokens": [{"token": "tok_x", "song_id": "0f8fad5b-d9cb-469f-a165-70867728950e", "expires_at": "2999-01-01T00:00:00Z", "downloads_remaining": 1}]}`,
		"dangling payment": `{"payments": [{"id": "7c9e6679-7425-40de-944b-e07fc1f90ae7", "song_id": "0f8fad5b-d9cb-469f-a165-70867728950e", "download_token": "tok_x"}]}`,
	}

	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewLedger().LoadSeed(strings.NewReader(doc))
			assert.Error(t, err)
		})
	}
}
