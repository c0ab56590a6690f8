package fetch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ewintr.nl/ytsum/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const watchPageTmpl = `<!DOCTYPE html><html><head><script>var ytInitialPlayerResponse = %s;var meta = document.createElement('meta');</script></head><body></body></html>`

const timedTextXML = `<?xml version="1.0" encoding="utf-8" ?><transcript>
<text start="0.0" dur="1.5">hello &amp;amp; welcome</text>
<text start="1.5" dur="2.0">it&amp;#39;s a test</text>
<text start="3.5" dur="0.5"></text>
<text start="4.0" dur="1.0">&lt;i&gt;bye&lt;/i&gt;</text>
</transcript>`

func newTestTranscripter(t *testing.T, player func(base string) string) *Transcripter {
	t.Helper()
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/watch":
			if r.URL.Query().Get("v") == "missing" {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			fmt.Fprintf(w, watchPageTmpl, player(srv.URL))
		case "/api/timedtext":
			if r.URL.Query().Get("exp") == "xpe" || r.URL.Query().Get("lang") == "empty" {
				return
			}
			if r.URL.Query().Get("lang") == "de" {
				fmt.Fprint(w, `<transcript><text start="0" dur="1">hallo</text></transcript>`)
				return
			}
			fmt.Fprint(w, timedTextXML)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)

	tr := NewTranscripter(srv.Client(), []string{"en"})
	tr.BaseURL = srv.URL
	return tr
}

func withTracks(tracks string) func(string) string {
	return func(base string) string {
		return fmt.Sprintf(`{"playabilityStatus":{"status":"OK"},"captions":{"playerCaptionsTracklistRenderer":{"captionTracks":[%s]}}}`,
			strings.ReplaceAll(tracks, "{base}", base))
	}
}

func TestTranscripterFetchTranscript(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		tr := newTestTranscripter(t, withTracks(`{"baseUrl":"{base}/api/timedtext?v=abc&lang=de","languageCode":"de"},{"baseUrl":"{base}/api/timedtext?v=abc&lang=en","languageCode":"en","kind":"asr"}`))

		transcript, err := tr.FetchTranscript(context.Background(), "abc")
		require.NoError(t, err)
		assert.Equal(t, model.YoutubeVideoID("abc"), transcript.VideoID)
		assert.Equal(t, "en", transcript.Language)
		assert.Equal(t, []model.Fragment{
			{Text: "hello & welcome", Start: 0, Duration: 1.5},
			{Text: "it's a test", Start: 1.5, Duration: 2},
			{Text: "bye", Start: 4, Duration: 1},
		}, transcript.Fragments)
		assert.Equal(t, "hello & welcome it's a test bye", transcript.Text())
	})

	t.Run("captions disabled", func(t *testing.T) {
		tr := newTestTranscripter(t, func(string) string {
			return `{"playabilityStatus":{"status":"OK"}}`
		})

		_, err := tr.FetchTranscript(context.Background(), "abc")
		assert.True(t, errors.Is(err, ErrTranscriptUnavailable))
	})

	t.Run("no tracks", func(t *testing.T) {
		tr := newTestTranscripter(t, withTracks(``))

		_, err := tr.FetchTranscript(context.Background(), "abc")
		assert.True(t, errors.Is(err, ErrTranscriptUnavailable))
	})

	t.Run("skips track that needs a PoToken", func(t *testing.T) {
		tr := newTestTranscripter(t, withTracks(`{"baseUrl":"{base}/api/timedtext?v=abc&lang=en&exp=xpe","languageCode":"en"},{"baseUrl":"{base}/api/timedtext?v=abc&lang=en","languageCode":"en","kind":"asr"}`))

		transcript, err := tr.FetchTranscript(context.Background(), "abc")
		require.NoError(t, err)
		assert.Equal(t, "hello & welcome it's a test bye", transcript.Text())
	})

	t.Run("all tracks need a PoToken", func(t *testing.T) {
		tr := newTestTranscripter(t, withTracks(`{"baseUrl":"{base}/api/timedtext?v=abc&lang=en&exp=xpe","languageCode":"en"}`))

		_, err := tr.FetchTranscript(context.Background(), "abc")
		assert.True(t, errors.Is(err, ErrTranscriptUnavailable))
	})

	t.Run("empty caption body", func(t *testing.T) {
		tr := newTestTranscripter(t, withTracks(`{"baseUrl":"{base}/api/timedtext?v=abc&lang=empty","languageCode":"en"}`))

		_, err := tr.FetchTranscript(context.Background(), "abc")
		assert.True(t, errors.Is(err, ErrTranscriptUnavailable))
	})

	t.Run("video not found", func(t *testing.T) {
		tr := newTestTranscripter(t, withTracks(``))

		_, err := tr.FetchTranscript(context.Background(), "missing")
		assert.True(t, errors.Is(err, ErrTranscriptUnavailable))
	})
}

func TestPickTrack(t *testing.T) {
	manualEN := captionTrack{BaseURL: "1", LanguageCode: "en"}
	autoEN := captionTrack{BaseURL: "2", LanguageCode: "en", Kind: "asr"}
	manualNL := captionTrack{BaseURL: "3", LanguageCode: "nl"}
	britishEN := captionTrack{BaseURL: "4", LanguageCode: "en-GB"}
	lockedEN := captionTrack{BaseURL: "5&exp=xpe", LanguageCode: "en"}

	for _, tc := range []struct {
		name   string
		tracks []captionTrack
		langs  []string
		exp    captionTrack
	}{
		{
			name:   "manual before auto",
			tracks: []captionTrack{autoEN, manualEN},
			langs:  []string{"en"},
			exp:    manualEN,
		},
		{
			name:   "language order",
			tracks: []captionTrack{manualEN, manualNL},
			langs:  []string{"nl", "en"},
			exp:    manualNL,
		},
		{
			name:   "auto in preferred language",
			tracks: []captionTrack{manualNL, autoEN},
			langs:  []string{"en"},
			exp:    autoEN,
		},
		{
			name:   "any english",
			tracks: []captionTrack{manualNL, britishEN},
			langs:  []string{"fr"},
			exp:    britishEN,
		},
		{
			name:   "first",
			tracks: []captionTrack{manualNL},
			langs:  nil,
			exp:    manualNL,
		},
		{
			name:   "skip PoToken track",
			tracks: []captionTrack{lockedEN, autoEN},
			langs:  []string{"en"},
			exp:    autoEN,
		},
		{
			name:   "first usable",
			tracks: []captionTrack{lockedEN, manualNL},
			langs:  nil,
			exp:    manualNL,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			track, ok := pickTrack(tc.tracks, tc.langs)
			assert.True(t, ok)
			assert.Equal(t, tc.exp, track)
		})
	}

	t.Run("only PoToken tracks", func(t *testing.T) {
		_, ok := pickTrack([]captionTrack{lockedEN}, []string{"en"})
		assert.False(t, ok)
	})
}
