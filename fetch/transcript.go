package fetch

import (
	"bytes"
	"context"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"ewintr.nl/ytsum/model"
)

const (
	youtubeBaseURL       = "https://www.youtube.com"
	playerResponseMarker = "ytInitialPlayerResponse = "
	maxWatchPageSize     = 6 * 1024 * 1024
	maxTimedTextSize     = 2 * 1024 * 1024
	userAgent            = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"
)

// ErrTranscriptUnavailable is returned when a video has no usable captions,
// either because they are disabled or because the video does not exist.
var ErrTranscriptUnavailable = errors.New("transcript unavailable")

var htmlTagRe = regexp.MustCompile(`<[^>]+>`)

type TranscriptFetcher interface {
	FetchTranscript(ctx context.Context, videoID model.YoutubeVideoID) (model.Transcript, error)
}

type Transcripter struct {
	BaseURL   string
	client    *http.Client
	languages []string
}

func NewTranscripter(client *http.Client, languages []string) *Transcripter {
	if client == nil {
		client = http.DefaultClient
	}
	return &Transcripter{
		BaseURL:   youtubeBaseURL,
		client:    client,
		languages: languages,
	}
}

type playerResponse struct {
	Captions *struct {
		PlayerCaptionsTracklistRenderer struct {
			CaptionTracks []captionTrack `json:"captionTracks"`
		} `json:"playerCaptionsTracklistRenderer"`
	} `json:"captions"`
	PlayabilityStatus *struct {
		Status string `json:"status"`
		Reason string `json:"reason"`
	} `json:"playabilityStatus"`
}

type captionTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
	Kind         string `json:"kind"` // "asr" for auto-generated
}

type timedText struct {
	Lines []struct {
		Start string `xml:"start,attr"`
		Dur   string `xml:"dur,attr"`
		Text  string `xml:",chardata"`
	} `xml:"text"`
}

// FetchTranscript reads the caption tracks from the watch page of the video
// and downloads the best matching one.
func (t *Transcripter) FetchTranscript(ctx context.Context, videoID model.YoutubeVideoID) (model.Transcript, error) {
	watchURL := fmt.Sprintf("%s/watch?v=%s", t.BaseURL, url.QueryEscape(string(videoID)))
	page, err := t.get(ctx, watchURL, maxWatchPageSize)
	if err != nil {
		return model.Transcript{}, fmt.Errorf("failed to fetch watch page: %w", err)
	}

	player, err := extractPlayerResponse(page)
	if err != nil {
		return model.Transcript{}, err
	}
	if player.Captions == nil {
		reason := "captions are disabled"
		if player.PlayabilityStatus != nil && player.PlayabilityStatus.Reason != "" {
			reason = player.PlayabilityStatus.Reason
		}
		return model.Transcript{}, fmt.Errorf("%w: %s", ErrTranscriptUnavailable, reason)
	}
	tracks := player.Captions.PlayerCaptionsTracklistRenderer.CaptionTracks
	if len(tracks) == 0 {
		return model.Transcript{}, fmt.Errorf("%w: no caption tracks", ErrTranscriptUnavailable)
	}

	track, ok := pickTrack(tracks, t.languages)
	if !ok {
		return model.Transcript{}, fmt.Errorf("%w: all caption tracks require a PoToken", ErrTranscriptUnavailable)
	}
	body, err := t.get(ctx, track.BaseURL, maxTimedTextSize)
	if err != nil {
		return model.Transcript{}, fmt.Errorf("failed to fetch captions: %w", err)
	}

	fragments, err := parseTimedText(body)
	if err != nil {
		return model.Transcript{}, err
	}
	if len(fragments) == 0 {
		return model.Transcript{}, fmt.Errorf("%w: caption track is empty", ErrTranscriptUnavailable)
	}

	return model.Transcript{
		VideoID:   videoID,
		Language:  track.LanguageCode,
		Fragments: fragments,
	}, nil
}

func (t *Transcripter) get(ctx context.Context, rawURL string, limit int64) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: video not found", ErrTranscriptUnavailable)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}

	return io.ReadAll(io.LimitReader(resp.Body, limit))
}

func extractPlayerResponse(page []byte) (playerResponse, error) {
	idx := bytes.Index(page, []byte(playerResponseMarker))
	if idx < 0 {
		return playerResponse{}, fmt.Errorf("%w: no player response in watch page", ErrTranscriptUnavailable)
	}

	// the decoder stops after the first complete value, so the trailing
	// script is never read
	var player playerResponse
	dec := json.NewDecoder(bytes.NewReader(page[idx+len(playerResponseMarker):]))
	if err := dec.Decode(&player); err != nil {
		return playerResponse{}, fmt.Errorf("failed to decode player response: %w", err)
	}

	return player, nil
}

// needsPoToken reports whether the track can only be fetched by a browser.
// The server answers such requests with an empty body.
func needsPoToken(baseURL string) bool {
	return strings.Contains(baseURL, "&exp=xpe")
}

// pickTrack prefers a manual track in one of the given languages, then an
// auto-generated one, then any English track and finally the first track.
// Tracks that need a PoToken are never picked.
func pickTrack(tracks []captionTrack, languages []string) (captionTrack, bool) {
	usable := make([]captionTrack, 0, len(tracks))
	for _, t := range tracks {
		if !needsPoToken(t.BaseURL) {
			usable = append(usable, t)
		}
	}
	if len(usable) == 0 {
		return captionTrack{}, false
	}

	for _, lang := range languages {
		for _, t := range usable {
			if t.LanguageCode == lang && t.Kind != "asr" {
				return t, true
			}
		}
	}
	for _, lang := range languages {
		for _, t := range usable {
			if t.LanguageCode == lang {
				return t, true
			}
		}
	}
	for _, t := range usable {
		if strings.HasPrefix(t.LanguageCode, "en") {
			return t, true
		}
	}

	return usable[0], true
}

func parseTimedText(body []byte) ([]model.Fragment, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, fmt.Errorf("%w: caption track returned no content", ErrTranscriptUnavailable)
	}

	var tt timedText
	if err := xml.Unmarshal(body, &tt); err != nil {
		return nil, fmt.Errorf("failed to parse captions: %w", err)
	}

	fragments := make([]model.Fragment, 0, len(tt.Lines))
	for _, line := range tt.Lines {
		if line.Text == "" {
			continue
		}
		start, _ := strconv.ParseFloat(line.Start, 64)
		dur, _ := strconv.ParseFloat(line.Dur, 64)
		fragments = append(fragments, model.Fragment{
			Text:     htmlTagRe.ReplaceAllString(html.UnescapeString(line.Text), ""),
			Start:    start,
			Duration: dur,
		})
	}

	return fragments, nil
}
