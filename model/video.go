package model

import "github.com/google/uuid"

type VideoStatus string

const (
	StatusNew     VideoStatus = "new"
	StatusFetched VideoStatus = "fetched"
	StatusReady   VideoStatus = "ready"
)

type YoutubeVideoID string

type YoutubeChannelID string

// Video only lives for the duration of a run. StatusFetched means the
// transcript was written, StatusReady that the summary was written as well.
type Video struct {
	ID                  uuid.UUID
	Status              VideoStatus
	YoutubeID           YoutubeVideoID
	YoutubeChannelID    YoutubeChannelID
	YoutubeTitle        string
	YoutubeChannelTitle string

	Transcript string
	Summary    string
}

type Report struct {
	Videos      int
	Transcripts int
	Summaries   int
	Skipped     int
}

func (r *Report) Add(video *Video) {
	r.Videos++
	switch video.Status {
	case StatusReady:
		r.Transcripts++
		r.Summaries++
	case StatusFetched:
		r.Transcripts++
	default:
		r.Skipped++
	}
}
