package fetch

import (
	"context"
	"fmt"
	"iter"

	"ewintr.nl/ytsum/model"
)

type ChannelReader interface {
	Search(ctx context.Context, channelID model.YoutubeChannelID, pageToken string) ([]model.YoutubeVideoID, string, error)
}

// ChannelVideos lists all videos of a channel, one search page at a time.
// Pages are only requested while the caller keeps ranging, and every range
// over the returned sequence starts again at the first page. A failing page
// is reported once and ends the sequence.
func ChannelVideos(ctx context.Context, reader ChannelReader, channelID model.YoutubeChannelID) iter.Seq2[model.YoutubeVideoID, error] {
	return func(yield func(model.YoutubeVideoID, error) bool) {
		token := ""
		for {
			ids, next, err := reader.Search(ctx, channelID, token)
			if err != nil {
				yield("", fmt.Errorf("failed to fetch page %q of channel %s: %w", token, channelID, err))
				return
			}
			for _, id := range ids {
				if !yield(id, nil) {
					return
				}
			}
			// an unchanged token would request the same page forever
			if next == "" || next == token {
				return
			}
			token = next
		}
	}
}
