package fetch

import (
	"context"

	"ewintr.nl/ytsum/model"
)

type Metadata struct {
	Title        string
	ChannelTitle string
	Description  string
	PublishedAt  string
}

type MetadataFetcher interface {
	FetchMetadata(ctx context.Context, ids []model.YoutubeVideoID) (map[model.YoutubeVideoID]Metadata, error)
}
