package fetch

import (
	"context"
	"errors"
	"fmt"

	"ewintr.nl/ytsum/model"
	"google.golang.org/api/youtube/v3"
)

type Youtube struct {
	Client *youtube.Service
}

func NewYoutube(client *youtube.Service) *Youtube {
	return &Youtube{Client: client}
}

func (y *Youtube) ResolveChannel(ctx context.Context, input string) (model.YoutubeChannelID, error) {
	value, isHandle := ParseChannelInput(input)
	if value == "" {
		return "", fmt.Errorf("no channel in %q: %w", input, ErrChannelNotFound)
	}
	if !isHandle {
		return model.YoutubeChannelID(value), nil
	}

	response, err := y.Client.Channels.
		List([]string{"id"}).
		ForHandle(handleMarker + value).
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("failed to look up handle %s: %w", value, err)
	}
	if len(response.Items) == 0 || response.Items[0].Id == "" {
		return "", fmt.Errorf("handle %s: %w", value, ErrChannelNotFound)
	}

	return model.YoutubeChannelID(response.Items[0].Id), nil
}

func (y *Youtube) Search(ctx context.Context, channelID model.YoutubeChannelID, pageToken string) ([]model.YoutubeVideoID, string, error) {
	call := y.Client.Search.
		List([]string{"id"}).
		MaxResults(50).
		Type("video").
		ChannelId(string(channelID))

	if pageToken != "" {
		call.PageToken(pageToken)
	}

	response, err := call.Context(ctx).Do()
	if err != nil {
		return nil, "", err
	}

	ids := make([]model.YoutubeVideoID, 0, len(response.Items))
	for _, item := range response.Items {
		if item.Id == nil || item.Id.VideoId == "" {
			continue
		}
		ids = append(ids, model.YoutubeVideoID(item.Id.VideoId))
	}

	return ids, response.NextPageToken, nil
}

func (y *Youtube) FetchMetadata(ctx context.Context, ytIDs []model.YoutubeVideoID) (map[model.YoutubeVideoID]Metadata, error) {
	if len(ytIDs) == 0 {
		return nil, errors.New("no video ids given")
	}
	strIDs := make([]string, len(ytIDs))
	for i, id := range ytIDs {
		strIDs[i] = string(id)
	}

	response, err := y.Client.Videos.
		List([]string{"snippet"}).
		Id(strIDs...).
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}

	mds := make(map[model.YoutubeVideoID]Metadata, len(response.Items))
	for _, item := range response.Items {
		if item.Snippet == nil {
			continue
		}
		mds[model.YoutubeVideoID(item.Id)] = Metadata{
			Title:        item.Snippet.Title,
			ChannelTitle: item.Snippet.ChannelTitle,
			Description:  item.Snippet.Description,
			PublishedAt:  item.Snippet.PublishedAt,
		}
	}

	return mds, nil
}
