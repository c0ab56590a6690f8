package fetch

import (
	"context"
	"errors"
	"strings"

	"ewintr.nl/ytsum/model"
)

const handleMarker = "@"

var ErrChannelNotFound = errors.New("channel not found")

type ChannelResolver interface {
	ResolveChannel(ctx context.Context, input string) (model.YoutubeChannelID, error)
}

// ParseChannelInput interprets a channel URL or bare ID. Input containing a
// handle marker yields the handle, which still has to be looked up. All
// other input yields its trailing path segment, to be used as channel ID.
func ParseChannelInput(input string) (string, bool) {
	input = strings.TrimSpace(input)
	if i := strings.LastIndex(input, handleMarker); i >= 0 {
		handle := input[i+len(handleMarker):]
		if j := strings.IndexAny(handle, "/?#"); j >= 0 {
			handle = handle[:j]
		}
		return handle, true
	}

	input = strings.TrimRight(input, "/")
	return input[strings.LastIndex(input, "/")+1:], false
}
