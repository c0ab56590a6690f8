package fetch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseChannelInput(t *testing.T) {
	for _, tc := range []struct {
		name       string
		input      string
		expValue   string
		expNeedsID bool
	}{
		{
			name:     "channel url",
			input:    "https://youtube.com/channel/UC123",
			expValue: "UC123",
		},
		{
			name:     "trailing slash",
			input:    "https://www.youtube.com/channel/UC123/",
			expValue: "UC123",
		},
		{
			name:     "bare id",
			input:    "UC123",
			expValue: "UC123",
		},
		{
			name:     "surrounding whitespace",
			input:    "  UC123\n",
			expValue: "UC123",
		},
		{
			name:     "segment is taken verbatim",
			input:    "https://youtube.com/c/Some_Name-1",
			expValue: "Some_Name-1",
		},
		{
			name:       "handle url",
			input:      "https://www.youtube.com/@TestChannel",
			expValue:   "TestChannel",
			expNeedsID: true,
		},
		{
			name:       "handle url with sub page",
			input:      "https://www.youtube.com/@TestChannel/videos?view=0",
			expValue:   "TestChannel",
			expNeedsID: true,
		},
		{
			name:       "bare handle",
			input:      "@TestChannel",
			expValue:   "TestChannel",
			expNeedsID: true,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			value, isHandle := ParseChannelInput(tc.input)
			assert.Equal(t, tc.expValue, value)
			assert.Equal(t, tc.expNeedsID, isHandle)
		})
	}
}
