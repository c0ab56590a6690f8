package model

import "strings"

type Fragment struct {
	Text     string
	Start    float64
	Duration float64
}

type Transcript struct {
	VideoID   YoutubeVideoID
	Language  string
	Fragments []Fragment
}

// Text joins the fragments in order, separated by a single space. Timing
// information is dropped.
func (t Transcript) Text() string {
	texts := make([]string, len(t.Fragments))
	for i, f := range t.Fragments {
		texts[i] = f.Text
	}

	return strings.Join(texts, " ")
}
