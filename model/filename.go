package model

import "strings"

const invalidFilenameChars = `\/*?:"<>|`

// Filename builds the name under which both the transcript and the summary
// of a video are stored.
func Filename(channelTitle, videoTitle string) string {
	return SanitizeFilename(channelTitle + " - " + videoTitle + ".txt")
}

// SanitizeFilename removes every character that is not allowed in a file
// name on common filesystems. Nothing else is touched.
func SanitizeFilename(name string) string {
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(invalidFilenameChars, r) {
			return -1
		}
		return r
	}, name)
}
