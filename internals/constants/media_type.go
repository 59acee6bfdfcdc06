package constants

import (
	"path/filepath"
	"strings"
)

// Tipe media untuk lampiran poin
const (
	MediaTypeImage = "image"
	MediaTypeVideo = "video"
	MediaTypeAudio = "audio"
	MediaTypePDF   = "pdf"
	MediaTypeOther = "other"
)

var MediaTypes = []string{
	MediaTypeImage,
	MediaTypeVideo,
	MediaTypeAudio,
	MediaTypePDF,
	MediaTypeOther,
}

func DetectMediaTypeFromExt(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))

	switch ext {
	case ".png", ".jpg", ".jpeg", ".webp", ".gif":
		return MediaTypeImage
	case ".mp4", ".mov", ".webm", ".mkv":
		return MediaTypeVideo
	case ".mp3", ".wav", ".ogg", ".m4a":
		return MediaTypeAudio
	case ".pdf":
		return MediaTypePDF
	default:
		return MediaTypeOther
	}
}
