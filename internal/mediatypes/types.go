package mediatypes

// Class represents the media class of a catalogued file.
type Class string

const (
	// ClassImage represents an image file.
	ClassImage Class = "image"
	// ClassVideo represents a video file.
	ClassVideo Class = "video"
	// ClassAudio represents an audio file.
	ClassAudio Class = "audio"
	// ClassUnrecognized represents a file outside the supported classes.
	ClassUnrecognized Class = "unrecognized"
)

// Reserved tag names. One is assigned to every catalogued file according
// to its class, and the tag-management layer refuses to delete them.
const (
	TagImage = "Image"
	TagVideo = "Video"
	TagAudio = "Audio"
)

// ReservedTags lists the pre-seeded classification tags.
var ReservedTags = []string{TagAudio, TagVideo, TagImage}

// ImageExtensions maps file extensions to whether they are supported image formats.
var ImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".jfif": true,
	".png":  true,
	".gif":  true,
	".bmp":  true,
	".webp": true,
	".tiff": true,
	".tif":  true,
}

// VideoExtensions maps file extensions to whether they are supported video formats.
var VideoExtensions = map[string]bool{
	".mp4":  true,
	".mkv":  true,
	".avi":  true,
	".mov":  true,
	".wmv":  true,
	".webm": true,
	".m4v":  true,
	".mpeg": true,
	".mpg":  true,
	".3gp":  true,
}

// AudioExtensions maps file extensions to whether they are supported audio formats.
var AudioExtensions = map[string]bool{
	".mp3":  true,
	".wav":  true,
	".flac": true,
	".ogg":  true,
	".m4a":  true,
	".aac":  true,
	".wma":  true,
}

// Classify returns the Class for a given file extension.
// The extension should be lowercase and include the leading dot (e.g., ".jpg").
// Returns ClassUnrecognized if the extension is not in any allow-list.
func Classify(ext string) Class {
	if ImageExtensions[ext] {
		return ClassImage
	}
	if VideoExtensions[ext] {
		return ClassVideo
	}
	if AudioExtensions[ext] {
		return ClassAudio
	}
	return ClassUnrecognized
}

// ReservedTag returns the classification tag for a class.
// Returns an empty string for ClassUnrecognized.
func ReservedTag(class Class) string {
	switch class {
	case ClassImage:
		return TagImage
	case ClassVideo:
		return TagVideo
	case ClassAudio:
		return TagAudio
	}
	return ""
}

// IsReservedTag reports whether name is one of the built-in classification tags.
func IsReservedTag(name string) bool {
	for _, t := range ReservedTags {
		if t == name {
			return true
		}
	}
	return false
}

// IsMediaFile returns true if the extension represents a supported media file.
func IsMediaFile(ext string) bool {
	return Classify(ext) != ClassUnrecognized
}
