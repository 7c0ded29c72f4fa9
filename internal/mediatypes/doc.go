// Package mediatypes defines the media classes the catalog understands
// and the extension allow-lists that partition them.
//
// The three classes (image, video, audio) are disjoint: an extension
// belongs to at most one allow-list. Files whose extension matches none
// of the lists are unrecognized and never enter the catalog.
package mediatypes
