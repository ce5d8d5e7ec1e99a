// Package tag implements the closed-enum-with-escape-hatch types used
// throughout the MPD protocol: metadata tags, idle subsystems, and the
// filter expression language built on top of them.
package tag

import (
	"fmt"
	"strings"
)

// Tag identifies a metadata field MPD can report or filter on. The set
// mirrors MPD's built-in tags; an unrecognized-but-well-formed tag name is
// preserved via Other rather than rejected, since MPD's tag list grows
// across versions and clients should not need a library update to use a new
// one. Equality and use as a map key are defined on the canonical wire
// name returned by String.
type Tag struct {
	name string
}

var (
	TagAlbum                      = Tag{"Album"}
	TagAlbumSort                  = Tag{"AlbumSort"}
	TagAlbumArtist                = Tag{"AlbumArtist"}
	TagAlbumArtistSort            = Tag{"AlbumArtistSort"}
	TagArtist                     = Tag{"Artist"}
	TagArtistSort                 = Tag{"ArtistSort"}
	TagComment                    = Tag{"Comment"}
	TagComposer                   = Tag{"Composer"}
	TagDate                       = Tag{"Date"}
	TagOriginalDate               = Tag{"OriginalDate"}
	TagDisc                       = Tag{"Disc"}
	TagGenre                      = Tag{"Genre"}
	TagLabel                      = Tag{"Label"}
	TagMusicBrainzArtistID        = Tag{"MUSICBRAINZ_ARTISTID"}
	TagMusicBrainzRecordingID     = Tag{"MUSICBRAINZ_TRACKID"}
	TagMusicBrainzReleaseArtistID = Tag{"MUSICBRAINZ_ALBUMARTISTID"}
	TagMusicBrainzReleaseID       = Tag{"MUSICBRAINZ_ALBUMID"}
	TagMusicBrainzTrackID         = Tag{"MUSICBRAINZ_RELEASETRACKID"}
	TagMusicBrainzWorkID          = Tag{"MUSICBRAINZ_WORKID"}
	TagName                       = Tag{"Name"}
	TagPerformer                  = Tag{"Performer"}
	TagTitle                      = Tag{"Title"}
	TagTrack                      = Tag{"Track"}
)

var knownTagsByLower = buildKnownTags()

func buildKnownTags() map[string]Tag {
	known := []Tag{
		TagAlbum, TagAlbumSort, TagAlbumArtist, TagAlbumArtistSort,
		TagArtist, TagArtistSort, TagComment, TagComposer, TagDate,
		TagOriginalDate, TagDisc, TagGenre, TagLabel,
		TagMusicBrainzArtistID, TagMusicBrainzRecordingID,
		TagMusicBrainzReleaseArtistID, TagMusicBrainzReleaseID,
		TagMusicBrainzTrackID, TagMusicBrainzWorkID,
		TagName, TagPerformer, TagTitle, TagTrack,
	}
	m := make(map[string]Tag, len(known))
	for _, t := range known {
		m[strings.ToLower(t.name)] = t
	}
	return m
}

// OtherTag builds a Tag for a name not in the known set above. It is the
// client's escape hatch for newer tags MPD reports that this package does
// not yet name explicitly.
func OtherTag(name string) (Tag, error) {
	if err := validateTagName(name); err != nil {
		return Tag{}, err
	}
	if known, ok := knownTagsByLower[strings.ToLower(name)]; ok {
		return known, nil
	}
	return Tag{name: name}, nil
}

// AnyTag returns the special "any" tag used to match against all tags in a
// filter expression.
func AnyTag() Tag {
	return Tag{name: "any"}
}

func validateTagName(name string) error {
	if name == "" {
		return fmt.Errorf("tag: empty tag name")
	}
	for i, r := range name {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r == '_' || r == '-') {
			return fmt.Errorf("tag: invalid character %q at index %d", r, i)
		}
	}
	return nil
}

// ParseTag maps a wire tag name (case-insensitively) to a known Tag,
// falling back to Other for anything well-formed but unrecognized.
func ParseTag(raw string) (Tag, error) {
	return OtherTag(raw)
}

// String returns the canonical wire representation of the tag.
func (t Tag) String() string {
	return t.name
}

// IsZero reports whether t is the zero value (no tag set).
func (t Tag) IsZero() bool {
	return t.name == ""
}
