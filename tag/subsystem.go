package tag

import "strings"

// Subsystem names one area of MPD state that can trigger an idle
// notification. The wire name "playlist" is deliberately surfaced as Queue
// here rather than Playlist: on the wire it refers to the play queue, and
// naming it Queue avoids confusion with MPD's separate stored-playlist
// feature (whose changes are reported as "stored_playlist").
type Subsystem struct {
	wire string
}

var (
	SubsystemDatabase       = Subsystem{"database"}
	SubsystemUpdate         = Subsystem{"update"}
	SubsystemStoredPlaylist = Subsystem{"stored_playlist"}
	SubsystemQueue          = Subsystem{"playlist"}
	SubsystemPlayer         = Subsystem{"player"}
	SubsystemMixer          = Subsystem{"mixer"}
	SubsystemOutput         = Subsystem{"output"}
	SubsystemOptions        = Subsystem{"options"}
	SubsystemPartition      = Subsystem{"partition"}
	SubsystemSticker        = Subsystem{"sticker"}
	SubsystemSubscription   = Subsystem{"subscription"}
	SubsystemMessage        = Subsystem{"message"}
	SubsystemNeighbor       = Subsystem{"neighbor"}
	SubsystemMount          = Subsystem{"mount"}
)

var knownSubsystemsByWire = map[string]Subsystem{
	SubsystemDatabase.wire:       SubsystemDatabase,
	SubsystemUpdate.wire:         SubsystemUpdate,
	SubsystemStoredPlaylist.wire: SubsystemStoredPlaylist,
	SubsystemQueue.wire:          SubsystemQueue,
	SubsystemPlayer.wire:         SubsystemPlayer,
	SubsystemMixer.wire:          SubsystemMixer,
	SubsystemOutput.wire:         SubsystemOutput,
	SubsystemOptions.wire:        SubsystemOptions,
	SubsystemPartition.wire:      SubsystemPartition,
	SubsystemSticker.wire:        SubsystemSticker,
	SubsystemSubscription.wire:   SubsystemSubscription,
	SubsystemMessage.wire:        SubsystemMessage,
	SubsystemNeighbor.wire:       SubsystemNeighbor,
	SubsystemMount.wire:          SubsystemMount,
}

// SubsystemFromWire maps a "changed: <name>" value to a Subsystem. Unknown
// names are preserved via the Other variant rather than rejected, since
// newer MPD releases occasionally add subsystems.
func SubsystemFromWire(wire string) Subsystem {
	if s, ok := knownSubsystemsByWire[strings.ToLower(wire)]; ok {
		return s
	}
	return Subsystem{wire: wire}
}

// String returns the canonical wire name, e.g. "playlist" for Queue.
func (s Subsystem) String() string {
	return s.wire
}
