package models

import "fmt"

// Player is one row of the listing. Image fields hold remote URLs after
// extraction and public local paths after finalization.
type Player struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Rating string `json:"rating"`
	Photo  string `json:"photo"`
	Club   Club   `json:"club"`
	Flag   string `json:"flag"`
}

// Club holds the team a player belongs to. Name is empty when the listing
// had no club link.
type Club struct {
	Name string `json:"name,omitempty"`
	Logo string `json:"logo"`
}

// AssetKind names the three images downloaded per player
type AssetKind string

const (
	AssetPhoto AssetKind = "photo"
	AssetLogo  AssetKind = "logo"
	AssetFlag  AssetKind = "flag"
)

// Asset is one image to fetch: a remote URL and the file it lands in
type Asset struct {
	Kind     AssetKind `json:"kind"`
	PlayerID string    `json:"player_id"`
	URL      string    `json:"url"`
	Dest     string    `json:"dest"`
}

func (a Asset) String() string {
	return fmt.Sprintf("%s of player %s (%s)", a.Kind, a.PlayerID, a.URL)
}

// FailedDownload is a queued asset awaiting another attempt. Seq is unique
// per enqueue, so two failures sharing URL and Dest stay distinct items.
type FailedDownload struct {
	Asset
	Seq uint64 `json:"seq"`
}
