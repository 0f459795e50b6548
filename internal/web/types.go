package web

// RoomSummary is the public view of a room served to the landing page
// before a player joins. It carries no connection identifiers.
type RoomSummary struct {
	Code                 string `json:"roomCode"`
	Phase                string `json:"phase"`
	Players              int    `json:"players"`
	MaxParticipants      int    `json:"maxParticipants"`
	RoundDurationSeconds int    `json:"roundDurationSeconds"`
	Joinable             bool   `json:"joinable"`
}

type HomePage struct {
	Title        string
	RoomCode     string
	RoundOptions []int
	MaxOptions   []int
}
