package game

import "time"

type Phase string

const (
	PhaseLobby    Phase = "lobby"
	PhasePlaying  Phase = "playing"
	PhaseVoting   Phase = "voting"
	PhaseFinished Phase = "finished"
)

const (
	MinParticipants      = 3
	MaxParticipants      = 5
	MinPlayersToStart    = 2
	DefaultRoundDuration = 180
	VotingDuration       = 30 * time.Second
)

// AllowedRoundDurations lists the round lengths, in seconds, a host may pick.
var AllowedRoundDurations = []int{10, 60, 120, 180, 240, 300}

type Room struct {
	Code                 string        `json:"code"`
	Participants         []Participant `json:"participants"`
	HostID               string        `json:"host_id"`
	Phase                Phase         `json:"phase"`
	MaxParticipants      int           `json:"max_participants"`
	RoundDurationSeconds int           `json:"round_duration_seconds"`
	Round                int           `json:"round"`
	Theme                string        `json:"theme,omitempty"`
	Question             string        `json:"question,omitempty"`
	Messages             []Message     `json:"messages"`
	Votes                []Vote        `json:"votes"`
	VirtualID            string        `json:"virtual_id,omitempty"`
	AIParticipantID      string        `json:"ai_participant_id,omitempty"`
	Labels               *Anonymizer   `json:"labels,omitempty"`
	Results              *Results      `json:"results,omitempty"`
	CreatedAt            time.Time     `json:"created_at"`
	PhaseStartedAt       time.Time     `json:"phase_started_at"`
	RoundEndsAt          time.Time     `json:"round_ends_at,omitempty"`
	VoteEndsAt           time.Time     `json:"vote_ends_at,omitempty"`
}

type Participant struct {
	ID       string    `json:"id"`
	Nickname string    `json:"nickname"`
	Ready    bool      `json:"ready"`
	JoinedAt time.Time `json:"joined_at"`
}

type Message struct {
	ID       string    `json:"id"`
	Label    string    `json:"label"`
	Text     string    `json:"text"`
	SourceID string    `json:"source_id"`
	SentAt   time.Time `json:"sent_at"`
}

type Vote struct {
	VoterID  string    `json:"voter_id"`
	TargetID string    `json:"target_id"`
	CastAt   time.Time `json:"cast_at"`
}

type Results struct {
	AIParticipantLabel string              `json:"ai_participant_label"`
	VotedOutLabel      string              `json:"voted_out_label"`
	PlayersWin         bool                `json:"players_win"`
	Breakdown          map[string][]string `json:"breakdown"`
	Roster             map[string]string   `json:"roster,omitempty"`
}

// Settings carries optional lobby setting changes; nil fields are left alone.
type Settings struct {
	MaxParticipants      *int
	RoundDurationSeconds *int
}

func NewRoom(code string, maxParticipants, roundSeconds int, now time.Time) *Room {
	if !validMaxParticipants(maxParticipants) {
		maxParticipants = MaxParticipants
	}
	if !validRoundDuration(roundSeconds) {
		roundSeconds = DefaultRoundDuration
	}
	return &Room{
		Code:                 code,
		Phase:                PhaseLobby,
		MaxParticipants:      maxParticipants,
		RoundDurationSeconds: roundSeconds,
		CreatedAt:            now,
		PhaseStartedAt:       now,
	}
}

// Clone returns a deep copy safe to read outside the room's lock.
func (r *Room) Clone() *Room {
	if r == nil {
		return nil
	}
	out := *r
	out.Participants = append([]Participant(nil), r.Participants...)
	out.Messages = append([]Message(nil), r.Messages...)
	out.Votes = append([]Vote(nil), r.Votes...)
	out.Labels = r.Labels.Clone()
	if r.Results != nil {
		results := *r.Results
		results.Breakdown = make(map[string][]string, len(r.Results.Breakdown))
		for label, voters := range r.Results.Breakdown {
			results.Breakdown[label] = append([]string(nil), voters...)
		}
		if r.Results.Roster != nil {
			results.Roster = make(map[string]string, len(r.Results.Roster))
			for label, name := range r.Results.Roster {
				results.Roster[label] = name
			}
		}
		out.Results = &results
	}
	return &out
}

func (r *Room) Participant(id string) (*Participant, bool) {
	for i := range r.Participants {
		if r.Participants[i].ID == id {
			return &r.Participants[i], true
		}
	}
	return nil, false
}

func (r *Room) IsParticipant(id string) bool {
	_, ok := r.Participant(id)
	return ok
}

func (r *Room) IsHost(id string) bool {
	return id != "" && r.HostID == id
}

func (r *Room) Empty() bool {
	return len(r.Participants) == 0
}

func (r *Room) InRound() bool {
	return r.Phase == PhasePlaying || r.Phase == PhaseVoting || r.Phase == PhaseFinished
}

func validMaxParticipants(value int) bool {
	return value >= MinParticipants && value <= MaxParticipants
}

func validRoundDuration(seconds int) bool {
	for _, allowed := range AllowedRoundDurations {
		if allowed == seconds {
			return true
		}
	}
	return false
}
