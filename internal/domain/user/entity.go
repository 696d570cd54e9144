package user

import "time"

// Mood labels a requester's self-reported emotional state. Relievers
// advertise the moods they are comfortable helping with.
type Mood string

const (
	MoodHappy    Mood = "Happy"
	MoodSad      Mood = "Sad"
	MoodStressed Mood = "Stressed"
	MoodAnxious  Mood = "Anxious"
	MoodNeutral  Mood = "Neutral"
	MoodExcited  Mood = "Excited"
)

// Moods is the catalogue of selectable mood labels, in display order.
var Moods = []Mood{MoodHappy, MoodSad, MoodStressed, MoodAnxious, MoodNeutral, MoodExcited}

// User represents a registered account. Relievers are users with the
// IsReliever flag set; requesters never get a User record, only an
// ephemeral alias.
type User struct {
	ID            int64     `json:"id"`
	Username      string    `json:"username"`
	Password      string    `json:"-"` // never serialized
	IsReliever    bool      `json:"isReliever"`
	Avatar        string    `json:"avatar,omitempty"`
	Skills        []string  `json:"skills"`
	Bio           string    `json:"bio,omitempty"`
	MoodExpertise []string  `json:"moodExpertise"`
	Online        bool      `json:"online"`
	CreatedAt     time.Time `json:"createdAt"`
}
