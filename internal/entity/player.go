package entity

const (
	TypeHuman = "human"
	TypeAI    = "ai"

	MarkHuman = "H"
	MarkAI    = "A"
	EmptyMark = "."
)

// Player describes one side of a match. Human and AI are two variants of
// the same record; only the Type tag differs.
type Player struct {
	Type     string `json:"type"`
	Name     string `json:"name"`
	ImageRef string `json:"image_ref,omitempty"`
}

func NewHumanPlayer(name, imageRef string) *Player {
	return &Player{Type: TypeHuman, Name: name, ImageRef: imageRef}
}

func NewAIPlayer(name, imageRef string) *Player {
	return &Player{Type: TypeAI, Name: name, ImageRef: imageRef}
}

// Mark - single character used in line pattern strings for coins owned by
// this player.
func (that *Player) Mark() string {
	if that.Type == TypeAI {
		return MarkAI
	}
	return MarkHuman
}

func (that *Player) IsAI() bool {
	return that.Type == TypeAI
}

func (that *Player) IsHuman() bool {
	return that.Type == TypeHuman
}
