package entity

// Round is the immutable configuration of one difficulty level: board
// dimensions, win length and the AI opponent identity. Loaded once from the
// round source and never mutated afterwards.
type Round struct {
	Index        int    `yaml:"index" json:"index"`
	AIName       string `yaml:"ai-name" json:"ai_name"`
	ImageRef     string `yaml:"image-ref" json:"image_ref,omitempty"`
	Rows         int    `yaml:"rows" json:"rows"`
	Columns      int    `yaml:"columns" json:"columns"`
	MinWinLength int    `yaml:"min-win-length" json:"min_win_length"`
}
