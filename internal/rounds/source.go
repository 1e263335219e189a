package rounds

import (
	"errors"
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/deyvinz/connect44fx/internal/entity"
)

var (
	ErrNoRounds        = errors.New("rounds file holds no rounds")
	ErrRoundOrder      = errors.New("round indexes must be contiguous from 0")
	ErrRoundDimensions = errors.New("round dimensions must be positive")
	ErrUnwinnableRound = errors.New("min win length exceeds both board dimensions")
)

// Source provides the ordered round list a match plays through. It is
// loaded once before first use.
type Source interface {
	Rounds() ([]entity.Round, error)
}

type fileSource struct {
	path string
}

// NewFileSource reads the round list from a YAML file.
func NewFileSource(path string) Source {
	return &fileSource{path: path}
}

type roundsFile struct {
	Rounds []entity.Round `yaml:"rounds"`
}

func (that *fileSource) Rounds() ([]entity.Round, error) {
	var file roundsFile
	if err := cleanenv.ReadConfig(that.path, &file); err != nil {
		return nil, fmt.Errorf("unable to load rounds file: %w", err)
	}

	if err := validate(file.Rounds); err != nil {
		return nil, err
	}

	return file.Rounds, nil
}

func validate(rounds []entity.Round) error {
	if len(rounds) == 0 {
		return ErrNoRounds
	}

	for position, round := range rounds {
		if round.Index != position {
			return fmt.Errorf("%w: position %d holds index %d", ErrRoundOrder, position, round.Index)
		}

		if round.Rows < 1 || round.Columns < 1 || round.MinWinLength < 2 {
			return fmt.Errorf("%w: round %d is %dx%d with win length %d",
				ErrRoundDimensions, round.Index, round.Rows, round.Columns, round.MinWinLength)
		}

		if round.MinWinLength > round.Rows && round.MinWinLength > round.Columns {
			return fmt.Errorf("%w: round %d", ErrUnwinnableRound, round.Index)
		}
	}

	return nil
}
