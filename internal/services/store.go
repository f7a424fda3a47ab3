package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/logger"
)

// SavedPlayer is one player record in the state file. Join time is stored as
// elapsed seconds so the record stays valid across restarts on any clock.
type SavedPlayer struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Numbers          []int  `json:"numbers"`
	Powerball        int    `json:"powerball"`
	Tickets          int64  `json:"tickets"`
	Spent            int64  `json:"spent"`
	Winnings         int64  `json:"winnings"`
	MillionPlusWins  int64  `json:"million_plus_wins"`
	JackpotWins      int64  `json:"jackpot_wins"`
	ElapsedSeconds   int64  `json:"elapsed_seconds"`
	BestWhiteMatches int    `json:"best_white_matches"`
}

// SavedState is the on-disk representation of the game.
type SavedState struct {
	SavedAt           time.Time     `json:"saved_at"`
	TotalDrawings     int64         `json:"total_drawings"`
	Speed             int           `json:"speed"`
	LastJackpotRolls  int64         `json:"last_jackpot_rolls"`
	LastJackpotWinner string        `json:"last_jackpot_winner"`
	Players           []SavedPlayer `json:"players"`
}

// Store persists the game to a single JSON file. Persistence is best effort:
// failures are logged and the in-memory game continues regardless.
type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// Save writes the state file. The write goes to a temp file first so a crash
// mid-write cannot leave a truncated state behind.
func (s *Store) Save(state *SavedState) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding state: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing state file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replacing state file: %w", err)
	}
	return nil
}

// Load reads the state file. A missing file means no saved state, not an
// error.
func (s *Store) Load() (*SavedState, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading state file: %w", err)
	}
	state := &SavedState{}
	if err := json.Unmarshal(data, state); err != nil {
		return nil, fmt.Errorf("decoding state file: %w", err)
	}
	return state, nil
}

// Delete removes the state file. Already-absent is success.
func (s *Store) Delete() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// AutoSave persists the game every interval while players exist, and once
// more, synchronously, when the context is cancelled. Serialization happens
// under the game lock but the file write does not.
func (s *Store) AutoSave(ctx context.Context, game *Game, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if err := s.Save(game.PersistState()); err != nil {
				logger.Errorf("final save: %v", err)
			}
			return nil
		case <-ticker.C:
			state := game.PersistState()
			if len(state.Players) == 0 {
				continue
			}
			if err := s.Save(state); err != nil {
				logger.Errorf("periodic save: %v", err)
			}
		}
	}
}
