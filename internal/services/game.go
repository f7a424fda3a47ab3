package services

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/logger"

	"powerball/internal/models"
)

// MaxPlayers is the fixed table size.
const MaxPlayers = 8

var ErrGameFull = errors.New("game is full (8 players max)")

// JackpotStats freezes the winner's figures at the moment of the win so the
// celebration screen shows them unchanged while the game is stopped.
type JackpotStats struct {
	Winner  string `json:"winner"`
	Tickets int64  `json:"tickets"`
	Spent   int64  `json:"spent"`
	Elapsed string `json:"elapsed"`
}

// DrawingResult reports one executed drawing.
type DrawingResult struct {
	Active        bool                `json:"active"`
	DrawingNum    int64               `json:"drawing_num"`
	Whites        []int               `json:"whites"`
	Powerball     int                 `json:"powerball"`
	Players       []models.PlayerView `json:"players"`
	JackpotHit    bool                `json:"jackpot_hit"`
	JackpotWinner string              `json:"jackpot_winner"`
}

// Snapshot is a point-in-time copy of the whole game, safe to read without
// the lock.
type Snapshot struct {
	Running           bool                `json:"running"`
	TotalDrawings     int64               `json:"total_drawings"`
	CurrentWhites     []int               `json:"current_whites"`
	CurrentPowerball  int                 `json:"current_powerball"`
	Speed             int                 `json:"speed"`
	PlayerCount       int                 `json:"player_count"`
	JackpotHit        bool                `json:"jackpot_hit"`
	JackpotWinner     string              `json:"jackpot_winner"`
	JackpotStats      *JackpotStats       `json:"jackpot_stats,omitempty"`
	LastJackpotRolls  int64               `json:"last_jackpot_rolls"`
	LastJackpotWinner string              `json:"last_jackpot_winner"`
	MillionWinPending bool                `json:"million_win_pending"`
	Players           []models.PlayerView `json:"players"`
}

// Game is the shared simulation state. One mutex guards the whole aggregate;
// every operation holds it for its full duration and never blocks inside it.
type Game struct {
	mu sync.Mutex

	players          []*models.Player // join order
	totalDrawings    int64
	currentWhites    []int
	currentPowerball int
	running          bool
	speed            int // drawings per second

	jackpotHit    bool
	jackpotWinner string
	jackpotStats  *JackpotStats

	// Jackpot history, survives Reset for the banner.
	lastJackpotRolls  int64
	lastJackpotWinner string

	millionWinPending bool

	store *Store
}

func NewGame() *Game {
	return &Game{speed: 1}
}

// AttachStore lets Reset purge the persisted file. Optional.
func (g *Game) AttachStore(store *Store) {
	g.store = store
}

// Join registers a new player. The first player to join an empty game starts
// the drawings.
func (g *Game) Join(name string, numbers []int, powerball int) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if len(g.players) >= MaxPlayers {
		return "", ErrGameFull
	}
	player, err := models.NewPlayer(name, numbers, powerball)
	if err != nil {
		return "", fmt.Errorf("join: %w", err)
	}
	g.players = append(g.players, player)
	if len(g.players) == 1 {
		g.running = true
	}
	return player.ID, nil
}

// Remove drops a player by id. Reports false for an unknown id.
func (g *Game) Remove(playerID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	for i, p := range g.players {
		if p.ID == playerID {
			g.players = append(g.players[:i], g.players[i+1:]...)
			if len(g.players) == 0 {
				g.running = false
			}
			return true
		}
	}
	return false
}

// Reset clears players, counters and the active jackpot, keeping only the
// last-jackpot history. The persisted file is removed so a restart cannot
// resurrect the cleared state.
func (g *Game) Reset() {
	g.mu.Lock()
	g.players = nil
	g.totalDrawings = 0
	g.currentWhites = nil
	g.currentPowerball = 0
	g.running = false
	g.jackpotHit = false
	g.jackpotWinner = ""
	g.jackpotStats = nil
	g.millionWinPending = false
	store := g.store
	g.mu.Unlock()

	if store != nil {
		if err := store.Delete(); err != nil {
			logger.Errorf("removing saved state: %v", err)
		}
	}
}

// ResumeAfterJackpot ends the celebration freeze and restarts drawings if
// anyone is still playing.
func (g *Game) ResumeAfterJackpot() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.jackpotHit = false
	g.jackpotWinner = ""
	g.jackpotStats = nil
	if len(g.players) > 0 {
		g.running = true
	}
}

// SetSpeed stores the drawings-per-second rate, clamped to [1, 10000].
func (g *Game) SetSpeed(speed int) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if speed < 1 {
		speed = 1
	}
	if speed > 10000 {
		speed = 10000
	}
	g.speed = speed
}

// RunDrawing executes one drawing against every player. A drawing outside
// the running state is a no-op, not an error.
func (g *Game) RunDrawing() DrawingResult {
	whites, powerball := models.QuickPick()
	return g.applyDrawing(whites, powerball)
}

func (g *Game) applyDrawing(whites []int, powerball int) DrawingResult {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.running || len(g.players) == 0 {
		return DrawingResult{Active: false}
	}

	g.currentWhites = whites
	g.currentPowerball = powerball
	g.totalDrawings++

	result := DrawingResult{
		Active:     true,
		DrawingNum: g.totalDrawings,
		Whites:     append([]int(nil), whites...),
		Powerball:  powerball,
		Players:    make([]models.PlayerView, 0, len(g.players)),
	}

	for _, player := range g.players {
		prize := player.CheckTicket(whites, powerball)

		if prize >= models.JackpotPrize {
			g.jackpotHit = true
			g.jackpotWinner = player.Name
			g.lastJackpotRolls = g.totalDrawings
			g.lastJackpotWinner = player.Name
			g.jackpotStats = &JackpotStats{
				Winner:  player.Name,
				Tickets: player.Tickets,
				Spent:   player.Spent,
				Elapsed: player.ElapsedTime(),
			}
			g.running = false
			result.JackpotHit = true
			result.JackpotWinner = player.Name
		} else if prize >= models.MillionThreshold {
			// One-shot signal; repeated wins before the display
			// acknowledges collapse into a single pending flash.
			g.millionWinPending = true
		}

		result.Players = append(result.Players, player.View())
	}
	return result
}

// Snapshot copies the full game state out from under the lock.
func (g *Game) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()

	snap := Snapshot{
		Running:           g.running,
		TotalDrawings:     g.totalDrawings,
		CurrentWhites:     append([]int(nil), g.currentWhites...),
		CurrentPowerball:  g.currentPowerball,
		Speed:             g.speed,
		PlayerCount:       len(g.players),
		JackpotHit:        g.jackpotHit,
		JackpotWinner:     g.jackpotWinner,
		LastJackpotRolls:  g.lastJackpotRolls,
		LastJackpotWinner: g.lastJackpotWinner,
		MillionWinPending: g.millionWinPending,
		Players:           make([]models.PlayerView, 0, len(g.players)),
	}
	if g.jackpotStats != nil {
		stats := *g.jackpotStats
		snap.JackpotStats = &stats
	}
	for _, p := range g.players {
		snap.Players = append(snap.Players, p.View())
	}
	return snap
}

// Status is the scheduler's cheap per-tick read.
func (g *Game) Status() (running bool, playerCount, speed int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.running, len(g.players), g.speed
}

// ClearMillionFlash acknowledges the one-shot million-plus win signal.
func (g *Game) ClearMillionFlash() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.millionWinPending = false
}

// PersistState captures the durable fields for saving.
func (g *Game) PersistState() *SavedState {
	g.mu.Lock()
	defer g.mu.Unlock()

	state := &SavedState{
		SavedAt:           time.Now(),
		TotalDrawings:     g.totalDrawings,
		Speed:             g.speed,
		LastJackpotRolls:  g.lastJackpotRolls,
		LastJackpotWinner: g.lastJackpotWinner,
		Players:           make([]SavedPlayer, 0, len(g.players)),
	}
	for _, p := range g.players {
		state.Players = append(state.Players, SavedPlayer{
			ID:               p.ID,
			Name:             p.Name,
			Numbers:          append([]int(nil), p.Numbers...),
			Powerball:        p.Powerball,
			Tickets:          p.Tickets,
			Spent:            p.Spent,
			Winnings:         p.Winnings,
			MillionPlusWins:  p.MillionPlusWins,
			JackpotWins:      p.JackpotWins,
			ElapsedSeconds:   int64(time.Since(p.JoinedAt).Seconds()),
			BestWhiteMatches: p.BestWhiteMatches,
		})
	}
	return state
}

// Restore hydrates the game from a saved state. Join times are rebuilt from
// each player's elapsed seconds so they stay meaningful across restarts.
func (g *Game) Restore(state *SavedState) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := time.Now()
	g.players = make([]*models.Player, 0, len(state.Players))
	for _, sp := range state.Players {
		g.players = append(g.players, &models.Player{
			ID:               sp.ID,
			Name:             sp.Name,
			Numbers:          append([]int(nil), sp.Numbers...),
			Powerball:        sp.Powerball,
			Tickets:          sp.Tickets,
			Spent:            sp.Spent,
			Winnings:         sp.Winnings,
			MillionPlusWins:  sp.MillionPlusWins,
			JackpotWins:      sp.JackpotWins,
			JoinedAt:         now.Add(-time.Duration(sp.ElapsedSeconds) * time.Second),
			BestWhiteMatches: sp.BestWhiteMatches,
		})
	}
	g.totalDrawings = state.TotalDrawings
	// A hand-edited state file must not smuggle in an out-of-range speed.
	g.speed = state.Speed
	if g.speed < 1 {
		g.speed = 1
	}
	if g.speed > 10000 {
		g.speed = 10000
	}
	g.lastJackpotRolls = state.LastJackpotRolls
	g.lastJackpotWinner = state.LastJackpotWinner
	g.running = len(g.players) > 0
}
