package models

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/valyala/fastrand"
)

// MaxNameLen is the display name limit; longer names are truncated, not rejected.
const MaxNameLen = 20

// ValidationError reports which join rule a ticket violated.
type ValidationError struct {
	Rule    string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

var (
	ErrNameRequired   = &ValidationError{Rule: "name", Message: "Name is required"}
	ErrPickCount      = &ValidationError{Rule: "numbers", Message: "Must pick exactly 5 numbers"}
	ErrWhiteRange     = &ValidationError{Rule: "whiteRange", Message: fmt.Sprintf("White balls must be 1-%d", WhiteBallMax)}
	ErrWhiteDuplicate = &ValidationError{Rule: "whiteDuplicate", Message: "White ball numbers must be unique"}
	ErrPowerballRange = &ValidationError{Rule: "powerball", Message: fmt.Sprintf("Powerball must be 1-%d", PowerballMax)}
)

// Player is one registered ticket and its cumulative results.
type Player struct {
	ID        string
	Name      string
	Numbers   []int // 5 white balls, kept sorted
	Powerball int

	Tickets         int64
	Spent           int64
	Winnings        int64
	MillionPlusWins int64
	JackpotWins     int64

	JoinedAt time.Time

	LastWhiteMatches   int
	LastPowerballMatch bool
	LastPrize          int64
	BestWhiteMatches   int
}

// NewPlayer validates a join request and builds the player record.
func NewPlayer(name string, numbers []int, powerball int) (*Player, error) {
	if name == "" {
		return nil, ErrNameRequired
	}
	if len(numbers) != 5 {
		return nil, ErrPickCount
	}
	seen := make(map[int]bool, 5)
	for _, n := range numbers {
		if n < 1 || n > WhiteBallMax {
			return nil, ErrWhiteRange
		}
		if seen[n] {
			return nil, ErrWhiteDuplicate
		}
		seen[n] = true
	}
	if powerball < 1 || powerball > PowerballMax {
		return nil, ErrPowerballRange
	}

	if runes := []rune(name); len(runes) > MaxNameLen {
		name = string(runes[:MaxNameLen])
	}
	whites := append([]int(nil), numbers...)
	sort.Ints(whites)

	return &Player{
		ID:        uuid.NewString(),
		Name:      name,
		Numbers:   whites,
		Powerball: powerball,
		JoinedAt:  time.Now(),
	}, nil
}

// CheckTicket scores this player's numbers against a drawing, updates the
// cumulative counters and returns the prize amount. The caller holds the
// game lock.
func (p *Player) CheckTicket(drawnWhites []int, drawnPowerball int) int64 {
	whiteMatches := 0
	for _, n := range p.Numbers {
		for _, d := range drawnWhites {
			if n == d {
				whiteMatches++
				break
			}
		}
	}
	powerballMatch := p.Powerball == drawnPowerball

	prize := PrizeFor(whiteMatches, powerballMatch)
	p.LastWhiteMatches = whiteMatches
	p.LastPowerballMatch = powerballMatch
	p.LastPrize = prize

	if whiteMatches > p.BestWhiteMatches {
		p.BestWhiteMatches = whiteMatches
	}

	p.Tickets++
	p.Spent += TicketCost
	p.Winnings += prize

	if prize >= JackpotPrize {
		p.JackpotWins++
	} else if prize >= MillionThreshold {
		p.MillionPlusWins++
	}
	return prize
}

// ElapsedTime formats time since joining for display, e.g. "1h 5m", "3m 2s", "45s".
func (p *Player) ElapsedTime() string {
	total := int(time.Since(p.JoinedAt).Seconds())
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60

	switch {
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	case minutes > 0:
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	default:
		return fmt.Sprintf("%ds", seconds)
	}
}

// PlayerView is the derived, display-ready copy of a player exposed in
// snapshots and drawing results.
type PlayerView struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	Numbers            []int  `json:"numbers"`
	Powerball          int    `json:"powerball"`
	Tickets            int64  `json:"tickets"`
	Spent              int64  `json:"spent"`
	Winnings           int64  `json:"winnings"`
	MillionPlusWins    int64  `json:"million_plus_wins"`
	JackpotWins        int64  `json:"jackpot_wins"`
	ElapsedTime        string `json:"elapsed_time"`
	LastWhiteMatches   int    `json:"last_white_matches"`
	LastPowerballMatch bool   `json:"last_powerball_match"`
	LastPrize          int64  `json:"last_prize"`
	BestWhiteMatches   int    `json:"best_white_matches"`
	Net                int64  `json:"net"`
}

// View builds the display copy. Net is derived here, never stored.
func (p *Player) View() PlayerView {
	return PlayerView{
		ID:                 p.ID,
		Name:               p.Name,
		Numbers:            append([]int(nil), p.Numbers...),
		Powerball:          p.Powerball,
		Tickets:            p.Tickets,
		Spent:              p.Spent,
		Winnings:           p.Winnings,
		MillionPlusWins:    p.MillionPlusWins,
		JackpotWins:        p.JackpotWins,
		ElapsedTime:        p.ElapsedTime(),
		LastWhiteMatches:   p.LastWhiteMatches,
		LastPowerballMatch: p.LastPowerballMatch,
		LastPrize:          p.LastPrize,
		BestWhiteMatches:   p.BestWhiteMatches,
		Net:                p.Winnings - p.Spent,
	}
}

// QuickPick draws 5 distinct white balls and a powerball, sorted for display.
// Used both for drawings and for the quick-pick convenience endpoint.
func QuickPick() ([]int, int) {
	var seen [WhiteBallMax + 1]bool
	whites := make([]int, 0, 5)
	for len(whites) < 5 {
		n := int(fastrand.Uint32n(WhiteBallMax)) + 1
		if !seen[n] {
			seen[n] = true
			whites = append(whites, n)
		}
	}
	sort.Ints(whites)
	powerball := int(fastrand.Uint32n(PowerballMax)) + 1
	return whites, powerball
}
