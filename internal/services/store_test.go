package services

import (
	"path/filepath"
	"testing"
	"time"
)

func TestStoreRoundTrip(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "state.json"))

	g := NewGame()
	mustJoin(t, g, "Alice", []int{1, 2, 3, 4, 5}, 7)
	mustJoin(t, g, "Bob", []int{10, 20, 30, 40, 50}, 8)
	g.SetSpeed(500)
	g.applyDrawing([]int{1, 2, 3, 60, 61}, 8)
	g.applyDrawing([]int{10, 20, 30, 40, 50}, 8) // Bob hits the jackpot
	g.ResumeAfterJackpot()

	saved := g.PersistState()
	if err := store.Save(saved); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded == nil {
		t.Fatal("Load() returned no state")
	}

	restored := NewGame()
	restored.Restore(loaded)

	before, after := g.Snapshot(), restored.Snapshot()
	if after.TotalDrawings != before.TotalDrawings || after.Speed != before.Speed {
		t.Errorf("drawings/speed = %d/%d, want %d/%d",
			after.TotalDrawings, after.Speed, before.TotalDrawings, before.Speed)
	}
	if after.LastJackpotWinner != "Bob" || after.LastJackpotRolls != 2 {
		t.Errorf("jackpot history = %q at %d", after.LastJackpotWinner, after.LastJackpotRolls)
	}
	if !after.Running {
		t.Error("restoring players should set the game running")
	}
	if len(after.Players) != 2 {
		t.Fatalf("restored %d players, want 2", len(after.Players))
	}
	for i, p := range after.Players {
		want := before.Players[i]
		if p.ID != want.ID || p.Name != want.Name {
			t.Errorf("player %d identity = %s/%s, want %s/%s", i, p.ID, p.Name, want.ID, want.Name)
		}
		if p.Tickets != want.Tickets || p.Spent != want.Spent || p.Winnings != want.Winnings {
			t.Errorf("player %s counters = (%d,%d,%d), want (%d,%d,%d)",
				p.Name, p.Tickets, p.Spent, p.Winnings, want.Tickets, want.Spent, want.Winnings)
		}
		if p.MillionPlusWins != want.MillionPlusWins || p.JackpotWins != want.JackpotWins {
			t.Errorf("player %s win counts = (%d,%d), want (%d,%d)",
				p.Name, p.MillionPlusWins, p.JackpotWins, want.MillionPlusWins, want.JackpotWins)
		}
		if p.BestWhiteMatches != want.BestWhiteMatches {
			t.Errorf("player %s best = %d, want %d", p.Name, p.BestWhiteMatches, want.BestWhiteMatches)
		}
	}

	// Elapsed time survives the timestamp -> seconds -> timestamp trip
	// within tolerance.
	for i, sp := range restored.PersistState().Players {
		diff := sp.ElapsedSeconds - saved.Players[i].ElapsedSeconds
		if diff < -2 || diff > 2 {
			t.Errorf("player %s elapsed drifted by %ds", sp.Name, diff)
		}
	}
}

func TestStoreMissingFile(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "absent.json"))
	state, err := store.Load()
	if err != nil {
		t.Fatalf("Load() on missing file error = %v", err)
	}
	if state != nil {
		t.Errorf("Load() on missing file = %+v, want nil", state)
	}
}

func TestStoreDelete(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "state.json"))
	if err := store.Save(&SavedState{SavedAt: time.Now(), Speed: 1}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := store.Delete(); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := store.Delete(); err != nil {
		t.Errorf("Delete() of absent file error = %v", err)
	}
}
