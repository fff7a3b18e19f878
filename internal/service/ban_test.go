package service

import (
	"fmt"
	"testing"

	"rivals-tracker/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func player(handle string, heroes ...domain.HeroStat) domain.PlayerResult {
	return domain.PlayerResult{Handle: handle, Status: domain.StatusSuccess, Heroes: heroes}
}

func TestRecommendRanking(t *testing.T) {
	a := domain.HeroStat{Name: "A", WinRate: 60, Wins: 15, Losses: 5, KDA: 2.0}
	b := domain.HeroStat{Name: "B", WinRate: 50, Wins: 5, Losses: 5, KDA: 4.0}

	recs := Recommend([]domain.PlayerResult{player("p1", b, a)})
	require.Len(t, recs, 2)

	assert.Equal(t, "A", recs[0].Hero.Name)
	// win rate branch plus the 20-game main bonus
	assert.InDelta(t, 120+90, recs[0].Priority, 1e-9)
	assert.Equal(t, "p1 has 60% win rate with 20 games", recs[0].Reason)

	assert.Equal(t, "B", recs[1].Hero.Name)
	assert.InDelta(t, 40, recs[1].Priority, 1e-9)
	assert.Equal(t, "p1 has 4 KDA with B", recs[1].Reason)
}

func TestRecommendReasonPrecedence(t *testing.T) {
	// every rule matches; score adds up, reason stays with the first rule
	hero := domain.HeroStat{Name: "Hela", WinRate: 70.5, Wins: 20, Losses: 10, KDA: 3.5}
	recs := Recommend([]domain.PlayerResult{player("zed", hero)})
	require.Len(t, recs, 1)
	assert.InDelta(t, 70.5*30/10+35+90, recs[0].Priority, 1e-9)
	assert.Equal(t, "zed has 70.5% win rate with 30 games", recs[0].Reason)

	// only the main rule matches
	main := domain.HeroStat{Name: "Groot", WinRate: 40, Wins: 8, Losses: 14, KDA: 1.1}
	recs = Recommend([]domain.PlayerResult{player("zed", main)})
	require.Len(t, recs, 1)
	assert.Equal(t, 90.0, recs[0].Priority)
	assert.Equal(t, "zed mainly plays Groot (22 games)", recs[0].Reason)
}

func TestRecommendGates(t *testing.T) {
	heroes := []domain.HeroStat{
		{Name: "few games", WinRate: 90, Wins: 9, Losses: 0, KDA: 9},
		{Name: "exactly 55", WinRate: 55, Wins: 10, Losses: 5, KDA: 3},
		{Name: "nothing", WinRate: 0, Wins: 0, Losses: 0},
	}
	recs := Recommend([]domain.PlayerResult{player("p", heroes...)})
	assert.Empty(t, recs)
	assert.NotNil(t, recs)
}

func TestRecommendDedupFirstQualifyingWins(t *testing.T) {
	first := domain.HeroStat{Name: "Magik", WinRate: 56, Wins: 6, Losses: 4}
	later := domain.HeroStat{Name: "Magik", WinRate: 80, Wins: 40, Losses: 10, KDA: 6}

	recs := Recommend([]domain.PlayerResult{player("early", first), player("late", later)})
	require.Len(t, recs, 1)
	assert.Equal(t, "early", recs[0].Player)
	assert.InDelta(t, 56.0, recs[0].Priority, 1e-9)
}

func TestRecommendNonQualifyingDoesNotBlock(t *testing.T) {
	weak := domain.HeroStat{Name: "Loki", WinRate: 30, Wins: 1, Losses: 2}
	strong := domain.HeroStat{Name: "Loki", WinRate: 60, Wins: 12, Losses: 8}

	recs := Recommend([]domain.PlayerResult{player("a", weak), player("b", strong)})
	require.Len(t, recs, 1)
	assert.Equal(t, "b", recs[0].Player)
}

func TestRecommendIgnoresErrorResults(t *testing.T) {
	failed := domain.NewErrorResult("ghost", "Could not load profile page after maximum attempts")
	failed.Heroes = []domain.HeroStat{{Name: "Venom", WinRate: 99, Wins: 99, Losses: 1}}

	assert.Empty(t, Recommend([]domain.PlayerResult{failed}))
}

func TestRecommendTopFiveStable(t *testing.T) {
	var heroes []domain.HeroStat
	for i := 0; i < 8; i++ {
		// all score exactly 90
		heroes = append(heroes, domain.HeroStat{Name: fmt.Sprintf("H%d", i), Wins: 10, Losses: 10})
	}
	heroes = append(heroes, domain.HeroStat{Name: "Top", WinRate: 75, Wins: 30, Losses: 10})

	recs := Recommend([]domain.PlayerResult{player("p", heroes...)})
	require.Len(t, recs, 5)
	assert.Equal(t, "Top", recs[0].Hero.Name)
	for i, rec := range recs[1:] {
		assert.Equal(t, fmt.Sprintf("H%d", i), rec.Hero.Name)
	}
}
