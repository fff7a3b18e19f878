package service

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"

	"rivals-tracker/internal/constants"
	"rivals-tracker/internal/domain"
)

const (
	banWinRateThreshold = 55.0
	banKDAThreshold     = 3.0
	banMinGames         = 10
	banMainGames        = 20
	banMainBonus        = 90.0
)

// Recommend ranks the heroes of successful results into ban suggestions.
// A hero is only ever considered once, for the first player whose entry
// scores above zero, even if a later player would score higher with it.
func Recommend(results []domain.PlayerResult) []domain.BanRecommendation {
	recs := []domain.BanRecommendation{}
	seen := make(map[string]struct{})

	for _, result := range results {
		if result.Status != domain.StatusSuccess {
			continue
		}
		for _, hero := range result.Heroes {
			if _, ok := seen[hero.Name]; ok {
				continue
			}
			priority, reason := scoreHero(result.Handle, hero)
			if priority <= 0 {
				continue
			}
			recs = append(recs, domain.BanRecommendation{
				Hero:     hero,
				Player:   result.Handle,
				Priority: priority,
				Reason:   reason,
			})
			seen[hero.Name] = struct{}{}
		}
	}

	slices.SortStableFunc(recs, func(a, b domain.BanRecommendation) int {
		return cmp.Compare(b.Priority, a.Priority)
	})
	if len(recs) > constants.MaxBanRecommendations {
		recs = recs[:constants.MaxBanRecommendations]
	}
	return recs
}

// scoreHero adds up every matching rule; the reason comes from the first one.
func scoreHero(player string, hero domain.HeroStat) (float64, string) {
	var priority float64
	var reason string
	games := hero.Games()

	if hero.WinRate > banWinRateThreshold && games >= banMinGames {
		priority += hero.WinRate * float64(games) / 10
		if reason == "" {
			reason = fmt.Sprintf("%s has %s%% win rate with %d games", player, formatNumber(hero.WinRate), games)
		}
	}
	if hero.KDA > banKDAThreshold && games >= banMinGames {
		priority += hero.KDA * 10
		if reason == "" {
			reason = fmt.Sprintf("%s has %s KDA with %s", player, formatNumber(hero.KDA), hero.Name)
		}
	}
	if games >= banMainGames {
		priority += banMainBonus
		if reason == "" {
			reason = fmt.Sprintf("%s mainly plays %s (%d games)", player, hero.Name, games)
		}
	}

	return priority, reason
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
