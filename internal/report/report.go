// Package report renders scrape results as terminal tables.
package report

import (
	"fmt"
	"io"
	"strconv"

	"rivals-tracker/internal/domain"

	"github.com/jedib0t/go-pretty/v6/table"
)

func newTable(w io.Writer, title string) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(w)
	t.SetTitle(title)
	return t
}

func WritePlayers(w io.Writer, results []domain.PlayerResult) {
	t := newTable(w, "Players")
	t.AppendHeader(table.Row{"#", "Player", "Status", "Top Role", "Top Hero", "Win %", "Games", "KDA", "Message"})
	for i, r := range results {
		var role, hero, winRate, games, kda string
		if len(r.Roles) > 0 {
			role = r.Roles[0].Name
		}
		if len(r.Heroes) > 0 {
			h := r.Heroes[0]
			hero = h.Name
			winRate = strconv.FormatFloat(h.WinRate, 'f', 1, 64)
			games = strconv.Itoa(h.Games())
			kda = strconv.FormatFloat(h.KDA, 'f', 2, 64)
		}
		t.AppendRow(table.Row{i + 1, r.Handle, r.Status, role, hero, winRate, games, kda, r.Message})
	}
	t.Render()
}

func WriteHeroes(w io.Writer, result domain.PlayerResult) {
	t := newTable(w, fmt.Sprintf("Heroes: %s", result.Handle))
	t.AppendHeader(table.Row{"Hero", "Win %", "W", "L", "KDA", "K", "D", "A"})
	for _, h := range result.Heroes {
		t.AppendRow(table.Row{h.Name, h.WinRate, h.Wins, h.Losses, h.KDA, h.Kills, h.Deaths, h.Assists})
	}
	t.Render()
}

func WriteBans(w io.Writer, recs []domain.BanRecommendation) {
	t := newTable(w, "Ban Recommendations")
	t.AppendHeader(table.Row{"Rank", "Hero", "Priority", "Reason"})
	for i, rec := range recs {
		t.AppendRow(table.Row{i + 1, rec.Hero.Name, strconv.FormatFloat(rec.Priority, 'f', 1, 64), rec.Reason})
	}
	t.Render()
}
