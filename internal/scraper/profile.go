package scraper

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"rivals-tracker/internal/browser"
	"rivals-tracker/internal/domain"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"
)

// tracker.gg overview layout: the first card section lists roles, the second
// lists heroes, one row per entry with label/value stat blocks.
const (
	sectionSelector   = "section.v3-card"
	rowSelector       = ".flex.gap-4.items-center"
	rowNameSelector   = ".name"
	statSelector      = ".trn-defstat"
	statNameSelector  = ".trn-defstat__name"
	statValueSelector = ".trn-defstat__value"
)

type statField int

const (
	fieldUnknown statField = iota
	fieldPlayRate
	fieldWinRate
	fieldWins
	fieldLosses
	fieldKDA
	fieldKills
	fieldDeaths
	fieldAssists
)

var statLabels = map[string]statField{
	"play %":     fieldPlayRate,
	"playtime %": fieldPlayRate,
	"play rate":  fieldPlayRate,
	"pick rate":  fieldPlayRate,
	"win %":      fieldWinRate,
	"win rate":   fieldWinRate,
	"wr":         fieldWinRate,
	"wins":       fieldWins,
	"w":          fieldWins,
	"losses":     fieldLosses,
	"l":          fieldLosses,
	"kda":        fieldKDA,
	"kills":      fieldKills,
	"k":          fieldKills,
	"deaths":     fieldDeaths,
	"d":          fieldDeaths,
	"assists":    fieldAssists,
	"a":          fieldAssists,
}

type Scraper struct {
	logger zerolog.Logger
}

func NewScraper(logger zerolog.Logger) *Scraper {
	return &Scraper{logger: logger}
}

// Scrape reads the current DOM of a ready page. It never navigates.
func (s *Scraper) Scrape(ctx context.Context, page browser.Page) (domain.Profile, error) {
	html, err := page.Content(ctx)
	if err != nil {
		return domain.Profile{}, fmt.Errorf("failed to read page content: %w", err)
	}
	profile, err := ParseProfile(html)
	if err != nil {
		return domain.Profile{}, err
	}
	s.logger.Debug().
		Int("roles", len(profile.Roles)).
		Int("heroes", len(profile.Heroes)).
		Msg("profile extracted")
	return profile, nil
}

// ParseProfile extracts role and hero rows from an overview document. Missing
// sections yield empty slices, unparseable numbers yield zero.
func ParseProfile(html string) (domain.Profile, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return domain.Profile{}, fmt.Errorf("failed to parse profile document: %w", err)
	}

	profile := domain.Profile{
		Roles:  []domain.RoleStat{},
		Heroes: []domain.HeroStat{},
	}

	sections := doc.Find(sectionSelector)
	if sections.Length() > 0 {
		eachRow(sections.Eq(0), func(r row) {
			profile.Roles = append(profile.Roles, r.role())
		})
	}
	if sections.Length() > 1 {
		eachRow(sections.Eq(1), func(r row) {
			profile.Heroes = append(profile.Heroes, r.hero())
		})
	}

	return profile, nil
}

type row struct {
	name  string
	icon  string
	stats map[statField]string
}

func eachRow(section *goquery.Selection, fn func(row)) {
	section.Find(rowSelector).Each(func(_ int, sel *goquery.Selection) {
		r := parseRow(sel)
		if r.name == "" {
			return
		}
		fn(r)
	})
}

func parseRow(sel *goquery.Selection) row {
	img := sel.Find("img").First()
	name := strings.TrimSpace(img.AttrOr("alt", ""))
	if name == "" {
		name = strings.TrimSpace(sel.Find(rowNameSelector).First().Text())
	}

	r := row{
		name:  name,
		icon:  strings.TrimSpace(img.AttrOr("src", "")),
		stats: make(map[statField]string),
	}

	sel.Find(statSelector).Each(func(_ int, stat *goquery.Selection) {
		label := normalizeLabel(stat.Find(statNameSelector).First().Text())
		field, ok := statLabels[label]
		if !ok {
			return
		}
		// first occurrence of a label wins
		if _, seen := r.stats[field]; seen {
			return
		}
		r.stats[field] = strings.TrimSpace(stat.Find(statValueSelector).First().Text())
	})

	return r
}

func (r row) role() domain.RoleStat {
	return domain.RoleStat{
		Name:     r.name,
		IconURL:  r.icon,
		PlayRate: parseFloat(r.stats[fieldPlayRate]),
		WinRate:  parseFloat(r.stats[fieldWinRate]),
		Wins:     parseInt(r.stats[fieldWins]),
		KDA:      parseFloat(r.stats[fieldKDA]),
		Kills:    parseInt(r.stats[fieldKills]),
		Deaths:   parseInt(r.stats[fieldDeaths]),
		Assists:  parseInt(r.stats[fieldAssists]),
	}
}

func (r row) hero() domain.HeroStat {
	return domain.HeroStat{
		Name:    r.name,
		IconURL: r.icon,
		WinRate: parseFloat(r.stats[fieldWinRate]),
		Wins:    parseInt(r.stats[fieldWins]),
		Losses:  parseInt(r.stats[fieldLosses]),
		KDA:     parseFloat(r.stats[fieldKDA]),
		Kills:   parseInt(r.stats[fieldKills]),
		Deaths:  parseInt(r.stats[fieldDeaths]),
		Assists: parseInt(r.stats[fieldAssists]),
	}
}

func normalizeLabel(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.TrimSuffix(s, ":")
	return strings.Join(strings.Fields(s), " ")
}

func cleanNumber(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "%")
	s = strings.ReplaceAll(s, ",", "")
	return strings.TrimSpace(s)
}

func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(cleanNumber(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func parseInt(s string) int {
	v, err := strconv.Atoi(cleanNumber(s))
	if err != nil {
		return 0
	}
	return v
}
