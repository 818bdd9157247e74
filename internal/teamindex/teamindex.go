// Package teamindex maps team names to their row position in a daily snapshot.
//
// The statistics source orders teams alphabetically by display name, so the
// row position of a franchise shifts whenever a team is renamed or relocated.
// Each Era is one such ordering; a season id selects exactly one Era.
package teamindex

import (
	"errors"
	"fmt"
	"strings"
)

// Era identifies a team-name-to-row mapping valid for a contiguous range of seasons.
type Era int

const (
	// EraCurrent covers every season not listed explicitly, including future ones.
	EraCurrent Era = iota
	Era2010
	Era2012
	Era2013
	Era2014
)

func (e Era) String() string {
	switch e {
	case Era2010:
		return "2010"
	case Era2012:
		return "2012"
	case Era2013:
		return "2013"
	case Era2014:
		return "2014"
	default:
		return "current"
	}
}

// ErrUnknownTeam is wrapped by every LookupError.
var ErrUnknownTeam = errors.New("unknown team")

// LookupError reports a team name absent from the era selected for a season.
type LookupError struct {
	Season string
	Era    Era
	Team   string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("team %q not in %s era mapping for season %s", e.Team, e.Era, e.Season)
}

func (e *LookupError) Unwrap() error { return ErrUnknownTeam }

// Team is one franchise as named during an era.
type Team struct {
	Name     string
	Nickname string
	Aliases  []string
}

var eraSeasons = map[string]Era{
	"2010-11": Era2010,
	"2011-12": Era2010,
	"2012-13": Era2012,
	"2013-14": Era2013,
	"2014-15": Era2014,
	"2015-16": Era2014,
	"2016-17": Era2014,
	"2017-18": Era2014,
	"2018-19": Era2014,
	"2019-20": Era2014,
	"2020-21": Era2014,
	"2021-22": Era2014,
}

// Listed reports whether seasonID is named explicitly by an era, including
// the seasons known to belong to EraCurrent.
func Listed(seasonID string) bool {
	_, ok := eraSeasons[seasonID]
	return ok || currentSeasons[seasonID]
}

// EraFor selects the era for a season id. Ids not listed explicitly fall back
// to EraCurrent.
func EraFor(seasonID string) Era {
	if e, ok := eraSeasons[seasonID]; ok {
		return e
	}
	return EraCurrent
}

// Resolver resolves team names against the era of a season.
type Resolver struct {
	strict  bool
	indexes map[Era]map[string]int
	counts  map[Era]int
}

// New builds a resolver over the built-in eras. In strict mode a season id
// that no era lists explicitly is an error instead of falling back to EraCurrent.
func New(strict bool) *Resolver {
	r := &Resolver{
		strict:  strict,
		indexes: make(map[Era]map[string]int),
		counts:  make(map[Era]int),
	}
	for era, teams := range eraTeams {
		idx := make(map[string]int, len(teams)*3)
		for i, t := range teams {
			idx[normalize(t.Name)] = i
			if t.Nickname != "" {
				idx[normalize(t.Nickname)] = i
			}
			for _, a := range t.Aliases {
				idx[normalize(a)] = i
			}
		}
		r.indexes[era] = idx
		r.counts[era] = len(teams)
	}
	return r
}

// ErrUnlistedSeason is returned in strict mode for seasons no era names.
var ErrUnlistedSeason = errors.New("season not listed in any era")

// Era returns the era selected for seasonID.
func (r *Resolver) Era(seasonID string) (Era, error) {
	if r.strict && !Listed(seasonID) {
		return EraCurrent, fmt.Errorf("%w: %s", ErrUnlistedSeason, seasonID)
	}
	return EraFor(seasonID), nil
}

// Resolve returns the snapshot row position of team for seasonID.
func (r *Resolver) Resolve(seasonID, team string) (int, error) {
	era, err := r.Era(seasonID)
	if err != nil {
		return 0, err
	}
	pos, ok := r.indexes[era][normalize(team)]
	if !ok {
		return 0, &LookupError{Season: seasonID, Era: era, Team: team}
	}
	return pos, nil
}

// ExpectedTeams returns the number of rows a complete snapshot has in seasonID's era.
func (r *Resolver) ExpectedTeams(seasonID string) int {
	return r.counts[EraFor(seasonID)]
}

// Teams returns the ordered display names of an era.
func Teams(era Era) []string {
	teams := eraTeams[era]
	out := make([]string, len(teams))
	for i, t := range teams {
		out[i] = t.Name
	}
	return out
}

func normalize(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}
