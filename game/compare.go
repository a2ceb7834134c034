package game

import (
	"github.com/shopspring/decimal"

	"github.com/movidle/movidle/models"
)

// Verdict is the outcome of one attribute comparison. Direction is set only
// for ordered attributes, and only when the values differ: it points from
// the guessed value toward the secret's.
type Verdict struct {
	Tier      models.Tier      `json:"tier"`
	Direction models.Direction `json:"direction,omitempty"`
}

// Scorecard carries the seven attribute verdicts of one attempt, in the
// fixed order the game defines them.
type Scorecard struct {
	Year     Verdict `json:"year"`
	Votes    Verdict `json:"votes"`
	Genres   Verdict `json:"genres"`
	Runtime  Verdict `json:"runtime"`
	Director Verdict `json:"director"`
	Cast     Verdict `json:"cast"`
	Rating   Verdict `json:"rating"`
}

// Bands holds the CLOSE tolerances for the banded attributes.
type Bands struct {
	Year    int
	Votes   int64
	Runtime int
	Rating  decimal.Decimal
}

// DefaultBands mirrors the game's shipped tuning.
func DefaultBands() Bands {
	return Bands{
		Year:    5,
		Votes:   100000,
		Runtime: 30,
		Rating:  decimal.NewFromFloat(1.0),
	}
}

// Score runs all seven comparators over a guess and the secret movie.
// Comparators are pure; none of them decides overall correctness, which is
// an identity check done by the engine.
func Score(guess, secret models.Movie, b Bands) Scorecard {
	return Scorecard{
		Year:     CompareYear(guess, secret, b.Year),
		Votes:    CompareVotes(guess, secret, b.Votes),
		Genres:   CompareGenres(guess, secret),
		Runtime:  CompareRuntime(guess, secret, b.Runtime),
		Director: CompareDirector(guess, secret),
		Cast:     CompareCast(guess, secret),
		Rating:   CompareRating(guess, secret, b.Rating),
	}
}

// CompareYear tiers on release year with a configurable band.
func CompareYear(guess, secret models.Movie, band int) Verdict {
	return bandedVerdict(int64(guess.Year), int64(secret.Year), int64(band))
}

// CompareVotes tiers on popularity votes. A missing count on either side
// yields NONE with no direction; unknown popularity is never treated as
// zero votes.
func CompareVotes(guess, secret models.Movie, band int64) Verdict {
	if guess.ImdbVotes == nil || secret.ImdbVotes == nil {
		return Verdict{Tier: models.TierNone}
	}
	return bandedVerdict(*guess.ImdbVotes, *secret.ImdbVotes, band)
}

// CompareRuntime tiers on runtime minutes, missing values as in CompareVotes.
func CompareRuntime(guess, secret models.Movie, band int) Verdict {
	if guess.RuntimeMin == nil || secret.RuntimeMin == nil {
		return Verdict{Tier: models.TierNone}
	}
	return bandedVerdict(int64(*guess.RuntimeMin), int64(*secret.RuntimeMin), int64(band))
}

// CompareGenres tiers on the full genre sets: equal sets MATCH, overlapping
// sets CLOSE, disjoint NONE. An empty list on either side is missing data
// and yields NONE.
func CompareGenres(guess, secret models.Movie) Verdict {
	return setVerdict(guess.GenreList(), secret.GenreList())
}

// CompareCast tiers on the full cast sets, same rules as genres.
func CompareCast(guess, secret models.Movie) Verdict {
	return setVerdict(guess.CastList(), secret.CastList())
}

// CompareDirector is two-tier: normalized names equal or nothing.
func CompareDirector(guess, secret models.Movie) Verdict {
	g, s := Normalize(guess.Director), Normalize(secret.Director)
	if g == "" || s == "" {
		return Verdict{Tier: models.TierNone}
	}
	if g == s {
		return Verdict{Tier: models.TierMatch}
	}
	return Verdict{Tier: models.TierNone}
}

// CompareRating tiers on the external rating as fixed-precision decimals:
// exact equality is MATCH, a difference within the band is CLOSE. Ratings
// carry no direction.
func CompareRating(guess, secret models.Movie, band decimal.Decimal) Verdict {
	if !guess.ImdbRating.Valid || !secret.ImdbRating.Valid {
		return Verdict{Tier: models.TierNone}
	}
	diff := guess.ImdbRating.Decimal.Sub(secret.ImdbRating.Decimal).Abs()
	switch {
	case diff.IsZero():
		return Verdict{Tier: models.TierMatch}
	case diff.LessThanOrEqual(band):
		return Verdict{Tier: models.TierClose}
	default:
		return Verdict{Tier: models.TierNone}
	}
}

func bandedVerdict(guess, secret, band int64) Verdict {
	diff := guess - secret
	if diff < 0 {
		diff = -diff
	}
	v := Verdict{}
	switch {
	case diff == 0:
		v.Tier = models.TierMatch
	case diff <= band:
		v.Tier = models.TierClose
	default:
		v.Tier = models.TierNone
	}
	switch {
	case secret > guess:
		v.Direction = models.DirHigher
	case secret < guess:
		v.Direction = models.DirLower
	}
	return v
}

func setVerdict(guess, secret []string) Verdict {
	g, s := normalizedSet(guess), normalizedSet(secret)
	if len(g) == 0 || len(s) == 0 {
		return Verdict{Tier: models.TierNone}
	}
	switch {
	case setsEqual(g, s):
		return Verdict{Tier: models.TierMatch}
	case setsIntersect(g, s):
		return Verdict{Tier: models.TierClose}
	default:
		return Verdict{Tier: models.TierNone}
	}
}
