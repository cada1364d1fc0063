package engine

import (
	"strings"

	"github.com/Eventra-Labs/Convoy/internal/model"
)

// Compatibility constants. The admission threshold requires most pairs in
// a forming group to be at least baseline-compatible while tolerating a
// minority of merely neutral pairs.
const (
	GroupAdmissionThreshold = 0.7
	MutualPreferenceBonus   = 0.5
	SharedLocationBonus     = 0.3
)

// exclusionPairs is the fixed table of mutually exclusive requirement
// tags. A pair of passengers carrying opposite sides of any entry can
// never share a vehicle.
var exclusionPairs = [][2]string{
	{"smoking", "non_smoking"},
	{"pets", "pet_allergy"},
	{"loud_music", "quiet_environment"},
}

// Compatible reports whether two passengers may ride together at all.
// It is symmetric by construction.
func Compatible(a, b *model.Passenger) bool {
	if containsID(a.Avoid, b.GuestID) || containsID(b.Avoid, a.GuestID) {
		return false
	}
	for _, pair := range exclusionPairs {
		if hasTag(a.Requirements, pair[0]) && hasTag(b.Requirements, pair[1]) {
			return false
		}
		if hasTag(a.Requirements, pair[1]) && hasTag(b.Requirements, pair[0]) {
			return false
		}
	}
	return true
}

// pairScore is base compatibility (1 or 0) plus mutual-preference and
// shared-location bonuses, capped at 1.0.
func pairScore(a, b *model.Passenger) float64 {
	score := 0.0
	if Compatible(a, b) {
		score = 1.0
	}
	if containsID(a.Preferred, b.GuestID) && containsID(b.Preferred, a.GuestID) {
		score += MutualPreferenceBonus
	}
	if a.Pickup == b.Pickup || a.Dropoff == b.Dropoff {
		score += SharedLocationBonus
	}
	if score > 1.0 {
		score = 1.0
	}
	return score
}

// GroupScore is the mean pairwise score over all unordered pairs of the
// prospective group. Sets of size zero or one score 1.0 trivially.
func GroupScore(members []*model.Passenger) float64 {
	if len(members) <= 1 {
		return 1.0
	}
	var total float64
	var pairs int
	for i := 0; i < len(members); i++ {
		for j := i + 1; j < len(members); j++ {
			total += pairScore(members[i], members[j])
			pairs++
		}
	}
	return total / float64(pairs)
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// hasTag matches exactly (after trim/lowercase) so that "non_smoking"
// never collides with a bare "smoking" tag.
func hasTag(tags []string, want string) bool {
	for _, t := range tags {
		tl := strings.ToLower(strings.TrimSpace(t))
		if tl == want {
			return true
		}
	}
	return false
}
