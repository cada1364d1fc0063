package engine

import (
	"strings"

	"github.com/Eventra-Labs/Convoy/internal/model"
	"github.com/Eventra-Labs/Convoy/internal/scoring"
)

// comfortThreshold is the minimum comfort rank a vehicle type needs to
// serve the elderly bucket without an explicit comfort feature.
const comfortThreshold = 0.6

// candidateVehicles returns the pool indexes still unused that can serve
// the given bucket. The regular bucket takes whatever remains.
func (r *run) candidateVehicles(cat Category) []int {
	var out []int
	for i := range r.vehicles {
		if r.usedVehicle[i] {
			continue
		}
		if vehicleServesCategory(&r.vehicles[i], cat) {
			out = append(out, i)
		}
	}
	return out
}

func vehicleServesCategory(v *model.Vehicle, cat Category) bool {
	switch cat {
	case CategoryMobility:
		return v.Accessible || hasFeatureKeyword(v, mobilityKeywords)
	case CategoryChild:
		return hasFeatureKeyword(v, childKeywords) || v.Type == model.TypeVan || v.Type == model.TypeBus
	case CategoryElderly:
		return scoring.ComfortRank(v.Type) >= comfortThreshold || hasFeatureKeyword(v, []string{"comfort"})
	default:
		return true
	}
}

// vehicleSatisfies reports whether the vehicle physically fits every one of
// the passenger's own requirement tags. Only category-bearing tags
// constrain the match; free-form tags (seating preferences and the like)
// never block placement.
func vehicleSatisfies(v *model.Vehicle, requirements []string) bool {
	for _, req := range requirements {
		if !requirementSatisfied(v, req) {
			return false
		}
	}
	return true
}

func requirementSatisfied(v *model.Vehicle, req string) bool {
	switch {
	case matchesAny(req, mobilityKeywords):
		return v.Accessible || hasFeatureKeyword(v, mobilityKeywords)
	case matchesAny(req, childKeywords):
		return hasFeatureKeyword(v, childKeywords) || v.Type == model.TypeVan || v.Type == model.TypeBus
	case matchesAny(req, elderlyKeywords):
		return vehicleServesCategory(v, CategoryElderly)
	default:
		return true
	}
}

// requirementCovered reports whether the vehicle's features (or flags)
// actually provide the requirement, for coverage accounting. Unlike
// requirementSatisfied, a free-form tag only counts as covered when a
// feature textually matches it.
func requirementCovered(v *model.Vehicle, req string) bool {
	switch {
	case matchesAny(req, mobilityKeywords):
		return v.Accessible || hasFeatureKeyword(v, mobilityKeywords)
	case matchesAny(req, childKeywords):
		return hasFeatureKeyword(v, childKeywords) || v.Type == model.TypeVan || v.Type == model.TypeBus
	case matchesAny(req, elderlyKeywords):
		return vehicleServesCategory(v, CategoryElderly)
	default:
		return featureMatches(v, req)
	}
}

func hasFeatureKeyword(v *model.Vehicle, keywords []string) bool {
	for _, f := range v.Features {
		if matchesAny(f, keywords) {
			return true
		}
	}
	return false
}

func featureMatches(v *model.Vehicle, req string) bool {
	r := strings.ToLower(req)
	for _, f := range v.Features {
		fl := strings.ToLower(f)
		if strings.Contains(fl, r) || strings.Contains(r, fl) {
			return true
		}
	}
	return false
}
