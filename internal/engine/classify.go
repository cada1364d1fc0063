package engine

import "strings"

// Category is a need-based passenger bucket. Buckets are served in
// precedence order so the hardest-to-place riders pick vehicles while the
// pool is still full.
type Category string

const (
	CategoryMobility Category = "mobility"
	CategoryChild    Category = "child"
	CategoryElderly  Category = "elderly"
	CategoryRegular  Category = "regular"
)

// bucketOrder is the fixed service precedence.
var bucketOrder = []Category{CategoryMobility, CategoryChild, CategoryElderly, CategoryRegular}

// Requirement keyword sets per category. Classification scans free-text
// requirement tags for these substrings; the keyword lists are the single
// place the vocabulary lives.
var (
	mobilityKeywords = []string{"wheelchair", "mobility", "accessible", "walker"}
	childKeywords    = []string{"child", "infant", "baby", "car_seat", "booster"}
	elderlyKeywords  = []string{"elderly", "senior"}
)

// classify partitions passenger indexes into buckets. A passenger lands in
// the first category (in precedence order) any of its requirement tags
// matches; everyone else is regular.
func (r *run) classify() map[Category][]int {
	buckets := make(map[Category][]int, len(bucketOrder))
	for i := range r.passengers {
		cat := categoryFor(r.passengers[i].Requirements)
		buckets[cat] = append(buckets[cat], i)
	}
	return buckets
}

func categoryFor(requirements []string) Category {
	for _, req := range requirements {
		if matchesAny(req, mobilityKeywords) {
			return CategoryMobility
		}
	}
	for _, req := range requirements {
		if matchesAny(req, childKeywords) {
			return CategoryChild
		}
	}
	for _, req := range requirements {
		if matchesAny(req, elderlyKeywords) {
			return CategoryElderly
		}
	}
	return CategoryRegular
}

func matchesAny(tag string, keywords []string) bool {
	t := strings.ToLower(tag)
	for _, kw := range keywords {
		if strings.Contains(t, kw) {
			return true
		}
	}
	return false
}
