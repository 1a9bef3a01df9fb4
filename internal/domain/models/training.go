package models

// TrainingExample is one labeled transcript in a training corpus
type TrainingExample struct {
	Text     string   `json:"text"`
	Category Category `json:"category"`
}

// CanonicalizeLabels orders the distinct categories of a corpus:
// built-in categories first in canonical order, then novel categories in
// first-appearance order. The result is the artifact's label list.
func CanonicalizeLabels(examples []TrainingExample) []Category {
	seen := make(map[Category]bool, len(examples))
	var firstSeen []Category
	for _, ex := range examples {
		if !seen[ex.Category] {
			seen[ex.Category] = true
			firstSeen = append(firstSeen, ex.Category)
		}
	}

	builtin := make(map[Category]bool)
	var labels []Category
	for _, c := range DefaultCategories() {
		builtin[c] = true
		if seen[c] {
			labels = append(labels, c)
		}
	}
	for _, c := range firstSeen {
		if !builtin[c] {
			labels = append(labels, c)
		}
	}
	return labels
}
