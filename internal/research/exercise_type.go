package research

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ExerciseType classifies a research exercise.
type ExerciseType string

const (
	ExerciseUsabilityTest ExerciseType = "usability_test"
	ExerciseInterview     ExerciseType = "interview"
	ExerciseCardSort      ExerciseType = "card_sort"
	ExerciseSurvey        ExerciseType = "survey"
	ExerciseTreeTest      ExerciseType = "tree_test"
	ExerciseABTest        ExerciseType = "ab_test"
	ExerciseFieldStudy    ExerciseType = "field_study"
	ExerciseDiaryStudy    ExerciseType = "diary_study"
	ExerciseFocusGroup    ExerciseType = "focus_group"
	ExerciseOther         ExerciseType = "other"
)

var allExerciseTypes = []ExerciseType{
	ExerciseUsabilityTest,
	ExerciseInterview,
	ExerciseCardSort,
	ExerciseSurvey,
	ExerciseTreeTest,
	ExerciseABTest,
	ExerciseFieldStudy,
	ExerciseDiaryStudy,
	ExerciseFocusGroup,
	ExerciseOther,
}

var exerciseTypeSet = func() map[ExerciseType]struct{} {
	set := make(map[ExerciseType]struct{}, len(allExerciseTypes))
	for _, t := range allExerciseTypes {
		set[t] = struct{}{}
	}
	return set
}()

var exerciseLabels = map[ExerciseType]string{
	ExerciseABTest: "A/B Test",
}

var labelCaser = cases.Title(language.Und)

// AllExerciseTypes returns the ordered list of known exercise types.
func AllExerciseTypes() []ExerciseType {
	cp := make([]ExerciseType, len(allExerciseTypes))
	copy(cp, allExerciseTypes)
	return cp
}

// ParseExerciseType converts a string into a known ExerciseType. Both the
// storage token ("usability_test") and the display label ("Usability Test")
// are accepted.
func ParseExerciseType(value string) (ExerciseType, bool) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", false
	}
	normalized := strings.ToLower(trimmed)
	normalized = strings.ReplaceAll(normalized, " ", "_")
	normalized = strings.ReplaceAll(normalized, "/", "")
	candidate := ExerciseType(normalized)
	if _, ok := exerciseTypeSet[candidate]; ok {
		return candidate, true
	}
	return "", false
}

// Valid reports whether the type is one of the enumerated values.
func (t ExerciseType) Valid() bool {
	_, ok := exerciseTypeSet[t]
	return ok
}

// Label returns the human-readable form of the type for tables and lists.
func (t ExerciseType) Label() string {
	if label, ok := exerciseLabels[t]; ok {
		return label
	}
	return labelCaser.String(strings.ReplaceAll(string(t), "_", " "))
}
