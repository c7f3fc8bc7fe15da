package bigfive

import (
	"errors"
	"reflect"
	"testing"
)

// testPool builds a 30-item pool with 6 questions per dimension. Within each
// dimension the first four items are normal-keyed and the last two reversed.
func testPool() []Question {
	pool := make([]Question, 0, 30)
	id := 1
	for _, d := range Dimensions {
		for i := 0; i < 6; i++ {
			keying := KeyingNormal
			if i >= 4 {
				keying = KeyingReversed
			}
			pool = append(pool, Question{
				ID:        id,
				Dimension: d,
				Keying:    keying,
				Text:      "item",
			})
			id++
		}
	}
	return pool
}

func answersForPool(pool []Question, value int) map[int]int {
	answers := make(map[int]int, len(pool))
	for _, q := range pool {
		answers[q.ID] = value
	}
	return answers
}

func TestCalculateScoresDeterministic(t *testing.T) {
	pool := testPool()
	answers := answersForPool(pool, 4)

	first, err := CalculateScores(answers, pool)
	if err != nil {
		t.Fatalf("CalculateScores: %v", err)
	}
	second, err := CalculateScores(answers, pool)
	if err != nil {
		t.Fatalf("CalculateScores: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical results, got %+v and %+v", first, second)
	}
}

func TestCalculateScoresAllFives(t *testing.T) {
	pool := testPool()
	answers := answersForPool(pool, 5)

	result, err := CalculateScores(answers, pool)
	if err != nil {
		t.Fatalf("CalculateScores: %v", err)
	}

	// 4 normal items at 5 plus 2 reversed items at 1 per dimension.
	want := 4*5 + 2*1
	for _, d := range Dimensions {
		got := result.Scores.Get(d)
		if got != want {
			t.Fatalf("dimension %s: expected %d, got %d", d, want, got)
		}
		if got < MinDimensionScore || got > MaxDimensionScore {
			t.Fatalf("dimension %s: score %d outside [6,30]", d, got)
		}
	}
	if result.Answered != 30 {
		t.Fatalf("expected 30 answered, got %d", result.Answered)
	}
}

func TestCalculateScoresAllOnes(t *testing.T) {
	pool := testPool()
	answers := answersForPool(pool, 1)

	result, err := CalculateScores(answers, pool)
	if err != nil {
		t.Fatalf("CalculateScores: %v", err)
	}

	// 4 normal items at 1 plus 2 reversed items at 5 per dimension.
	want := 4*1 + 2*5
	for _, d := range Dimensions {
		if got := result.Scores.Get(d); got != want {
			t.Fatalf("dimension %s: expected %d, got %d", d, want, got)
		}
	}
}

func TestCalculateScoresReverseKeying(t *testing.T) {
	pool := []Question{
		{ID: 1, Dimension: Openness, Keying: KeyingReversed, Text: "r"},
		{ID: 2, Dimension: Openness, Keying: KeyingNormal, Text: "n"},
	}

	cases := []struct {
		name    string
		answers map[int]int
		want    int
	}{
		{name: "reversed_1_scores_5", answers: map[int]int{1: 1}, want: 5},
		{name: "reversed_5_scores_1", answers: map[int]int{1: 5}, want: 1},
		{name: "reversed_3_scores_3", answers: map[int]int{1: 3}, want: 3},
		{name: "normal_4_scores_4", answers: map[int]int{2: 4}, want: 4},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := CalculateScores(tc.answers, pool)
			if err != nil {
				t.Fatalf("CalculateScores: %v", err)
			}
			if got := result.Scores.Openness; got != tc.want {
				t.Fatalf("expected O=%d, got %d", tc.want, got)
			}
		})
	}
}

func TestCalculateScoresPartialAnswers(t *testing.T) {
	pool := testPool()

	// Answer only the first 15 questions, all with 3.
	partial := make(map[int]int, 15)
	for _, q := range pool[:15] {
		partial[q.ID] = 3
	}

	partialResult, err := CalculateScores(partial, pool)
	if err != nil {
		t.Fatalf("CalculateScores partial: %v", err)
	}
	if partialResult.Answered != 15 {
		t.Fatalf("expected 15 answered, got %d", partialResult.Answered)
	}

	fullResult, err := CalculateScores(answersForPool(pool, 5), pool)
	if err != nil {
		t.Fatalf("CalculateScores full: %v", err)
	}

	partialTotal, fullTotal := 0, 0
	for _, d := range Dimensions {
		partialTotal += partialResult.Scores.Get(d)
		fullTotal += fullResult.Scores.Get(d)
	}
	if partialTotal >= fullTotal {
		t.Fatalf("expected partial total %d below full total %d", partialTotal, fullTotal)
	}
}

func TestCalculateScoresIgnoresUnknownIDs(t *testing.T) {
	pool := testPool()
	answers := map[int]int{1: 4, 9999: 5}

	result, err := CalculateScores(answers, pool)
	if err != nil {
		t.Fatalf("CalculateScores: %v", err)
	}
	if result.Answered != 1 {
		t.Fatalf("expected 1 answered, got %d", result.Answered)
	}
	if result.Scores.Openness != 4 {
		t.Fatalf("expected O=4, got %d", result.Scores.Openness)
	}
}

func TestCalculateScoresErrors(t *testing.T) {
	pool := testPool()

	cases := []struct {
		name    string
		answers map[int]int
	}{
		{name: "empty_answers", answers: map[int]int{}},
		{name: "value_too_high", answers: map[int]int{1: 9}},
		{name: "value_too_low", answers: map[int]int{1: 0}},
		{name: "no_matching_ids", answers: map[int]int{500: 3, 501: 4}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := CalculateScores(tc.answers, pool)
			if err == nil {
				t.Fatal("expected error")
			}
			var scoringErr *ScoringError
			if !errors.As(err, &scoringErr) {
				t.Fatalf("expected ScoringError, got %T: %v", err, err)
			}
		})
	}
}
