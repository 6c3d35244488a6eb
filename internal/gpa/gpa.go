package gpa

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Course is a single graded course with its credit weight.
type Course struct {
	Name    string
	Credits float64
	Grade   string
}

// Result is the outcome of a GPA calculation.
type Result struct {
	GPA          float64
	TotalCredits float64
	TotalPoints  float64
}

var gradePoints = map[string]float64{
	"A+": 4.0, "A": 4.0, "A-": 3.7,
	"B+": 3.3, "B": 3.0, "B-": 2.7,
	"C+": 2.3, "C": 2.0, "C-": 1.7,
	"D+": 1.3, "D": 1.0, "D-": 0.7,
	"F": 0.0,
}

// GradePoints converts a letter grade (A+ through F, case-insensitive) to
// grade points.
func GradePoints(grade string) (float64, error) {
	points, ok := gradePoints[strings.ToUpper(strings.TrimSpace(grade))]
	if !ok {
		valid := make([]string, 0, len(gradePoints))
		for g := range gradePoints {
			valid = append(valid, g)
		}
		sort.Strings(valid)
		return 0, fmt.Errorf("invalid grade: %s (valid grades: %s)", grade, strings.Join(valid, ", "))
	}
	return points, nil
}

// Calculate computes the credit-weighted GPA of the courses, rounded to two
// decimals.
func Calculate(courses []Course) (Result, error) {
	if len(courses) == 0 {
		return Result{}, fmt.Errorf("no courses provided")
	}

	var totalPoints, totalCredits float64
	for _, course := range courses {
		if course.Credits <= 0 {
			return Result{}, fmt.Errorf("course %q: credits must be positive", course.Name)
		}
		points, err := GradePoints(course.Grade)
		if err != nil {
			return Result{}, fmt.Errorf("course %q: %w", course.Name, err)
		}
		totalPoints += course.Credits * points
		totalCredits += course.Credits
	}

	return Result{
		GPA:          round2(totalPoints / totalCredits),
		TotalCredits: round2(totalCredits),
		TotalPoints:  round2(totalPoints),
	}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
