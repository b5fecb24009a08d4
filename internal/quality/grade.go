package quality

import "vidcat/internal/assets"

// Grade is a letter grade for an overall score.
type Grade string

const (
	GradeAPlus Grade = "A+"
	GradeA     Grade = "A"
	GradeBPlus Grade = "B+"
	GradeB     Grade = "B"
	GradeCPlus Grade = "C+"
	GradeC     Grade = "C"
	GradeD     Grade = "D"
	GradeF     Grade = "F"
)

// Grades lists every grade, best first.
var Grades = []Grade{GradeAPlus, GradeA, GradeBPlus, GradeB, GradeCPlus, GradeC, GradeD, GradeF}

var gradeFloors = []struct {
	min   int
	grade Grade
}{
	{90, GradeAPlus},
	{85, GradeA},
	{80, GradeBPlus},
	{70, GradeB},
	{60, GradeCPlus},
	{50, GradeC},
	{40, GradeD},
}

// GradeFor maps an overall score onto the grade ladder.
func GradeFor(overall int) Grade {
	for _, floor := range gradeFloors {
		if overall >= floor.min {
			return floor.grade
		}
	}
	return GradeF
}

// Distribution counts assets per grade. Every grade is present.
type Distribution map[Grade]int

// Distribute grades every asset in list.
func Distribute(list []assets.Asset) Distribution {
	d := make(Distribution, len(Grades))
	for _, g := range Grades {
		d[g] = 0
	}
	for _, a := range list {
		d[Score(a).Grade]++
	}
	return d
}
