package main

import (
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"

	"vidcat/internal/assets"
	"vidcat/internal/quality"
)

const (
	ansiReset  = "\033[0m"
	ansiGreen  = "\033[32m"
	ansiYellow = "\033[33m"
	ansiRed    = "\033[31m"
)

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// gradeText colors grades on terminals: B and better green, C band
// yellow, the rest red.
func gradeText(grade quality.Grade, colorize bool) string {
	if !colorize {
		return string(grade)
	}
	switch grade {
	case quality.GradeAPlus, quality.GradeA, quality.GradeBPlus, quality.GradeB:
		return ansiGreen + string(grade) + ansiReset
	case quality.GradeCPlus, quality.GradeC:
		return ansiYellow + string(grade) + ansiReset
	default:
		return ansiRed + string(grade) + ansiReset
	}
}

func joinTags[T ~string](values []T) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		parts = append(parts, string(v))
	}
	return strings.Join(parts, ", ")
}

func orDash(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}

func renderAssetTable(list []assets.Asset) string {
	rows := make([][]string, 0, len(list))
	for _, a := range list {
		rows = append(rows, []string{
			a.ID,
			orDash(a.Category),
			a.Host,
			orDash(joinTags(a.Protocol)),
			orDash(joinTags(a.Codec)),
			orDash(a.ResolutionLabel()),
			string(a.HDR),
		})
	}
	return renderTable(
		[]string{"ID", "Category", "Host", "Protocol", "Codec", "Resolution", "HDR"},
		rows,
		nil,
	)
}

func renderScoredTable(list []quality.Scored, colorize bool) string {
	rows := make([][]string, 0, len(list))
	for i, s := range list {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			s.Asset.ID,
			s.Asset.Host,
			orDash(joinTags(s.Asset.Protocol)),
			orDash(joinTags(s.Asset.Codec)),
			orDash(s.Asset.ResolutionLabel()),
			strconv.Itoa(s.Score.Overall),
			gradeText(s.Score.Grade, colorize),
		})
	}
	return renderTable(
		[]string{"#", "ID", "Host", "Protocol", "Codec", "Resolution", "Score", "Grade"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
	)
}
