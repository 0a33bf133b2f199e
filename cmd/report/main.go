package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"team_achievements/internal/adapters"
	"team_achievements/internal/bootstrap"
	"team_achievements/internal/domain/stats"
	"team_achievements/internal/repository"
	statisticsUC "team_achievements/internal/usecase/statistics"
)

func main() {
	fs := pflag.NewFlagSet("report", pflag.ContinueOnError)
	envFile := fs.String("env", ".env", "env file with storage settings")
	output := fs.String("out", "achievements_report.pdf", "output PDF file")
	if err := fs.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, "report:", err)
		os.Exit(2)
	}

	if err := run(*envFile, *output); err != nil {
		fmt.Fprintln(os.Stderr, "report:", err)
		os.Exit(1)
	}
	fmt.Println("PDF created:", *output)
}

func run(envFile, output string) error {
	cfg, err := bootstrap.Setup(envFile)
	if err != nil {
		return err
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return err
	}
	log := logger.Sugar()
	defer log.Sync()

	ctx := context.Background()
	storage, err := adapters.OpenStorage(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer storage.Close(ctx)

	store := repository.NewJSONStore(storage.Docs, log)
	overall, err := statisticsUC.NewStatisticsUseCase(store, cfg.AdminUsername, cfg.RecentWindow()).Overall(ctx)
	if err != nil {
		return err
	}

	file, err := os.Create(output)
	if err != nil {
		return err
	}
	if err = renderReport(file, overall, time.Now()); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// renderReport writes the overall statistics as a PDF. Core fonts only cover
// cp1252, so achievements are listed by id.
func renderReport(w io.Writer, overall *stats.OverallStatistics, generatedAt time.Time) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Team achievements report")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 9)
	pdf.Cell(0, 6, "Generated "+generatedAt.Format(time.RFC1123))
	pdf.Ln(10)

	summary := overall.OverallStats
	section(pdf, "Overview")
	for _, row := range [][2]string{
		{"Users", fmt.Sprint(summary.TotalUsers)},
		{"Achievements", fmt.Sprint(summary.TotalAchievements)},
		{"Unlocks", fmt.Sprint(summary.TotalUnlocks)},
		{"Average per user", fmt.Sprintf("%.2f", summary.AverageAchievementsPerUser)},
		{"Recent unlocks", fmt.Sprint(summary.RecentUnlocksCount)},
	} {
		pdf.CellFormat(60, 6, row[0], "", 0, "L", false, 0, "")
		pdf.CellFormat(40, 6, row[1], "", 1, "R", false, 0, "")
	}
	pdf.Ln(4)

	section(pdf, "User rankings")
	header(pdf, []string{"#", "User", "Unlocked", "Completion"}, []float64{12, 88, 40, 40})
	for i, stat := range overall.UserRankings {
		pdf.CellFormat(12, 6, fmt.Sprint(i+1), "1", 0, "C", false, 0, "")
		pdf.CellFormat(88, 6, tr(stat.Username), "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 6, fmt.Sprintf("%d / %d", stat.AchievementsCount, stat.TotalAchievements), "1", 0, "R", false, 0, "")
		pdf.CellFormat(40, 6, fmt.Sprintf("%.2f%%", stat.CompletionPercentage), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(4)

	section(pdf, "Achievement popularity")
	header(pdf, []string{"Achievement", "Unlocks", "Popularity"}, []float64{100, 40, 40})
	for _, item := range overall.AchievementPopularity {
		pdf.CellFormat(100, 6, tr(item.ID), "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 6, fmt.Sprint(item.UnlockCount), "1", 0, "R", false, 0, "")
		pdf.CellFormat(40, 6, fmt.Sprintf("%.2f%%", item.PopularityPercentage), "1", 1, "R", false, 0, "")
	}

	return pdf.Output(w)
}

func section(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, title)
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 10)
}

func header(pdf *gofpdf.Fpdf, titles []string, widths []float64) {
	pdf.SetFont("Helvetica", "B", 10)
	for i, title := range titles {
		pdf.CellFormat(widths[i], 7, title, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Helvetica", "", 10)
}
