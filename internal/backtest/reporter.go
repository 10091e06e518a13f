package backtest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/yourusername/pace-bias/internal/models"
)

// Artifact filename prefixes. One artifact per run, suffixed with the run's
// anchor date, so successive runs never overwrite each other.
const (
	PairsReportPrefix    = "pairs-backtest-"
	TrifectaReportPrefix = "trifecta-backtest-"
	StyleReportPrefix    = "pace-backtest-"
)

// BucketReport is the persisted form of a combination backtest run.
type BucketReport struct {
	From string             `json:"from"`
	To   string             `json:"to"`
	Rows []models.BucketRow `json:"rows"`
}

// StyleReport is the persisted form of a style backtest run.
type StyleReport struct {
	From string            `json:"from"`
	To   string            `json:"to"`
	By   string            `json:"by"`
	Rows []models.StyleRow `json:"rows"`
}

// ReportName builds an artifact filename from a prefix and anchor date.
func ReportName(prefix string, anchor models.YMD) string {
	return prefix + anchor.ISO() + ".json"
}

// WriteBucketReport writes a bucket report to path, creating parent
// directories as needed.
func WriteBucketReport(path string, report BucketReport) error {
	return writeJSON(path, report)
}

// WriteStyleReport writes a style report to path.
func WriteStyleReport(path string, report StyleReport) error {
	return writeJSON(path, report)
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// LoadBucketReport reads a bucket report back from disk.
func LoadBucketReport(path string) (BucketReport, error) {
	var report BucketReport
	data, err := os.ReadFile(path)
	if err != nil {
		return report, fmt.Errorf("failed to read report %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &report); err != nil {
		return report, fmt.Errorf("failed to decode report %s: %w", path, err)
	}
	return report, nil
}

// LoadStyleReport reads a style report back from disk.
func LoadStyleReport(path string) (StyleReport, error) {
	var report StyleReport
	data, err := os.ReadFile(path)
	if err != nil {
		return report, fmt.Errorf("failed to read report %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &report); err != nil {
		return report, fmt.Errorf("failed to decode report %s: %w", path, err)
	}
	return report, nil
}

// LatestReportPath returns the newest artifact under dir for a prefix. The
// date suffix is ISO-formatted, so lexicographic order is date order.
func LatestReportPath(dir, prefix string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to list report directory %s: %w", dir, err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasPrefix(name, prefix) && strings.HasSuffix(name, ".json") {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return "", fmt.Errorf("no %s* artifact under %s: %w", prefix, dir, models.ErrNotFound)
	}
	sort.Strings(names)
	return filepath.Join(dir, names[len(names)-1]), nil
}

// GenerateConsoleReport formats the top rows of a bucket report for
// terminal output.
func GenerateConsoleReport(report BucketReport, top int) string {
	var builder strings.Builder
	builder.WriteString("Pace Bias Backtest\n")
	builder.WriteString("==================\n")
	builder.WriteString(fmt.Sprintf("Window: %s .. %s\n", report.From, report.To))
	builder.WriteString(fmt.Sprintf("Buckets: %d\n", len(report.Rows)))
	if top > len(report.Rows) {
		top = len(report.Rows)
	}
	for _, row := range report.Rows[:top] {
		line := fmt.Sprintf("%-8s %-10s a%d b%d", row.Market, row.Pattern, row.AN, row.BN)
		if row.CN > 0 {
			line += fmt.Sprintf(" c%d", row.CN)
		}
		if row.Cap > 0 {
			line += fmt.Sprintf(" cap%d", row.Cap)
		}
		if row.Venue != "" {
			line += fmt.Sprintf(" [%s/%s bias=%v]", models.VenueName(row.Venue), row.Surface, row.BiasFlag != nil && *row.BiasFlag)
		}
		line += fmt.Sprintf("  roi=%.3f hit=%d/%d\n", row.ROI, row.Hit, row.Races)
		builder.WriteString(line)
	}
	return builder.String()
}
