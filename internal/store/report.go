package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	domain "github.com/yusefshaaban/Ecommerce-Companion/pkg/types"
)

const (
	reportDateLayout = "02_01_2006"
	reportTimeLayout = "15-04-05"
)

// WriteReport renders the working set into a dated text report with three
// sections of increasing detail: lots, their items, and the comparable
// products behind each item. Returns the path of the written file.
func (s *FileStore) WriteReport(ctx context.Context) (string, error) {
	lots, err := s.WorkingLots(ctx)
	if err != nil {
		return "", err
	}
	sortLots(lots)

	var b strings.Builder
	b.WriteString("Job Lots:\n")
	b.WriteString(strings.Repeat("_", 160) + "\n")
	for n, lot := range lots {
		fmt.Fprintf(&b, "%d. %s\n", n+1, lot)
	}

	b.WriteString("\n\nItems in Each Job Lot:\n")
	b.WriteString(strings.Repeat("_", 160) + "\n")
	for n, lot := range lots {
		fmt.Fprintf(&b, "%d. ", n+1)
		writeItems(&b, lot)
	}

	b.WriteString("\n\nProducts used to calculate item info:\n")
	b.WriteString(strings.Repeat("_", 160) + "\n")
	for n, lot := range lots {
		fmt.Fprintf(&b, "%d. ", n+1)
		writeProducts(&b, lot)
	}

	now := s.now()
	dir := filepath.Join(s.dir, reportsDir, now.Format(reportDateLayout))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating report directory: %w", err)
	}
	path := filepath.Join(dir, now.Format(reportTimeLayout)+".txt")
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return "", fmt.Errorf("writing report: %w", err)
	}
	return path, nil
}

func writeItems(b *strings.Builder, lot *domain.JobLot) {
	fmt.Fprintf(b, "%s\n", lot)
	b.WriteString("\tItems in Job Lot:\n")
	for _, item := range lot.Items {
		fmt.Fprintf(b, "\t%s\n", item)
	}
	b.WriteString("\n")
}

func writeProducts(b *strings.Builder, lot *domain.JobLot) {
	fmt.Fprintf(b, "%s\n", lot)
	b.WriteString("\tItems in Job Lot:\n")
	for _, item := range lot.Items {
		fmt.Fprintf(b, "\t%s\n", item)
		b.WriteString("\t\tProducts in Item:\n")
		for _, p := range item.Products {
			fmt.Fprintf(b, "\t\t%s\n", p)
		}
		b.WriteString("\n")
	}
}
