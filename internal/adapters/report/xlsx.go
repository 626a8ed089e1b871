package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/kirillkom/rag-strategy-lab/internal/core/domain"
)

const sheetName = "Comparison"

// WriteXLSX renders one comparison as a side-by-side workbook: one row of
// headers, one row per strategy run.
func WriteXLSX(result *domain.ComparisonResult, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	if err := f.SetCellValue(sheetName, "A1", "Question"); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := f.SetCellValue(sheetName, "B1", result.Question); err != nil {
		return fmt.Errorf("write question: %w", err)
	}

	headers := []string{
		"Strategy", "Rerank", "Model", "Status", "Answer",
		"Latency (ms)", "Cost", "Confidence", "Claims", "Hops", "Degradations",
	}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 3)
		if err != nil {
			return fmt.Errorf("header cell: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}

	for i, run := range result.Runs {
		row := i + 4
		values := runRow(run)
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return fmt.Errorf("run cell: %w", err)
			}
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return fmt.Errorf("write run %d: %w", i, err)
			}
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func runRow(run domain.StrategyRunResult) []any {
	strategy := fmt.Sprintf("%s + %s", run.Config.RetrievalMethod, run.Config.GenerationStyle)

	status := "ok"
	answer := ""
	confidence := ""
	claims := ""
	hops := ""
	if run.Failure != nil {
		status = run.Failure.Kind
		answer = run.Failure.Message
	} else if run.Generation != nil {
		answer = run.Generation.Answer
		if run.Generation.Confidence != nil {
			confidence = fmt.Sprintf("%.2f", *run.Generation.Confidence)
		}
		claims = summarizeClaims(run.Generation.Claims)
		if len(run.Generation.Hops) > 0 {
			hops = fmt.Sprintf("%d", len(run.Generation.Hops))
			if run.Generation.NonConverged {
				hops += " (cap reached)"
			}
		}
	}

	degradations := make([]string, 0, len(run.Degradations))
	for _, d := range run.Degradations {
		degradations = append(degradations, string(d))
	}

	return []any{
		strategy,
		run.Config.Rerank,
		run.Config.LLMModel,
		status,
		answer,
		run.ElapsedMS,
		string(run.CostClass),
		confidence,
		claims,
		hops,
		strings.Join(degradations, ", "),
	}
}

func summarizeClaims(claims []domain.VerifiedClaim) string {
	if len(claims) == 0 {
		return ""
	}
	counts := map[domain.ClaimVerdict]int{}
	for _, c := range claims {
		counts[c.Verdict]++
	}
	return fmt.Sprintf("%d supported / %d partial / %d unsupported",
		counts[domain.VerdictSupported],
		counts[domain.VerdictPartiallySupported],
		counts[domain.VerdictUnsupported],
	)
}
