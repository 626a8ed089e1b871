package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/kirillkom/rag-strategy-lab/internal/core/domain"
)

func TestWriteXLSXLaysOutRuns(t *testing.T) {
	conf := 0.67
	result := &domain.ComparisonResult{
		ID:       "cmp-1",
		Question: "What is the capital of France?",
		Runs: []domain.StrategyRunResult{
			{
				Config: domain.StrategyConfig{
					RetrievalMethod: domain.RetrievalVector,
					GenerationStyle: domain.GenerationStandard,
					LLMModel:        "gpt-4o-mini",
				},
				Generation: &domain.GenerationResult{Answer: "Paris.", LLMCalls: 1},
				ElapsedMS:  120,
				CostClass:  domain.CostFast,
			},
			{
				Config: domain.StrategyConfig{
					RetrievalMethod: domain.RetrievalHybrid,
					Rerank:          true,
					GenerationStyle: domain.GenerationUncertainty,
					LLMModel:        "gpt-4o",
				},
				Generation: &domain.GenerationResult{
					Answer:     "Paris.",
					Samples:    []string{"Paris.", "Paris.", "Paris, France."},
					Confidence: &conf,
					LLMCalls:   3,
				},
				ElapsedMS:    900,
				CostClass:    domain.CostSlow,
				Degradations: []domain.Degradation{domain.DegradationRerankSkipped},
			},
		},
		CreatedAt: time.Now().UTC(),
	}

	var buf bytes.Buffer
	if err := WriteXLSX(result, &buf); err != nil {
		t.Fatalf("WriteXLSX() error = %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	question, _ := f.GetCellValue(sheetName, "B1")
	if question != result.Question {
		t.Fatalf("unexpected question cell: %q", question)
	}
	strategy, _ := f.GetCellValue(sheetName, "A4")
	if strategy != "vector + standard" {
		t.Fatalf("unexpected strategy cell: %q", strategy)
	}
	answer, _ := f.GetCellValue(sheetName, "E5")
	if answer != "Paris." {
		t.Fatalf("unexpected answer cell: %q", answer)
	}
	confidence, _ := f.GetCellValue(sheetName, "H5")
	if confidence != "0.67" {
		t.Fatalf("unexpected confidence cell: %q", confidence)
	}
	degradations, _ := f.GetCellValue(sheetName, "K5")
	if degradations != "rerank_skipped" {
		t.Fatalf("unexpected degradations cell: %q", degradations)
	}
}

func TestWriteXLSXRendersFailureRow(t *testing.T) {
	result := &domain.ComparisonResult{
		ID:       "cmp-2",
		Question: "q",
		Runs: []domain.StrategyRunResult{
			{
				Config: domain.StrategyConfig{
					RetrievalMethod: domain.RetrievalVector,
					GenerationStyle: domain.GenerationStandard,
					LLMModel:        "m",
				},
				Failure:   &domain.RunFailure{Kind: "timeout", Message: "deadline exceeded"},
				ElapsedMS: 90000,
			},
		},
	}

	var buf bytes.Buffer
	if err := WriteXLSX(result, &buf); err != nil {
		t.Fatalf("WriteXLSX() error = %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	status, _ := f.GetCellValue(sheetName, "D4")
	if status != "timeout" {
		t.Fatalf("unexpected status cell: %q", status)
	}
	cost, _ := f.GetCellValue(sheetName, "G4")
	if cost != "" {
		t.Fatalf("timed-out run must not carry a cost class, got %q", cost)
	}
}
