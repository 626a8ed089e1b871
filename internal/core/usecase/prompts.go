package usecase

import (
	"fmt"
	"strings"

	"github.com/kirillkom/rag-strategy-lab/internal/core/domain"
)

const maxContextChunks = 5

func buildContextBlock(chunks []domain.RetrievedChunk) string {
	var b strings.Builder
	for idx, chunk := range trimCandidates(chunks, maxContextChunks) {
		b.WriteString(fmt.Sprintf("[%d] chunk=%s score=%.3f\n%s\n\n", idx+1, chunk.ChunkID, chunk.Score, chunk.Text))
	}
	return b.String()
}

func buildAnswerPrompt(question string, chunks []domain.RetrievedChunk) string {
	return fmt.Sprintf(`Answer user question only from context below.
If context is insufficient, say it directly.

Question:
%s

Context:
%s`, question, buildContextBlock(chunks))
}

func buildExpansionPrompt(question string, variants int) string {
	return fmt.Sprintf(`You rewrite search queries.
Return strict JSON object with key variants: array of exactly %d paraphrased versions of the question below.
Each variant must keep the original meaning but use different wording.
No markdown, no extra keys.

Question:
%s`, variants, question)
}

func buildRerankPrompt(question string, chunks []domain.RetrievedChunk) string {
	var b strings.Builder
	for idx, chunk := range chunks {
		b.WriteString(fmt.Sprintf("[%d]\n%s\n\n", idx+1, chunk.Text))
	}
	return fmt.Sprintf(`You score passage relevance.
Return strict JSON object with key scores: array of %d numbers from 0 to 1,
one per passage in order, where 1 means the passage directly answers the question.
No markdown, no extra keys.

Question:
%s

Passages:
%s`, len(chunks), question, b.String())
}

func buildVerificationPrompt(answer string, chunks []domain.RetrievedChunk) string {
	return fmt.Sprintf(`You verify factual claims against source context.
Split the answer below into its factual claims and check each one against the context.
Return strict JSON object with key claims: array of objects with keys
claim (string) and verdict (one of "supported", "unsupported", "partially_supported").
No markdown, no extra keys.

Answer:
%s

Context:
%s`, answer, buildContextBlock(chunks))
}

func buildHopPrompt(question string, hops []domain.HopTrace) string {
	var b strings.Builder
	for _, hop := range hops {
		b.WriteString(fmt.Sprintf("hop %d asked: %s\nhop %d found: %s\n\n", hop.Hop, hop.SubQuestion, hop.Hop, hop.PartialAnswer))
	}
	progress := b.String()
	if progress == "" {
		progress = "none yet\n"
	}
	return fmt.Sprintf(`You plan the next retrieval step for a multi-hop question.
Given the original question and the findings so far, decide whether more
information is needed. Return strict JSON object with keys
sufficient (boolean, true when the findings already answer the question) and
sub_question (string, the next search query when sufficient is false).
No markdown, no extra keys.

Original question:
%s

Findings so far:
%s`, question, progress)
}

func buildSynthesisPrompt(question string, hops []domain.HopTrace) string {
	var b strings.Builder
	for _, hop := range hops {
		b.WriteString(fmt.Sprintf("[hop %d] %s\n%s\n\n", hop.Hop, hop.SubQuestion, hop.PartialAnswer))
	}
	return fmt.Sprintf(`Combine the partial findings below into one final answer to the question.
Only use the findings, do not invent facts.

Question:
%s

Findings:
%s`, question, b.String())
}

// extractJSONObject trims model chatter around the outermost JSON object.
func extractJSONObject(raw string) string {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start >= 0 && end > start {
		return raw[start : end+1]
	}
	return raw
}
