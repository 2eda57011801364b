package service

import (
	"fmt"
	"strings"

	"github.com/relief-labs/reliefai/internal/domain"
)

// Markers emitted when a prompt section has nothing to show. The
// generation model is instructed around them, so they are part of the
// prompt contract.
const (
	noContextMarker = "No specific context found in knowledge base."
	noHistoryMarker = "No previous conversation"
)

const promptPreamble = `You are a compassionate, knowledgeable disaster management chatbot with access to a specialized knowledge base.

**Instructions:**
1. Use the retrieved context below to provide accurate, specific disaster management advice
2. If the context is relevant, prioritize it over general knowledge
3. Maintain a helpful, empathetic tone with clear, actionable guidance
4. Use markdown formatting for better readability
5. If the question is outside disaster management, politely redirect`

const promptResponseInstructions = `**Response Instructions:**
- Start with immediate safety advice if applicable
- Provide step-by-step instructions when relevant
- Include preparation tips for future situations
- End with a supportive follow-up question

**Response:**`

// AssemblePrompt builds the generation prompt for one chat turn. It is a
// pure function of its inputs: same results, history, and message always
// produce the same prompt.
func AssemblePrompt(results []*domain.RetrievalResult, history []domain.Message, message string) string {
	var b strings.Builder

	b.WriteString(promptPreamble)
	b.WriteString("\n\n**Retrieved Context:**\n")
	b.WriteString(formatContext(results))
	b.WriteString("\n\n**Chat History:**\n")
	b.WriteString(formatHistory(history))
	b.WriteString("\n\n**Current Question:** ")
	b.WriteString(message)
	b.WriteString("\n\n")
	b.WriteString(promptResponseInstructions)

	return b.String()
}

func formatContext(results []*domain.RetrievalResult) string {
	if len(results) == 0 {
		return noContextMarker
	}

	blocks := make([]string, 0, len(results))
	for i, r := range results {
		blocks = append(blocks, fmt.Sprintf("Context %d (%s, score: %.3f): %s",
			i+1, r.Entry.Category, r.Score, r.Entry.Content))
	}
	return strings.Join(blocks, "\n\n")
}

func formatHistory(history []domain.Message) string {
	if len(history) == 0 {
		return noHistoryMarker
	}

	lines := make([]string, 0, len(history))
	for _, m := range history {
		lines = append(lines, fmt.Sprintf("%s: %s", m.Role, m.Text))
	}
	return strings.Join(lines, "\n")
}
