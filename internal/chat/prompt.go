package chat

import (
	"fmt"
	"strings"

	"studypal/models"
)

const systemInstruction = `You are a helpful assistant. Use the following pieces of context to answer the question at the end.
If you don't know the answer based on the context, just say that you don't know, don't try to make up an answer.`

const systemInstructionNoContext = `You are a helpful assistant. Answer the user's question concisely and accurately.
If you don't know the answer, just say that you don't know, don't try to make up an answer.`

// buildMessages assembles the provider payload: system instruction carrying
// the retrieved context, at most the last window history messages, then the
// new user message.
func buildMessages(history []models.Message, results []models.RetrievalResult, userMessage string, window int) []models.Message {
	msgs := make([]models.Message, 0, len(history)+2)

	if len(results) == 0 {
		msgs = append(msgs, models.Message{Role: models.RoleSystem, Content: systemInstructionNoContext})
	} else {
		var b strings.Builder
		b.WriteString(systemInstruction)
		b.WriteString("\n\nContext:\n")
		for _, r := range results {
			fmt.Fprintf(&b, "\n[%s]\n%s\n", r.Chunk.Source, r.Chunk.Text)
		}
		msgs = append(msgs, models.Message{Role: models.RoleSystem, Content: b.String()})
	}

	msgs = append(msgs, windowMessages(history, window)...)
	msgs = append(msgs, models.Message{Role: models.RoleUser, Content: userMessage})
	return msgs
}

// windowMessages keeps the most recent n messages, dropping oldest first.
func windowMessages(msgs []models.Message, n int) []models.Message {
	if n <= 0 || len(msgs) <= n {
		return msgs
	}
	return msgs[len(msgs)-n:]
}

// snippet truncates chunk text for the response's source list.
func snippet(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
