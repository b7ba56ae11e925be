package assistant

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/dviselman/pconsole/internal/dictionary"
	"github.com/dviselman/pconsole/internal/llm"
)

// maxContextFields bounds how many field paths are inlined into the system
// prompt.
const maxContextFields = 150

// maxHistoryMessages bounds how much session history is replayed per turn.
const maxHistoryMessages = 20

// DictionarySource supplies the schema context for answers. The dictionary
// Service satisfies it.
type DictionarySource interface {
	Generate(ctx context.Context, forceRefresh bool) (*dictionary.Dictionary, error)
}

// Reply is one answered turn of a chat session.
type Reply struct {
	SessionID  string `json:"session_id"`
	Answer     string `json:"answer"`
	AnswerHTML string `json:"answer_html"`
}

// Engine orchestrates chat turns: session persistence, schema context, the
// model call, and markdown rendering.
type Engine struct {
	provider llm.Provider
	store    *Store
	dict     DictionarySource
	model    string
}

// NewEngine creates an assistant engine.
func NewEngine(provider llm.Provider, store *Store, dict DictionarySource, model string) *Engine {
	return &Engine{
		provider: provider,
		store:    store,
		dict:     dict,
		model:    model,
	}
}

// Store exposes the session store for transports that manage sessions
// themselves.
func (e *Engine) Store() *Store {
	return e.store
}

// Ask runs one chat turn. An empty sessionID starts a new session; the
// returned Reply carries the session id either way.
func (e *Engine) Ask(ctx context.Context, sessionID, userID, content string) (*Reply, error) {
	if e.provider == nil {
		return nil, fmt.Errorf("LLM provider not configured")
	}
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("message content is required")
	}

	if sessionID == "" {
		sess, err := e.store.CreateSession(ctx, userID)
		if err != nil {
			return nil, err
		}
		sessionID = sess.ID
	} else if _, err := e.store.GetSession(ctx, sessionID); err != nil {
		return nil, err
	}

	if _, err := e.store.AppendMessage(ctx, sessionID, llm.RoleUser, content); err != nil {
		return nil, err
	}

	messages := []llm.Message{{Role: llm.RoleSystem, Content: e.systemPrompt(ctx)}}
	history, err := e.store.ListMessages(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(history) > maxHistoryMessages {
		history = history[len(history)-maxHistoryMessages:]
	}
	for _, msg := range history {
		messages = append(messages, llm.Message{Role: msg.Role, Content: msg.Content})
	}

	resp, err := e.provider.Complete(ctx, llm.Request{
		Model:    e.model,
		Messages: messages,
	})
	if err != nil {
		return nil, fmt.Errorf("completing chat turn: %w", err)
	}

	if _, err := e.store.AppendMessage(ctx, sessionID, llm.RoleAssistant, resp.Content); err != nil {
		return nil, err
	}

	html, err := RenderMarkdown(resp.Content)
	if err != nil {
		log.Printf("assistant: rendering answer: %v", err)
		html = ""
	}

	return &Reply{
		SessionID:  sessionID,
		Answer:     resp.Content,
		AnswerHTML: html,
	}, nil
}

// systemPrompt seeds the model with the current schema dictionary so
// answers can reference real field paths. A missing or failed dictionary
// degrades to a context-free prompt.
func (e *Engine) systemPrompt(ctx context.Context) string {
	var b strings.Builder
	b.WriteString("You are the operations assistant for a customer data platform console. ")
	b.WriteString("Answer questions about datasets, ingestion, segments and schema fields. ")
	b.WriteString("Prefer concrete field paths from the schema context below; say so when a field is not in it.\n")

	if e.dict == nil {
		return b.String()
	}
	dict, err := e.dict.Generate(ctx, false)
	if err != nil || dict == nil || dict.Error != "" {
		return b.String()
	}

	b.WriteString("\nKnown schemas: ")
	b.WriteString(strings.Join(dict.SchemaNames, ", "))
	b.WriteString("\n\nField paths:\n")
	for i, f := range dict.Fields {
		if i >= maxContextFields {
			fmt.Fprintf(&b, "... and %d more\n", len(dict.Fields)-i)
			break
		}
		fmt.Fprintf(&b, "- %s (%s, %s)\n", f.Path, f.Type, f.SchemaName)
	}
	return b.String()
}
