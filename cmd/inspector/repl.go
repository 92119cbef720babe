package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/narender4sm/inspector-assistant/internal/config"

	"charm.land/lipgloss/v2"
)

const welcomeMessage = "Hello! I'm InspectorAI. I can help you access inspection history, find reports, or search for specific defects in the database. What equipment are you looking for today?"

type replStyles struct {
	banner    lipgloss.Style
	assistant lipgloss.Style
	prompt    lipgloss.Style
	errText   lipgloss.Style
	hint      lipgloss.Style
}

func newREPLStyles() replStyles {
	purple := lipgloss.Color("99")
	gray := lipgloss.Color("245")
	red := lipgloss.Color("203")

	return replStyles{
		banner:    lipgloss.NewStyle().Foreground(purple).Bold(true),
		assistant: lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		prompt:    lipgloss.NewStyle().Foreground(purple).Bold(true),
		errText:   lipgloss.NewStyle().Foreground(red),
		hint:      lipgloss.NewStyle().Foreground(gray),
	}
}

// REPL runs the interactive chat loop. Input is read one line at a time, so a
// new prompt only appears after the previous turn has fully resolved.
type REPL struct {
	components *components
	cfg        *config.Config
	reader     *bufio.Reader
	styles     replStyles
	timeout    time.Duration
}

func NewREPL(c *components, cfg *config.Config) *REPL {
	return &REPL{
		components: c,
		cfg:        cfg,
		reader:     bufio.NewReader(os.Stdin),
		styles:     newREPLStyles(),
		timeout:    requestTimeout(cfg),
	}
}

func (r *REPL) Start() error {
	s := r.styles
	fmt.Println(s.banner.Render("InspectorAI") + s.hint.Render("  session "+r.components.Orchestrator.SessionID()))
	fmt.Println(s.assistant.Render(welcomeMessage))
	fmt.Println(s.hint.Render("Type '/help' for commands, '/exit' to quit."))

	for {
		if err := r.readLine(); err != nil {
			if err == io.EOF {
				return nil
			}
			fmt.Println(s.errText.Render(err.Error()))
		}
	}
}

func (r *REPL) readLine() error {
	fmt.Print(r.styles.prompt.Render("> "))
	text, err := r.reader.ReadString('\n')
	if err != nil {
		return err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	if strings.HasPrefix(text, "/") {
		return r.handleCommand(text)
	}

	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	reply, err := r.components.Orchestrator.Send(ctx, text)
	// The orchestrator always yields user-facing text, even on failure; the
	// underlying error has already been logged.
	_ = err

	fmt.Println(r.styles.assistant.Render(reply))
	return nil
}

func (r *REPL) handleCommand(text string) error {
	switch text {
	case "/exit", "/quit":
		return io.EOF
	case "/reset":
		id := r.components.Orchestrator.Reset()
		fmt.Println(r.styles.hint.Render("Conversation cleared. New session: " + id))
		return nil
	case "/history":
		history := r.components.Orchestrator.History()
		if len(history) == 0 {
			fmt.Println(r.styles.hint.Render("No turns yet."))
			return nil
		}
		for _, msg := range history {
			line := fmt.Sprintf("[%s] %s", msg.Role, msg.Content)
			if len(msg.ToolCalls) > 0 {
				names := make([]string, len(msg.ToolCalls))
				for i, tc := range msg.ToolCalls {
					names[i] = tc.Name
				}
				line = fmt.Sprintf("[%s] requested tools: %s", msg.Role, strings.Join(names, ", "))
			}
			fmt.Println(r.styles.hint.Render(line))
		}
		return nil
	case "/help":
		fmt.Println(r.styles.hint.Render("/reset    start a fresh conversation"))
		fmt.Println(r.styles.hint.Render("/history  show the current transcript"))
		fmt.Println(r.styles.hint.Render("/exit     quit"))
		return nil
	default:
		return fmt.Errorf("unknown command: %s", text)
	}
}
