package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"iter"
	"log"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Rorical/RoriAgent/internal/app"
	"github.com/Rorical/RoriAgent/internal/core"
	"github.com/Rorical/RoriAgent/internal/models"
)

var (
	askRespond []string
	askSession string
	askVerbose bool
)

var askCmd = &cobra.Command{
	Use:   "ask [message]",
	Short: "Send one message and print the agent's answer",
	Long: `Send a single message without the chat UI. If the agent asks for human
assistance, the answer is taken from --respond or read from stdin.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig()
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		l, err := newLogger(cfg)
		if err != nil {
			log.Fatalf("Failed to create logger: %v", err)
		}
		defer l.Close()

		agent, err := app.NewAgent(cfg, l.GetZerolog())
		if err != nil {
			log.Fatalf("Failed to create agent: %v", err)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		session := &askSessionRunner{
			agent:     agent,
			sessionID: askSession,
			out:       cmd.OutOrStdout(),
			in:        bufio.NewReader(cmd.InOrStdin()),
			responses: askRespond,
			verbose:   askVerbose,
		}
		if session.sessionID == "" {
			session.sessionID = core.NewSessionID()
		}

		if err := session.run(ctx, strings.Join(args, " ")); err != nil {
			log.Fatalf("Ask failed: %v", err)
		}
	},
}

func init() {
	askCmd.Flags().StringArrayVar(&askRespond, "respond", nil, "answer for a human-assistance request (repeatable, used in order)")
	askCmd.Flags().StringVar(&askSession, "session", "", "session id (default: a new one)")
	askCmd.Flags().BoolVarP(&askVerbose, "verbose", "v", false, "print every step, including tool calls and results")
	rootCmd.AddCommand(askCmd)
}

// askSessionRunner drives one non-interactive turn, answering interrupts as they come
type askSessionRunner struct {
	agent     *core.Agent
	sessionID string
	out       io.Writer
	in        *bufio.Reader
	responses []string
	verbose   bool
}

func (r *askSessionRunner) run(ctx context.Context, text string) error {
	if err := r.print(r.agent.Submit(ctx, r.sessionID, text)); err != nil {
		return err
	}

	for {
		snapshot, _ := r.agent.State(r.sessionID)
		if snapshot.Phase != core.PhaseSuspended {
			return nil
		}

		fmt.Fprintf(r.out, "Human assistance requested: %s\n", snapshot.Interrupt.Query())
		answer, err := r.nextResponse()
		if err != nil {
			return err
		}
		if err := r.print(r.agent.Resume(ctx, r.sessionID, answer)); err != nil {
			return err
		}
	}
}

func (r *askSessionRunner) nextResponse() (string, error) {
	if len(r.responses) > 0 {
		answer := r.responses[0]
		r.responses = r.responses[1:]
		return answer, nil
	}

	fmt.Fprint(r.out, "Response: ")
	line, err := r.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func (r *askSessionRunner) print(events iter.Seq2[core.Event, error]) error {
	for ev, err := range events {
		if err != nil {
			return err
		}
		if r.verbose {
			r.printStep(ev)
			continue
		}
		if ev.Node == core.NodeChatbot && ev.Message.Content != "" {
			fmt.Fprintf(r.out, "Assistant: %s\n", ev.Message.Content)
		}
	}
	return nil
}

func (r *askSessionRunner) printStep(ev core.Event) {
	msg := ev.Message
	switch {
	case ev.Interrupt != nil:
		fmt.Fprintf(r.out, "[%s] interrupted (%s): %s\n", ev.Node, ev.Interrupt.Tool, ev.Interrupt.Query())
	case msg.Role == models.RoleUser:
		fmt.Fprintf(r.out, "[%s] User: %s\n", ev.Node, msg.Content)
	case msg.Role == models.RoleAssistant:
		if msg.Content != "" {
			fmt.Fprintf(r.out, "[%s] Assistant: %s\n", ev.Node, msg.Content)
		}
		for _, call := range msg.ToolCalls {
			fmt.Fprintf(r.out, "[%s] Tool call %s (%s): %v\n", ev.Node, call.Name, call.ID, call.Args)
		}
	case msg.Role == models.RoleTool:
		fmt.Fprintf(r.out, "[%s] Tool result %s (%s): %s\n", ev.Node, msg.Name, msg.ToolCallID, msg.Content)
	}
	fmt.Fprintf(r.out, "    -> %s\n", ev.Phase)
}
