package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/helmcode/boot-ai/pkg/analyzer"
	"github.com/helmcode/boot-ai/pkg/chat"
	"github.com/helmcode/boot-ai/pkg/config"
	"github.com/helmcode/boot-ai/pkg/formatter"
	"github.com/helmcode/boot-ai/pkg/journal"
	"github.com/helmcode/boot-ai/pkg/llm"
	"github.com/helmcode/boot-ai/pkg/model"
)

var skipAnalysis bool

func NewChatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat with AI about the current boot session",
		Long: `Start an interactive conversation grounded in the current boot
session's logs. An analysis runs first so its issues can be focused on
with /focus.

Commands inside the chat:
  /issues     list the issues found by the analysis
  /focus N    anchor the conversation on issue N
  /clear      reset the conversation and drop the focus
  /quit       leave the chat`,
		Args: cobra.NoArgs,
		RunE: runChat,
	}

	cmd.Flags().BoolVar(&skipAnalysis, "no-analysis", false, "Skip the initial analysis (no issues to focus on)")

	return cmd
}

func runChat(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	s := spinner.New(spinner.CharSets[11], 100*time.Millisecond)
	s.Suffix = " Capturing boot logs..."
	s.Start()

	logText, err := journal.BootLog(ctx)
	if err != nil {
		s.Stop()
		return fmt.Errorf("failed to capture boot logs: %w", err)
	}
	s.Stop()
	printSuccess(fmt.Sprintf("Captured %d bytes of boot logs", len(logText)))

	client := llm.NewOpenRouter(config.APIKey)

	var issues []model.Issue
	if !skipAnalysis {
		s.Suffix = " Analyzing with AI..."
		s.Start()
		result := analyzer.NewWithLLM(client).Analyze(logText, "")
		s.Stop()

		if err := formatter.DisplayResults(result, "human"); err != nil {
			return err
		}
		issues = result.Issues
	}

	session := chat.NewSession(client, logText)
	printAssistant(session.History()[0].Content)

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		fmt.Print(color.CyanString("you> "))
		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		switch {
		case line == "/quit" || line == "/exit":
			return nil

		case line == "/clear":
			session.Clear()
			printAssistant(session.History()[0].Content)

		case line == "/issues":
			listIssues(issues)

		case strings.HasPrefix(line, "/focus"):
			issue, err := pickIssue(line, issues)
			if err != nil {
				printError(err.Error())
				continue
			}
			reply, err := submit(s, func() (string, error) { return session.FocusOnIssue(*issue) })
			if err != nil {
				printError(err.Error())
				continue
			}
			printAssistant(reply)

		default:
			reply, err := submit(s, func() (string, error) { return session.Send(line) })
			if err != nil {
				printError(err.Error())
				continue
			}
			printAssistant(reply)
		}
	}
}

func submit(s *spinner.Spinner, send func() (string, error)) (string, error) {
	s.Suffix = " Thinking..."
	s.Start()
	reply, err := send()
	s.Stop()
	return reply, err
}

func pickIssue(line string, issues []model.Issue) (*model.Issue, error) {
	if len(issues) == 0 {
		return nil, fmt.Errorf("no issues available to focus on")
	}

	arg := strings.TrimSpace(strings.TrimPrefix(line, "/focus"))
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 || n > len(issues) {
		return nil, fmt.Errorf("usage: /focus N (1-%d)", len(issues))
	}
	return &issues[n-1], nil
}

func listIssues(issues []model.Issue) {
	if len(issues) == 0 {
		fmt.Println("No issues found by the analysis.")
		return
	}
	for i, issue := range issues {
		fmt.Printf("%d. [%s] %s\n", i+1, strings.ToUpper(string(issue.Severity)), issue.Problem)
	}
}

func printAssistant(msg string) {
	green := color.New(color.FgGreen, color.Bold)
	green.Print("ai> ")
	fmt.Println(msg)
}

func printError(msg string) {
	red := color.New(color.FgRed)
	red.Printf("✗ %s\n", msg)
}
