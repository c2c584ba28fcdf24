package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"nugget-cli/internal/app"
	"nugget-cli/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

const (
	version = "1.0.0"
	repoURL = "https://github.com/nuggetapp/nugget-cli"
)

var (
	sessionSize  int
	sessionQuery string
)

func loadApp() (*app.Application, bool, error) {
	cfg, err := app.LoadConfig(app.DefaultConfigPath())
	if err != nil {
		return nil, false, err
	}
	if cfg.APIToken == "" {
		cfg.APIToken = os.Getenv("NUGGET_API_TOKEN")
	}
	// No token means offline demo mode against the built-in fixtures.
	mockMode := cfg.APIToken == ""
	application, err := app.NewApplication(cfg, mockMode)
	if err != nil {
		return nil, false, err
	}
	return application, mockMode, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()
	return ctx, cancel
}

func generateCompletion(shell string) error {
	switch shell {
	case "bash":
		fmt.Println("# bash completion for nugget")
		fmt.Println("_nugget_completions() {")
		fmt.Println("    local cur")
		fmt.Println("    COMPREPLY=()")
		fmt.Println("    cur=\"${COMP_WORDS[COMP_CWORD]}\"")
		fmt.Println("    opts=\"save session feeds stats completion help version\"")
		fmt.Println("    if [[ $COMP_CWORD -eq 1 ]]; then")
		fmt.Println("        COMPREPLY=( $(compgen -W \"${opts}\" -- \"${cur}\") )")
		fmt.Println("    fi")
		fmt.Println("    return 0")
		fmt.Println("}")
		fmt.Println("complete -F _nugget_completions nugget")
	case "zsh":
		fmt.Println("# zsh completion for nugget")
		fmt.Println("compdef _nugget nugget")
		fmt.Println("_nugget() {")
		fmt.Println("    _arguments '1:command:(save session feeds stats completion help version)'")
		fmt.Println("}")
	case "fish":
		fmt.Println("# fish completion for nugget")
		fmt.Println("complete -c nugget -f -a 'save session feeds stats completion help version'")
	default:
		return fmt.Errorf("unsupported shell: %s", shell)
	}
	return nil
}

func main() {
	root := &cobra.Command{
		Use:     "nugget",
		Short:   "Nugget - save links, get summaries, review them as cards",
		Long:    "Nugget is a terminal client for the Nugget read-later service.\n\nRun without arguments for the interactive TUI, or use the subcommands for one-shot actions.\n\nFor more information, visit: " + repoURL,
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			application, mockMode, err := loadApp()
			if err != nil {
				return err
			}
			defer application.Close()

			p := tea.NewProgram(tui.New(application, mockMode), tea.WithAltScreen())
			if _, err := p.Run(); err != nil {
				return err
			}
			return nil
		},
	}

	saveCmd := &cobra.Command{
		Use:   "save <url>",
		Short: "Save a link for summarization",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext()
			defer cancel()

			application, _, err := loadApp()
			if err != nil {
				return err
			}
			defer application.Close()

			n, err := application.Client.SaveNugget(ctx, args[0])
			if err != nil {
				return err
			}
			if n.IsProcessing() {
				fmt.Printf("Saved %s — summarizing in the background.\n", args[0])
			} else {
				fmt.Printf("Saved %s\n", args[0])
			}
			return nil
		},
	}

	sessionCmd := &cobra.Command{
		Use:   "session",
		Short: "Start a review session and print its cards",
		Long:  "Start a review session without the TUI: each card is printed in order and every nugget is credited as reviewed.\n\nExamples:\n  - nugget session\n  - nugget session --size 3\n  - nugget session --query \"AI this week\"",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext()
			defer cancel()

			application, _, err := loadApp()
			if err != nil {
				return err
			}
			defer application.Close()
			return runHeadlessSession(ctx, application, sessionSize, sessionQuery)
		},
	}
	sessionCmd.Flags().IntVarP(&sessionSize, "size", "s", 0, "Number of nuggets in the session")
	sessionCmd.Flags().StringVarP(&sessionQuery, "query", "q", "", "Build the session from a free-text query")

	feedsCmd := &cobra.Command{
		Use:   "feeds",
		Short: "Manage RSS feed subscriptions",
	}
	feedsCmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List subscribed feeds",
			RunE: func(cmd *cobra.Command, args []string) error {
				ctx, cancel := signalContext()
				defer cancel()
				application, _, err := loadApp()
				if err != nil {
					return err
				}
				defer application.Close()

				feeds, err := application.Client.ListFeeds(ctx)
				if err != nil {
					return err
				}
				for _, f := range feeds {
					name := f.Title
					if name == "" {
						name = "(untitled)"
					}
					fmt.Printf("%-12s %-40s %s\n", f.FeedID, name, f.URL)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "add <url>",
			Short: "Subscribe to a feed",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				ctx, cancel := signalContext()
				defer cancel()
				application, _, err := loadApp()
				if err != nil {
					return err
				}
				defer application.Close()

				preview := app.PreviewFeed(ctx, args[0])
				if preview.Err != nil {
					fmt.Printf("warning: could not read feed (%v); subscribing anyway\n", preview.Err)
				} else {
					fmt.Printf("Found %q (%d items)\n", preview.Title, preview.ItemCount)
				}
				feed, err := application.Client.AddFeed(ctx, args[0], preview.Title)
				if err != nil {
					return err
				}
				fmt.Printf("Subscribed: %s\n", feed.FeedID)
				return nil
			},
		},
		&cobra.Command{
			Use:   "remove <feed-id>",
			Short: "Unsubscribe from a feed",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				ctx, cancel := signalContext()
				defer cancel()
				application, _, err := loadApp()
				if err != nil {
					return err
				}
				defer application.Close()
				return application.Client.RemoveFeed(ctx, args[0])
			},
		},
	)

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Print review stats",
		RunE: func(cmd *cobra.Command, args []string) error {
			application, _, err := loadApp()
			if err != nil {
				return err
			}
			defer application.Close()

			st, err := application.Stats()
			if err != nil {
				return err
			}
			fmt.Printf("Sessions finished: %d\n", st.TotalSessions)
			fmt.Printf("Nuggets reviewed:  %d\n", st.TotalCompleted)
			fmt.Printf("This week:         %d\n", st.SessionsThisWeek)
			fmt.Printf("Current streak:    %d day(s)\n", st.CurrentStreak)
			fmt.Printf("Longest streak:    %d day(s)\n", st.LongestStreak)
			return nil
		},
	}

	completionCmd := &cobra.Command{
		Use:   "completion [shell]",
		Short: "Generate shell completion",
		Long:  "Generate shell completion script for nugget.\n\nExamples:\n  - nugget completion bash >> ~/.bashrc\n  - nugget completion zsh > ~/.zsh/completion/_nugget\n  - nugget completion fish > ~/.config/fish/completions/nugget.fish",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return generateCompletion(args[0])
		},
	}

	root.AddCommand(saveCmd, sessionCmd, feedsCmd, statsCmd, completionCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// runHeadlessSession walks the whole card stack non-interactively,
// waiting out server-side processing first so every card has content.
func runHeadlessSession(ctx context.Context, application *app.Application, size int, query string) error {
	var engine *app.SessionEngine
	var err error
	if query != "" {
		engine, err = application.StartSmartSession(ctx, query)
	} else {
		engine, err = application.StartSession(ctx, size)
	}
	if err != nil {
		return err
	}

	if poller := engine.Poller(); poller != nil {
		fmt.Println("Waiting for summaries…")
		for {
			st, ok := <-poller.Updates()
			if !ok {
				break
			}
			engine.ApplyStatus(st)
			if st.ProcessingComplete {
				break
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
		}
	}

	cards := engine.Cards()
	if len(cards) == 0 {
		fmt.Println("Nothing ready to review.")
		engine.Finish(ctx)
		return nil
	}

	for i, card := range cards {
		fmt.Printf("\n[%d/%d] %s\n", i+1, len(cards), cardHeading(card))
		if card.Summary != "" {
			fmt.Println(card.Summary)
		}
		for _, kp := range card.KeyPoints {
			fmt.Printf("  • %s\n", kp)
		}
		if card.SourceURL != "" {
			fmt.Println(card.SourceURL)
		}
		engine.Advance()
	}

	finishCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	engine.Finish(finishCtx)
	fmt.Printf("\nReviewed %d nugget(s).\n", len(engine.CompletedNuggetIDs()))
	return nil
}

func cardHeading(card app.Card) string {
	title := card.Title
	if title == "" {
		title = card.SourceURL
	}
	switch card.Kind {
	case app.CardGroupOverview:
		return fmt.Sprintf("%s (digest, %d articles)", title, card.Total)
	case app.CardIndividual:
		return fmt.Sprintf("%s (article %d/%d)", title, card.Index+1, card.Total)
	default:
		return title
	}
}
