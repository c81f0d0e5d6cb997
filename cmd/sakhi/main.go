// Command sakhi runs an interactive farming-advice chat session.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/KrishiLabs/sakhi"
	"github.com/KrishiLabs/sakhi/cache"
	"github.com/KrishiLabs/sakhi/provider"
	"github.com/KrishiLabs/sakhi/store"
	"github.com/KrishiLabs/sakhi/translate"
)

// Build-time variables (can be overridden with ldflags)
var (
	version   = sakhi.Version
	commit    = sakhi.GitCommit
	buildDate = sakhi.BuildDate
)

// newCompleter builds the completion provider; swapped out in tests.
var newCompleter = func(cfg provider.OpenAIConfig) sakhi.CompletionProvider {
	return provider.NewOpenAIProvider(cfg)
}

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("sakhi", flag.ContinueOnError)
	fs.SetOutput(stderr)

	// Flags
	apiKey := fs.String("api-key", "", "OpenAI API key (default: OPENAI_API_KEY env)")
	model := fs.String("model", "gpt-4o-mini", "OpenAI model to use")
	hfKey := fs.String("hf-key", "", "Hugging Face API token (default: HF_API_TOKEN env)")
	hfURL := fs.String("hf-url", "", "Hugging Face inference endpoint (default: public API)")
	rpm := fs.Int("rpm", 60, "Translation requests per minute")
	noTranslate := fs.Bool("no-translate", false, "Disable Malayalam translation (English only)")
	redisURL := fs.String("redis", "", "Redis URL for history and cache (default: in-memory)")
	cacheTTL := fs.Int("cache-ttl", 3600, "Translation cache TTL in seconds (0 to disable)")
	historyLimit := fs.Int("history-limit", sakhi.DefaultHistoryLimit, "Recent turns included in the prompt")
	promptsFile := fs.String("prompts", "", "YAML file overriding the system prompt and examples")
	conversationID := fs.String("conversation", "local", "Conversation ID for history")
	debug := fs.Bool("debug", false, "Enable debug logging to stderr")
	showVersion := fs.Bool("version", false, "Show version")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *showVersion {
		fmt.Fprintf(stdout, "%s %s\n", sakhi.Name, version)
		if commit != "unknown" && commit != "" {
			fmt.Fprintf(stdout, "  commit:  %s\n", commit)
		}
		if buildDate != "unknown" && buildDate != "" {
			fmt.Fprintf(stdout, "  built:   %s\n", buildDate)
		}
		return nil
	}

	// Get API key
	key := *apiKey
	if key == "" {
		key = os.Getenv("OPENAI_API_KEY")
	}
	if key == "" {
		return fmt.Errorf("OpenAI API key required (--api-key or OPENAI_API_KEY env)")
	}

	log := zap.NewNop()
	if *debug {
		var err error
		log, err = zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("creating logger: %w", err)
		}
		defer log.Sync() // #nosec G104 - stderr sync failure is harmless on exit
	}

	// History store: Redis when configured, in-memory otherwise
	var history sakhi.HistoryStore = store.NewMemoryStore()
	if *redisURL != "" {
		redisStore, err := store.NewRedisStore(store.RedisStoreConfig{URL: *redisURL})
		if err != nil {
			return fmt.Errorf("connecting to redis: %w", err)
		}
		defer redisStore.Close()
		history = redisStore
	}

	// Translation gateway, unless running English-only
	var translator sakhi.Translator
	if !*noTranslate {
		hfToken := *hfKey
		if hfToken == "" {
			hfToken = os.Getenv("HF_API_TOKEN")
		}

		gatewayOpts := []translate.Option{translate.WithLogger(log)}
		if *cacheTTL > 0 {
			if *redisURL != "" {
				redisCache, err := cache.NewRedisCache(cache.RedisConfig{URL: *redisURL, TTL: *cacheTTL})
				if err != nil {
					return fmt.Errorf("connecting to redis cache: %w", err)
				}
				defer redisCache.Close()
				gatewayOpts = append(gatewayOpts, translate.WithCache(redisCache))
			} else {
				memCache := cache.NewInMemoryCache(*cacheTTL)
				defer memCache.Close()
				gatewayOpts = append(gatewayOpts, translate.WithCache(memCache))
			}
		}

		gateway := translate.NewGateway(translate.Config{
			APIKey:            hfToken,
			BaseURL:           *hfURL,
			RequestsPerMinute: *rpm,
		}, gatewayOpts...)
		defer gateway.Close()
		translator = gateway
	}

	completer := newCompleter(provider.OpenAIConfig{
		APIKey: key,
		Model:  *model,
	})

	orchOpts := []sakhi.OrchestratorOption{
		sakhi.WithHistoryLimit(*historyLimit),
		sakhi.WithLogger(log),
	}

	if *promptsFile != "" {
		prompts, err := sakhi.LoadPromptConfig(*promptsFile)
		if err != nil {
			return fmt.Errorf("loading prompts: %w", err)
		}
		orchOpts = append(orchOpts, sakhi.WithPromptConfig(prompts))
	}

	orch := sakhi.NewOrchestrator(history, translator, completer, orchOpts...)

	return repl(context.Background(), orch, *conversationID, stdin, stdout, stderr)
}

// repl reads one question per line and prints the assistant's reply.
// Lines starting with "/" are session commands.
func repl(ctx context.Context, orch *sakhi.Orchestrator, conversationID string, stdin io.Reader, stdout, stderr io.Writer) error {
	fmt.Fprintf(stdout, "%s %s - ask about your farm (/help for commands)\n", sakhi.Name, sakhi.FullVersion())

	scanner := bufio.NewScanner(stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		fmt.Fprint(stdout, "you> ")
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			if quit := command(ctx, orch, conversationID, line, stdout, stderr); quit {
				return nil
			}
			continue
		}

		reply, err := orch.HandleTurn(ctx, conversationID, line)
		if err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			continue
		}

		fmt.Fprintf(stdout, "sakhi> %s\n", reply)
	}

	return scanner.Err()
}

// command handles a slash command; returns true when the session should end.
func command(ctx context.Context, orch *sakhi.Orchestrator, conversationID, line string, stdout, stderr io.Writer) bool {
	switch line {
	case "/quit", "/exit":
		return true
	case "/clear":
		if err := orch.ClearHistory(ctx, conversationID); err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return false
		}
		fmt.Fprintln(stdout, "conversation cleared")
	case "/history":
		turns, err := orch.History(ctx, conversationID, 0)
		if err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return false
		}
		if len(turns) == 0 {
			fmt.Fprintln(stdout, "no history yet")
			return false
		}
		for _, turn := range turns {
			fmt.Fprintf(stdout, "[%s] %s\n", turn.Role, turn.Content)
		}
	case "/help":
		fmt.Fprintln(stdout, "commands:")
		fmt.Fprintln(stdout, "  /history  show recent turns")
		fmt.Fprintln(stdout, "  /clear    forget this conversation")
		fmt.Fprintln(stdout, "  /quit     exit")
	default:
		fmt.Fprintf(stderr, "unknown command %q (/help for commands)\n", line)
	}
	return false
}
