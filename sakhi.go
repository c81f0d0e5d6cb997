// Package sakhi provides the conversation orchestration gateway for the
// Krishi Sakhi farming assistant.
//
// Sakhi turns a raw user message (Malayalam or English) into a grounded
// assistant reply: it detects the input script, routes Malayalam text
// through a rate-limited machine-translation gateway, assembles a bounded
// prompt from the conversation history, calls a chat-completion provider
// with retries, and translates the reply back when needed.
//
// Basic usage:
//
//	import (
//	    "context"
//	    "github.com/KrishiLabs/sakhi"
//	    "github.com/KrishiLabs/sakhi/cache"
//	    "github.com/KrishiLabs/sakhi/provider"
//	    "github.com/KrishiLabs/sakhi/store"
//	    "github.com/KrishiLabs/sakhi/translate"
//	)
//
//	func main() {
//	    gw := translate.NewGateway(translate.Config{
//	        APIKey: os.Getenv("HF_API_KEY"),
//	    }, translate.WithCache(cache.NewInMemoryCache(3600)))
//	    defer gw.Close()
//
//	    llm := provider.NewOpenAIProvider(provider.OpenAIConfig{
//	        APIKey: os.Getenv("OPENAI_API_KEY"),
//	    })
//
//	    orch := sakhi.NewOrchestrator(store.NewMemoryStore(), gw, llm)
//
//	    reply, err := orch.HandleTurn(context.Background(), "farmer-42", "How do I grow rice?")
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(reply)
//	}
package sakhi
