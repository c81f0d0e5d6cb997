// Package provider defines the completion provider interface and
// implementations.
package provider

import "github.com/KrishiLabs/sakhi"

// CompletionProvider is the interface for chat-completion backends.
// This is an alias to the main package interface for convenience.
type CompletionProvider = sakhi.CompletionProvider

// PromptMessage is an alias to the main package type.
type PromptMessage = sakhi.PromptMessage

// FallbackReply is substituted when the provider returns a structurally
// valid response with no usable content. A missing reply body is a
// content-shape conversion, not a failure.
const FallbackReply = "I apologize, but I am unable to provide a response at the moment. Please try again later."
