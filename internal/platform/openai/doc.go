// Package openai provides an implementation of the generation.Generator
// interface backed by the OpenAI chat completions API, using
// github.com/sashabaranov/go-openai. Any OpenAI-compatible endpoint can be
// targeted through llm.openai_base_url.
package openai
