// Package generation defines the boundary between the application and external
// AI/LLM services used for content generation. It exposes the Generator
// interface that provider adapters (Gemini, OpenAI) implement, the Factory used
// to build a Generator lazily, and the sentinel errors callers classify on.
package generation
