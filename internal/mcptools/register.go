// Package mcptools registers the transcript tasks as MCP tools so local
// agents can drive them directly. The usage gate is not applied here: the
// MCP surface is a trusted local integration, not the public API.
package mcptools

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/clipbrief/clipbrief/internal/engine"
	"github.com/clipbrief/clipbrief/internal/transcript"
)

// RegisterTools registers summarize_media, ask_transcript, and social_posts
// on the given MCP server.
func RegisterTools(server *mcp.Server, eng *engine.Engine, producer *transcript.Producer) {
	registerSummarize(server, eng)
	registerAsk(server, eng)
	registerSocialPosts(server, eng)
	registerTranscribe(server, producer)
}

func registerSummarize(server *mcp.Server, eng *engine.Engine) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "summarize_media",
		Description: "Summarize a media transcript into a short summary plus key points. Tries Gemini first, falls back to Groq. Returns structured JSON with summary, keyPoints, and the provider that produced it.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, req *mcp.CallToolRequest, input engine.SummarizeInput) (*mcp.CallToolResult, engine.SummarizeOutput, error) {
		out, err := eng.Summarize(ctx, input)
		if err != nil {
			return nil, engine.SummarizeOutput{}, err
		}
		return nil, out, nil
	})
}

func registerAsk(server *mcp.Server, eng *engine.Engine) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "ask_transcript",
		Description: "Answer a free-form question about a media transcript. Answers from the transcript when possible, otherwise from general knowledge with an explicit marker.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, req *mcp.CallToolRequest, input engine.AnswerInput) (*mcp.CallToolResult, engine.AnswerOutput, error) {
		out, err := eng.Answer(ctx, input)
		if err != nil {
			return nil, engine.AnswerOutput{}, err
		}
		return nil, out, nil
	})
}

func registerSocialPosts(server *mcp.Server, eng *engine.Engine) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "social_posts",
		Description: "Rewrite a transcript into platform-ready content for blog, twitter, linkedin, and/or instagram. Per-platform failures are reported inline so one bad platform never sinks the rest.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, req *mcp.CallToolRequest, input engine.ContentInput) (*mcp.CallToolResult, engine.ContentOutput, error) {
		out, err := eng.PlatformContent(ctx, input)
		if err != nil {
			return nil, engine.ContentOutput{}, err
		}
		return nil, out, nil
	})
}

func registerTranscribe(server *mcp.Server, producer *transcript.Producer) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "transcribe_media",
		Description: "Produce a transcript from a media URL (YouTube, Vimeo, TikTok, Instagram, Twitter/X, Facebook) or an uploaded base64 file. URL input prefers published captions and otherwise synthesizes from public metadata.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, req *mcp.CallToolRequest, input transcript.Input) (*mcp.CallToolResult, transcript.Result, error) {
		src, err := transcript.Normalize(input)
		if err != nil {
			return nil, transcript.Result{}, err
		}
		out, err := producer.Produce(ctx, src)
		if err != nil {
			return nil, transcript.Result{}, err
		}
		return nil, out, nil
	})
}
