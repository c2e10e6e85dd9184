package engine

// --- Task inputs (shared by the HTTP handlers and MCP tools) ---

type SummarizeInput struct {
	Transcript        string `json:"transcript" jsonschema:"Transcript text to summarize"`
	Title             string `json:"title,omitempty" jsonschema:"Media title, used as prompt context"`
	Duration          string `json:"duration,omitempty" jsonschema:"Media duration, used as prompt context"`
	PreferredProvider string `json:"preferred_provider,omitempty" jsonschema:"Force a single provider (gemini, groq); disables fallback"`
}

type AnswerInput struct {
	Transcript        string `json:"transcript" jsonschema:"Transcript text to answer against"`
	Question          string `json:"question" jsonschema:"Free-form question about the transcript"`
	PreferredProvider string `json:"preferred_provider,omitempty" jsonschema:"Force a single provider (gemini, groq); disables fallback"`
}

type ContentInput struct {
	Transcript string   `json:"transcript" jsonschema:"Transcript text to rewrite"`
	Platforms  []string `json:"platforms" jsonschema:"Target platforms: blog, twitter, linkedin, instagram"`
	Style      string   `json:"style,omitempty" jsonschema:"Writing style, e.g. professional, casual"`
}

// --- Task outputs (JSON responses) ---

type SummarizeOutput struct {
	Summary   string   `json:"summary"`
	KeyPoints []string `json:"keyPoints"`
	Provider  string   `json:"provider"`
}

type AnswerOutput struct {
	Answer   string `json:"answer"`
	Provider string `json:"provider"`
}

// ContentOutput maps every requested platform to either generated text or an
// inlined error description. Keys match the request exactly.
type ContentOutput struct {
	Content map[string]string `json:"content"`
}
