package engine

// LLM prompt templates — data only, no logic.

// summarizePrompt asks for a loosely structured summary the parser understands.
// Args: title, duration, transcript.
const summarizePrompt = `Analyze this transcript and provide:

1. A comprehensive summary (3-4 paragraphs) covering the main content
2. Key takeaways as bullet points (5-8 important points)

Title: %q (%s)

Transcript:
%s

Format response as:
SUMMARY:
[Summary text]

KEY POINTS:
• [Point 1]
• [Point 2]`

// answerPrompt grounds a free-form question in the transcript.
// Args: transcript, question.
const answerPrompt = `Here's a transcript:
---
%s
---

Question: %s

Please answer the question based on the transcript. If the information isn't directly available in the transcript,
you can use your general knowledge but please indicate that you're doing so by starting with "Based on general knowledge:"`

// Platform rewrite prompts. Args: style. The transcript is appended by the
// engine after the instruction.
const (
	blogPrompt      = `Create a comprehensive blog article based on this transcript. Make it engaging, well-structured with headings, and suitable for a blog audience. Style: %s`
	twitterPrompt   = `Create a Twitter thread (max 280 chars per tweet) based on this transcript. Use engaging hooks and numbered tweets. Style: %s`
	linkedinPrompt  = `Create a professional LinkedIn post based on this transcript. Make it engaging for a professional audience with relevant hashtags. Style: %s`
	instagramPrompt = `Create an Instagram caption based on this transcript. Include emojis, engaging copy, and relevant hashtags. Style: %s`
)

// platformPrompts maps platform ids to their instruction templates.
var platformPrompts = map[string]string{
	"blog":      blogPrompt,
	"twitter":   twitterPrompt,
	"linkedin":  linkedinPrompt,
	"instagram": instagramPrompt,
}
