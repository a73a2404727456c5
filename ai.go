package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-resty/resty/v2"
)

// defaultBaseURL is Gemini's OpenAI-compatible chat-completions endpoint.
const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai/chat/completions"

const defaultModel = "gemini-1.5-flash"

const systemPrompt = `You are an expert terminal command interpreter. Convert natural language requests into appropriate terminal commands.

Rules:
1. For file operations, use exact file names from the available files list when possible
2. For directory operations, suggest appropriate directory names
3. Use standard Unix/Linux commands (ls, cd, mkdir, rm, cp, mv, cat, grep, etc.)
4. If the request is unclear or impossible, set success to false
5. Break complex operations into multiple commands
6. Always prioritize safety - avoid destructive operations without clear intent

Respond with a JSON object containing:
{
  "commands": ["command1", "command2", ...],
  "explanation": "Brief explanation",
  "success": true/false,
  "error_message": "Error message if success is false"
}`

// GeminiClient talks to a chat-completion endpoint that translates
// natural-language requests into shell commands.
type GeminiClient struct {
	apiKey  string
	model   string
	baseURL string
	client  *resty.Client
}

// Interpretation is the structured reply expected from the model. When
// Success is false, or Commands is empty, nothing is executed.
type Interpretation struct {
	Commands     []string `json:"commands"`
	Explanation  string   `json:"explanation"`
	Success      bool     `json:"success"`
	ErrorMessage string   `json:"error_message"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// NewGeminiClient creates a client from the resolved configuration.
func NewGeminiClient(cfg *Config) *GeminiClient {
	client := resty.New()
	client.SetTimeout(30 * time.Second)

	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &GeminiClient{
		apiKey:  cfg.APIKey,
		model:   model,
		baseURL: baseURL,
		client:  client,
	}
}

// Interpret sends one natural-language request with directory context and
// returns the parsed interpretation. Transport errors, non-2xx statuses
// and malformed replies are all folded into a failure Interpretation;
// no retry is attempted.
func (c *GeminiClient) Interpret(query, currentDir string, availableFiles []string, osName string) Interpretation {
	if len(availableFiles) > 20 {
		availableFiles = availableFiles[:20]
	}

	userPrompt := fmt.Sprintf(
		"Context:\n- Current directory: %s\n- Available files/folders: %s\n- Operating system: %s\n\nNatural language request: %q",
		currentDir, strings.Join(availableFiles, ", "), osName, query)

	reqBody := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Temperature: 0.1,
	}

	var result chatResponse
	resp, err := c.client.R().
		SetHeader("Content-Type", "application/json").
		SetAuthToken(c.apiKey).
		SetBody(reqBody).
		SetResult(&result).
		Post(c.baseURL)
	if err != nil {
		return Interpretation{
			Explanation:  fmt.Sprintf("Network error: %v", err),
			ErrorMessage: fmt.Sprintf("Failed to connect to Gemini AI: %v", err),
		}
	}
	if resp.StatusCode() != 200 {
		return Interpretation{
			Explanation:  fmt.Sprintf("AI API error: %d", resp.StatusCode()),
			ErrorMessage: fmt.Sprintf("API request failed with status %d: %s", resp.StatusCode(), resp.String()),
		}
	}
	if len(result.Choices) == 0 {
		return Interpretation{
			Explanation:  "AI returned an empty completion",
			ErrorMessage: "No choices in AI response",
		}
	}

	content := stripCodeFence(result.Choices[0].Message.Content)

	var interp Interpretation
	if err := json.Unmarshal([]byte(content), &interp); err != nil {
		return Interpretation{
			Explanation:  fmt.Sprintf("AI response parsing error. Raw response: %s...", truncate(content, 200)),
			ErrorMessage: "Failed to parse AI response",
		}
	}
	return interp
}

// stripCodeFence removes a Markdown code-fence wrapper if the model
// ignored the plain-JSON instruction.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = strings.TrimPrefix(s, "```json")
	} else if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
