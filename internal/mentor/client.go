package mentor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/vidaplena/coherence-engine/internal/vector"
)

// #region generator

// Generator abstracts the text-generation RPC so the client can be tested
// without a network connection.
type Generator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// GenAIGenerator generates text through Google's Gemini API.
type GenAIGenerator struct {
	client *genai.Client
	model  string
}

// NewGenAIGenerator creates a Gemini-backed generator.
func NewGenAIGenerator(ctx context.Context, apiKey, model string) (*GenAIGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("genai api key is required")
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &GenAIGenerator{client: client, model: model}, nil
}

// GenerateText implements Generator.
func (g *GenAIGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}
	result, err := g.client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("genai generate: %w", err)
	}
	return result.Text(), nil
}

// #endregion generator

// #region client

// Client is the thin boundary to the generative-AI collaborator: mentor
// chat turns and the visualizer's upstream vector analysis.
type Client struct {
	gen Generator
}

// NewClient wraps a generator. gen may be nil; calls then fail cleanly and
// the quest fallback table still works.
func NewClient(gen Generator) *Client {
	return &Client{gen: gen}
}

// ChatTurn sends one user message to a mentor agent and returns the reply.
func (c *Client) ChatTurn(ctx context.Context, agentID, category, message string) (string, error) {
	if c.gen == nil {
		return "", fmt.Errorf("no generator configured")
	}
	prompt := fmt.Sprintf(
		"You are %s, a %s mentor in a wellness companion. Reply briefly and warmly.\n\nUser: %s",
		agentID, category, message,
	)
	return c.gen.GenerateText(ctx, prompt)
}

// #endregion client

// #region analyze

const analyzePrompt = `Analyze the reflection below and assess the writer's coherence across
seven life dimensions. Respond with ONLY a JSON object of this exact shape,
all values 0-100:

{"alinhamentoPAC":50,
 "proposito":{"coerencia":50,"dissonancia":20},
 "mental":{"coerencia":50,"dissonancia":20},
 "relacional":{"coerencia":50,"dissonancia":20},
 "emocional":{"coerencia":50,"dissonancia":20},
 "somatico":{"coerencia":50,"dissonancia":20},
 "eticoAcao":{"coerencia":50,"dissonancia":20},
 "recursos":{"coerencia":50,"dissonancia":20}}

Reflection:
%s`

// AnalyzeReflection asks the model for a full replacement vector based on a
// free-text reflection. This feeds the visualizer tool's result payload.
// The parsed vector is clamped on unmarshal.
func (c *Client) AnalyzeReflection(ctx context.Context, reflection string) (vector.Vector, error) {
	if c.gen == nil {
		return vector.Vector{}, fmt.Errorf("no generator configured")
	}
	text, err := c.gen.GenerateText(ctx, fmt.Sprintf(analyzePrompt, reflection))
	if err != nil {
		return vector.Vector{}, err
	}
	return ParseVectorJSON(text)
}

// ParseVectorJSON extracts the first JSON object from model output and
// decodes it as a vector. Markdown code fences are tolerated.
func ParseVectorJSON(text string) (vector.Vector, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return vector.Vector{}, fmt.Errorf("no JSON object in model output")
	}
	var v vector.Vector
	if err := json.Unmarshal([]byte(text[start:end+1]), &v); err != nil {
		return vector.Vector{}, fmt.Errorf("parse vector: %w", err)
	}
	return v, nil
}

// #endregion analyze
