package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/example/vocabtutor/pkg/models"
)

// ErrNoWord signals that the word source cannot produce a new word right now.
// The task assembler treats it as "no more words available", not as a fatal
// error.
var ErrNoWord = errors.New("word source: no word available")

const (
	selectPrompt = `You are an AI language curriculum designer. Your task is to select a single, common, beginner-level Spanish word for a student to learn. The student has already learned the words provided in the user prompt. You MUST provide a word that is NOT on that list. Your response MUST be in JSON format with two keys: "term" and "translation". Pick a very common word.`

	explainPrompt = `You are a friendly, patient, and encouraging Spanish tutor. Your student is a beginner. For the given Spanish word, provide a concise and easy-to-understand explanation in English. Your response MUST be in JSON format and follow this exact schema:
1. "explanation": a simple definition of the word.
2. "exampleSentence": a common, practical example sentence using the word.
3. "sentenceTranslation": the English translation of the example sentence.
4. "extraTips": one extra useful tip, like a related word (antonym/synonym), a common mistake, or a cultural note.
Keep all explanations and examples suitable for a beginner.`

	tutorPrompt = `You are a friendly, patient, and highly knowledgeable Spanish language tutor. Your student is a beginner learning Spanish. Your task is to answer their questions about the Spanish language.
- Respond in clear, easy-to-understand English.
- Keep your answers concise but thorough.
- If the question is a single word, explain its meaning and provide an example sentence.
- If the question is about grammar, explain the rule simply and provide clear examples.
- Be encouraging and maintain a positive tone.`
)

// Config holds the word source configuration.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Model:   openai.GPT4oMini,
		Timeout: 25 * time.Second,
	}
}

// Client talks to an OpenAI-compatible chat API to select new words and
// generate tutor explanations.
type Client struct {
	client *openai.Client
	config Config
}

// New creates a word source client. A missing API key is not an error here:
// the client is constructed anyway and every call reports ErrNoWord, so the
// trainer degrades to reviews-only.
func New(cfg Config) *Client {
	if cfg.Model == "" {
		cfg.Model = openai.GPT4oMini
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 25 * time.Second
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return &Client{
		client: openai.NewClientWithConfig(clientConfig),
		config: cfg,
	}
}

// SelectNewWord asks the model for one beginner word not in exclude.
func (c *Client) SelectNewWord(ctx context.Context, exclude []string) (*models.NewWord, error) {
	if c.config.APIKey == "" {
		return nil, fmt.Errorf("%w: API key is not configured", ErrNoWord)
	}

	learned, err := json.Marshal(exclude)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal exclude list: %v", err)
	}

	content, err := c.chatJSON(ctx, selectPrompt, fmt.Sprintf("Learned words: %s", learned))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoWord, err)
	}

	var word models.NewWord
	if err := json.Unmarshal([]byte(content), &word); err != nil {
		return nil, fmt.Errorf("%w: invalid word selection response: %v", ErrNoWord, err)
	}
	word.Term = strings.TrimSpace(word.Term)
	if word.Term == "" {
		return nil, fmt.Errorf("%w: empty term in response", ErrNoWord)
	}
	return &word, nil
}

// Explain generates the tutor payload for a word.
func (c *Client) Explain(ctx context.Context, term string) (*models.Explanation, error) {
	if c.config.APIKey == "" {
		return nil, fmt.Errorf("%w: API key is not configured", ErrNoWord)
	}

	content, err := c.chatJSON(ctx, explainPrompt, fmt.Sprintf("The word is: %q", term))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoWord, err)
	}

	var expl models.Explanation
	if err := json.Unmarshal([]byte(content), &expl); err != nil {
		return nil, fmt.Errorf("%w: invalid explanation response: %v", ErrNoWord, err)
	}
	return &expl, nil
}

// AskTutor answers a free-form learner question.
func (c *Client) AskTutor(ctx context.Context, question string) (string, error) {
	if c.config.APIKey == "" {
		return "", fmt.Errorf("tutor is not configured")
	}

	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.config.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: tutorPrompt},
			{Role: openai.ChatMessageRoleUser, Content: question},
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to ask tutor: %v", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response choices returned")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// chatJSON runs one JSON-mode chat completion and returns the raw content.
func (c *Client) chatJSON(ctx context.Context, system, user string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.config.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response choices returned")
	}
	return resp.Choices[0].Message.Content, nil
}
