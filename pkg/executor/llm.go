package executor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"regexp"
	"strings"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/tidwall/pretty"

	"github.com/flowforge/engine/pkg/httpclient"
	"github.com/flowforge/engine/pkg/security"
	"github.com/flowforge/engine/pkg/types"
)

// promptTruncateLen bounds an individual input value inlined into a
// prompt; remainingJSONTruncateLen bounds the pretty-printed leftover
// input appended when a placeholder goes unresolved.
const (
	promptTruncateLen       = 5000
	remainingJSONTruncateLen = 2000
)

var chatCompletionProviders = map[string]bool{
	"openrouter": true, "openai": true, "groq": true, "together": true,
	"fireworks": true, "deepinfra": true, "perplexity": true, "mistral": true,
}

// LLMExecutor dispatches to a chat-completion-compatible provider via
// openai-go, or to a local ollama host, per the node's provider field.
type LLMExecutor struct{}

func (e *LLMExecutor) NodeType() types.NodeType { return types.NodeTypeLLM }

func (e *LLMExecutor) Execute(ctx ExecutionContext, node types.Node, input interface{}) types.NodeOutcome {
	inputMap, _ := types.AsMap(input)

	provider := types.GetStringDefault(node.Config, "provider", "openrouter")
	model := types.GetStringDefault(node.Config, "model", "gpt-4o-mini")
	system, _ := types.GetString(node.Config, "system")

	rawPrompt, ok := types.GetString(node.Config, "user")
	if !ok {
		rawPrompt, _ = types.GetString(node.Config, "prompt")
	}
	prompt := buildPrompt(rawPrompt, inputMap)

	if provider == "ollama" {
		return e.executeOllama(ctx, node, model, system, prompt)
	}
	if !chatCompletionProviders[provider] {
		return types.Failure(fmt.Errorf("%w: unknown provider %q", ErrLLMRequestFailed, provider), "", 0)
	}
	return e.executeChatCompletion(ctx, node, provider, model, system, prompt)
}

func (e *LLMExecutor) executeChatCompletion(ctx ExecutionContext, node types.Node, provider, model, system, prompt string) types.NodeOutcome {
	rawKey, _ := types.GetString(node.Config, "api_key")
	if rawKey == "" {
		envName := types.GetStringDefault(node.Config, "api_key_name", ctx.Config().OpenRouterAPIKeyEnvName)
		if provider == "openrouter" {
			rawKey = os.Getenv(envName)
		}
	}
	apiKey := httpclient.NewSecureString(rawKey)
	if apiKey.IsEmpty() {
		return types.Failure(fmt.Errorf("%w: provider %q requires an api_key", ErrMissingAPIKey, provider), "", 0)
	}

	opts := []option.RequestOption{option.WithAPIKey(apiKey.Value())}
	if baseURL, ok := types.GetString(node.Config, "base_url"); ok && baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	client := openai.NewClient(opts...)

	var messages []openai.ChatCompletionMessageParamUnion
	if system != "" {
		messages = append(messages, openai.SystemMessage(system))
	}
	messages = append(messages, openai.UserMessage(prompt))

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(model),
		Messages: messages,
	}
	if maxTokens := types.GetInt(node.Config, "max_tokens", 0); maxTokens > 0 {
		params.MaxTokens = openai.Int(int64(maxTokens))
	}

	cctx, cancel := context.WithTimeout(context.Background(), ctx.Config().LLMChatTimeout)
	defer cancel()

	resp, err := client.Chat.Completions.New(cctx, params)
	if err != nil {
		return types.Failure(fmt.Errorf("%w: %v", ErrLLMRequestFailed, err), "", 0)
	}
	if len(resp.Choices) == 0 {
		return types.Failure(fmt.Errorf("%w: empty response", ErrLLMRequestFailed), "", 0)
	}

	return types.Success(map[string]interface{}{
		"response": resp.Choices[0].Message.Content,
		"provider": provider,
		"model":    model,
	}, 0)
}

func (e *LLMExecutor) executeOllama(ctx ExecutionContext, node types.Node, model, system, prompt string) types.NodeOutcome {
	host := types.GetStringDefault(node.Config, "ollama_host", ctx.Config().OllamaHost)
	if !security.HostAllowed(ctx.Config().AllowedOllamaHosts, hostOf(host)) {
		return types.Failure(fmt.Errorf("%w: %s", ErrOllamaHostBlocked, host), "", 0)
	}

	body, err := json.Marshal(map[string]interface{}{
		"model":  model,
		"prompt": prompt,
		"system": system,
		"stream": false,
	})
	if err != nil {
		return types.Failure(fmt.Errorf("%w: %v", ErrLLMRequestFailed, err), "", 0)
	}

	client, err := getOrBuildClient(ctx.Config(), "llm-ollama", &httpclient.ClientConfig{
		Timeout: ctx.Config().OllamaTimeout,
	})
	if err != nil {
		return types.Failure(fmt.Errorf("%w: %v", ErrLLMRequestFailed, err), "", 0)
	}

	cctx, cancel := context.WithTimeout(context.Background(), ctx.Config().OllamaTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(cctx, http.MethodPost, strings.TrimRight(host, "/")+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return types.Failure(fmt.Errorf("%w: %v", ErrLLMRequestFailed, err), "", 0)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return types.Failure(fmt.Errorf("%w: %v", ErrLLMRequestFailed, err), "", 0)
	}
	defer resp.Body.Close()

	var parsed struct {
		Response string `json:"response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return types.Failure(fmt.Errorf("%w: %v", ErrLLMRequestFailed, err), "", 0)
	}

	return types.Success(map[string]interface{}{
		"response": parsed.Response,
		"provider": "ollama",
		"model":    model,
	}, 0)
}

var placeholderPattern = regexp.MustCompile(`\{[^{}]+\}`)

// buildPrompt substitutes "{key}" placeholders (truncating any oversized
// value first), then appends the remaining input as pretty JSON, truncated,
// if any placeholder was left unresolved.
func buildPrompt(raw string, input map[string]interface{}) string {
	truncatedInput := make(map[string]interface{}, len(input))
	for k, v := range input {
		s := types.Stringify(v)
		if len(s) > promptTruncateLen {
			s = s[:promptTruncateLen]
		}
		truncatedInput[k] = s
	}

	result := raw
	for k, v := range truncatedInput {
		result = strings.ReplaceAll(result, "{"+k+"}", types.Stringify(v))
	}

	if placeholderPattern.MatchString(result) {
		if remaining, err := json.Marshal(input); err == nil {
			formatted := string(pretty.Pretty(remaining))
			if len(formatted) > remainingJSONTruncateLen {
				formatted = formatted[:remainingJSONTruncateLen]
			}
			result = result + "\n" + formatted
		}
	}
	return result
}

func hostOf(rawHost string) string {
	h := strings.TrimPrefix(rawHost, "http://")
	h = strings.TrimPrefix(h, "https://")
	if idx := strings.IndexByte(h, '/'); idx >= 0 {
		h = h[:idx]
	}
	if idx := strings.IndexByte(h, ':'); idx >= 0 {
		h = h[:idx]
	}
	return h
}
