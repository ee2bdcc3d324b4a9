package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	http "github.com/bogdanfinn/fhttp"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	apierrors "github.com/diogo/chatbtc/internal/errors"
	"github.com/diogo/chatbtc/internal/models"
)

// maxErrorBody limits how much of a failed response is kept for diagnostics
const maxErrorBody = 4096

// Ask posts one question to the answer service and returns the answer text.
// Every failure (transport, status, malformed body, missing answer) is
// returned as an error; callers decide how to present it.
func (c *AnswerClient) Ask(ctx context.Context, question string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", fmt.Errorf("question cannot be empty")
	}

	if c.IsClosed() {
		return "", apierrors.ErrClientClosed
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	payload, err := buildPayload(c.specHash, c.pipeline, question)
	if err != nil {
		return "", fmt.Errorf("failed to build payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		}
		c.logger.Debug("answer request failed",
			zap.String("endpoint", c.baseURL),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return "", apierrors.NewNetworkError("ask", c.baseURL, err)
	}
	defer func() {
		if resp != nil && resp.Body != nil {
			_ = resp.Body.Close()
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		errorBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.logger.Debug("answer request rejected",
			zap.String("endpoint", c.baseURL),
			zap.Int("status", resp.StatusCode),
			zap.Duration("elapsed", time.Since(start)))
		return "", apierrors.NewAPIErrorWithBody(resp.StatusCode, c.baseURL, "answer request failed", string(errorBody))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", apierrors.NewNetworkError("read answer", c.baseURL, err)
	}

	c.logger.Debug("answer received",
		zap.String("endpoint", c.baseURL),
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(body)),
		zap.Duration("elapsed", time.Since(start)))

	return parseAnswer(body)
}

// buildPayload creates the JSON body for one question
func buildPayload(specHash string, pipeline json.RawMessage, question string) ([]byte, error) {
	return json.Marshal(models.NewAnswerRequest(specHash, pipeline, question))
}

// parseAnswer extracts the answer text from a response body.
func parseAnswer(body []byte) (string, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return "", apierrors.NewParseError("empty response body", "")
	}
	if !gjson.ValidBytes(body) {
		return "", apierrors.NewParseError("response is not valid JSON", "")
	}

	parsed := gjson.ParseBytes(body)

	results := parsed.Get(PathResults)
	if !results.Exists() || !results.IsArray() {
		return "", fmt.Errorf("%w: missing %s", apierrors.ErrNoAnswer, PathResults)
	}

	text, ok := answerText(parsed.Get(PathAnswer))
	if !ok {
		return "", fmt.Errorf("%w: missing %s", apierrors.ErrNoAnswer, PathAnswer)
	}

	return text, nil
}

// answerText converts a truthy scalar answer to display text. Empty strings,
// zero, false, null, objects and arrays yield no answer.
func answerText(answer gjson.Result) (string, bool) {
	switch answer.Type {
	case gjson.String:
		return answer.Str, answer.Str != ""
	case gjson.Number:
		if answer.Num == 0 {
			return "", false
		}
		return strconv.FormatFloat(answer.Num, 'f', -1, 64), true
	case gjson.True:
		return "true", true
	default:
		return "", false
	}
}
