package api

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	fhttp "github.com/bogdanfinn/fhttp"
	"github.com/tidwall/gjson"

	apierrors "github.com/diogo/chatbtc/internal/errors"
)

func newTestClient(t *testing.T, mock *MockHttpClient, opts ...ClientOption) *AnswerClient {
	t.Helper()
	opts = append([]ClientOption{WithHTTPClient(mock)}, opts...)
	client, err := NewClient(validConfig(), opts...)
	if err != nil {
		t.Fatalf("NewClient() returned error: %v", err)
	}
	return client
}

func TestAsk_Success(t *testing.T) {
	mock := NewMockHttpClient([]byte(`{"run":{"results":[[{"value":{"answer":"A decentralized currency."}}]]}}`), 200)
	client := newTestClient(t, mock)

	answer, err := client.Ask(context.Background(), "  What is Bitcoin?  ")
	if err != nil {
		t.Fatalf("Ask() returned error: %v", err)
	}
	if answer != "A decentralized currency." {
		t.Errorf("Ask() = %q", answer)
	}

	if len(mock.Requests) != 1 {
		t.Fatalf("expected 1 request, got %d", len(mock.Requests))
	}
	req := mock.Requests[0]
	if req.Method != fhttp.MethodPost {
		t.Errorf("Method = %s, want POST", req.Method)
	}
	if req.URL.String() != "https://answers.example.com/api/run" {
		t.Errorf("URL = %s", req.URL.String())
	}
	if got := req.Header.Get("Authorization"); got != "Bearer test-key" {
		t.Errorf("Authorization = %q", got)
	}
	if got := req.Header.Get("Content-Type"); got != "application/json" {
		t.Errorf("Content-Type = %q", got)
	}

	body := gjson.ParseBytes(mock.LastBody())
	if got := body.Get("specification_hash").String(); got != "spec-hash" {
		t.Errorf("specification_hash = %q", got)
	}
	if body.Get("stream").Bool() || !body.Get("blocking").Bool() {
		t.Errorf("expected stream=false blocking=true, got %s", mock.LastBody())
	}
	if got := body.Get("inputs.0.question").String(); got != "What is Bitcoin?" {
		t.Errorf("question = %q, want trimmed query", got)
	}
	if !body.Get("config.MODEL_SUMMARIZE").Exists() {
		t.Error("expected pipeline block in config")
	}

	if !mock.Response.Body.(*MockResponseBody).closed {
		t.Error("response body should be closed")
	}
}

func TestAsk_Failures(t *testing.T) {
	tests := []struct {
		name  string
		mock  *MockHttpClient
		check func(error) bool
		label string
	}{
		{
			name:  "missing answer field",
			mock:  NewMockHttpClient([]byte(`{"run":{"results":[[{"value":{}}]]}}`), 200),
			check: apierrors.IsNoAnswer,
			label: "no answer",
		},
		{
			name:  "empty results",
			mock:  NewMockHttpClient([]byte(`{"run":{"results":[]}}`), 200),
			check: apierrors.IsNoAnswer,
			label: "no answer",
		},
		{
			name:  "empty inner results",
			mock:  NewMockHttpClient([]byte(`{"run":{"results":[[]]}}`), 200),
			check: apierrors.IsNoAnswer,
			label: "no answer",
		},
		{
			name:  "no run",
			mock:  NewMockHttpClient([]byte(`{"error":"spec not found"}`), 200),
			check: apierrors.IsNoAnswer,
			label: "no answer",
		},
		{
			name:  "empty answer string",
			mock:  NewMockHttpClient([]byte(`{"run":{"results":[[{"value":{"answer":""}}]]}}`), 200),
			check: apierrors.IsNoAnswer,
			label: "no answer",
		},
		{
			name:  "null answer",
			mock:  NewMockHttpClient([]byte(`{"run":{"results":[[{"value":{"answer":null}}]]}}`), 200),
			check: apierrors.IsNoAnswer,
			label: "no answer",
		},
		{
			name:  "malformed json",
			mock:  NewMockHttpClient([]byte(`{"run":`), 200),
			check: apierrors.IsParseError,
			label: "parse error",
		},
		{
			name:  "empty body",
			mock:  NewMockHttpClient([]byte(``), 200),
			check: apierrors.IsParseError,
			label: "parse error",
		},
		{
			name:  "unauthorized",
			mock:  NewMockHttpClient([]byte(`{"error":"bad key"}`), 401),
			check: apierrors.IsAPIError,
			label: "api error",
		},
		{
			name:  "server error",
			mock:  NewMockHttpClient([]byte(`oops`), 500),
			check: apierrors.IsAPIError,
			label: "api error",
		},
		{
			name:  "transport failure",
			mock:  NewMockHttpClientWithError(errors.New("dial tcp: connection refused")),
			check: apierrors.IsNetworkError,
			label: "network error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, tt.mock)

			answer, err := client.Ask(context.Background(), "What is Bitcoin?")
			if err == nil {
				t.Fatalf("expected error, got answer %q", answer)
			}
			if answer != "" {
				t.Errorf("expected empty answer on failure, got %q", answer)
			}
			if !tt.check(err) {
				t.Errorf("expected %s, got %v", tt.label, err)
			}
			if msg := apierrors.UserMessage(err); msg != apierrors.DefaultFailureMessage {
				t.Errorf("UserMessage() = %q, want default failure message", msg)
			}
		})
	}
}

func TestAsk_APIErrorKeepsStatusAndBody(t *testing.T) {
	client := newTestClient(t, NewMockHttpClient([]byte(`{"error":"bad key"}`), 403))

	_, err := client.Ask(context.Background(), "q")
	if status := apierrors.GetHTTPStatus(err); status != 403 {
		t.Errorf("GetHTTPStatus() = %d, want 403", status)
	}
	if body := apierrors.GetResponseBody(err); !strings.Contains(body, "bad key") {
		t.Errorf("GetResponseBody() = %q", body)
	}
}

func TestAsk_EmptyQuestion(t *testing.T) {
	mock := NewMockHttpClient(nil, 200)
	client := newTestClient(t, mock)

	if _, err := client.Ask(context.Background(), "   "); err == nil {
		t.Error("expected error for blank question")
	}
	if len(mock.Requests) != 0 {
		t.Error("blank question must not reach the network")
	}
}

func TestAsk_ClosedClient(t *testing.T) {
	mock := NewMockHttpClient(nil, 200)
	client := newTestClient(t, mock)
	client.Close()

	_, err := client.Ask(context.Background(), "q")
	if !errors.Is(err, apierrors.ErrClientClosed) {
		t.Errorf("expected ErrClientClosed, got %v", err)
	}
	if apierrors.UserMessage(err) == apierrors.DefaultFailureMessage {
		t.Error("closed client error should carry its own transcript text")
	}
	if len(mock.Requests) != 0 {
		t.Error("closed client must not reach the network")
	}
}

func TestAsk_ContextCanceled(t *testing.T) {
	mock := &MockHttpClient{
		DoFunc: func(req *fhttp.Request) (*fhttp.Response, error) {
			<-req.Context().Done()
			return nil, errors.New("request aborted")
		},
	}
	client := newTestClient(t, mock)

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	var err error
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err = client.Ask(ctx, "q")
	}()

	cancel()
	wg.Wait()

	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if !apierrors.IsNetworkError(err) {
		t.Errorf("expected NetworkError, got %v", err)
	}
}

func TestAsk_Timeout(t *testing.T) {
	mock := &MockHttpClient{
		DoFunc: func(req *fhttp.Request) (*fhttp.Response, error) {
			<-req.Context().Done()
			return nil, errors.New("request aborted")
		},
	}
	client := newTestClient(t, mock, WithTimeout(20*time.Millisecond))

	_, err := client.Ask(context.Background(), "q")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected context.DeadlineExceeded, got %v", err)
	}
}

func TestAsk_NoTimeoutByDefault(t *testing.T) {
	var deadlineSet bool
	mock := &MockHttpClient{
		DoFunc: func(req *fhttp.Request) (*fhttp.Response, error) {
			_, deadlineSet = req.Context().Deadline()
			return &fhttp.Response{
				StatusCode: 200,
				Body:       NewMockResponseBody([]byte(`{"run":{"results":[[{"value":{"answer":"ok"}}]]}}`)),
			}, nil
		},
	}
	client := newTestClient(t, mock)

	if _, err := client.Ask(context.Background(), "q"); err != nil {
		t.Fatalf("Ask() returned error: %v", err)
	}
	if deadlineSet {
		t.Error("request must not carry a deadline when no timeout is configured")
	}
}

func TestParseAnswer_MultipleResults(t *testing.T) {
	body := []byte(`{"run":{"results":[[{"value":{"answer":"first"}},{"value":{"answer":"second"}}],[{"value":{"answer":"third"}}]]}}`)

	answer, err := parseAnswer(body)
	if err != nil {
		t.Fatalf("parseAnswer() returned error: %v", err)
	}
	if answer != "first" {
		t.Errorf("parseAnswer() = %q, want first result's first element", answer)
	}
}

func TestParseAnswer_ScalarAnswers(t *testing.T) {
	tests := []struct {
		name   string
		answer string
		want   string
		ok     bool
	}{
		{"string", `"21 million"`, "21 million", true},
		{"integer", `42`, "42", true},
		{"float", `4.20`, "4.2", true},
		{"negative", `-1`, "-1", true},
		{"true", `true`, "true", true},
		{"empty string", `""`, "", false},
		{"zero", `0`, "", false},
		{"false", `false`, "", false},
		{"null", `null`, "", false},
		{"object", `{"text":"x"}`, "", false},
		{"array", `["x"]`, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := []byte(`{"run":{"results":[[{"value":{"answer":` + tt.answer + `}}]]}}`)
			got, err := parseAnswer(body)
			if !tt.ok {
				if !apierrors.IsNoAnswer(err) {
					t.Errorf("expected no answer, got %q, %v", got, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseAnswer() returned error: %v", err)
			}
			if got != tt.want {
				t.Errorf("parseAnswer() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuildPayload(t *testing.T) {
	payload, err := buildPayload("h", nil, "q")
	if err != nil {
		t.Fatalf("buildPayload() returned error: %v", err)
	}
	if !gjson.ValidBytes(payload) {
		t.Fatal("payload is not valid JSON")
	}
	if gjson.GetBytes(payload, "inputs.#").Int() != 1 {
		t.Error("expected exactly one input")
	}
}
