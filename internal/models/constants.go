package models

import "encoding/json"

// Greeting seeds every new session
const Greeting = "Hi there! How can I help?"

// AppName is shown in headers and as the answer label
const AppName = "ChatBTC"

// DefaultPipelineConfig is the per-feature provider/model/caching block sent
// with every request. The client never interprets it.
var DefaultPipelineConfig = json.RawMessage(`{
  "MODEL_SUMMARIZE": {
    "provider_id": "openai",
    "model_id": "text-davinci-002",
    "use_cache": true
  },
  "WEBCONTENT": {
    "provider_id": "browserlessapi",
    "use_cache": true,
    "error_as_output": false
  },
  "GOOGLE_CUSTOM_SEARCH": {
    "use_cache": true
  },
  "MODEL_ANSWER_WITH_REFS": {
    "provider_id": "openai",
    "model_id": "text-davinci-002",
    "use_cache": true
  }
}`)

// QuestionInput is one entry of the request's inputs array
type QuestionInput struct {
	Question string `json:"question"`
}

// AnswerRequest is the JSON body posted to the answer service
type AnswerRequest struct {
	SpecificationHash string          `json:"specification_hash"`
	Config            json.RawMessage `json:"config"`
	Stream            bool            `json:"stream"`
	Blocking          bool            `json:"blocking"`
	Inputs            []QuestionInput `json:"inputs"`
}

// NewAnswerRequest builds a blocking, non-streaming request for one question
func NewAnswerRequest(specHash string, pipeline json.RawMessage, question string) AnswerRequest {
	if len(pipeline) == 0 {
		pipeline = DefaultPipelineConfig
	}
	return AnswerRequest{
		SpecificationHash: specHash,
		Config:            pipeline,
		Stream:            false,
		Blocking:          true,
		Inputs:            []QuestionInput{{Question: question}},
	}
}
