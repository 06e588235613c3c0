package client

import "context"

// Span is the wire form of a half-open codepoint span [First, Last).
type Span struct {
	First int `json:"first"`
	Last  int `json:"last"`
}

// ClassScore is one (collection, score) classification entry.
type ClassScore struct {
	Collection string  `json:"collection"`
	Score      float32 `json:"score"`
}

// AnnotatedSpan pairs a span with its classification, best entry first.
type AnnotatedSpan struct {
	Span           Span         `json:"span"`
	Classification []ClassScore `json:"classification"`
}

// Health is the server's /healthz response.
type Health struct {
	Status      string `json:"status"`
	Initialized bool   `json:"initialized"`
	InstanceID  string `json:"instance_id"`
}

// Classification hint flags, matching the embedding API.
const (
	// FlagURL marks the selection as a known URL.
	FlagURL uint32 = 0x1
	// FlagEmail marks the selection as a known email address.
	FlagEmail uint32 = 0x2
)

type selectionRequest struct {
	Context string `json:"context"`
	Click   Span   `json:"click"`
}

type selectionResponse struct {
	Selection Span `json:"selection"`
}

type classificationRequest struct {
	Context   string `json:"context"`
	Selection Span   `json:"selection"`
	Flags     uint32 `json:"flags,omitempty"`
}

type classificationResponse struct {
	Classification []ClassScore `json:"classification"`
}

type annotationRequest struct {
	Context string `json:"context"`
}

type annotationResponse struct {
	Annotations []AnnotatedSpan `json:"annotations"`
}

// SuggestSelection expands the clicked span within text to the server's best
// selection candidate.  Degradations echo the click indices back unchanged.
func (c *Client) SuggestSelection(ctx context.Context, text string, click Span) (Span, error) {
	var resp selectionResponse
	err := c.post(ctx, "/v1/selection", selectionRequest{Context: text, Click: click}, &resp)
	if err != nil {
		return Span{}, err
	}
	return resp.Selection, nil
}

// ClassifyText classifies the selected span of text; the result is ordered
// best first and empty when the span could not be classified.
func (c *Client) ClassifyText(ctx context.Context, text string, selection Span, flags uint32) ([]ClassScore, error) {
	var resp classificationResponse
	err := c.post(ctx, "/v1/classification", classificationRequest{
		Context:   text,
		Selection: selection,
		Flags:     flags,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Classification, nil
}

// Annotate detects all classifiable spans in text, non-overlapping and
// ordered by start offset.
func (c *Client) Annotate(ctx context.Context, text string) ([]AnnotatedSpan, error) {
	var resp annotationResponse
	err := c.post(ctx, "/v1/annotations", annotationRequest{Context: text}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Annotations, nil
}

// Healthz probes the server's health endpoint.  A degraded server answers
// 503, which surfaces as an *APIError with IsUnavailable() == true.
func (c *Client) Healthz(ctx context.Context) (Health, error) {
	var resp Health
	if err := c.get(ctx, "/healthz", &resp); err != nil {
		return Health{}, err
	}
	return resp, nil
}
