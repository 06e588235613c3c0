package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/textselect/pkg/types/span"
)

// ─────────────────────────────────────────────────────────────────────────────
// Wire types
// ─────────────────────────────────────────────────────────────────────────────

// spanDTO is the wire form of a half-open codepoint span.
type spanDTO struct {
	First int `json:"first"`
	Last  int `json:"last"`
}

func (d spanDTO) toSpan() span.CodepointSpan {
	return span.CodepointSpan{First: d.First, Last: d.Last}
}

func fromSpan(s span.CodepointSpan) spanDTO {
	return spanDTO{First: s.First, Last: s.Last}
}

type selectionRequest struct {
	Context string  `json:"context" binding:"required"`
	Click   spanDTO `json:"click"`
}

type selectionResponse struct {
	Selection spanDTO `json:"selection"`
}

type classificationRequest struct {
	Context   string  `json:"context" binding:"required"`
	Selection spanDTO `json:"selection"`

	// Flags carries the caller's prior knowledge: 0x1 the text is a URL,
	// 0x2 the text is an e-mail address.
	Flags uint32 `json:"flags,omitempty"`
}

type classificationResponse struct {
	Classification []classScoreDTO `json:"classification"`
}

type classScoreDTO struct {
	Collection string  `json:"collection"`
	Score      float32 `json:"score"`
}

type annotationRequest struct {
	Context string `json:"context" binding:"required"`
}

type annotatedSpanDTO struct {
	Span           spanDTO         `json:"span"`
	Classification []classScoreDTO `json:"classification"`
}

type annotationResponse struct {
	Annotations []annotatedSpanDTO `json:"annotations"`
}

type healthResponse struct {
	Status      string `json:"status"`
	Initialized bool   `json:"initialized"`
	InstanceID  string `json:"instance_id"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func fromClassification(r span.ClassificationResult) []classScoreDTO {
	out := make([]classScoreDTO, 0, len(r))
	for _, cs := range r {
		out = append(out, classScoreDTO{Collection: cs.Collection, Score: cs.Score})
	}
	return out
}

// ─────────────────────────────────────────────────────────────────────────────
// Handlers
// ─────────────────────────────────────────────────────────────────────────────

type inferenceHandler struct {
	provider ContainerProvider
}

// suggestSelection handles POST /v1/selection.  Out-of-bounds clicks are not
// an HTTP error: the engine echoes them back, matching the embedding API.
func (h *inferenceHandler) suggestSelection(c *gin.Context) {
	var req selectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	sel := h.provider.Current().SuggestSelection(req.Context, req.Click.toSpan())
	c.JSON(http.StatusOK, selectionResponse{Selection: fromSpan(sel)})
}

// classifyText handles POST /v1/classification.
func (h *inferenceHandler) classifyText(c *gin.Context) {
	var req classificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	result := h.provider.Current().ClassifyText(
		req.Context, req.Selection.toSpan(), span.InputFlags(req.Flags))
	c.JSON(http.StatusOK, classificationResponse{Classification: fromClassification(result)})
}

// annotate handles POST /v1/annotations.
func (h *inferenceHandler) annotate(c *gin.Context) {
	var req annotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	annotations := h.provider.Current().Annotate(req.Context)
	out := make([]annotatedSpanDTO, 0, len(annotations))
	for _, a := range annotations {
		out = append(out, annotatedSpanDTO{
			Span:           fromSpan(a.Span),
			Classification: fromClassification(a.Classification),
		})
	}
	c.JSON(http.StatusOK, annotationResponse{Annotations: out})
}

// health handles GET /healthz.  A not-initialized container is reported as
// degraded with 503 so orchestrators can hold traffic until a valid model
// arrives.
func (h *inferenceHandler) health(c *gin.Context) {
	ct := h.provider.Current()
	resp := healthResponse{
		Status:      "ok",
		Initialized: ct.IsInitialized(),
		InstanceID:  ct.InstanceID(),
	}
	code := http.StatusOK
	if !ct.IsInitialized() {
		resp.Status = "degraded"
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, resp)
}
