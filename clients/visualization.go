package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// --- Visualization (chart rendering) ---

// TimelineReq plots compound sentiment per utterance, coloured by speaker.
type TimelineReq struct {
	CallID       string    `json:"call_id"`
	UtteranceIDs []int     `json:"utterance_ids"`
	Compound     []float64 `json:"compound"`
	Smoothed     []float64 `json:"smoothed"`
	Speakers     []string  `json:"speakers"`
	OutputDir    string    `json:"output_dir,omitempty"`
}

// RadarReq plots the average emotion counts of a call.
type RadarReq struct {
	CallID     string    `json:"call_id"`
	Categories []string  `json:"categories"`
	Values     []float64 `json:"values"`
	OutputDir  string    `json:"output_dir,omitempty"`
}

type ChartResp struct {
	Status string `json:"status"`
	Path   string `json:"path"`
}

func (h *HTTP) GenerateTimeline(ctx context.Context, url string, req TimelineReq) (*ChartResp, error) {
	return h.postChart(ctx, "viz timeline", url+"/generate-timeline", req)
}

func (h *HTTP) GenerateRadar(ctx context.Context, url string, req RadarReq) (*ChartResp, error) {
	return h.postChart(ctx, "viz radar", url+"/generate-radar", req)
}

func (h *HTTP) postChart(ctx context.Context, svc, endpoint string, body any) (*ChartResp, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("%s encode: %w", svc, err)
	}
	r, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	r.Header.Set("Content-Type", "application/json")
	resp, err := h.c.Do(r)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(svc, resp)
	}

	var out ChartResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%s decode: %w", svc, err)
	}
	return &out, nil
}
