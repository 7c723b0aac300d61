package ml

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/go-querystring/query"
)

// DefaultTimeout bounds every call to the classification service. The
// service is treated as unreliable; callers are expected to fall back when
// any call errors out.
const DefaultTimeout = 5 * time.Second

// Client talks to the external hazard classification / priority service.
type Client struct {
	BaseURL string
	Client  *http.Client
	Timeout time.Duration
}

func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{},
		Timeout: timeout,
	}
}

type textClassifyForm struct {
	Description string `url:"description"`
}

type imageClassifyRequest struct {
	ImageBase64 string `json:"image_base64"`
}

type classifyResponse struct {
	PredictedClass string `json:"predicted_class"`
}

type priorityForm struct {
	Lat       float64 `url:"lat"`
	Lon       float64 `url:"lon"`
	Type      string  `url:"type,omitempty"`
	TimeOfDay string  `url:"time_of_day,omitempty"`
}

type priorityResponse struct {
	Priority string `json:"priority"`
}

// ClassifyText sends a report description to the text classifier and
// returns the predicted hazard class.
func (c *Client) ClassifyText(ctx context.Context, description string) (string, error) {
	form := textClassifyForm{Description: description}

	var resp classifyResponse
	if err := c.postForm(ctx, "/classify/text/", form, &resp); err != nil {
		return "", err
	}
	if resp.PredictedClass == "" {
		return "", fmt.Errorf("text classifier returned no class")
	}
	return resp.PredictedClass, nil
}

// ClassifyImage sends a base64-encoded image to the image classifier.
func (c *Client) ClassifyImage(ctx context.Context, imageBase64 string) (string, error) {
	var resp classifyResponse
	if err := c.postJSON(ctx, "/classify/image/", imageClassifyRequest{ImageBase64: imageBase64}, &resp); err != nil {
		return "", err
	}
	if resp.PredictedClass == "" {
		return "", fmt.Errorf("image classifier returned no class")
	}
	return resp.PredictedClass, nil
}

// PredictPriority asks the priority model to score a hazard location.
func (c *Client) PredictPriority(ctx context.Context, lat, lon float64, hazardType, timeOfDay string) (string, error) {
	form := priorityForm{Lat: lat, Lon: lon, Type: hazardType, TimeOfDay: timeOfDay}

	var resp priorityResponse
	if err := c.postForm(ctx, "/priority/", form, &resp); err != nil {
		return "", err
	}
	if resp.Priority == "" {
		return "", fmt.Errorf("priority predictor returned no label")
	}
	return resp.Priority, nil
}

// Chat forwards a user message to the service's chatbot endpoint. Unlike the
// classification calls this has no fallback; the caller surfaces failures.
func (c *Client) Chat(ctx context.Context, message string) (map[string]interface{}, error) {
	var resp map[string]interface{}
	if err := c.postJSON(ctx, "/chat/", map[string]string{"message": message}, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) postForm(ctx context.Context, path string, form interface{}, target interface{}) error {
	vals, err := query.Values(form)
	if err != nil {
		return fmt.Errorf("encoding form for %s: %w", path, err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, strings.NewReader(vals.Encode()))
	if err != nil {
		return fmt.Errorf("creating request for %s: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return c.do(req, path, target)
}

func (c *Client) postJSON(ctx context.Context, path string, payload interface{}, target interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding payload for %s: %w", path, err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request for %s: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, path, target)
}

func (c *Client) do(req *http.Request, path string, target interface{}) error {
	resp, err := c.Client.Do(req)
	if err != nil {
		return fmt.Errorf("calling ML service %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("ML service %s returned status %d", path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("decoding ML service %s response: %w", path, err)
	}
	return nil
}
