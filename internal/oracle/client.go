package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"tasador/server/internal/models"
)

// Client talks to the external natural-language market estimation service.
// The service is slow (seconds) and unreliable; every call is bounded by the
// configured timeout and any malformed answer surfaces as a *DecodeError so
// the resolver can fall back instead of failing the request.
type Client struct {
	logger  *logrus.Logger
	baseURL string
	client  *http.Client
}

// DecodeError reports a schema violation in the oracle's structured response.
type DecodeError struct {
	Field  string
	Reason string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("oracle response invalid: field %s %s", e.Field, e.Reason)
}

// Estimate is a validated oracle answer plus the accounting data the usage
// tracker needs.
type Estimate struct {
	Municipality    string
	Neighborhood    string
	Province        string
	MeanPricePerSqm float64
	MinPricePerSqm  float64
	MaxPricePerSqm  float64
	Demand          models.DemandLevel
	Trend           models.Trend
	ZoneDescription string

	Query         string
	ResponseBytes int
}

func NewClient(baseURL string, timeout time.Duration, logger *logrus.Logger) *Client {
	return &Client{
		logger:  logger,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

type estimateRequest struct {
	Query      string `json:"query"`
	PostalCode string `json:"postal_code"`
}

type estimateResponse struct {
	PostalCode      string   `json:"postal_code"`
	Municipality    string   `json:"municipality"`
	Neighborhood    string   `json:"neighborhood"`
	Province        string   `json:"province"`
	MeanPricePerSqm *float64 `json:"mean_price_per_sqm"`
	MinPricePerSqm  *float64 `json:"min_price_per_sqm"`
	MaxPricePerSqm  *float64 `json:"max_price_per_sqm"`
	Demand          string   `json:"demand"`
	Trend           string   `json:"trend"`
	ZoneDescription string   `json:"zone_description"`
}

// BuildQuery renders the property as the natural-language prompt the
// estimation service expects.
func BuildQuery(property models.PropertyData) string {
	var b strings.Builder

	kind := "residential property"
	if property.Type != nil {
		kind = property.Type.String()
	}
	fmt.Fprintf(&b, "Estimate the current market price per square meter for a %s of %.0f m2", kind, property.Area)
	fmt.Fprintf(&b, " with %d bedrooms", property.Bedrooms)
	if property.Bathrooms != nil {
		fmt.Fprintf(&b, " and %d bathrooms", *property.Bathrooms)
	}
	fmt.Fprintf(&b, " in postal code %s", property.PostalCode)
	if property.Municipality != "" {
		fmt.Fprintf(&b, " (%s)", property.Municipality)
	}
	if property.Floor != nil {
		fmt.Fprintf(&b, ", %s floor", property.Floor)
		if property.HasElevator != nil {
			if *property.HasElevator {
				b.WriteString(" with elevator")
			} else {
				b.WriteString(" without elevator")
			}
		}
	}
	if property.Age != nil {
		fmt.Fprintf(&b, ", %s building", property.Age)
	}
	if property.LandArea != nil {
		fmt.Fprintf(&b, ", %.0f m2 plot", *property.LandArea)
	}
	b.WriteString(". Respond with mean, minimum and maximum price per square meter, demand level and trend for the zone.")

	return b.String()
}

// EstimateMarket queries the oracle for one property. Network failures,
// non-200 statuses and schema violations all come back as errors; the caller
// owns the fallback policy.
func (c *Client) EstimateMarket(ctx context.Context, property models.PropertyData) (*Estimate, error) {
	query := BuildQuery(property)

	payload, err := json.Marshal(estimateRequest{
		Query:      query,
		PostalCode: property.PostalCode,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal oracle request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/market-estimate", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create oracle request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.WithError(err).WithField("postal_code", property.PostalCode).
			Error("Oracle request failed")
		return nil, fmt.Errorf("oracle request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read oracle response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.WithFields(logrus.Fields{
			"status":      resp.StatusCode,
			"postal_code": property.PostalCode,
		}).Error("Oracle returned non-OK status")
		return nil, fmt.Errorf("oracle returned status %d", resp.StatusCode)
	}

	var wire estimateResponse
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, &DecodeError{Field: "body", Reason: "is not valid JSON"}
	}

	est, err := validate(&wire)
	if err != nil {
		return nil, err
	}

	est.Query = query
	est.ResponseBytes = len(body)

	c.logger.WithFields(logrus.Fields{
		"postal_code":        property.PostalCode,
		"mean_price_per_sqm": est.MeanPricePerSqm,
		"duration_ms":        time.Since(start).Milliseconds(),
	}).Info("Oracle estimate received")

	return est, nil
}

// validate enforces the response schema: all three prices present and
// positive, ordered min <= mean <= max, demand and trend from their closed
// vocabularies.
func validate(wire *estimateResponse) (*Estimate, error) {
	if wire.MeanPricePerSqm == nil {
		return nil, &DecodeError{Field: "mean_price_per_sqm", Reason: "is missing"}
	}
	if wire.MinPricePerSqm == nil {
		return nil, &DecodeError{Field: "min_price_per_sqm", Reason: "is missing"}
	}
	if wire.MaxPricePerSqm == nil {
		return nil, &DecodeError{Field: "max_price_per_sqm", Reason: "is missing"}
	}
	if *wire.MeanPricePerSqm <= 0 {
		return nil, &DecodeError{Field: "mean_price_per_sqm", Reason: "must be positive"}
	}
	if *wire.MinPricePerSqm <= 0 {
		return nil, &DecodeError{Field: "min_price_per_sqm", Reason: "must be positive"}
	}
	if *wire.MaxPricePerSqm <= 0 {
		return nil, &DecodeError{Field: "max_price_per_sqm", Reason: "must be positive"}
	}
	if *wire.MinPricePerSqm > *wire.MeanPricePerSqm || *wire.MeanPricePerSqm > *wire.MaxPricePerSqm {
		return nil, &DecodeError{Field: "min_price_per_sqm", Reason: "violates min <= mean <= max"}
	}

	demand, err := models.ParseDemandLevel(wire.Demand)
	if err != nil {
		return nil, &DecodeError{Field: "demand", Reason: "is not one of high/medium/low"}
	}
	trend, err := models.ParseTrend(wire.Trend)
	if err != nil {
		return nil, &DecodeError{Field: "trend", Reason: "is not one of rising/stable/falling"}
	}

	return &Estimate{
		Municipality:    wire.Municipality,
		Neighborhood:    wire.Neighborhood,
		Province:        wire.Province,
		MeanPricePerSqm: *wire.MeanPricePerSqm,
		MinPricePerSqm:  *wire.MinPricePerSqm,
		MaxPricePerSqm:  *wire.MaxPricePerSqm,
		Demand:          demand,
		Trend:           trend,
		ZoneDescription: wire.ZoneDescription,
	}, nil
}
