package publisher

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/jgoulah/gridstats/internal/config"
	"github.com/jgoulah/gridstats/pkg/models"
)

const publishTimeout = 10 * time.Second

// Publisher sends the headline figures to MQTT and/or Home Assistant
type Publisher struct {
	client      mqtt.Client
	topicPrefix string
	haConfig    config.HAConfig
	httpClient  *http.Client
	logger      *slog.Logger
}

// SummaryPayload is the retained message on <prefix>/summary
type SummaryPayload struct {
	TotalKWh           float64 `json:"total_kwh"`
	DailyAverage       float64 `json:"daily_average_kwh"`
	AvgCarbonIntensity float64 `json:"avg_carbon_intensity"`
	TotalDays          int     `json:"total_days"`
	Earliest           string  `json:"earliest,omitempty"`
	Latest             string  `json:"latest,omitempty"`
	DateRange          string  `json:"date_range,omitempty"`
}

// HAState is the body of a Home Assistant POST /api/states/<entity_id>
type HAState struct {
	State      string         `json:"state"`
	Attributes map[string]any `json:"attributes"`
}

// New creates a publisher for whichever outputs are enabled in cfg and
// connects to the MQTT broker when MQTT is enabled
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Publisher, error) {
	if logger == nil {
		logger = slog.Default()
	}

	// Validate HA config if enabled
	haCfg := cfg.HomeAssistant
	if haCfg.Enabled {
		if haCfg.URL == "" {
			return nil, fmt.Errorf("Home Assistant URL is required when enabled")
		}
		if haCfg.Token == "" {
			return nil, fmt.Errorf("Home Assistant token is required when enabled")
		}
		if haCfg.EntityID == "" {
			return nil, fmt.Errorf("Home Assistant entity_id is required when enabled")
		}
	}

	var client mqtt.Client
	if cfg.MQTT.Enabled {
		if cfg.MQTT.Broker == "" {
			return nil, fmt.Errorf("MQTT broker address is required when enabled")
		}

		opts := mqtt.NewClientOptions()
		opts.AddBroker(fmt.Sprintf("tcp://%s", cfg.MQTT.Broker))
		opts.SetClientID("gridstats-" + uuid.NewString()[:8])
		opts.SetCleanSession(true)
		opts.SetConnectTimeout(publishTimeout)
		if cfg.MQTT.Username != "" {
			opts.SetUsername(cfg.MQTT.Username)
		}
		if cfg.MQTT.Password != "" {
			opts.SetPassword(cfg.MQTT.Password)
		}

		client = mqtt.NewClient(opts)
		if err := connect(ctx, client); err != nil {
			return nil, err
		}
		logger.Info("mqtt connected", "broker", cfg.MQTT.Broker)
	}

	return newPublisher(client, cfg.GetTopicPrefix(), haCfg, &http.Client{Timeout: publishTimeout}, logger), nil
}

func newPublisher(client mqtt.Client, topicPrefix string, haCfg config.HAConfig, httpClient *http.Client, logger *slog.Logger) *Publisher {
	return &Publisher{
		client:      client,
		topicPrefix: topicPrefix,
		haConfig:    haCfg,
		httpClient:  httpClient,
		logger:      logger,
	}
}

// connect waits for the initial connection while respecting ctx
func connect(ctx context.Context, client mqtt.Client) error {
	token := client.Connect()
	const poll = 200 * time.Millisecond
	for {
		if token.WaitTimeout(poll) {
			if err := token.Error(); err != nil {
				return fmt.Errorf("connecting to MQTT broker: %w", err)
			}
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}
}

// Enabled reports whether any output is configured
func (p *Publisher) Enabled() bool {
	return p.client != nil || p.haConfig.Enabled
}

// Publish sends the summary and fuel mix to every enabled output
func (p *Publisher) Publish(ctx context.Context, summary models.Summary, mix models.FuelMix) error {
	if !p.Enabled() {
		return fmt.Errorf("neither MQTT nor Home Assistant publishing is enabled in config")
	}

	if p.client != nil {
		if err := p.publishJSON("summary", newSummaryPayload(summary)); err != nil {
			return err
		}
		if err := p.publishJSON("fuel_mix", mix); err != nil {
			return err
		}
	}

	if p.haConfig.Enabled {
		if err := p.publishState(ctx, summary); err != nil {
			return err
		}
	}

	return nil
}

func newSummaryPayload(s models.Summary) SummaryPayload {
	payload := SummaryPayload{
		TotalKWh:           s.TotalKWh,
		DailyAverage:       s.DailyAverage(),
		AvgCarbonIntensity: s.AvgCarbonIntensity,
		TotalDays:          s.TotalDays,
		DateRange:          s.DateRange(),
	}
	if s.TotalDays > 0 {
		payload.Earliest = models.DateKey(s.Earliest)
		payload.Latest = models.DateKey(s.Latest)
	}
	return payload
}

// publishJSON publishes v as a retained message on <prefix>/<suffix>
func (p *Publisher) publishJSON(suffix string, v any) error {
	topic := p.topicPrefix + "/" + suffix

	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s payload: %w", suffix, err)
	}

	token := p.client.Publish(topic, 1, true, data)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("publish timeout for topic %s", topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publishing %s: %w", topic, err)
	}

	p.logger.Debug("published", "topic", topic, "bytes", len(data))
	return nil
}

// publishState sets the Home Assistant entity to the total kWh
func (p *Publisher) publishState(ctx context.Context, s models.Summary) error {
	apiURL := fmt.Sprintf("%s/api/states/%s", strings.TrimSuffix(p.haConfig.URL, "/"), url.PathEscape(p.haConfig.EntityID))

	payload := HAState{
		State: fmt.Sprintf("%.2f", s.TotalKWh),
		Attributes: map[string]any{
			"unit_of_measurement":  "kWh",
			"device_class":         "energy",
			"friendly_name":        "Grid energy usage",
			"daily_average":        s.DailyAverage(),
			"avg_carbon_intensity": s.AvgCarbonIntensity,
			"total_days":           s.TotalDays,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.haConfig.Token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request error: %w", err)
	}
	defer resp.Body.Close()

	// 201 when the entity is created, 200 when it is updated
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("HTTP error: status %d, response: %s", resp.StatusCode, string(respBody))
	}

	p.logger.Debug("published Home Assistant state", "entity_id", p.haConfig.EntityID, "state", payload.State)
	return nil
}

// Close disconnects from the MQTT broker
func (p *Publisher) Close() {
	if p.client != nil && p.client.IsConnected() {
		p.client.Disconnect(250)
	}
}
