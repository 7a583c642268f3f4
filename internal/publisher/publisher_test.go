package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jgoulah/gridstats/internal/config"
	"github.com/jgoulah/gridstats/pkg/models"
)

type fakeToken struct {
	mqtt.Token
	err error
}

func (t *fakeToken) Wait() bool                     { return true }
func (t *fakeToken) WaitTimeout(time.Duration) bool { return true }
func (t *fakeToken) Error() error                   { return t.err }

type message struct {
	topic    string
	retained bool
	payload  []byte
}

// fakeClient records publishes; methods it does not override panic
type fakeClient struct {
	mqtt.Client
	mu           sync.Mutex
	messages     []message
	err          error
	disconnected bool
}

func (c *fakeClient) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, message{topic: topic, retained: retained, payload: payload.([]byte)})
	return &fakeToken{err: c.err}
}

func (c *fakeClient) IsConnected() bool { return !c.disconnected }

func (c *fakeClient) Disconnect(quiesce uint) { c.disconnected = true }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testSummary() models.Summary {
	return models.Summary{
		TotalKWh:           123.456,
		AvgCarbonIntensity: 180.5,
		Earliest:           time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC),
		Latest:             time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC),
		TotalDays:          4,
	}
}

func TestPublishMQTT(t *testing.T) {
	client := &fakeClient{}
	p := newPublisher(client, "home/energy", config.HAConfig{}, http.DefaultClient, testLogger())

	mix := models.FuelMix{WindPct: 60, GasPct: 40}
	require.NoError(t, p.Publish(context.Background(), testSummary(), mix))

	require.Len(t, client.messages, 2)
	assert.Equal(t, "home/energy/summary", client.messages[0].topic)
	assert.Equal(t, "home/energy/fuel_mix", client.messages[1].topic)
	for _, m := range client.messages {
		assert.True(t, m.retained, m.topic)
	}

	var summary SummaryPayload
	require.NoError(t, json.Unmarshal(client.messages[0].payload, &summary))
	assert.Equal(t, SummaryPayload{
		TotalKWh:           123.456,
		DailyAverage:       30.864,
		AvgCarbonIntensity: 180.5,
		TotalDays:          4,
		Earliest:           "2024-01-03",
		Latest:             "2024-03-09",
		DateRange:          "Jan 2024 – Mar 2024",
	}, summary)

	var decoded models.FuelMix
	require.NoError(t, json.Unmarshal(client.messages[1].payload, &decoded))
	assert.Equal(t, mix, decoded)
}

func TestPublishMQTTError(t *testing.T) {
	client := &fakeClient{err: errors.New("not connected")}
	p := newPublisher(client, "gridstats", config.HAConfig{}, http.DefaultClient, testLogger())

	err := p.Publish(context.Background(), testSummary(), models.FuelMix{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gridstats/summary")
	assert.Len(t, client.messages, 1)
}

func TestPublishEmptySummary(t *testing.T) {
	client := &fakeClient{}
	p := newPublisher(client, "gridstats", config.HAConfig{}, http.DefaultClient, testLogger())

	require.NoError(t, p.Publish(context.Background(), models.Summary{}, models.FuelMix{}))

	var summary map[string]any
	require.NoError(t, json.Unmarshal(client.messages[0].payload, &summary))
	assert.NotContains(t, summary, "earliest")
	assert.Equal(t, 0.0, summary["daily_average_kwh"])
}

func TestPublishHomeAssistant(t *testing.T) {
	var (
		gotPath string
		gotAuth string
		gotBody HAState
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	ha := config.HAConfig{Enabled: true, URL: srv.URL + "/", Token: "secret", EntityID: "sensor.grid_kwh"}
	p := newPublisher(nil, "gridstats", ha, srv.Client(), testLogger())

	require.NoError(t, p.Publish(context.Background(), testSummary(), models.FuelMix{}))
	assert.Equal(t, "/api/states/sensor.grid_kwh", gotPath)
	assert.Equal(t, "Bearer secret", gotAuth)
	assert.Equal(t, "123.46", gotBody.State)
	assert.Equal(t, "kWh", gotBody.Attributes["unit_of_measurement"])
	assert.Equal(t, 4.0, gotBody.Attributes["total_days"])
}

func TestPublishHomeAssistantHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	}))
	defer srv.Close()

	ha := config.HAConfig{Enabled: true, URL: srv.URL, Token: "bad", EntityID: "sensor.grid_kwh"}
	p := newPublisher(nil, "gridstats", ha, srv.Client(), testLogger())

	err := p.Publish(context.Background(), testSummary(), models.FuelMix{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
	assert.Contains(t, err.Error(), "unauthorized")
}

func TestPublishNothingEnabled(t *testing.T) {
	p := newPublisher(nil, "gridstats", config.HAConfig{}, http.DefaultClient, testLogger())
	assert.False(t, p.Enabled())
	assert.Error(t, p.Publish(context.Background(), testSummary(), models.FuelMix{}))
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.Config
	}{
		{name: "ha without url", cfg: config.Config{HomeAssistant: config.HAConfig{Enabled: true, Token: "t", EntityID: "sensor.x"}}},
		{name: "ha without token", cfg: config.Config{HomeAssistant: config.HAConfig{Enabled: true, URL: "http://ha", EntityID: "sensor.x"}}},
		{name: "ha without entity", cfg: config.Config{HomeAssistant: config.HAConfig{Enabled: true, URL: "http://ha", Token: "t"}}},
		{name: "mqtt without broker", cfg: config.Config{MQTT: config.MQTTConfig{Enabled: true}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(context.Background(), &tt.cfg, testLogger())
			assert.Error(t, err)
		})
	}
}

func TestClose(t *testing.T) {
	client := &fakeClient{}
	p := newPublisher(client, "gridstats", config.HAConfig{}, http.DefaultClient, testLogger())
	p.Close()
	assert.True(t, client.disconnected)

	// No client is a no-op.
	newPublisher(nil, "gridstats", config.HAConfig{}, http.DefaultClient, testLogger()).Close()
}
