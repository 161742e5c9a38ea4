// Package openweather implements the weather tool backed by the OpenWeather
// current-conditions API. The provider response is normalized into a
// core.ToolResult tagged with ToolKindWeather.
package openweather

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/hupe1980/agentgate/core"
	"github.com/hupe1980/agentgate/internal/util"
	"github.com/hupe1980/agentgate/tool"
)

const providerName = "openweather"

// DefaultBaseURL is the OpenWeather current-conditions endpoint.
const DefaultBaseURL = "https://api.openweathermap.org/data/2.5/weather"

// Args is the argument schema for the weather tool. Either a location name or
// a lat/lon pair must be supplied; unit defaults to metric.
type Args struct {
	Location string   `json:"location,omitempty" description:"City name, optionally with country code, e.g. 'Tokyo' or 'Berlin,DE'"`
	Lat      *float64 `json:"lat,omitempty" description:"Latitude, used together with lon instead of a location name"`
	Lon      *float64 `json:"lon,omitempty" description:"Longitude, used together with lat instead of a location name"`
	Unit     string   `json:"unit,omitempty" description:"Unit system: 'metric' or 'imperial'"`
}

// Options configures the weather tool.
type Options struct {
	BaseURL string
	Timeout time.Duration
	Client  *http.Client
}

// Tool fetches current weather conditions for a location. It issues exactly
// one outbound HTTP GET per Call and never retries.
type Tool struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// New constructs a weather tool. The API key must be non-empty; that is
// enforced at configuration load, not per call.
func New(apiKey string, optFns ...func(o *Options)) *Tool {
	opts := Options{
		BaseURL: DefaultBaseURL,
		Timeout: 15 * time.Second,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}
	return &Tool{apiKey: apiKey, baseURL: opts.BaseURL, client: client}
}

// Name returns the unique tool name used in function declarations.
func (t *Tool) Name() string { return "fetch_weather" }

// Description returns the description exposed to models.
func (t *Tool) Description() string {
	return "Fetch current weather conditions for a location given its name or coordinates"
}

// Parameters returns the JSON schema describing accepted arguments.
func (t *Tool) Parameters() map[string]any { return util.CreateSchema(Args{}) }

// Kind tags the payload as weather data.
func (t *Tool) Kind() core.ToolKind { return core.ToolKindWeather }

// conditions mirrors the subset of the OpenWeather response the tool maps.
type conditions struct {
	Name string `json:"name"`
	Sys  struct {
		Country string `json:"country"`
		Sunrise int64  `json:"sunrise"`
		Sunset  int64  `json:"sunset"`
	} `json:"sys"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  float64 `json:"humidity"`
		Pressure  float64 `json:"pressure"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Visibility *int   `json:"visibility"`
	Message    string `json:"message"` // populated on error payloads
}

// Call fetches current conditions. The request context bounds the outbound call.
func (t *Tool) Call(toolCtx *core.ToolContext, args map[string]any) (*core.ToolResult, error) {
	unit := "metric"
	if u, ok := tool.StringArg(args, "unit"); ok {
		unit = u
	}

	params := url.Values{}
	params.Set("appid", t.apiKey)
	params.Set("units", unit)

	lat, hasLat := tool.FloatArg(args, "lat")
	lon, hasLon := tool.FloatArg(args, "lon")
	location, hasLocation := tool.StringArg(args, "location")

	switch {
	case hasLat && hasLon:
		params.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
		params.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	case hasLocation:
		params.Set("q", location)
	default:
		return nil, &core.ValidationError{
			Field:   "location",
			Message: "provide either a location name or lat/lon coordinates",
		}
	}

	req, err := http.NewRequestWithContext(toolCtx.Context(), http.MethodGet, t.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, &core.ProviderError{Provider: providerName, Message: "building request failed", Err: err}
	}

	start := time.Now()
	resp, err := t.client.Do(req)
	if err != nil {
		return nil, &core.ProviderError{Provider: providerName, Message: "request failed", Err: err}
	}
	defer resp.Body.Close()

	var res conditions
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return nil, &core.ProviderError{
			Provider:   providerName,
			StatusCode: resp.StatusCode,
			Message:    "unparseable response body",
			Err:        err,
		}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, t.statusError(resp.StatusCode, res.Message)
	}
	if len(res.Weather) == 0 {
		return nil, &core.ProviderError{
			Provider:   providerName,
			StatusCode: resp.StatusCode,
			Message:    "response missing weather conditions",
		}
	}

	toolCtx.Logger().Info("tool.call.success",
		"tool", t.Name(),
		"fc_id", toolCtx.FunctionCallID(),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	data := map[string]any{
		"location":    fmt.Sprintf("%s, %s", res.Name, res.Sys.Country),
		"temperature": res.Main.Temp,
		"feels_like":  res.Main.FeelsLike,
		"humidity":    res.Main.Humidity,
		"pressure":    res.Main.Pressure,
		"condition":   res.Weather[0].Description,
		"wind_speed":  res.Wind.Speed,
		"sunrise":     time.Unix(res.Sys.Sunrise, 0).UTC().Format(time.RFC3339),
		"sunset":      time.Unix(res.Sys.Sunset, 0).UTC().Format(time.RFC3339),
	}
	if res.Visibility != nil {
		data["visibility"] = *res.Visibility
	}

	return &core.ToolResult{Kind: core.ToolKindWeather, Data: data}, nil
}

func (t *Tool) statusError(status int, message string) *core.ProviderError {
	switch status {
	case http.StatusUnauthorized:
		message = "invalid weather API key"
	case http.StatusNotFound:
		message = "location not found"
	default:
		if message == "" {
			message = "unexpected status"
		}
	}
	return &core.ProviderError{Provider: providerName, StatusCode: status, Message: message}
}
