// Package marketingminer exposes the Marketing Miner keyword research
// endpoints as MCP tools.
//
// Both tools return plain text. Validation failures, upstream errors and
// empty results all come back through the same text channel; the caller
// never sees a protocol-level error for a failed lookup.
package marketingminer

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"marketingminer-mcp/server/internal/modules"
	"marketingminer-mcp/server/pkg/marketingminerapi"
)

// Tool names as exposed over MCP.
const (
	ToolKeywordSuggestions = "get_keyword_suggestions"
	ToolSearchVolumeData   = "get_search_volume_data"
)

// Supported argument enumerations. Unsupported values produce a guidance
// message listing exactly these sets.
var (
	Languages        = []string{"cs", "sk", "pl", "hu", "ro", "gb", "us"}
	SuggestionsTypes = []string{"questions", "new", "trending"}
)

// MarketingMinerModule implements the Module interface for the Marketing
// Miner Profilers API.
type MarketingMinerModule struct {
	client *marketingminerapi.Client
}

// New creates the module around an API client. The client carries the
// credential; the module itself is stateless.
func New(client *marketingminerapi.Client) *MarketingMinerModule {
	return &MarketingMinerModule{client: client}
}

// Name returns the module name
func (m *MarketingMinerModule) Name() string {
	return "marketingminer"
}

// Description returns the module description
func (m *MarketingMinerModule) Description() string {
	return "Marketing Miner API - keyword suggestions and search volume lookups"
}

// Tools returns all available tools
func (m *MarketingMinerModule) Tools() []modules.Tool {
	return toolDefinitions
}

// ExecuteTool executes a tool by name and returns its text result.
func (m *MarketingMinerModule) ExecuteTool(ctx context.Context, name string, params map[string]any) (string, error) {
	switch name {
	case ToolKeywordSuggestions:
		return m.getKeywordSuggestions(ctx, params), nil
	case ToolSearchVolumeData:
		return m.getSearchVolumeData(ctx, params), nil
	default:
		return "", fmt.Errorf("unknown tool: %s", name)
	}
}

// Resources returns all available resources (none for Marketing Miner)
func (m *MarketingMinerModule) Resources() []modules.Resource {
	return nil
}

// ReadResource reads a resource by URI (not implemented)
func (m *MarketingMinerModule) ReadResource(ctx context.Context, uri string) (string, error) {
	return "", fmt.Errorf("resources not supported")
}

// =============================================================================
// Tool Definitions
// =============================================================================

var toolDefinitions = []modules.Tool{
	{
		Name:        ToolKeywordSuggestions,
		Description: "Get keyword suggestions for a seed keyword from Marketing Miner, optionally filtered by suggestion type and enriched with keyword metrics.",
		InputSchema: modules.InputSchema{
			Type: "object",
			Properties: map[string]modules.Property{
				"language_code": {
					Type:        "string",
					Description: "Language/market code",
					Enum:        Languages,
				},
				"keyword": {
					Type:        "string",
					Description: "Seed keyword to find suggestions for",
				},
				"suggestions_type": {
					Type:        "string",
					Description: "Optional suggestion type filter",
					Enum:        SuggestionsTypes,
				},
				"include_extended": {
					Type:        "boolean",
					Description: "Include keyword difficulty and SERP features in the output",
				},
			},
			Required: []string{"language_code", "keyword"},
		},
		Annotations: modules.AnnotateReadOnly,
	},
	{
		Name:        ToolSearchVolumeData,
		Description: "Get historical search volume statistics for an exact keyword from Marketing Miner.",
		InputSchema: modules.InputSchema{
			Type: "object",
			Properties: map[string]modules.Property{
				"language_code": {
					Type:        "string",
					Description: "Language/market code",
					Enum:        Languages,
				},
				"keyword": {
					Type:        "string",
					Description: "Keyword to look up search volume data for",
				},
			},
			Required: []string{"language_code", "keyword"},
		},
		Annotations: modules.AnnotateReadOnly,
	},
}

// =============================================================================
// Tool Handlers
// =============================================================================

func (m *MarketingMinerModule) getKeywordSuggestions(ctx context.Context, params map[string]any) string {
	lang, _ := params["language_code"].(string)
	keyword, _ := params["keyword"].(string)
	suggestionsType, _ := params["suggestions_type"].(string)
	includeExtended, _ := params["include_extended"].(bool)

	if !supported(Languages, lang) {
		return fmt.Sprintf("Nepodporovaný jazyk: %s. Podporované jazyky jsou: %s",
			lang, strings.Join(Languages, ", "))
	}
	if suggestionsType != "" && !supported(SuggestionsTypes, suggestionsType) {
		return fmt.Sprintf("Nepodporovaný typ návrhů: %s. Podporované typy jsou: %s",
			suggestionsType, strings.Join(SuggestionsTypes, ", "))
	}

	q := url.Values{}
	q.Set("lang", lang)
	q.Set("keyword", keyword)
	if suggestionsType != "" {
		q.Set("suggestions_type", suggestionsType)
	}
	// The flag is sent upstream and independently re-checked when rendering.
	q.Set("with_keyword_data", strconv.FormatBool(includeExtended))

	env, err := m.client.Get(ctx, marketingminerapi.SuggestionsEndpoint, q)
	if err != nil {
		return err.Error()
	}
	if env.Status != "success" {
		return msgUnexpectedFormat
	}

	return formatSuggestions(env.Data, includeExtended)
}

func (m *MarketingMinerModule) getSearchVolumeData(ctx context.Context, params map[string]any) string {
	lang, _ := params["language_code"].(string)
	keyword, _ := params["keyword"].(string)

	if !supported(Languages, lang) {
		return fmt.Sprintf("Nepodporovaný jazyk: %s. Podporované jazyky jsou: %s",
			lang, strings.Join(Languages, ", "))
	}

	q := url.Values{}
	q.Set("lang", lang)
	q.Set("keyword", keyword)

	env, err := m.client.Get(ctx, marketingminerapi.SearchVolumeEndpoint, q)
	if err != nil {
		return err.Error()
	}
	if env.Status != "success" {
		return msgUnexpectedFormat
	}

	return formatSearchVolume(env.Data)
}

func supported(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
