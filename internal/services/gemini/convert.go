package gemini

import (
	"strings"

	"google.golang.org/genai"

	"ghostwood/internal/generation"
)

var schemaTypes = map[string]genai.Type{
	generation.TypeObject:  genai.TypeObject,
	generation.TypeArray:   genai.TypeArray,
	generation.TypeString:  genai.TypeString,
	generation.TypeNumber:  genai.TypeNumber,
	generation.TypeInteger: genai.TypeInteger,
	generation.TypeBoolean: genai.TypeBoolean,
}

// toSchema translates the provider-neutral schema. Property order is carried
// through PropertyOrdering so fields are generated in declaration order.
func toSchema(s *generation.Schema) *genai.Schema {
	if s == nil {
		return nil
	}
	out := &genai.Schema{
		Type:        schemaTypes[s.Type],
		Description: s.Description,
		Required:    append([]string(nil), s.Required...),
	}
	if len(s.Enum) > 0 {
		out.Enum = append([]string(nil), s.Enum...)
	}
	if s.Items != nil {
		out.Items = toSchema(s.Items)
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, prop := range s.Properties {
			out.Properties[name] = toSchema(prop)
		}
		out.PropertyOrdering = append([]string(nil), s.PropertyNames()...)
	}
	return out
}

// groundingLinks collects web sources from every candidate's grounding
// metadata. Titles stay empty when the API omits them.
func groundingLinks(resp *genai.GenerateContentResponse) []generation.Link {
	if resp == nil {
		return nil
	}
	var links []generation.Link
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.GroundingMetadata == nil {
			continue
		}
		for _, chunk := range candidate.GroundingMetadata.GroundingChunks {
			if chunk == nil || chunk.Web == nil {
				continue
			}
			uri := strings.TrimSpace(chunk.Web.URI)
			if uri == "" {
				continue
			}
			links = append(links, generation.Link{URI: uri, Title: strings.TrimSpace(chunk.Web.Title)})
		}
	}
	return links
}
