package services

import (
	"encoding/json"
	"fmt"
	"strings"

	"projectarchitect/internal/assets"
	"projectarchitect/internal/models"
)

// ModelCatalog lists the providers and models shipped in the embedded asset.
// Models missing from the catalog may still work against compatible
// endpoints; the catalog only informs listings and warnings.
type ModelCatalog struct {
	groups []models.LLMModelGroup
	byKey  map[string]models.LLMModel
}

type rawModelFile struct {
	Providers []rawProvider `json:"providers"`
}

type rawProvider struct {
	ID          string     `json:"id"`
	DisplayName string     `json:"displayName"`
	Models      []rawModel `json:"models"`
}

type rawModel struct {
	DisplayName   string `json:"displayName"`
	APIName       string `json:"apiName"`
	ContextWindow int    `json:"contextWindow"`
}

// NewModelCatalog parses the embedded catalog.
func NewModelCatalog() (*ModelCatalog, error) {
	return parseModelCatalog(assets.ModelsData)
}

func parseModelCatalog(data []byte) (*ModelCatalog, error) {
	var parsed rawModelFile
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("parse models asset: %w", err)
	}

	c := &ModelCatalog{byKey: make(map[string]models.LLMModel)}
	for _, provider := range parsed.Providers {
		providerID := strings.TrimSpace(provider.ID)
		if providerID == "" {
			continue
		}
		group := models.LLMModelGroup{
			ProviderID:   providerID,
			ProviderName: strings.TrimSpace(provider.DisplayName),
		}
		for _, mdl := range provider.Models {
			apiName := strings.TrimSpace(mdl.APIName)
			if apiName == "" {
				continue
			}
			m := models.LLMModel{
				Key:           computeModelKey(providerID, apiName),
				ProviderID:    providerID,
				ProviderName:  group.ProviderName,
				DisplayName:   strings.TrimSpace(mdl.DisplayName),
				APIName:       apiName,
				ContextWindow: mdl.ContextWindow,
			}
			group.Models = append(group.Models, m)
			c.byKey[m.Key] = m
		}
		c.groups = append(c.groups, group)
	}
	return c, nil
}

func computeModelKey(providerID, apiName string) string {
	return strings.ToLower(providerID) + ":" + apiName
}

// Groups returns every provider with its models in catalog order.
func (c *ModelCatalog) Groups() []models.LLMModelGroup {
	return c.groups
}

// Lookup returns the catalog entry for provider and model.
func (c *ModelCatalog) Lookup(provider, apiName string) (models.LLMModel, bool) {
	m, ok := c.byKey[computeModelKey(provider, strings.TrimSpace(apiName))]
	return m, ok
}
