package models

// LLMModel is one catalog entry.
type LLMModel struct {
	Key           string `json:"key"`
	ProviderID    string `json:"providerId"`
	ProviderName  string `json:"providerName"`
	DisplayName   string `json:"displayName"`
	APIName       string `json:"apiName"`
	ContextWindow int    `json:"contextWindow"`
}

// LLMModelGroup lists the catalog models of one provider.
type LLMModelGroup struct {
	ProviderID   string     `json:"providerId"`
	ProviderName string     `json:"providerName"`
	Models       []LLMModel `json:"models"`
}
