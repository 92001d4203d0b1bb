package ai

import "chatbot-evaluation/backend/internal/models"

// Params are the decoding options sent with every request
type Params struct {
	Temperature  float64 `json:"temperature"`
	MaxNewTokens int     `json:"max_new_tokens"`
	TopP         float64 `json:"top_p"`
	TopK         int     `json:"top_k"`
}

// ParamTable maps model identifiers to decoding options. Models without an
// entry use Default.
type ParamTable struct {
	Default Params
	ByModel map[models.LanguageModel]Params
}

// DefaultParamTable returns the decoding options used by the study
func DefaultParamTable() ParamTable {
	llama := Params{Temperature: 0.0, MaxNewTokens: 4096, TopP: 0.95, TopK: 50}
	return ParamTable{
		Default: llama,
		ByModel: map[models.LanguageModel]Params{
			models.ModelLlama:    llama,
			models.ModelDeepSeek: {Temperature: 0.6, MaxNewTokens: 8192, TopP: 0.95, TopK: 50},
		},
	}
}

// For returns the options of model, or the default entry
func (t ParamTable) For(model models.LanguageModel) Params {
	if p, ok := t.ByModel[model]; ok {
		return p
	}
	return t.Default
}
