package nutriagent

type ModelConfig struct {
	ModelID     string  `env:"MODEL_ID,required"`
	MaxTokens   int32   `env:"MAX_TOKENS,default=1024"`
	Temperature float32 `env:"TEMPERATURE,default=0.2"`
	TopP        float32 `env:"TOP_P,default=0.9"`
}

type AgentConfig struct {
	LedgerDataDir      string `env:"LEDGER_DATA_DIR,default=data"`
	BaseOllamaEndpoint string `env:"BASE_OLLAMA_ENDPOINT,default=http://localhost:11434"`
	MaxIterations      int    `env:"MAX_ITERATIONS,default=10"`
}

type NutritionixConfig struct {
	AppID   string `env:"NUTRITIONIX_APP_ID,required"`
	AppKey  string `env:"NUTRITIONIX_API_KEY,required"`
	BaseURL string `env:"NUTRITIONIX_BASE_URL,default=https://trackapi.nutritionix.com"`
}
