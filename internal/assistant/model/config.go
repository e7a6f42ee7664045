package model

// ================ Config ================
type ConversationConfig struct {
	TTL     string `envconfig:"CONVERSATION_TTL" default:"720h"`
	History struct {
		AgentLimit      int `envconfig:"CONVERSATION_HISTORY_AGENT_LIMIT" default:"30"`
		ClassifierLimit int `envconfig:"CONVERSATION_HISTORY_CLASSIFIER_LIMIT" default:"10"`
	}
	Tools struct {
		MaxCalls int `envconfig:"CONVERSATION_TOOL_MAX_CALLS" default:"6"`
	}
	// MaxInternalSteps caps node chaining within one external turn so a
	// structured-update loop that fails to converge cannot spin forever.
	MaxInternalSteps int `envconfig:"CONVERSATION_MAX_INTERNAL_STEPS" default:"12"`
}

type ClassifierModelConfig struct {
	Model       string  `envconfig:"CLASSIFIER_MODEL" default:"gemini-2.5-flash-lite"`
	MaxTokens   int     `envconfig:"CLASSIFIER_MAX_TOKENS" default:"500"`
	Temperature float32 `envconfig:"CLASSIFIER_TEMPERATURE" default:"0.0"`
}

type StepModelConfig struct {
	Model       string  `envconfig:"STEP_MODEL" default:"gemini-2.5-flash"`
	MaxTokens   int     `envconfig:"STEP_MAX_TOKENS" default:"2000"`
	Temperature float32 `envconfig:"STEP_TEMPERATURE" default:"0.3"`
}

type SalonPromptConfig struct {
	SalonName string `envconfig:"PROMPT_SALON_NAME" default:"LookTown"`
}
