package chatbot

import (
	_ "embed"

	"gopkg.in/yaml.v3"
)

//go:embed botconfig.yaml
var botConfigYAML []byte

// Flow is one scripted conversation branch the widget can run without a
// round trip.
type Flow struct {
	Triggers []string `yaml:"triggers" json:"triggers"`
	Response string   `yaml:"response" json:"response"`
}

// BotConfig is the static widget configuration served by GET /bot-config.
type BotConfig struct {
	WelcomeMessage string          `yaml:"welcomeMessage" json:"welcomeMessage"`
	QuickReplies   []string        `yaml:"quickReplies" json:"quickReplies"`
	Flows          map[string]Flow `yaml:"flows" json:"flows"`
}

// LoadBotConfig parses the embedded widget configuration.
func LoadBotConfig() (BotConfig, error) {
	var cfg BotConfig
	if err := yaml.Unmarshal(botConfigYAML, &cfg); err != nil {
		return BotConfig{}, err
	}
	return cfg, nil
}
