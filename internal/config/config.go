package config

import (
	"fmt"
	"os"
	"time"
)

// DefaultTask is the scripted real-estate search this repository exists to run.
const DefaultTask = "Go to realtor.ca and search for houses in Ottawa, go to the first listing and click on it and verify if the price is visible"

type Config struct {
	Task           string
	MaxSteps       int
	StepTimeout    time.Duration
	TotalTimeout   time.Duration
	Headless       bool
	SlowMo         float64
	AllowedDomains []string
	ScriptPath     string

	AzureEndpoint string
	AzureKey      string
	Model         string
	APIVersion    string
}

func New() *Config {
	return &Config{
		Task:           DefaultTask,
		MaxSteps:       15,
		StepTimeout:    30 * time.Second,
		TotalTimeout:   10 * time.Minute,
		Headless:       false,
		SlowMo:         100,
		AllowedDomains: []string{"realtor.ca"},
		ScriptPath:     "replay_scripts/realtor_script.json",
		Model:          "gpt-4.1-mini",
		APIVersion:     "2025-01-01-preview",
	}
}

// LoadEnv pulls the LLM endpoint and key from the environment. Values are
// supplied externally, never stored in the repository.
func (c *Config) LoadEnv() error {
	c.AzureEndpoint = os.Getenv("AZURE_OPENAI_ENDPOINT")
	c.AzureKey = os.Getenv("AZURE_OPENAI_KEY")
	if c.AzureEndpoint == "" {
		return fmt.Errorf("AZURE_OPENAI_ENDPOINT environment variable not set")
	}
	if c.AzureKey == "" {
		return fmt.Errorf("AZURE_OPENAI_KEY environment variable not set")
	}
	return nil
}
