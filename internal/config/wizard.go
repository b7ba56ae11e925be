package config

import (
	"fmt"
	"strconv"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to the given path.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to pconsole! Let's connect to your platform org.")
	fmt.Println()

	cfg := DefaultConfig()

	baseURLPrompt := promptui.Prompt{
		Label:   "Platform API base URL",
		Default: cfg.API.BaseURL,
	}
	baseURL, err := baseURLPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("base URL: %w", err)
	}
	cfg.API.BaseURL = baseURL

	orgPrompt := promptui.Prompt{Label: "Organization ID"}
	orgID, err := orgPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("org ID: %w", err)
	}
	cfg.API.OrgID = orgID

	sandboxPrompt := promptui.Prompt{
		Label:   "Sandbox name",
		Default: "prod",
	}
	sandbox, err := sandboxPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("sandbox: %w", err)
	}
	cfg.API.Sandbox = sandbox

	tokenURLPrompt := promptui.Prompt{
		Label:   "OAuth token URL",
		Default: baseURL + "/ims/token/v3",
	}
	tokenURL, err := tokenURLPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("token URL: %w", err)
	}
	cfg.Auth.TokenURL = tokenURL

	clientIDPrompt := promptui.Prompt{Label: "OAuth client ID"}
	clientID, err := clientIDPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("client ID: %w", err)
	}
	cfg.Auth.ClientID = clientID

	secretPrompt := promptui.Prompt{
		Label: "OAuth client secret (stored in config; leave empty to use PCONSOLE_AUTH__CLIENT_SECRET)",
		Mask:  '*',
	}
	secret, err := secretPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("client secret: %w", err)
	}
	cfg.Auth.ClientSecret = secret

	providerPrompt := promptui.Select{
		Label: "Assistant LLM provider",
		Items: []string{"openai", "openrouter", "none"},
	}
	_, providerStr, err := providerPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("provider selection: %w", err)
	}
	if providerStr == "none" {
		cfg.LLM.Provider = ""
	} else {
		cfg.LLM.Provider = ProviderType(providerStr)
	}

	portPrompt := promptui.Prompt{
		Label:   "Dashboard server port",
		Default: strconv.Itoa(cfg.Server.Port),
		Validate: func(s string) error {
			n, err := strconv.Atoi(s)
			if err != nil || n <= 0 || n > 65535 {
				return fmt.Errorf("must be a valid TCP port")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	cfg.Server.Port, _ = strconv.Atoi(portStr)

	if err := cfg.Save(path); err != nil {
		return nil, err
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}
