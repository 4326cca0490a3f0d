package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
)

// catalogCandidates are file names checked, in order, for an existing catalog.
var catalogCandidates = []string{"catalog.yml", "catalog.yaml", "content/catalog.yml"}

// detectCatalog returns the first catalog file found in the working directory.
func detectCatalog() string {
	for _, name := range catalogCandidates {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return "catalog.yml"
}

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to path.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to docportal! Let's configure your portal.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Catalog file.
	catalogPrompt := promptui.Prompt{
		Label:   "Catalog file",
		Default: detectCatalog(),
	}
	catalogFile, err := catalogPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("catalog file: %w", err)
	}
	cfg.CatalogFile = catalogFile

	// 2. Where content comes from.
	sourcePrompt := promptui.Select{
		Label: "Where is the content stored",
		Items: []string{
			"local directory",
			"remote web server",
		},
	}
	sourceIdx, _, err := sourcePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("content source: %w", err)
	}

	if sourceIdx == 0 {
		dirPrompt := promptui.Prompt{
			Label:   "Content directory",
			Default: cfg.ContentDir,
		}
		cfg.ContentDir, err = dirPrompt.Run()
		if err != nil {
			return nil, fmt.Errorf("content dir: %w", err)
		}
	} else {
		urlPrompt := promptui.Prompt{
			Label: "Content base URL",
			Validate: func(s string) error {
				if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
					return fmt.Errorf("must be an http(s) URL")
				}
				return nil
			},
		}
		cfg.ContentBaseURL, err = urlPrompt.Run()
		if err != nil {
			return nil, fmt.Errorf("content base URL: %w", err)
		}
	}

	// 3. Default section.
	sectionPrompt := promptui.Prompt{
		Label:   "Default section key",
		Default: cfg.DefaultSection,
	}
	cfg.DefaultSection, err = sectionPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("default section: %w", err)
	}

	// 4. Port.
	portPrompt := promptui.Prompt{
		Label:   "Port",
		Default: strconv.Itoa(cfg.Port),
		Validate: func(s string) error {
			n, err := strconv.Atoi(s)
			if err != nil || n <= 0 || n > 65535 {
				return fmt.Errorf("must be a port number")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	cfg.Port, _ = strconv.Atoi(portStr)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}
