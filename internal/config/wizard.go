package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/manifoldco/promptui"
)

// RunWizard asks for the main settings interactively and saves the result to
// path.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Bem-vindo à Ane! Vamos configurar o assistente.")
	fmt.Println()

	cfg := DefaultConfig()

	providerPrompt := promptui.Select{
		Label: "Provedor de LLM",
		Items: []string{"openai", "anthropic", "google", "ollama"},
	}
	_, providerStr, err := providerPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("provider selection: %w", err)
	}
	cfg.Provider = ProviderType(providerStr)

	qualityPrompt := promptui.Select{
		Label: "Qualidade das respostas",
		Items: []string{
			"lite   (rápido e barato)",
			"normal (equilibrado)",
			"max    (melhor qualidade)",
		},
	}
	qualityIdx, _, err := qualityPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("quality selection: %w", err)
	}
	cfg.Quality = []QualityTier{QualityLite, QualityNormal, QualityMax}[qualityIdx]
	cfg.Model = GetPreset(cfg.Provider, cfg.Quality)

	portPrompt := promptui.Prompt{
		Label:    "Porta HTTP",
		Default:  strconv.Itoa(cfg.Server.Port),
		Validate: validatePort,
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	cfg.Server.Port, _ = strconv.Atoi(portStr)

	archivePrompt := promptui.Select{
		Label: "Onde arquivar os planos gerados",
		Items: []string{string(ArchiveSQLite), string(ArchiveMemory), string(ArchiveRedis)},
	}
	_, driver, err := archivePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("archive selection: %w", err)
	}
	cfg.Archive.Driver = ArchiveDriver(driver)
	if cfg.Archive.Driver == ArchiveRedis {
		addrPrompt := promptui.Prompt{Label: "Endereço do Redis", Default: cfg.Archive.RedisAddr}
		if cfg.Archive.RedisAddr, err = addrPrompt.Run(); err != nil {
			return nil, fmt.Errorf("redis address: %w", err)
		}
	}

	voicePrompt := promptui.Select{
		Label: "Habilitar áudio (Whisper e TTS, requer OPENAI_API_KEY)",
		Items: []string{"sim", "não"},
	}
	voiceIdx, _, err := voicePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("voice selection: %w", err)
	}
	cfg.Voice.Enabled = voiceIdx == 0

	if envVar := APIKeyEnvVar(cfg.Provider); envVar != "" && os.Getenv(envVar) == "" {
		fmt.Printf("\nLembrete: defina %s no ambiente antes de rodar `ane server`.\n", envVar)
	}

	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguração salva em %s\n", path)
	return cfg, nil
}

func validatePort(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 || n > 65535 {
		return fmt.Errorf("porta inválida")
	}
	return nil
}
