package cmd

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/Rorical/RoriAgent/internal/config"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage API profiles",
	Long:  `Manage API profiles for different providers, models and search keys.`,
}

var listProfilesCmd = &cobra.Command{
	Use:   "list",
	Short: "List all profiles",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := mustLoadConfig()

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Active Profile: %s\n\n", cfg.ActiveProfile)
		fmt.Fprintln(out, "Available Profiles:")
		for _, name := range cfg.ProfileNames() {
			profile := cfg.Profiles[name]
			marker := ""
			if name == cfg.ActiveProfile {
				marker = " (active)"
			}
			fmt.Fprintf(out, "  %s%s\n", name, marker)
			fmt.Fprintf(out, "    Provider: %s\n", profile.GetProvider())
			fmt.Fprintf(out, "    Model: %s\n", profile.Model)
			if profile.BaseURL != "" {
				fmt.Fprintf(out, "    Base URL: %s\n", profile.BaseURL)
			}
			fmt.Fprintf(out, "    API Key: %s\n", yesNo(profile.APIKey != ""))
			fmt.Fprintf(out, "    Search Key: %s\n", yesNo(profile.SearchAPIKey != ""))
			fmt.Fprintln(out)
		}
	},
}

var showProfileCmd = &cobra.Command{
	Use:   "show [profile-name]",
	Short: "Show profile details",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := mustLoadConfig()

		name, profile, exists := cfg.Lookup(args[0])
		if !exists {
			log.Fatalf("Profile '%s' does not exist", args[0])
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Profile: %s\n", name)
		fmt.Fprintf(out, "Provider: %s\n", profile.GetProvider())
		fmt.Fprintf(out, "Model: %s\n", profile.Model)
		fmt.Fprintf(out, "Base URL: %s\n", profile.BaseURL)
		fmt.Fprintf(out, "Temperature: %g\n", profile.Temperature)
		fmt.Fprintf(out, "API Key: %s\n", secretStatus(profile.APIKey))
		fmt.Fprintf(out, "Search API Key: %s\n", secretStatus(profile.SearchAPIKey))
	},
}

var addProfileCmd = &cobra.Command{
	Use:   "add [profile-name]",
	Short: "Add a new profile",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := mustLoadConfig()

		var profileName string
		if len(args) > 0 {
			profileName = args[0]
		} else {
			profileName = mustPrompt(promptui.Prompt{Label: "Profile name", Validate: notEmpty})
		}

		if _, _, exists := cfg.Lookup(profileName); exists {
			log.Fatalf("Profile '%s' already exists", profileName)
		}

		profile := promptProfile(config.Profile{})
		cfg.Profiles[profileName] = profile

		if err := cfg.Save(); err != nil {
			log.Fatalf("Failed to save config: %v", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Profile '%s' added successfully!\n", profileName)
	},
}

var editProfileCmd = &cobra.Command{
	Use:   "edit [profile-name]",
	Short: "Edit an existing profile",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := mustLoadConfig()

		profileName := profileArg(cfg, args, "Select profile to edit", "")
		name, profile, exists := cfg.Lookup(profileName)
		if !exists {
			log.Fatalf("Profile '%s' does not exist", profileName)
		}

		cfg.Profiles[name] = promptProfile(profile)

		if err := cfg.Save(); err != nil {
			log.Fatalf("Failed to save config: %v", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Profile '%s' updated successfully!\n", name)
	},
}

var deleteProfileCmd = &cobra.Command{
	Use:   "delete [profile-name]",
	Short: "Delete a profile",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := mustLoadConfig()

		profileName := profileArg(cfg, args, "Select profile to delete", "")
		name, _, exists := cfg.Lookup(profileName)
		if !exists {
			log.Fatalf("Profile '%s' does not exist", profileName)
		}

		// Confirm deletion
		confirmPrompt := promptui.Prompt{
			Label:     fmt.Sprintf("Delete profile '%s'", name),
			IsConfirm: true,
		}
		if _, err := confirmPrompt.Run(); err != nil {
			fmt.Fprintln(cmd.OutOrStdout(), "Deletion cancelled")
			return
		}

		removeProfile(cfg, name)

		if err := cfg.Save(); err != nil {
			log.Fatalf("Failed to save config: %v", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Profile '%s' deleted successfully!\n", name)
	},
}

var switchProfileCmd = &cobra.Command{
	Use:   "switch [profile-name]",
	Short: "Switch to a different profile",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := mustLoadConfig()

		profileName := profileArg(cfg, args, "Select profile to switch to", cfg.ActiveProfile)
		if profileName == "" {
			fmt.Fprintln(cmd.OutOrStdout(), "No other profiles available to switch to")
			return
		}

		if err := cfg.SetActive(profileName); err != nil {
			log.Fatalf("Failed to switch profile: %v", err)
		}
		if err := cfg.Save(); err != nil {
			log.Fatalf("Failed to save config: %v", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Switched to profile '%s'\n", cfg.ActiveProfile)
	},
}

func init() {
	// Add subcommands to profile
	profileCmd.AddCommand(listProfilesCmd)
	profileCmd.AddCommand(showProfileCmd)
	profileCmd.AddCommand(addProfileCmd)
	profileCmd.AddCommand(editProfileCmd)
	profileCmd.AddCommand(deleteProfileCmd)
	profileCmd.AddCommand(switchProfileCmd)
}

func mustLoadConfig() *config.Config {
	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

func mustPrompt(prompt promptui.Prompt) string {
	value, err := prompt.Run()
	if err != nil {
		log.Fatalf("Prompt failed: %v", err)
	}
	return strings.TrimSpace(value)
}

// profileArg returns the name given on the command line, or lets the user pick one.
// exclude hides a profile from the picker; an empty result means nothing to pick.
func profileArg(cfg *config.Config, args []string, label, exclude string) string {
	if len(args) > 0 {
		return args[0]
	}

	names := make([]string, 0, len(cfg.Profiles))
	for _, name := range cfg.ProfileNames() {
		if name != exclude {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		if exclude != "" {
			return ""
		}
		log.Fatalf("No profiles available")
	}

	prompt := promptui.Select{Label: label, Items: names}
	_, name, err := prompt.Run()
	if err != nil {
		log.Fatalf("Selection failed: %v", err)
	}
	return name
}

// promptProfile asks for every profile field, offering current values as defaults
func promptProfile(profile config.Profile) config.Profile {
	providers := []string{config.ProviderOpenAI, config.ProviderAnthropic}
	cursor := 0
	if profile.GetProvider() == config.ProviderAnthropic {
		cursor = 1
	}
	providerPrompt := promptui.Select{
		Label:     "Provider",
		Items:     providers,
		CursorPos: cursor,
	}
	_, provider, err := providerPrompt.Run()
	if err != nil {
		log.Fatalf("Selection failed: %v", err)
	}
	profile.Provider = provider

	profile.APIKey = mustPrompt(promptui.Prompt{
		Label:   "API Key",
		Default: profile.APIKey,
		Mask:    '*',
	})

	model := profile.Model
	if model == "" {
		model = defaultModelFor(provider)
	}
	profile.Model = mustPrompt(promptui.Prompt{Label: "Model", Default: model, Validate: notEmpty})

	profile.BaseURL = mustPrompt(promptui.Prompt{
		Label:   "Base URL (optional)",
		Default: profile.BaseURL,
	})

	temperature := mustPrompt(promptui.Prompt{
		Label:    "Temperature (0-2)",
		Default:  strconv.FormatFloat(profile.Temperature, 'g', -1, 64),
		Validate: validTemperature,
	})
	profile.Temperature, _ = strconv.ParseFloat(temperature, 64)

	profile.SearchAPIKey = mustPrompt(promptui.Prompt{
		Label:   "Tavily API Key for web_search (optional)",
		Default: profile.SearchAPIKey,
		Mask:    '*',
	})

	return profile
}

// removeProfile deletes name, moving the active profile elsewhere.
// Removing the last profile leaves a fresh default one.
func removeProfile(cfg *config.Config, name string) {
	delete(cfg.Profiles, name)

	if len(cfg.Profiles) == 0 {
		cfg.Profiles["default"] = config.Profile{
			Provider: config.ProviderOpenAI,
			Model:    config.DefaultModel,
		}
	}
	if _, _, exists := cfg.Lookup(cfg.ActiveProfile); !exists {
		cfg.ActiveProfile = cfg.ProfileNames()[0]
	}
}

func defaultModelFor(provider string) string {
	if provider == config.ProviderAnthropic {
		return "claude-3-5-haiku-latest"
	}
	return config.DefaultModel
}

func notEmpty(input string) error {
	if strings.TrimSpace(input) == "" {
		return fmt.Errorf("value is required")
	}
	return nil
}

func validTemperature(input string) error {
	value, err := strconv.ParseFloat(strings.TrimSpace(input), 64)
	if err != nil {
		return fmt.Errorf("temperature must be a number")
	}
	if value < 0 || value > 2 {
		return fmt.Errorf("temperature must be between 0 and 2")
	}
	return nil
}

func yesNo(ok bool) string {
	if ok {
		return "Yes"
	}
	return "No"
}

func secretStatus(value string) string {
	if value == "" {
		return "Not set"
	}
	return "Set (hidden for security)"
}
