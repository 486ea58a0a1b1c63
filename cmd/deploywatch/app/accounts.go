package app

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/deploywatch/deploywatch/internal/domain"
	"github.com/deploywatch/deploywatch/internal/engine"
)

// tokenEnvVar lets scripts pass the API token without putting it on the
// command line.
const tokenEnvVar = "DEPLOYWATCH_TOKEN"

func newAccountsCmd() *cobra.Command {
	accountsCmd := &cobra.Command{
		Use:   "accounts",
		Short: "Manage provider accounts",
	}

	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Add an account after validating its API token",
		RunE:  runAccountsAdd,
	}
	addCmd.Flags().String("service", "", "Provider service (vercel or netlify)")
	addCmd.Flags().String("name", "", "Display name for the account")
	addCmd.Flags().String("token", "", "API token (defaults to $"+tokenEnvVar+")")
	_ = addCmd.MarkFlagRequired("service")
	_ = addCmd.MarkFlagRequired("name")

	removeCmd := &cobra.Command{
		Use:   "remove <account>",
		Short: "Remove an account, its token and its projects",
		Args:  cobra.ExactArgs(1),
		RunE:  runAccountsRemove,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List configured accounts",
		RunE:  runAccountsList,
	}
	listCmd.Flags().String("format", "", "Output format (json)")

	enableCmd := &cobra.Command{
		Use:   "enable <account>",
		Short: "Include an account in refreshes",
		Args:  cobra.ExactArgs(1),
		RunE:  setEnabled(true),
	}
	disableCmd := &cobra.Command{
		Use:   "disable <account>",
		Short: "Exclude an account from refreshes without removing it",
		Args:  cobra.ExactArgs(1),
		RunE:  setEnabled(false),
	}

	accountsCmd.AddCommand(addCmd, removeCmd, listCmd, enableCmd, disableCmd)
	return accountsCmd
}

func newEngine() (*engine.Engine, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return buildEngine(cfg)
}

func runAccountsAdd(cmd *cobra.Command, _ []string) error {
	serviceName, _ := cmd.Flags().GetString("service")
	name, _ := cmd.Flags().GetString("name")
	token, _ := cmd.Flags().GetString("token")
	if token == "" {
		token = os.Getenv(tokenEnvVar)
	}
	if token == "" {
		return fmt.Errorf("no token given: pass --token or set $%s", tokenEnvVar)
	}

	service := domain.Service(serviceName)
	if !service.Valid() {
		return fmt.Errorf("unknown service %q, expected one of: vercel, netlify", serviceName)
	}

	eng, err := newEngine()
	if err != nil {
		return err
	}

	account := domain.NewAccount(service, name)
	if err := eng.AddAccount(cmd.Context(), account, token); err != nil {
		return err
	}

	fmt.Printf("Added %s account %q (%s)\n", service.DisplayName(), name, account.ID)
	return nil
}

func runAccountsRemove(cmd *cobra.Command, args []string) error {
	eng, err := newEngine()
	if err != nil {
		return err
	}

	account, err := resolveAccount(eng, args[0])
	if err != nil {
		return err
	}
	if err := eng.RemoveAccount(cmd.Context(), account.ID); err != nil {
		return err
	}

	fmt.Printf("Removed account %q\n", account.Name)
	return nil
}

func runAccountsList(cmd *cobra.Command, _ []string) error {
	eng, err := newEngine()
	if err != nil {
		return err
	}

	list := eng.Accounts()
	format, _ := cmd.Flags().GetString("format")
	if format == "json" {
		output, err := json.MarshalIndent(list, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(output))
		return nil
	}

	if len(list) == 0 {
		fmt.Println("No accounts configured.")
		return nil
	}
	for _, account := range list {
		state := "enabled"
		if !account.Enabled {
			state = "disabled"
		}
		fmt.Printf("%s  %-8s  %-10s  %s\n", account.ID, account.Service, state, account.Name)
	}
	return nil
}

func setEnabled(enabled bool) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine()
		if err != nil {
			return err
		}

		account, err := resolveAccount(eng, args[0])
		if err != nil {
			return err
		}
		if err := eng.SetAccountEnabled(cmd.Context(), account.ID, enabled); err != nil {
			return err
		}

		state := "enabled"
		if !enabled {
			state = "disabled"
		}
		fmt.Printf("Account %q %s\n", account.Name, state)
		return nil
	}
}

// resolveAccount matches an id or, failing that, a unique account name.
func resolveAccount(eng *engine.Engine, ref string) (domain.Account, error) {
	list := eng.Accounts()

	if id, err := uuid.Parse(ref); err == nil {
		for _, account := range list {
			if account.ID == id {
				return account, nil
			}
		}
		return domain.Account{}, fmt.Errorf("no account with id %s", id)
	}

	var matches []domain.Account
	for _, account := range list {
		if account.Name == ref {
			matches = append(matches, account)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return domain.Account{}, fmt.Errorf("no account named %q", ref)
	default:
		return domain.Account{}, fmt.Errorf("account name %q is ambiguous, use the id", ref)
	}
}
