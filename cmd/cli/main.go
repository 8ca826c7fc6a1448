package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	baseURL string
	timeout time.Duration
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "bankledger-cli",
		Short: "Bank ledger CLI tool",
		Long:  `A command line interface for interacting with the bank ledger API.`,
	}

	root.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the ledger API")
	root.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	root.AddCommand(accountCmd())
	root.AddCommand(transferCmd())
	root.AddCommand(ledgerCmd())

	return root
}

func accountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Account operations",
	}

	var owner, currency string
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create an account with a zero balance",
		RunE: func(cmd *cobra.Command, args []string) error {
			body, _ := json.Marshal(map[string]string{"owner": owner, "currency": currency})
			return doRequest(http.MethodPost, "/api/v1/accounts", bytes.NewReader(body))
		},
	}
	createCmd.Flags().StringVar(&owner, "owner", "", "Account owner")
	createCmd.Flags().StringVar(&currency, "currency", "USD", "Account currency")
	createCmd.MarkFlagRequired("owner")

	getCmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Get an account by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return doRequest(http.MethodGet, "/api/v1/accounts/"+args[0], nil)
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return doRequest(http.MethodGet, "/api/v1/accounts", nil)
		},
	}

	entriesCmd := &cobra.Command{
		Use:   "entries <id>",
		Short: "List an account's ledger entries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return doRequest(http.MethodGet, "/api/v1/accounts/"+args[0]+"/entries", nil)
		},
	}

	transfersCmd := &cobra.Command{
		Use:   "transfers <id>",
		Short: "List transfers touching an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return doRequest(http.MethodGet, "/api/v1/accounts/"+args[0]+"/transfers", nil)
		},
	}

	cmd.AddCommand(createCmd, getCmd, listCmd, entriesCmd, transfersCmd)

	return cmd
}

func transferCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transfer",
		Short: "Transfer operations",
	}

	var from, to int64
	var amount string
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Move money between two accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			minor, err := parseAmount(amount)
			if err != nil {
				return err
			}

			body, _ := json.Marshal(map[string]int64{
				"from_account_id": from,
				"to_account_id":   to,
				"amount":          minor,
			})

			return doRequest(http.MethodPost, "/api/v1/transfers", bytes.NewReader(body))
		},
	}
	createCmd.Flags().Int64Var(&from, "from", 0, "Source account id")
	createCmd.Flags().Int64Var(&to, "to", 0, "Destination account id")
	createCmd.Flags().StringVar(&amount, "amount", "", "Amount in major units, e.g. 12.50")
	createCmd.MarkFlagRequired("from")
	createCmd.MarkFlagRequired("to")
	createCmd.MarkFlagRequired("amount")

	getCmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Get a transfer by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return doRequest(http.MethodGet, "/api/v1/transfers/"+args[0], nil)
		},
	}

	cmd.AddCommand(createCmd, getCmd)

	return cmd
}

func ledgerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Ledger operations",
	}

	consistencyCmd := &cobra.Command{
		Use:   "consistency",
		Short: "Check ledger consistency",
		RunE: func(cmd *cobra.Command, args []string) error {
			return doRequest(http.MethodGet, "/api/v1/ledger/consistency", nil)
		},
	}

	cmd.AddCommand(consistencyCmd)

	return cmd
}

// parseAmount converts a major-unit decimal string into minor units.
// "12.50" -> 1250; more than two fractional digits is rejected.
func parseAmount(s string) (int64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}

	minor := d.Shift(2)
	if !minor.IsInteger() {
		return 0, fmt.Errorf("amount %q has more than two decimal places", s)
	}

	return minor.IntPart(), nil
}

// formatAmount renders minor units as a major-unit decimal string.
func formatAmount(minor int64) string {
	return decimal.New(minor, -2).StringFixed(2)
}

func doRequest(method, path string, body io.Reader) error {
	client := &http.Client{Timeout: timeout}

	req, err := http.NewRequest(method, baseURL+path, body)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode >= 400 {
		return fmt.Errorf("request failed (status %d): %s", resp.StatusCode, data)
	}

	var pretty any
	if err := json.Unmarshal(data, &pretty); err != nil {
		fmt.Println(string(data))
		return nil
	}

	printJSON(pretty)

	return nil
}

func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Println(v)
		return
	}
	fmt.Println(string(out))
}
