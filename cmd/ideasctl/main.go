// Command ideasctl drives the admin API from the terminal.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

type client struct {
	BaseURL   string
	APIKey    string
	OutFormat string // "json" | "text"
	HTTP      *http.Client
}

func (c *client) do(method, path string, body []byte) (int, []byte, error) {
	u := strings.TrimRight(c.BaseURL, "/") + path
	req, err := http.NewRequest(method, u, bytes.NewReader(body))
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("X-Admin-API-Key", c.APIKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, b, nil
}

func (c *client) print(status int, body []byte) {
	if c.OutFormat == "json" {
		var v any
		if json.Unmarshal(body, &v) == nil {
			p, _ := json.MarshalIndent(v, "", "  ")
			fmt.Println(string(p))
			return
		}
	}
	if len(body) > 0 {
		fmt.Println(string(body))
	} else {
		fmt.Printf("status=%d\n", status)
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func main() {
	var (
		baseURL = envOr("IDEAS_ADMIN_URL", "http://localhost:8080")
		apiKey  = envOr("IDEAS_ADMIN_KEY", "")
		out     = envOr("IDEAS_OUT", "text")
	)

	cl := &client{HTTP: &http.Client{Timeout: 30 * time.Second}}

	root := &cobra.Command{
		Use:   "ideasctl",
		Short: "Admin CLI for the ideas service (talks to /v1/admin)",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if apiKey == "" {
				return fmt.Errorf("missing API key (flag --admin-api-key or env IDEAS_ADMIN_KEY)")
			}
			cl.BaseURL = baseURL
			cl.APIKey = apiKey
			cl.OutFormat = out
			return nil
		},
	}

	root.PersistentFlags().StringVar(&baseURL, "admin-api-url", baseURL, "admin API base URL (env IDEAS_ADMIN_URL)")
	root.PersistentFlags().StringVar(&apiKey, "admin-api-key", apiKey, "admin API key (env IDEAS_ADMIN_KEY)")
	root.PersistentFlags().StringVar(&out, "out", out, "output format: json|text")

	pingCmd := &cobra.Command{
		Use:   "ping",
		Short: "Check admin API reachability and key validity",
		RunE: func(cmd *cobra.Command, args []string) error {
			status, body, err := cl.do("GET", "/v1/admin/accounts?limit=1", nil)
			if err != nil {
				return err
			}
			if status/100 != 2 {
				return fmt.Errorf("ping failed: status=%d body=%s", status, string(body))
			}
			fmt.Println("ok")
			return nil
		},
	}

	accountsCmd := &cobra.Command{
		Use:   "accounts",
		Short: "Account operations",
	}

	var listLimit, listOffset int
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{}
			q.Set("limit", fmt.Sprint(listLimit))
			q.Set("offset", fmt.Sprint(listOffset))
			status, body, err := cl.do("GET", "/v1/admin/accounts?"+q.Encode(), nil)
			if err != nil {
				return err
			}
			if status/100 != 2 {
				return fmt.Errorf("list failed: status=%d body=%s", status, string(body))
			}
			cl.print(status, body)
			return nil
		},
	}
	listCmd.Flags().IntVar(&listLimit, "limit", 50, "page size")
	listCmd.Flags().IntVar(&listOffset, "offset", 0, "page offset")

	disableCmd := &cobra.Command{
		Use:   "disable <account-id>",
		Short: "Disable an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setActive(cl, args[0], "disable")
		},
	}

	enableCmd := &cobra.Command{
		Use:   "enable <account-id>",
		Short: "Re-enable an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setActive(cl, args[0], "enable")
		},
	}

	accountsCmd.AddCommand(listCmd, disableCmd, enableCmd)
	root.AddCommand(pingCmd, accountsCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func setActive(cl *client, id, action string) error {
	status, body, err := cl.do("POST", "/v1/admin/accounts/"+url.PathEscape(id)+"/"+action, nil)
	if err != nil {
		return err
	}
	if status/100 != 2 {
		return fmt.Errorf("%s failed: status=%d body=%s", action, status, string(body))
	}
	fmt.Println("ok")
	return nil
}
