package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/s0up4200/marquee/resource"
)

var (
	apiMethod  string
	apiData    string
	apiParams  map[string]string
	apiHeaders map[string]string
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api <resource> [id]",
	Short: "Call a resource on the configured REST backend",
	Long: `Call a generic REST resource on the backend configured under api.url.
Without an id a GET lists the resource; with an id it fetches one item.
POST creates, PUT updates and DELETE removes an item.

  marquee api watchlist --param sort=added
  marquee api watchlist 42 --method PUT --data '{"seen":true}'`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runAPI,
}

func init() {
	apiCmd.Flags().StringVarP(&apiMethod, "method", "X", "GET", "HTTP method (GET, POST, PUT, DELETE)")
	apiCmd.Flags().StringVarP(&apiData, "data", "d", "", "JSON request body")
	apiCmd.Flags().StringToStringVar(&apiParams, "param", nil, "query parameter key=value")
	apiCmd.Flags().StringToStringVarP(&apiHeaders, "header", "H", nil, "request header key=value")

	rootCmd.AddCommand(apiCmd)
}

func runAPI(cmd *cobra.Command, args []string) error {
	if cfg.API.URL == "" {
		return errors.New("no REST backend configured. Please set api.url in config")
	}

	client, err := resource.NewClient(cfg.API.URL, args[0], nil, logger,
		resource.WithTimeout(cfg.API.Timeout),
		resource.WithTracker(app.tracker),
	)
	if err != nil {
		return fmt.Errorf("failed to create API client: %w", err)
	}

	opts := resource.RequestOptions{Headers: apiHeaders}
	if len(apiParams) > 0 {
		opts.Params = make(map[string]any, len(apiParams))
		for k, v := range apiParams {
			opts.Params[k] = v
		}
	}

	var body any
	if apiData != "" {
		if !json.Valid([]byte(apiData)) {
			return errors.New("--data must be valid JSON")
		}
		body = json.RawMessage(apiData)
	}

	var id any
	if len(args) == 2 {
		id = args[1]
	}

	ctx := cmd.Context()
	var out json.RawMessage

	switch strings.ToUpper(apiMethod) {
	case "GET":
		if id == nil {
			err = client.List(ctx, opts, &out)
		} else {
			err = client.GetByID(ctx, id, opts, &out)
		}
	case "POST":
		err = client.Create(ctx, body, opts, &out)
	case "PUT":
		if id == nil {
			return errors.New("PUT requires an id")
		}
		err = client.Update(ctx, id, body, opts, &out)
	case "DELETE":
		if id == nil {
			return errors.New("DELETE requires an id")
		}
		err = client.Delete(ctx, id, opts, &out)
	default:
		return fmt.Errorf("unsupported method: %s", apiMethod)
	}
	if err != nil {
		return err
	}

	return writeJSON(cmd, out)
}

func writeJSON(cmd *cobra.Command, raw json.RawMessage) error {
	if len(raw) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "✓ Done")
		return nil
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return fmt.Errorf("failed to format response: %w", err)
	}
	buf.WriteByte('\n')
	_, err := buf.WriteTo(cmd.OutOrStdout())
	return err
}
