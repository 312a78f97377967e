package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	chiTransport "github.com/kailas-cloud/restodex/internal/transport/chi"
	restaurantuc "github.com/kailas-cloud/restodex/internal/usecase/restaurant"
	searchuc "github.com/kailas-cloud/restodex/internal/usecase/search"
)

var searchCmd = &cobra.Command{
	Use:   "search [term]",
	Short: "Search restaurants and print one page as JSON",
	Long: `Search restaurants by free text and print one page of results.

An empty term lists everything. A 24-character hex term is looked up as a
record id; any other term matches restaurant id or rating exactly, or name,
address or cuisines as a case-insensitive pattern.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		return printSearch(cmd, a.search, strings.Join(args, " "), flagPage)
	},
}

var getCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Print one restaurant by its restaurant id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		return printRestaurant(cmd, a.restaurants, args[0])
	},
}

func printSearch(cmd *cobra.Command, svc *searchuc.Service, term string, page int) error {
	if page < 1 {
		return fmt.Errorf("--page must be at least 1, got %d", page)
	}
	res := svc.Search(cmd.Context(), term, page)
	return writeIndented(cmd.OutOrStdout(), chiTransport.SearchResponse{
		Query:      term,
		Page:       page,
		TotalPages: res.TotalPages,
		Items:      res.Records,
	})
}

func printRestaurant(cmd *cobra.Command, svc *restaurantuc.Service, id string) error {
	rec, ok := svc.Get(cmd.Context(), id)
	if !ok {
		return fmt.Errorf("restaurant %q not found", id)
	}
	return writeIndented(cmd.OutOrStdout(), rec)
}

func writeIndented(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
