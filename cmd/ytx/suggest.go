package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var flagRelated bool

var suggestCmd = &cobra.Command{
	Use:   "suggest <query>",
	Short: "Fetch search suggestions for a query",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		engine := newEngine()
		var (
			suggestions []string
			err         error
		)
		if flagRelated {
			suggestions, err = engine.GetRelatedSuggestions(cmd.Context(), args[0], callOptions())
		} else {
			suggestions, err = engine.GetSuggestions(cmd.Context(), args[0], callOptions())
		}
		if err != nil {
			return err
		}
		if flagJSON {
			return printJSON(suggestions)
		}
		for _, s := range suggestions {
			fmt.Println(s)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(suggestCmd)

	suggestCmd.Flags().BoolVar(&flagRelated, "related", false, "Fetch refinements for a full query instead of completions")
}
