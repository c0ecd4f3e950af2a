package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ytget/ytx"
	"github.com/ytget/ytx/types"
	"github.com/ytget/ytx/youtube/extract"
)

var (
	flagSearchMax  int
	flagSearchType string
	flagSearchSort string
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search for videos, playlists or channels",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		results, err := newEngine().Search(cmd.Context(), args[0], &ytx.SearchOptions{
			Type:       types.SearchResultType(flagSearchType),
			SortBy:     extract.SortOrder(flagSearchSort),
			MaxResults: flagSearchMax,
			Language:   flagLang,
			Region:     flagRegion,
		})
		if err != nil {
			return err
		}
		if flagJSON {
			return printJSON(results)
		}

		for _, r := range results {
			switch r.Type {
			case types.SearchResultVideo:
				fmt.Printf("video     %s  %-8s %s (%s)\n", r.ID, r.Duration, r.Title, r.Uploader)
			case types.SearchResultPlaylist:
				fmt.Printf("playlist  %s  %s (%d videos)\n", r.ID, r.Title, r.VideoCount)
			case types.SearchResultChannel:
				fmt.Printf("channel   %s  %s %s\n", r.ID, r.Title, r.SubscriberText)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().IntVarP(&flagSearchMax, "max", "m", extract.DefaultMaxResults, "Maximum number of results")
	searchCmd.Flags().StringVarP(&flagSearchType, "type", "t", "video", "Result type (video, playlist, channel)")
	searchCmd.Flags().StringVarP(&flagSearchSort, "sort", "s", "relevance", "Sort order (relevance, date, rating, viewCount)")
}
