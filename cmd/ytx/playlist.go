package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var playlistCmd = &cobra.Command{
	Use:   "playlist <url_or_id>",
	Short: "Resolve playlist metadata and member video ids",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		info, err := newEngine().GetPlaylist(cmd.Context(), args[0], callOptions())
		if err != nil {
			return err
		}
		if flagJSON {
			return printJSON(info)
		}

		fmt.Printf("%s (%d videos) by %s\n", info.Title, info.VideoCount, info.Author)
		for _, item := range info.Items {
			fmt.Printf("  %4d  %s  %s\n", item.Index, item.VideoID, item.Title)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(playlistCmd)
}
