package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ytget/ytx/internal/mimeext"
	"github.com/ytget/ytx/youtube/formats"
)

var videoCmd = &cobra.Command{
	Use:   "video <url_or_id>",
	Short: "Resolve metadata and formats for one video",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		info, err := newEngine().GetVideo(cmd.Context(), args[0], callOptions())
		if err != nil {
			return err
		}
		if flagJSON {
			return printJSON(info)
		}

		fmt.Printf("%s\n", info.Title)
		fmt.Printf("  id=%s uploader=%s duration=%ds views=%d live=%s\n",
			info.ID, info.Uploader, info.Duration, info.ViewCount, info.LiveStatus)
		for _, f := range info.Formats {
			kind := "audio"
			if formats.HasVideo(f) {
				kind = "video"
				if formats.HasAudio(f) {
					kind = "video+audio"
				}
			}
			ext := mimeext.Container(f.MimeType)
			ciphered := ""
			if formats.IsCiphered(f) {
				ciphered = " (ciphered)"
			}
			fmt.Printf("  itag=%-4d %-12s %-5s %s%s\n", f.Itag, kind, ext, f.Quality, ciphered)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(videoCmd)
}
