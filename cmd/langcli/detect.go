package main

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

func newDetectCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "detect [text...]",
		Short: "Print the detected languages, best first",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := inputText(cmd, args)
			if err != nil {
				return err
			}
			if opts.ratio < 0 || opts.ratio > 1 {
				return fmt.Errorf("--ratio must be within [0, 1], got %v", opts.ratio)
			}
			det, cleanup, err := opts.detector(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer cleanup()

			res := det.Detect(text, opts.ratio)
			out := cmd.OutOrStdout()
			if opts.jsonOutput {
				langs := res.Languages
				if langs == nil {
					langs = []string{}
				}
				return json.NewEncoder(out).Encode(map[string][]string{"languages": langs})
			}
			if len(res.Languages) == 0 {
				_, err = fmt.Fprintln(out, "undetermined")
				return err
			}
			_, err = fmt.Fprintln(out, strings.Join(res.Languages, " "))
			return err
		},
	}
}

func newScoresCmd(opts *rootOptions) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "scores [text...]",
		Short: "Print the score of every active language, highest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := inputText(cmd, args)
			if err != nil {
				return err
			}
			det, cleanup, err := opts.detector(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer cleanup()

			scores := det.Scores(text)
			out := cmd.OutOrStdout()
			if opts.jsonOutput {
				return json.NewEncoder(out).Encode(scores)
			}

			codes := make([]string, 0, len(scores))
			for code := range scores {
				codes = append(codes, code)
			}
			sort.Slice(codes, func(i, j int) bool {
				if scores[codes[i]] != scores[codes[j]] {
					return scores[codes[i]] > scores[codes[j]]
				}
				return codes[i] < codes[j]
			})
			if limit > 0 && len(codes) > limit {
				codes = codes[:limit]
			}
			for _, code := range codes {
				if _, err := fmt.Fprintf(out, "%-6s %.3f\n", code, scores[code]); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "top", 10, "show at most this many languages (0 for all)")
	return cmd
}

func newLanguagesCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List the languages the detector can return",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			det, cleanup, err := opts.detector(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer cleanup()

			langs := det.SupportedLanguages()
			out := cmd.OutOrStdout()
			if opts.jsonOutput {
				return json.NewEncoder(out).Encode(langs)
			}
			_, err = fmt.Fprintln(out, strings.Join(langs, "\n"))
			return err
		},
	}
}
