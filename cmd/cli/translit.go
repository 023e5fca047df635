package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dsjohal14/peoplepicker/internal/scope/keymap"
	"github.com/dsjohal14/peoplepicker/internal/scope/search"
	"github.com/dsjohal14/peoplepicker/internal/scope/translit"
)

func newTranslitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "translit",
		Short: "Convert text between scripts and keyboard layouts",
	}

	convert := func(use, short string, fn func(string) string) *cobra.Command {
		return &cobra.Command{
			Use:   use + " <text...>",
			Short: short,
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), fn(strings.Join(args, " ")))
				return err
			},
		}
	}

	cmd.AddCommand(
		convert("to-latin", "Transliterate Cyrillic to Latin", translit.ToLatin),
		convert("to-cyrillic", "Transliterate Latin to Cyrillic", translit.ToCyrillic),
		convert("swap", "Retype text as if the other keyboard layout was active", keymap.Swap),
		convert("to-jcuken", "Retype QWERTY text as if the Russian layout was active", keymap.ToCyrillic),
		convert("to-qwerty", "Retype Russian layout text as if QWERTY was active", keymap.ToLatin),
		&cobra.Command{
			Use:   "variants <text...>",
			Short: "Print every form a query is compared in",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				q := search.ParseQuery(strings.Join(args, " "))
				out := cmd.OutOrStdout()
				for _, v := range []struct{ name, value string }{
					{"direct", q.Direct},
					{"swapped", q.Swapped},
					{"latin", q.Latin},
					{"cyrillic", q.Cyrillic},
					{"swapped-latin", q.SwappedLatin},
					{"swapped-cyrillic", q.SwappedCyrillic},
				} {
					if _, err := fmt.Fprintf(out, "%-16s %s\n", v.name, v.value); err != nil {
						return err
					}
				}
				return nil
			},
		},
	)
	return cmd
}
