// Package main implements the peoplepicker CLI: offline search, transliteration helpers
// and the terminal picker.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:           "peoplepicker",
		Short:         "People picker CLI",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newSearchCmd(), newTranslitCmd(), newTUICmd(), newInitConfigCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
