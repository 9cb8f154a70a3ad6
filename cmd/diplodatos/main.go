// Command diplodatos trains and evaluates the image and text
// classifiers from CSV datasets.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "diplodatos",
		Short: "CNN classifiers for images and review texts",
		Long: `diplodatos trains convolutional classifiers on CSV datasets:
a LeNet-style CNN for MNIST-format images and a convolutional
text classifier for labeled reviews.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newTrainImageCmd())
	rootCmd.AddCommand(newTrainTextCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("diplodatos %s\n", Version)
		},
	}
}
