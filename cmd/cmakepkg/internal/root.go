package internal

import (
	"log"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "cmakepkg",
	Short: "cmakepkg queries CMake packages installed on the host",
	Long: `cmakepkg discovers CMake packages installed on the host and prints, per
imported target, the compiler and linker flags needed to consume them.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		log.Fatal(err)
	}
}
