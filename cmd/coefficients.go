// =============================================================================
// Eco-Consumption Analyzer - Coefficients Command
// =============================================================================
//
// This file defines the 'coefficients' command, which prints the effective
// coefficient tables as YAML. The output is a valid coefficients file and a
// starting point for a custom one.
//
// COMMAND USAGE:
//   ecoreport coefficients [--coefficients FILE] > coefficients.yaml
//
// =============================================================================

package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var coefficientsCmd = &cobra.Command{
	Use:   "coefficients",
	Short: "Print the effective coefficient tables as YAML",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := mainConfig.CoefficientsFile
		if coefficientsFile != "" {
			path = coefficientsFile
		}

		coef, err := loadCoefficients(path)
		if err != nil {
			return err
		}

		data, err := coef.Marshal()
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(data)
		return err
	},
}

func init() {
	rootCmd.AddCommand(coefficientsCmd)

	coefficientsCmd.Flags().StringVar(&coefficientsFile, "coefficients", "", "Coefficient tables YAML (default: coefficients_file or built-in)")
}
