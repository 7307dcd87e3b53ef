package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/assessment-reports/internal/schemas"
)

var validateInputCmd = &cobra.Command{
	Use:   "validate-input",
	Short: "Validate a record file against the input schema",
	Long:  "Checks a record or couple JSON file against the embedded JSON Schema. Rendering accepts invalid input; this command reports what would be defaulted.",
	RunE:  runValidateInput,
}

var (
	validateInputFile   string
	validateInputKind   string
	validateInputSchema string
)

func init() {
	validateInputCmd.Flags().StringVarP(&validateInputFile, "in", "i", "", "Path to JSON file (required)")
	validateInputCmd.Flags().StringVarP(&validateInputKind, "kind", "k", "auto", "Schema to apply: record, couple or auto")
	validateInputCmd.Flags().StringVar(&validateInputSchema, "schema", "", "Path to a custom JSON Schema file (overrides --kind)")

	if err := validateInputCmd.MarkFlagRequired("in"); err != nil {
		panic(fmt.Sprintf("failed to mark in flag as required: %v", err))
	}

	rootCmd.AddCommand(validateInputCmd)
}

func runValidateInput(_ *cobra.Command, _ []string) error {
	if validateInputSchema != "" {
		return reportValidation(validateInputFile, schemas.ValidateJSON(validateInputSchema, validateInputFile))
	}

	data, err := os.ReadFile(validateInputFile)
	if err != nil {
		return fmt.Errorf("failed to read input file: %w", err)
	}

	kind, err := resolveKind(validateInputKind, data)
	if err != nil {
		return err
	}
	return reportValidation(validateInputFile, schemas.Validate(kind, data))
}

func resolveKind(flag string, data []byte) (schemas.Kind, error) {
	switch flag {
	case "", "auto":
		return detectKind(data), nil
	case string(schemas.KindRecord):
		return schemas.KindRecord, nil
	case string(schemas.KindCouple):
		return schemas.KindCouple, nil
	default:
		return "", fmt.Errorf("invalid --kind %q: must be record, couple or auto", flag)
	}
}

func reportValidation(path string, err error) error {
	if err == nil {
		_, _ = fmt.Fprintf(os.Stdout, "✓ %s is valid\n", path)
		return nil
	}
	var ve *schemas.ValidationError
	if errors.As(err, &ve) {
		_, _ = fmt.Fprintf(os.Stdout, "✗ %s has %d schema problems\n", path, len(ve.Errors))
		for _, fe := range ve.Errors {
			_, _ = fmt.Fprintf(os.Stdout, "  %s: %s\n", fe.Field, fe.Message)
		}
		return fmt.Errorf("input does not match schema")
	}
	return err
}
