package main

import (
	"fmt"
	"strings"

	"DF-CONTRATOS/internal/fiscal"
	"DF-CONTRATOS/internal/mask"

	"github.com/spf13/cobra"
)

func kindNames() string {
	names := make([]string, len(mask.Kinds))
	for i, k := range mask.Kinds {
		names[i] = string(k)
	}
	return strings.Join(names, "|")
}

func newMaskCmd() *cobra.Command {
	var digitsOnly bool
	cmd := &cobra.Command{
		Use:   fmt.Sprintf("mask <%s> <value>", kindNames()),
		Short: "Format a value the way the contract form displays it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := mask.ParseKind(args[0])
			if kind == mask.KindNone {
				return fmt.Errorf("unknown mask kind %q (want %s)", args[0], kindNames())
			}
			out := mask.Apply(args[1], kind)
			if digitsOnly {
				out = mask.Remove(out)
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().BoolVar(&digitsOnly, "digits", false, "print the digits kept by the mask instead")
	return cmd
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <cpf|cnpj> <value>",
		Short: "Check the check digits of a CPF or CNPJ",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			digits := mask.Remove(args[1])

			var valid bool
			switch kind := mask.ParseKind(args[0]); kind {
			case mask.KindCPF:
				valid = fiscal.ValidCPF(digits)
			case mask.KindCNPJ:
				valid = fiscal.ValidCNPJ(digits)
			default:
				return fmt.Errorf("only cpf and cnpj can be validated, got %q", args[0])
			}

			if !valid {
				fmt.Fprintf(cmd.OutOrStdout(), "%s inválido\n", strings.ToUpper(args[0]))
				return fmt.Errorf("%s failed check digit validation", digits)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s válido\n", strings.ToUpper(args[0]))
			return nil
		},
	}
}
