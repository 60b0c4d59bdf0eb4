package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dumblesdoor/socialkit/internal/controller"
)

func newPromptCmd(ask askFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "prompt [description]",
		Short: "Print the prompt that would be sent for a business description",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := getApp(cmd)
			if err != nil {
				return err
			}

			desc, err := descriptionFrom(args, ask, cmd.InOrStdin(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if strings.TrimSpace(desc) == "" {
				return errors.New(controller.MessageValidation)
			}

			p, err := a.prompt.Build(desc)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), p)
			return nil
		},
	}
}
