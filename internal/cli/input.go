package cli

import (
	"errors"
	"io"
	"strings"

	"github.com/manifoldco/promptui"

	"github.com/dumblesdoor/socialkit/internal/controller"
)

// errCancelled is returned when the user interrupts the interactive prompt.
var errCancelled = errors.New("cancelled")

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

// askDescription prompts for a business description on out.
func askDescription(in io.Reader, out io.Writer) (string, error) {
	p := promptui.Prompt{
		Label: "Describe your business (type and location)",
		Validate: func(s string) error {
			if strings.TrimSpace(s) == "" {
				return errors.New(controller.MessageValidation)
			}
			return nil
		},
		Stdin:  io.NopCloser(in),
		Stdout: nopWriteCloser{out},
	}

	desc, err := p.Run()
	if err != nil {
		if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
			return "", errCancelled
		}
		return "", err
	}
	return desc, nil
}

// descriptionFrom joins args, or asks interactively when there are none.
func descriptionFrom(args []string, ask askFunc, in io.Reader, out io.Writer) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	return ask(in, out)
}
