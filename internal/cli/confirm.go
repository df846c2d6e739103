package cli

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/term"
)

// ErrInterrupted is returned when the user presses Ctrl+C at a prompt
var ErrInterrupted = errors.New("interrupted")

// ConfirmSingleKey displays a yes/no prompt and waits for a single keypress.
// Returns true for 'y'/'Y', false for 'n'/'N', or an error on Ctrl+C.
// When stdin is not a terminal the answer is read as a line instead.
func ConfirmSingleKey(prompt string) (bool, error) {
	fmt.Printf("%s (y/n): ", prompt)

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return confirmLine()
	}

	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return false, fmt.Errorf("failed to set raw mode: %w", err)
	}

	for {
		b := make([]byte, 1)
		if _, err := os.Stdin.Read(b); err != nil {
			_ = term.Restore(fd, oldState)
			return false, fmt.Errorf("failed to read input: %w", err)
		}

		switch b[0] {
		case 3: // Ctrl+C
			_ = term.Restore(fd, oldState)
			fmt.Println("\n^C")
			return false, ErrInterrupted
		case 'y', 'Y':
			_ = term.Restore(fd, oldState)
			fmt.Println("y")
			return true, nil
		case 'n', 'N':
			_ = term.Restore(fd, oldState)
			fmt.Println("n")
			return false, nil
		}
	}
}

func confirmLine() (bool, error) {
	var answer string
	if _, err := fmt.Fscanln(os.Stdin, &answer); err != nil {
		// EOF or an empty line is a no
		return false, nil
	}
	return answer == "y" || answer == "Y" || answer == "yes", nil
}
