package cli

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/udb/authordirectory/internal/auth"
	"github.com/udb/authordirectory/internal/config"
)

// HashPasswordCommand reads the editor password from stdin and prints the
// bcrypt hash to put in AUTH_EDITOR_PASSWORD_HASH.
type HashPasswordCommand struct {
	Cost int

	In  io.Reader
	Out io.Writer
}

func NewHashPasswordCommand(cfg *config.Config) *HashPasswordCommand {
	return &HashPasswordCommand{
		Cost: cfg.Auth.BcryptCost,
		In:   os.Stdin,
		Out:  os.Stdout,
	}
}

func (cmd *HashPasswordCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("hash-password", flag.ContinueOnError)

	fs.IntVar(&cmd.Cost, "cost", cmd.Cost, "bcrypt cost")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s hash-password [options] < password.txt\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Print a bcrypt hash of the first line read from stdin.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	return fs.Parse(args)
}

func (cmd *HashPasswordCommand) Run() error {
	line, err := bufio.NewReader(cmd.In).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to read password: %w", err)
	}
	password := strings.TrimRight(line, "\r\n")

	hash, err := auth.HashPassword(password, cmd.Cost)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.Out, hash)
	return nil
}
