package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/samvad-hq/sdi-client/pkg/sdi"
)

var fileFlags struct {
	out string
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id < 0 {
		return 0, fmt.Errorf("invalid id %q: must be a non-negative integer", arg)
	}
	return id, nil
}

// printJSON writes v indented, followed by a newline.
func printJSON(w io.Writer, v json.Marshaler) error {
	raw, err := v.MarshalJSON()
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return fmt.Errorf("format output: %w", err)
	}
	buf.WriteByte('\n')
	_, err = buf.WriteTo(w)
	return err
}

// writeFile saves f to --out when given, else streams it to stdout.
func writeFile(cmd *cobra.Command, f sdi.File) error {
	if fileFlags.out != "" {
		if err := f.Save(fileFlags.out); err != nil {
			return fmt.Errorf("save file: %w", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d bytes to %s\n", f.Len(), fileFlags.out)
		return nil
	}
	_, err := f.WriteTo(cmd.OutOrStdout())
	return err
}

// recordCommand builds a subcommand that fetches one value by numeric id
// and prints it as JSON.
func recordCommand[T json.Marshaler](use, short string, fetch func(*sdi.Client, context.Context, int64) (T, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use + " ID",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			client, err := newClient(cmd)
			if err != nil {
				return err
			}
			v, err := fetch(client, cmd.Context(), id)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), v)
		},
	}
}

// fileCommand builds a subcommand that downloads a raw file by numeric id.
func fileCommand(use, short string, fetch func(*sdi.Client, context.Context, int64) (sdi.File, error)) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use + " ID",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			client, err := newClient(cmd)
			if err != nil {
				return err
			}
			f, err := fetch(client, cmd.Context(), id)
			if err != nil {
				return err
			}
			return writeFile(cmd, f)
		},
	}
	cmd.Flags().StringVarP(&fileFlags.out, "out", "o", "", "write the file to this path instead of stdout")
	return cmd
}

// listCommand builds a subcommand printing a whole-collection listing.
func listCommand(short string, fetch func(*sdi.Client, context.Context) (sdi.List, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}
			list, err := fetch(client, cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), list)
		},
	}
}
