package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/samvad-hq/sdi-client/pkg/sdi"
)

var sentCmd = &cobra.Command{
	Use:   "sent",
	Short: "Documents submitted by this account",
}

var createFlags struct {
	file string
}

var sentCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Submit a document described by a JSON file (or stdin)",
	Args:  cobra.NoArgs,
	RunE:  runSentCreate,
}

func init() {
	sentCreateCmd.Flags().StringVarP(&createFlags.file, "file", "f", "", "JSON document description; reads stdin when empty or -")

	sentCmd.AddCommand(
		listCommand("List sent documents", (*sdi.Client).DocumentSentList),
		recordCommand("get", "Show a sent document", (*sdi.Client).DocumentSent),
		sentCreateCmd,
		recordCommand("notifications", "List notifications of a sent document", (*sdi.Client).DocumentSentNotificationList),
		recordCommand("notification", "Show a sent-document notification", (*sdi.Client).DocumentSentNotification),
		fileCommand("notification-file", "Download a sent-document notification file", (*sdi.Client).DocumentSentNotificationFile),
	)
}

func runSentCreate(cmd *cobra.Command, _ []string) error {
	raw, err := readInput(cmd, createFlags.file)
	if err != nil {
		return err
	}
	doc, err := sdi.DocumentInfoFromJSON(raw)
	if err != nil {
		return fmt.Errorf("document description: %w", err)
	}

	client, err := newClient(cmd)
	if err != nil {
		return err
	}
	sent, err := client.SendDocument(cmd.Context(), doc)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), sent)
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "" || path == "-" {
		raw, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return raw, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return raw, nil
}
