package main

import (
	"github.com/spf13/cobra"

	"github.com/samvad-hq/sdi-client/pkg/sdi"
)

var receivedCmd = &cobra.Command{
	Use:   "received",
	Short: "Documents delivered to this account",
}

func init() {
	receivedCmd.AddCommand(
		listCommand("List received documents", (*sdi.Client).DocumentReceivedList),
		recordCommand("get", "Show a received document", (*sdi.Client).DocumentReceived),
		fileCommand("file", "Download the invoice file of a received document", (*sdi.Client).DocumentReceivedFile),
		fileCommand("metafile", "Download the metadata file of a received document", (*sdi.Client).DocumentReceivedMetafile),
		recordCommand("notifications", "List notifications of a received document", (*sdi.Client).DocumentReceivedNotificationList),
		recordCommand("notification", "Show a received-document notification", (*sdi.Client).DocumentReceivedNotification),
		fileCommand("notification-file", "Download a received-document notification file", (*sdi.Client).DocumentReceivedNotificationFile),
	)
}
