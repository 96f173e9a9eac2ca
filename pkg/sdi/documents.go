package sdi

import (
	"context"
	"net/http"
	"strconv"
)

// Resource paths, relative to the endpoint. Prefixes ending in "/" take a
// decimal identifier.
const (
	PathDocumentSent                           = "/document_sent"
	PathDocumentSentDetails                    = "/document_sent/details/"
	PathDocumentSentCreate                     = "/document_sent/create"
	PathDocumentSentNotifications              = "/document_sent_notification/"
	PathDocumentSentNotificationDetails        = "/document_sent_notification/details/"
	PathDocumentSentNotificationAttachment     = "/document_sent_notification/attachment/"
	PathDocumentReceived                       = "/document_received"
	PathDocumentReceivedDetails                = "/document_received/details/"
	PathDocumentReceivedAttachment             = "/document_received/attachment/"
	PathDocumentReceivedMetafile               = "/document_received/metafile/"
	PathDocumentReceivedNotifications          = "/document_received_notification/"
	PathDocumentReceivedNotificationDetails    = "/document_received_notification/details/"
	PathDocumentReceivedNotificationAttachment = "/document_received_notification/attachment/"
)

// withID appends a numeric identifier. Only integers are interpolated, so
// no escaping is needed; string identifiers would have to be path-escaped.
func withID(prefix string, id int64) string {
	return prefix + strconv.FormatInt(id, 10)
}

func (c *Client) list(ctx context.Context, path string) (List, error) {
	body, err := c.Execute(ctx, http.MethodGet, path, nil)
	if err != nil {
		return List{}, err
	}
	return NewList(body)
}

func (c *Client) file(ctx context.Context, path string) (File, error) {
	body, err := c.Execute(ctx, http.MethodGet, path, nil)
	if err != nil {
		return File{}, err
	}
	return NewFile(body), nil
}

// DocumentSentList returns the identifiers of submitted documents.
func (c *Client) DocumentSentList(ctx context.Context) (List, error) {
	return c.list(ctx, PathDocumentSent)
}

// DocumentSent returns the details of a submitted document.
func (c *Client) DocumentSent(ctx context.Context, id int64) (DocumentSent, error) {
	body, err := c.Execute(ctx, http.MethodGet, withID(PathDocumentSentDetails, id), nil)
	if err != nil {
		return DocumentSent{}, err
	}
	return NewDocumentSent(body)
}

// SendDocument submits a new document to the interchange.
func (c *Client) SendDocument(ctx context.Context, doc Payload) (DocumentSent, error) {
	if doc == nil {
		doc = DocumentInfo{}
	}
	body, err := c.Execute(ctx, http.MethodPost, PathDocumentSentCreate, doc)
	if err != nil {
		return DocumentSent{}, err
	}
	return NewDocumentSent(body)
}

// DocumentSentNotificationList returns the notifications of a submitted document.
func (c *Client) DocumentSentNotificationList(ctx context.Context, documentID int64) (List, error) {
	return c.list(ctx, withID(PathDocumentSentNotifications, documentID))
}

// DocumentSentNotification returns one notification of a submitted document.
func (c *Client) DocumentSentNotification(ctx context.Context, id int64) (DocumentSentNotification, error) {
	body, err := c.Execute(ctx, http.MethodGet, withID(PathDocumentSentNotificationDetails, id), nil)
	if err != nil {
		return DocumentSentNotification{}, err
	}
	return NewDocumentSentNotification(body)
}

// DocumentSentNotificationFile returns the attachment of a notification.
func (c *Client) DocumentSentNotificationFile(ctx context.Context, id int64) (File, error) {
	return c.file(ctx, withID(PathDocumentSentNotificationAttachment, id))
}

// DocumentReceivedList returns the received documents.
func (c *Client) DocumentReceivedList(ctx context.Context) (List, error) {
	return c.list(ctx, PathDocumentReceived)
}

// DocumentReceived returns the details of a received document.
func (c *Client) DocumentReceived(ctx context.Context, id int64) (DocumentReceived, error) {
	body, err := c.Execute(ctx, http.MethodGet, withID(PathDocumentReceivedDetails, id), nil)
	if err != nil {
		return DocumentReceived{}, err
	}
	return NewDocumentReceived(body)
}

// DocumentReceivedFile returns the file of a received document.
func (c *Client) DocumentReceivedFile(ctx context.Context, id int64) (File, error) {
	return c.file(ctx, withID(PathDocumentReceivedAttachment, id))
}

// DocumentReceivedMetafile returns the metafile of a received document.
func (c *Client) DocumentReceivedMetafile(ctx context.Context, id int64) (File, error) {
	return c.file(ctx, withID(PathDocumentReceivedMetafile, id))
}

// DocumentReceivedNotificationList returns the notifications of a received document.
func (c *Client) DocumentReceivedNotificationList(ctx context.Context, documentID int64) (List, error) {
	return c.list(ctx, withID(PathDocumentReceivedNotifications, documentID))
}

// DocumentReceivedNotification returns one notification of a received document.
func (c *Client) DocumentReceivedNotification(ctx context.Context, id int64) (DocumentReceivedNotification, error) {
	body, err := c.Execute(ctx, http.MethodGet, withID(PathDocumentReceivedNotificationDetails, id), nil)
	if err != nil {
		return DocumentReceivedNotification{}, err
	}
	return NewDocumentReceivedNotification(body)
}

// DocumentReceivedNotificationFile returns the attachment of a received document notification.
func (c *Client) DocumentReceivedNotificationFile(ctx context.Context, id int64) (File, error) {
	return c.file(ctx, withID(PathDocumentReceivedNotificationAttachment, id))
}
