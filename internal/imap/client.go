// Package imap fetches raw messages matching a sender/date filter from a
// remote mailbox. It is the only component that talks to the mail
// transport; retry policy belongs to the caller.
package imap

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"time"

	imapv2 "github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"

	"github.com/rupeeflow/rupeeflow/internal/model"
)

// ErrConnection marks authentication or transport failures. Terminal for
// the current fetch; the background monitor retries on its next interval.
var ErrConnection = errors.New("mailbox connection failed")

// Options configures the mailbox connection.
type Options struct {
	Host               string
	Port               int
	Username           string
	Password           string
	InsecureSkipVerify bool
}

// FetchQuery selects which messages to fetch. Sender, if set, must
// exact-match the declared From address at the protocol level. Since is
// inclusive, Before exclusive, per IMAP date-search semantics.
type FetchQuery struct {
	Since  time.Time
	Before time.Time
	Sender string
	Folder string
}

// Client fetches messages over IMAP using TLS.
type Client struct {
	opts   Options
	logger *slog.Logger
}

// NewClient validates the connection options and returns a Client.
func NewClient(opts Options, logger *slog.Logger) (*Client, error) {
	if opts.Host == "" {
		return nil, fmt.Errorf("imap host is empty")
	}
	if opts.Port <= 0 {
		return nil, fmt.Errorf("imap port must be positive")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{opts: opts, logger: logger}, nil
}

// CheckLogin dials and authenticates, then logs out. Used to distinguish
// "no orders this period" from "could not reach the mailbox".
func (c *Client) CheckLogin(ctx context.Context) error {
	client, cleanup, err := c.dial(ctx)
	if err != nil {
		return err
	}
	defer cleanup()
	_ = client
	return nil
}

// Fetch opens a session, searches the folder, downloads every matching
// message, and closes the session exactly once on every exit path.
func (c *Client) Fetch(ctx context.Context, query FetchQuery) ([]model.RawMessage, error) {
	client, cleanup, err := c.dial(ctx)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	folder := query.Folder
	if folder == "" {
		folder = "INBOX"
	}

	if _, err := client.Select(folder, nil).Wait(); err != nil {
		return nil, fmt.Errorf("select %s: %w: %w", folder, ErrConnection, err)
	}

	criteria := buildCriteria(query)
	searchData, err := client.UIDSearch(criteria, nil).Wait()
	if err != nil {
		return nil, fmt.Errorf("search: %w: %w", ErrConnection, err)
	}

	uids := searchData.AllUIDs()
	if len(uids) == 0 {
		return nil, nil
	}

	fetchOptions := &imapv2.FetchOptions{
		Envelope:    true,
		BodySection: []*imapv2.FetchItemBodySection{{}},
	}

	uidSet := imapv2.UIDSetNum(uids...)
	buffers, err := client.Fetch(uidSet, fetchOptions).Collect()
	if err != nil {
		return nil, fmt.Errorf("fetch: %w: %w", ErrConnection, err)
	}

	messages := make([]model.RawMessage, 0, len(buffers))
	for _, buf := range buffers {
		msg := model.RawMessage{
			UID: uint32(buf.UID),
			Raw: buf.FindBodySection(&imapv2.FetchItemBodySection{}),
		}
		if env := buf.Envelope; env != nil {
			msg.Subject = env.Subject
			msg.Date = env.Date
			msg.RawDate = env.Date.Format(time.RFC1123Z)
			if len(env.From) > 0 {
				msg.Sender = env.From[0].Addr()
			}
		}
		messages = append(messages, msg)
	}

	c.logger.Debug("fetched messages",
		"folder", folder,
		"sender", query.Sender,
		"count", len(messages))

	return messages, nil
}

func buildCriteria(query FetchQuery) *imapv2.SearchCriteria {
	criteria := &imapv2.SearchCriteria{}
	if query.Sender != "" {
		criteria.Header = append(criteria.Header, imapv2.SearchCriteriaHeaderField{
			Key:   "From",
			Value: query.Sender,
		})
	}
	if !query.Since.IsZero() {
		criteria.Since = query.Since
	}
	if !query.Before.IsZero() {
		criteria.Before = query.Before
	}
	return criteria
}

func (c *Client) dial(ctx context.Context) (*imapclient.Client, func(), error) {
	address := net.JoinHostPort(c.opts.Host, strconv.Itoa(c.opts.Port))
	options := &imapclient.Options{
		TLSConfig: &tls.Config{
			ServerName:         c.opts.Host,
			InsecureSkipVerify: c.opts.InsecureSkipVerify,
		},
	}

	client, err := imapclient.DialTLS(address, options)
	if err != nil {
		return nil, nil, fmt.Errorf("dial imap %s: %w: %w", address, ErrConnection, err)
	}

	if err := client.Login(c.opts.Username, c.opts.Password).Wait(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("imap login failed: %w: %w", ErrConnection, err)
	}

	stopClose := context.AfterFunc(ctx, func() {
		_ = client.Close()
	})

	cleanup := func() {
		stopClose()
		if ctx.Err() == nil {
			if err := client.Logout().Wait(); err != nil {
				c.logger.Warn("imap logout failed", "err", err)
			}
		}
		if err := client.Close(); err != nil {
			c.logger.Debug("imap connection closed", "err", err)
		}
	}

	return client, cleanup, nil
}
