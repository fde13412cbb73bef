package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/rupeeflow/rupeeflow/internal/alert"
	"github.com/rupeeflow/rupeeflow/internal/config"
	"github.com/rupeeflow/rupeeflow/internal/extract"
	"github.com/rupeeflow/rupeeflow/internal/filter"
	"github.com/rupeeflow/rupeeflow/internal/imap"
	"github.com/rupeeflow/rupeeflow/internal/scan"
	"github.com/rupeeflow/rupeeflow/internal/service"
	"github.com/rupeeflow/rupeeflow/internal/storage"
	"github.com/rupeeflow/rupeeflow/internal/vendor"
)

// initStorage initializes the storage service with proper path expansion.
func initStorage(ctx context.Context) (service.Storage, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = config.DefaultDBPath
	}
	dbPath = config.ExpandPath(dbPath)

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// newMailSource builds the IMAP client from config.
func newMailSource() (*imap.Client, error) {
	viper.SetDefault("imap.host", "imap.gmail.com")
	viper.SetDefault("imap.port", 993)

	opts := imap.Options{
		Host:               viper.GetString("imap.host"),
		Port:               viper.GetInt("imap.port"),
		Username:           viper.GetString("imap.username"),
		Password:           viper.GetString("imap.password"),
		InsecureSkipVerify: viper.GetBool("imap.insecure_skip_verify"),
	}
	if opts.Username == "" {
		return nil, fmt.Errorf("imap.username is required (set RUPEEFLOW_IMAP_USERNAME or config)")
	}
	if opts.Password == "" {
		return nil, fmt.Errorf("imap.password is required (use an app password)")
	}

	return imap.NewClient(opts, slog.Default())
}

// newExtractor builds the extraction engine, applying per-vendor
// selection-rule overrides from config. The cascade itself is product
// configuration.
func newExtractor() (*extract.Engine, error) {
	ruleSets := extract.DefaultRuleSets()

	overrides := viper.GetStringMapString("extract.selection")
	for i := range ruleSets {
		if rule, ok := overrides[strings.ToLower(ruleSets[i].Vendor)]; ok {
			ruleSets[i].Selection = extract.SelectionRule(rule)
		}
	}

	return extract.NewEngine(ruleSets)
}

// newScanner wires the full fetch→extract pipeline from config.
func newScanner() (*scan.Scanner, error) {
	source, err := newMailSource()
	if err != nil {
		return nil, err
	}
	extractor, err := newExtractor()
	if err != nil {
		return nil, err
	}
	return scan.NewScanner(source, extractor, filter.New(viper.GetStringSlice("filter.exclusions")), vendorMap(), slog.Default()), nil
}

// vendorMap returns the configured vendor-to-address map, falling back to
// the built-in one.
func vendorMap() vendor.Map {
	configured := viper.GetStringMapStringSlice("vendors")
	if len(configured) == 0 {
		return vendor.DefaultMap()
	}

	m := vendor.Map{}
	for label, addresses := range configured {
		m[vendor.Normalize(label)] = addresses
	}
	return m
}

// newAlertSender picks the alert delivery backend from config.
func newAlertSender(ctx context.Context) (alert.Sender, error) {
	provider := viper.GetString("alert.provider")
	switch provider {
	case "", "stdout":
		return alert.NewStdoutSender(nil), nil
	case "smtp":
		viper.SetDefault("smtp.host", "smtp.gmail.com")
		viper.SetDefault("smtp.port", 587)
		return alert.NewSMTPSender(alert.SMTPConfig{
			Host:     viper.GetString("smtp.host"),
			Port:     viper.GetInt("smtp.port"),
			Username: viper.GetString("imap.username"),
			Password: viper.GetString("imap.password"),
		})
	case "ses":
		return alert.NewSESSender(ctx, alert.SESConfig{
			Region:          viper.GetString("ses.region"),
			AccessKeyID:     viper.GetString("ses.access_key_id"),
			SecretAccessKey: viper.GetString("ses.secret_access_key"),
			Sender:          viper.GetString("ses.sender"),
		})
	default:
		return nil, fmt.Errorf("unknown alert provider: %s", provider)
	}
}

// monthQuery scopes a scan to the current calendar month.
func monthQuery(vendors []string, now time.Time) scan.Query {
	return scan.Query{
		Since:   time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()),
		Folder:  "INBOX",
		Vendors: vendors,
	}
}

// periodSince translates a named period into an inclusive since date.
func periodSince(period string, now time.Time) (time.Time, error) {
	switch period {
	case "this-month":
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()), nil
	case "last-30-days":
		return now.AddDate(0, 0, -30), nil
	case "this-year":
		return time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location()), nil
	case "all":
		return time.Time{}, nil
	default:
		return time.Time{}, fmt.Errorf("unknown period %q (want this-month, last-30-days, this-year, or all)", period)
	}
}
